package service

import (
	"context"
	"sync"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub backend
// ---------------------------------------------------------------------------

// stubAPI implements the calls the services make. Methods without a hook
// return zero values; calls are counted by name.
type stubAPI struct {
	ports.WorkshopAPI

	login        func(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error)
	refresh      func(ctx context.Context, refreshToken string) (string, error)
	me           func(ctx context.Context) (*domain.User, error)
	listOrders   func(ctx context.Context) ([]domain.Order, error)
	getOrder     func(ctx context.Context, id int) (*domain.Order, error)
	updateStatus func(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error)
	currentShift func(ctx context.Context) (*domain.Shift, error)
	statistics   func(ctx context.Context, year, month int) (*domain.OrderStatistics, error)

	mu    sync.Mutex
	calls map[string]int
}

func (s *stubAPI) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[name]++
}

func (s *stubAPI) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubAPI) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResult, error) {
	s.record("Login")
	if s.login != nil {
		return s.login(ctx, creds)
	}
	return &domain.LoginResult{Access: "a1", Refresh: "r1", User: &domain.User{ID: 1, Username: creds.Username, Role: domain.RoleManager}}, nil
}

func (s *stubAPI) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	s.record("RefreshToken")
	if s.refresh != nil {
		return s.refresh(ctx, refreshToken)
	}
	return "a2", nil
}

func (s *stubAPI) Logout(context.Context, string) error {
	s.record("Logout")
	return nil
}

func (s *stubAPI) Me(ctx context.Context) (*domain.User, error) {
	s.record("Me")
	if s.me != nil {
		return s.me(ctx)
	}
	return nil, domain.ErrNotFound
}

func (s *stubAPI) ListOrders(ctx context.Context, _ domain.OrderStatus) ([]domain.Order, error) {
	s.record("ListOrders")
	if s.listOrders != nil {
		return s.listOrders(ctx)
	}
	return nil, nil
}

func (s *stubAPI) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	s.record("GetOrder")
	if s.getOrder != nil {
		return s.getOrder(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (s *stubAPI) UpdateOrderStatus(ctx context.Context, id int, status domain.OrderStatus) (*domain.Order, error) {
	s.record("UpdateOrderStatus")
	if s.updateStatus != nil {
		return s.updateStatus(ctx, id, status)
	}
	return &domain.Order{ID: id, Status: status}, nil
}

func (s *stubAPI) CurrentShift(ctx context.Context) (*domain.Shift, error) {
	s.record("CurrentShift")
	if s.currentShift != nil {
		return s.currentShift(ctx)
	}
	return nil, nil
}

func (s *stubAPI) OrderStatistics(ctx context.Context, year, month int) (*domain.OrderStatistics, error) {
	s.record("OrderStatistics")
	if s.statistics != nil {
		return s.statistics(ctx, year, month)
	}
	return &domain.OrderStatistics{}, nil
}

// ---------------------------------------------------------------------------
// Stub storage
// ---------------------------------------------------------------------------

type memStore struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemStore() *memStore { return &memStore{m: make(map[string]string)} }

func (s *memStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *memStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *memStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.m, k)
	}
	return nil
}

func (s *memStore) has(key string) bool {
	_, ok, _ := s.Get(context.Background(), key)
	return ok
}

// ---------------------------------------------------------------------------
// Stub realtime channel
// ---------------------------------------------------------------------------

type stubChannel struct {
	connected   chan struct{}
	mu          sync.Mutex
	disconnects int
	events      chan domain.RealtimeEvent
}

func newStubChannel() *stubChannel {
	return &stubChannel{connected: make(chan struct{}, 8), events: make(chan domain.RealtimeEvent)}
}

func (c *stubChannel) Connect(context.Context) { c.connected <- struct{}{} }

func (c *stubChannel) Disconnect() {
	c.mu.Lock()
	c.disconnects++
	c.mu.Unlock()
}

func (c *stubChannel) State() ports.ChannelState { return ports.StateDisconnected }
func (c *stubChannel) Events() <-chan domain.RealtimeEvent { return c.events }
