package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/ports"
)

// OrderStore keeps the client-side list of orders.
type OrderStore struct {
	api  ports.OrderAPI
	log  zerolog.Logger
	snap versioned[[]domain.Order]
	listeners
}

func NewOrderStore(api ports.OrderAPI, log zerolog.Logger) *OrderStore {
	return &OrderStore{api: api, log: log.With().Str("store", "orders").Logger()}
}

// Orders returns the latest applied list. The slice must not be modified.
func (s *OrderStore) Orders() []domain.Order {
	v, _ := s.snap.get()
	return v
}

// Refresh reloads the list. A response overtaken by a later Refresh is dropped.
func (s *OrderStore) Refresh(ctx context.Context) error {
	seq := s.snap.begin()
	started := time.Now()

	orders, err := s.api.ListOrders(ctx, "")
	if err != nil {
		observeRefresh("orders", started, false, err)
		return fmt.Errorf("refresh orders: %w", err)
	}

	applied := s.snap.commit(seq, orders)
	observeRefresh("orders", started, applied, nil)
	if !applied {
		s.log.Debug().Uint64("seq", seq).Msg("discarded stale order list")
		return nil
	}
	s.notify()
	return nil
}

// Reset clears the list and discards in-flight refreshes.
func (s *OrderStore) Reset() {
	s.snap.reset()
	s.notify()
}

// Get prefers the loaded copy and falls back to the backend.
func (s *OrderStore) Get(ctx context.Context, id int) (*domain.Order, error) {
	if o, ok := s.find(id); ok {
		return &o, nil
	}
	o, err := s.api.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return o, nil
}

func (s *OrderStore) Create(ctx context.Context, in domain.OrderInput) (*domain.Order, error) {
	o, err := s.api.CreateOrder(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return o, nil
}

func (s *OrderStore) Update(ctx context.Context, id int, in domain.OrderInput) (*domain.Order, error) {
	o, err := s.api.UpdateOrder(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update order %d: %w", id, err)
	}
	return o, nil
}

func (s *OrderStore) Delete(ctx context.Context, id int) error {
	if err := s.api.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	return nil
}

// Advance moves an order to its next pipeline stage. For an order already at
// the final stage it makes no backend call and reports advanced=false.
func (s *OrderStore) Advance(ctx context.Context, id int) (order *domain.Order, advanced bool, err error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if cur.Status.IsFinal() {
		return cur, false, nil
	}
	next, err := cur.Status.Next()
	if err != nil {
		return nil, false, fmt.Errorf("advance order %d: %w", id, err)
	}

	updated, err := s.api.UpdateOrderStatus(ctx, id, next)
	if err != nil {
		return nil, false, fmt.Errorf("advance order %d to %s: %w", id, next, err)
	}
	s.log.Info().Int("order_id", id).Str("from", string(cur.Status)).Str("to", string(next)).Msg("order advanced")
	return updated, true, nil
}

// Track is the public order lookup; it never touches the loaded list.
func (s *OrderStore) Track(ctx context.Context, id int) (*domain.Order, error) {
	o, err := s.api.TrackOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("track order %d: %w", id, err)
	}
	return o, nil
}

func (s *OrderStore) find(id int) (domain.Order, bool) {
	orders := s.Orders()
	i := slices.IndexFunc(orders, func(o domain.Order) bool { return o.ID == id })
	if i < 0 {
		return domain.Order{}, false
	}
	return orders[i], true
}
