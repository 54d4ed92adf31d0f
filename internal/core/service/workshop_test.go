package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
)

func waitConnected(t *testing.T, ch *stubChannel) {
	t.Helper()
	select {
	case <-ch.connected:
	case <-time.After(2 * time.Second):
		t.Fatalf("realtime channel was never connected")
	}
}

func TestBoard_VersionBumpsOnStoreChange(t *testing.T) {
	api := &stubAPI{listOrders: func(context.Context) ([]domain.Order, error) {
		return []domain.Order{{ID: 1, Status: domain.StatusDesigning}}, nil
	}}
	w := NewWorkshop(context.Background(), api, nil, zerolog.Nop())

	before := w.Board.Snapshot()
	if before == nil {
		t.Fatalf("expected an initial snapshot")
	}

	var signals int
	w.Board.Subscribe(func() { signals++ })

	if err := w.Orders.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	after := w.Board.Snapshot()
	if after.Version <= before.Version {
		t.Fatalf("expected version to grow, %d -> %d", before.Version, after.Version)
	}
	if after.Counts[domain.StatusDesigning] != 1 || len(after.Orders) != 1 {
		t.Fatalf("snapshot does not reflect the new orders: %+v", after)
	}
	if before.Counts[domain.StatusDesigning] != 0 {
		t.Fatalf("published snapshots must not change")
	}
	if signals != 1 {
		t.Fatalf("expected one board signal, got %d", signals)
	}
}

func TestWorkshop_WorkerSessionSkipsStatistics(t *testing.T) {
	ch := newStubChannel()
	api := &stubAPI{}
	w := NewWorkshop(context.Background(), api, ch, zerolog.Nop())

	w.OnSession(&domain.User{ID: 2, Username: "sami", Role: domain.RoleWorker})
	waitConnected(t, ch)

	if got := api.count("OrderStatistics"); got != 0 {
		t.Fatalf("workers must not load statistics, got %d calls", got)
	}
	if api.count("ListOrders") != 1 || api.count("CurrentShift") != 1 {
		t.Fatalf("expected orders and shift loaded once, got %d/%d", api.count("ListOrders"), api.count("CurrentShift"))
	}
}

func TestWorkshop_ManagerSessionLoadsStatistics(t *testing.T) {
	ch := newStubChannel()
	api := &stubAPI{}
	w := NewWorkshop(context.Background(), api, ch, zerolog.Nop())

	w.OnSession(&domain.User{ID: 1, Username: "mona", Role: domain.RoleManager})
	waitConnected(t, ch)

	if got := api.count("OrderStatistics"); got != 1 {
		t.Fatalf("expected statistics loaded once, got %d", got)
	}
}

func TestWorkshop_LogoutDisconnectsAndResets(t *testing.T) {
	ch := newStubChannel()
	api := &stubAPI{
		listOrders: func(context.Context) ([]domain.Order, error) {
			return []domain.Order{{ID: 1, Status: domain.StatusUnderWork}}, nil
		},
		currentShift: func(context.Context) (*domain.Shift, error) {
			return &domain.Shift{ID: 5, IsActive: true}, nil
		},
	}
	w := NewWorkshop(context.Background(), api, ch, zerolog.Nop())

	w.OnSession(&domain.User{ID: 1, Username: "mona", Role: domain.RoleManager})
	waitConnected(t, ch)
	if len(w.Orders.Orders()) != 1 || w.Shifts.Current() == nil {
		t.Fatalf("expected state loaded after login")
	}

	w.OnSession(nil)

	ch.mu.Lock()
	disconnects := ch.disconnects
	ch.mu.Unlock()
	if disconnects != 1 {
		t.Fatalf("expected one disconnect, got %d", disconnects)
	}
	if len(w.Orders.Orders()) != 0 || w.Shifts.Current() != nil || w.Stats.Statistics() != nil {
		t.Fatalf("expected every store cleared on logout")
	}
	snap := w.Board.Snapshot()
	if snap.Shift != nil || len(snap.Orders) != 0 {
		t.Fatalf("expected an empty board after logout, got %+v", snap)
	}
}

func TestWorkshop_SyncWhileLoggedOutIsNoop(t *testing.T) {
	api := &stubAPI{}
	w := NewWorkshop(context.Background(), api, nil, zerolog.Nop())

	if err := w.Handle(context.Background(), domain.RealtimeEvent{Kind: domain.EventOrder, Action: domain.ActionUpdated}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if api.count("ListOrders") != 0 {
		t.Fatalf("nothing should load while logged out")
	}
}

func TestWorkshop_ShiftEventSkipsStatistics(t *testing.T) {
	ch := newStubChannel()
	api := &stubAPI{}
	w := NewWorkshop(context.Background(), api, ch, zerolog.Nop())
	w.OnSession(&domain.User{ID: 1, Role: domain.RoleManager})
	waitConnected(t, ch)

	if err := w.Handle(context.Background(), domain.RealtimeEvent{Kind: domain.EventShift, Action: domain.ActionCreated}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if api.count("ListOrders") != 2 || api.count("CurrentShift") != 2 {
		t.Fatalf("expected orders and shift reloaded, got %d/%d", api.count("ListOrders"), api.count("CurrentShift"))
	}
	if api.count("OrderStatistics") != 1 {
		t.Fatalf("a shift change must not reload statistics, got %d", api.count("OrderStatistics"))
	}
}

func TestWorkshop_AdvanceDeliveredDoesNotSync(t *testing.T) {
	ch := newStubChannel()
	api := &stubAPI{listOrders: func(context.Context) ([]domain.Order, error) {
		return []domain.Order{{ID: 4, Status: domain.StatusDelivered}}, nil
	}}
	w := NewWorkshop(context.Background(), api, ch, zerolog.Nop())
	w.OnSession(&domain.User{ID: 2, Role: domain.RoleWorker})
	waitConnected(t, ch)

	o, advanced, err := w.AdvanceOrder(context.Background(), 4)
	if err != nil {
		t.Fatalf("AdvanceOrder: %v", err)
	}
	if advanced || o.Status != domain.StatusDelivered {
		t.Fatalf("expected delivered order left alone, got advanced=%v %s", advanced, o.Status)
	}
	if api.count("ListOrders") != 1 {
		t.Fatalf("no reload expected, got %d list calls", api.count("ListOrders"))
	}
}

func TestWorkshop_SyncFailureDoesNotCancelOtherSlices(t *testing.T) {
	ch := newStubChannel()
	var failStats atomic.Bool
	api := &stubAPI{
		listOrders: func(ctx context.Context) ([]domain.Order, error) {
			select {
			case <-time.After(50 * time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return []domain.Order{{ID: 1, Status: domain.StatusUnderWork}}, nil
		},
		statistics: func(context.Context, int, int) (*domain.OrderStatistics, error) {
			if failStats.Load() {
				return nil, &domain.APIError{Status: 500}
			}
			return &domain.OrderStatistics{}, nil
		},
	}
	w := NewWorkshop(context.Background(), api, ch, zerolog.Nop())
	w.OnSession(&domain.User{ID: 1, Role: domain.RoleManager})
	waitConnected(t, ch)
	w.Orders.Reset()

	failStats.Store(true)
	err := w.Sync(context.Background(), domain.EventOrder)
	if err == nil {
		t.Fatalf("expected the statistics failure to be reported")
	}
	if got := len(w.Orders.Orders()); got != 1 {
		t.Fatalf("expected orders loaded despite the statistics failure, got %d", got)
	}
}
