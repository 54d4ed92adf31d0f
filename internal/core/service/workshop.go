package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/ports"
)

// Workshop ties the stores to the session and the realtime feed. It is the
// only place that decides which slices a change invalidates:
//
//	order change → orders, shift totals, statistics
//	shift change → shift, orders
//
// Statistics are a manager-only slice and are skipped for workers.
type Workshop struct {
	Orders *OrderStore
	Shifts *ShiftStore
	Stats  *StatisticsStore
	Board  *Board

	channel ports.RealtimeChannel
	log     zerolog.Logger

	// base outlives individual requests; session transitions load with it.
	base context.Context

	mu    sync.Mutex
	role  string
	epoch uint64
}

// NewWorkshop builds the stores and board over api. channel may be nil when
// running without a realtime feed.
func NewWorkshop(base context.Context, api ports.WorkshopAPI, channel ports.RealtimeChannel, log zerolog.Logger) *Workshop {
	orders := NewOrderStore(api, log)
	shifts := NewShiftStore(api, log)
	stats := NewStatisticsStore(api, log)
	return &Workshop{
		Orders:  orders,
		Shifts:  shifts,
		Stats:   stats,
		Board:   NewBoard(orders, shifts, stats),
		channel: channel,
		log:     log.With().Str("component", "workshop").Logger(),
		base:    base,
	}
}

// OnSession reacts to login, restore and logout. It is meant to be passed to
// SessionService.Subscribe.
func (w *Workshop) OnSession(user *domain.User) {
	w.mu.Lock()
	w.epoch++
	epoch := w.epoch
	if user == nil {
		w.role = ""
	} else {
		w.role = user.Role
	}
	w.mu.Unlock()

	if user == nil {
		w.deactivate()
		return
	}
	go w.activate(epoch)
}

func (w *Workshop) activate(epoch uint64) {
	if err := w.Sync(w.base, domain.EventOrder, domain.EventShift); err != nil {
		w.log.Warn().Err(err).Msg("initial load incomplete")
	}

	w.mu.Lock()
	current := w.epoch == epoch
	w.mu.Unlock()
	if !current || w.channel == nil {
		return
	}
	w.channel.Connect(w.base)
}

func (w *Workshop) deactivate() {
	if w.channel != nil {
		w.channel.Disconnect()
	}
	w.Orders.Reset()
	w.Shifts.Reset()
	w.Stats.Reset()
	w.log.Info().Msg("workshop state cleared")
}

// Handle refreshes the slices a realtime event invalidates. It satisfies
// ports.EventHandler for the dispatcher.
func (w *Workshop) Handle(ctx context.Context, ev domain.RealtimeEvent) error {
	w.log.Debug().Str("type", string(ev.Kind)).Str("action", string(ev.Action)).Msg("realtime event")
	return w.Sync(ctx, ev.Kind)
}

// Sync refreshes every slice affected by the given kinds concurrently and
// returns the first failure once all of them have finished. Nothing is loaded
// while logged out.
func (w *Workshop) Sync(ctx context.Context, kinds ...domain.EventKind) error {
	w.mu.Lock()
	role := w.role
	w.mu.Unlock()
	if role == "" {
		return nil
	}

	var orders, shift, stats bool
	for _, k := range kinds {
		switch k {
		case domain.EventOrder:
			orders, shift, stats = true, true, true
		case domain.EventShift:
			orders, shift = true, true
		}
	}
	if role != domain.RoleManager {
		stats = false
	}

	// Slices refresh independently; one failing must not cancel the others.
	var g errgroup.Group
	if orders {
		g.Go(func() error { return w.Orders.Refresh(ctx) })
	}
	if shift {
		g.Go(func() error { return w.Shifts.Refresh(ctx) })
	}
	if stats {
		g.Go(func() error { return w.Stats.Refresh(ctx) })
	}
	return g.Wait()
}

// ── Commands ──────────────────────────────────────────────────────────────────
//
// Each command passes through to the backend and, on success, refreshes the
// affected slices before returning. A failed refresh is logged but does not
// fail the command; the change itself went through.

func (w *Workshop) CreateOrder(ctx context.Context, in domain.OrderInput) (*domain.Order, error) {
	o, err := w.Orders.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	w.after(ctx, domain.EventOrder)
	return o, nil
}

func (w *Workshop) UpdateOrder(ctx context.Context, id int, in domain.OrderInput) (*domain.Order, error) {
	o, err := w.Orders.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	w.after(ctx, domain.EventOrder)
	return o, nil
}

func (w *Workshop) DeleteOrder(ctx context.Context, id int) error {
	if err := w.Orders.Delete(ctx, id); err != nil {
		return err
	}
	w.after(ctx, domain.EventOrder)
	return nil
}

// AdvanceOrder moves an order one stage forward. advanced is false when the
// order was already delivered; that is not an error.
func (w *Workshop) AdvanceOrder(ctx context.Context, id int) (*domain.Order, bool, error) {
	o, advanced, err := w.Orders.Advance(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if advanced {
		w.after(ctx, domain.EventOrder)
	}
	return o, advanced, nil
}

func (w *Workshop) OpenShift(ctx context.Context) (*domain.Shift, error) {
	s, err := w.Shifts.Open(ctx)
	if err != nil {
		return nil, err
	}
	w.after(ctx, domain.EventShift)
	return s, nil
}

func (w *Workshop) CloseShift(ctx context.Context, id int) (*domain.ShiftClosure, error) {
	c, err := w.Shifts.Close(ctx, id)
	if err != nil {
		return nil, err
	}
	w.after(ctx, domain.EventShift)
	return c, nil
}

func (w *Workshop) after(ctx context.Context, kind domain.EventKind) {
	if err := w.Sync(ctx, kind); err != nil {
		w.log.Warn().Err(err).Str("kind", string(kind)).Msg("refresh after change failed")
	}
}
