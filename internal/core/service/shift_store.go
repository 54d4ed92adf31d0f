package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/ports"
)

// ShiftStore tracks the active shift. A nil current shift means none is open.
type ShiftStore struct {
	api  ports.ShiftAPI
	log  zerolog.Logger
	snap versioned[*domain.Shift]
	listeners
}

func NewShiftStore(api ports.ShiftAPI, log zerolog.Logger) *ShiftStore {
	return &ShiftStore{api: api, log: log.With().Str("store", "shift").Logger()}
}

// Current returns the active shift, or nil when none is open.
func (s *ShiftStore) Current() *domain.Shift {
	v, _ := s.snap.get()
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

// Refresh reloads the active shift. A role without access to shifts sees no
// active shift rather than an error.
func (s *ShiftStore) Refresh(ctx context.Context) error {
	seq := s.snap.begin()
	started := time.Now()

	shift, err := s.api.CurrentShift(ctx)
	if errors.Is(err, domain.ErrForbidden) {
		shift, err = nil, nil
	}
	if err != nil {
		observeRefresh("shift", started, false, err)
		return fmt.Errorf("refresh shift: %w", err)
	}

	applied := s.snap.commit(seq, shift)
	observeRefresh("shift", started, applied, nil)
	if !applied {
		s.log.Debug().Uint64("seq", seq).Msg("discarded stale shift")
		return nil
	}
	s.notify()
	return nil
}

func (s *ShiftStore) Reset() {
	s.snap.reset()
	s.notify()
}

// Open starts a new shift. The backend closes any active shift first.
func (s *ShiftStore) Open(ctx context.Context) (*domain.Shift, error) {
	shift, err := s.api.OpenShift(ctx)
	if err != nil {
		return nil, fmt.Errorf("open shift: %w", err)
	}
	s.log.Info().Int("shift_id", shift.ID).Msg("shift opened")
	return shift, nil
}

func (s *ShiftStore) Close(ctx context.Context, id int) (*domain.ShiftClosure, error) {
	closure, err := s.api.CloseShift(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("close shift %d: %w", id, err)
	}
	s.log.Info().
		Int("shift_id", id).
		Int("delivered", closure.Summary.TotalOrdersDelivered).
		Str("revenue", closure.Summary.TotalRevenue.String()).
		Msg("shift closed")
	return closure, nil
}

func (s *ShiftStore) History(ctx context.Context) ([]domain.Shift, error) {
	shifts, err := s.api.ListShifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	return shifts, nil
}

// Details returns a shift together with the orders delivered during it.
func (s *ShiftStore) Details(ctx context.Context, id int) (*domain.Shift, []domain.Order, error) {
	shift, err := s.api.GetShift(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get shift %d: %w", id, err)
	}
	orders, err := s.api.ShiftDeliveredOrders(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("shift %d delivered orders: %w", id, err)
	}
	return shift, orders, nil
}
