package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/ports"
)

// StatisticsStore keeps the current month's order statistics.
type StatisticsStore struct {
	api  ports.OrderAPI
	log  zerolog.Logger
	now  func() time.Time
	snap versioned[*domain.OrderStatistics]
	listeners
}

func NewStatisticsStore(api ports.OrderAPI, log zerolog.Logger) *StatisticsStore {
	return &StatisticsStore{
		api: api,
		log: log.With().Str("store", "statistics").Logger(),
		now: time.Now,
	}
}

// Statistics returns the last applied statistics, or nil before the first load.
func (s *StatisticsStore) Statistics() *domain.OrderStatistics {
	v, _ := s.snap.get()
	return v
}

func (s *StatisticsStore) Refresh(ctx context.Context) error {
	seq := s.snap.begin()
	started := time.Now()

	now := s.now()
	st, err := s.api.OrderStatistics(ctx, now.Year(), int(now.Month()))
	if err != nil {
		observeRefresh("statistics", started, false, err)
		return fmt.Errorf("refresh statistics: %w", err)
	}

	applied := s.snap.commit(seq, st)
	observeRefresh("statistics", started, applied, nil)
	if !applied {
		s.log.Debug().Uint64("seq", seq).Msg("discarded stale statistics")
		return nil
	}
	s.notify()
	return nil
}

func (s *StatisticsStore) Reset() {
	s.snap.reset()
	s.notify()
}
