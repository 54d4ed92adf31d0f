package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
)

// BoardSnapshot is one consistent view of everything the dashboards show.
// Snapshots are immutable once published.
type BoardSnapshot struct {
	Version     uint64                                `json:"version"`
	GeneratedAt time.Time                             `json:"generated_at"`
	Shift       *domain.Shift                         `json:"shift"`
	Today       ShiftMetrics                          `json:"today"`
	Statistics  *domain.OrderStatistics               `json:"statistics"`
	Counts      map[domain.OrderStatus]int            `json:"counts"`
	Buckets     map[domain.OrderStatus][]domain.Order `json:"buckets"`
	Orders      []domain.Order                        `json:"orders"`
}

// Board derives dashboard state from the three stores. It recomputes
// whenever one of them changes and publishes the result atomically, so
// readers never observe a half-updated view.
type Board struct {
	orders *OrderStore
	shifts *ShiftStore
	stats  *StatisticsStore
	now    func() time.Time

	mu      sync.Mutex
	version uint64
	current atomic.Pointer[BoardSnapshot]
	listeners
}

// NewBoard wires a Board to its stores and computes the initial snapshot.
func NewBoard(orders *OrderStore, shifts *ShiftStore, stats *StatisticsStore) *Board {
	b := &Board{orders: orders, shifts: shifts, stats: stats, now: time.Now}
	orders.Subscribe(b.Recompute)
	shifts.Subscribe(b.Recompute)
	stats.Subscribe(b.Recompute)
	b.Recompute()
	return b
}

// Snapshot returns the latest published snapshot.
func (b *Board) Snapshot() *BoardSnapshot {
	return b.current.Load()
}

// Recompute rebuilds the snapshot from the stores' current values.
func (b *Board) Recompute() {
	b.mu.Lock()
	orders := b.orders.Orders()
	shift := b.shifts.Current()
	now := b.now()

	b.version++
	snap := &BoardSnapshot{
		Version:     b.version,
		GeneratedAt: now,
		Shift:       shift,
		Today:       MetricsFor(shift),
		Statistics:  b.stats.Statistics(),
		Counts:      CountByStatus(orders),
		Buckets:     Buckets(orders, shift),
		Orders:      orders,
	}
	b.current.Store(snap)
	b.mu.Unlock()

	b.notify()
}
