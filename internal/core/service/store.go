package service

import (
	"sync"
	"time"

	"github.com/laser-workshop/workshop-console/internal/pkg/metrics"
)

// versioned holds the latest applied value of a store slice.
//
// Every fetch takes a sequence number when it is issued; its result is applied
// only if no later-issued fetch has been applied already. Responses that lose
// the race are discarded.
type versioned[T any] struct {
	mu       sync.Mutex
	issued   uint64
	applied  uint64
	value    T
	loadedAt time.Time
}

func (v *versioned[T]) begin() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.issued++
	return v.issued
}

// commit applies val if seq is newer than the last applied sequence.
func (v *versioned[T]) commit(seq uint64, val T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if seq <= v.applied {
		return false
	}
	v.applied = seq
	v.value = val
	v.loadedAt = time.Now()
	return true
}

func (v *versioned[T]) get() (T, time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value, v.loadedAt
}

// reset drops the value and invalidates every fetch still in flight.
func (v *versioned[T]) reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	var zero T
	v.value = zero
	v.loadedAt = time.Time{}
	v.applied = v.issued
}

// listeners is a set of change callbacks.
type listeners struct {
	mu   sync.Mutex
	fns  map[int]func()
	next int
}

// Subscribe registers fn and returns a func that removes it.
func (l *listeners) Subscribe(fn func()) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func())
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return func() {
		l.mu.Lock()
		delete(l.fns, id)
		l.mu.Unlock()
	}
}

func (l *listeners) notify() {
	l.mu.Lock()
	fns := make([]func(), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// observeRefresh records the outcome of one store fetch.
func observeRefresh(store string, started time.Time, applied bool, err error) {
	metrics.StoreRefreshDuration.WithLabelValues(store).Observe(time.Since(started).Seconds())
	switch {
	case err != nil:
		metrics.StoreRefreshTotal.WithLabelValues(store, "error").Inc()
	case applied:
		metrics.StoreRefreshTotal.WithLabelValues(store, "applied").Inc()
	default:
		metrics.StoreRefreshTotal.WithLabelValues(store, "stale").Inc()
	}
}
