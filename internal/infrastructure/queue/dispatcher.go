package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
	"github.com/laser-workshop/workshop-console/internal/core/ports"
	"github.com/laser-workshop/workshop-console/internal/pkg/metrics"
)

const (
	defaultWorkers = 2
	channelBuffer  = 64
)

// Dispatcher routes realtime events to a fixed set of workers using
// consistent hashing on the event kind, so events for one slice are handled
// in arrival order while different slices refresh in parallel.
type Dispatcher struct {
	workers []chan domain.RealtimeEvent
	handler ports.EventHandler
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, handler ports.EventHandler, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.RealtimeEvent, numWorkers),
		handler: handler,
		log:     log.With().Str("component", "dispatcher").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.RealtimeEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Consume forwards events from src until ctx is cancelled or src closes.
func (d *Dispatcher) Consume(ctx context.Context, src <-chan domain.RealtimeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-src:
			if !ok {
				return
			}
			d.Enqueue(ev)
		}
	}
}

// Enqueue sends an event to the worker responsible for its kind. When that
// worker's buffer is full the event is dropped: an invalidation for the same
// slice is already pending.
func (d *Dispatcher) Enqueue(ev domain.RealtimeEvent) {
	idx := d.shardIndex(ev.Kind)
	select {
	case d.workers[idx] <- ev:
		metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().Str("type", string(ev.Kind)).Int("worker_id", idx).Msg("worker queue full, dropping event")
	}
}

// shardIndex maps an event kind deterministically to a worker index.
func (d *Dispatcher) shardIndex(kind domain.EventKind) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(kind))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.RealtimeEvent) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			// Events already queued behind this one ask for the same refresh.
			batch := coalesce(ev, ch)
			metrics.EventsQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			for _, e := range batch {
				if err := d.handler.Handle(ctx, e); err != nil {
					d.log.Error().Err(err).
						Str("type", string(e.Kind)).
						Str("action", string(e.Action)).
						Int("worker_id", id).
						Msg("event processing failed")
				}
			}
		}
	}
}

// coalesce drains what is currently queued on ch and keeps the first event
// of each kind.
func coalesce(first domain.RealtimeEvent, ch <-chan domain.RealtimeEvent) []domain.RealtimeEvent {
	batch := []domain.RealtimeEvent{first}
	seen := map[domain.EventKind]bool{first.Kind: true}
	for range len(ch) {
		ev := <-ch
		if seen[ev.Kind] {
			continue
		}
		seen[ev.Kind] = true
		batch = append(batch, ev)
	}
	return batch
}
