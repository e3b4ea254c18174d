// Package queue fans webhook deliveries out to sharded workers.
package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/ghost-admin/internal/core/ports"
	"github.com/99minutos/ghost-admin/internal/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrStopped is returned by Enqueue once Stop has been called.
var ErrStopped = errors.New("dispatcher stopped")

// Dispatcher routes webhook events to a fixed set of workers using consistent
// hashing on the resource id, so deliveries for one post or member are
// processed in arrival order.
type Dispatcher struct {
	workers []chan ports.WebhookEventInput
	service ports.EventService
	log     zerolog.Logger
	wg      sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.EventService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.WebhookEventInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.WebhookEventInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers run until Stop closes their
// queues; ctx is handed to Process so in-flight work can be aborted.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Stop closes every worker queue. Workers process what is already buffered
// and then return. Later Enqueue calls fail with ErrStopped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	for _, ch := range d.workers {
		close(ch)
	}
}

// Wait blocks until every worker has returned or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue sends an event to the worker responsible for its resource. It
// blocks while that worker's buffer is full and gives up when ctx is done.
func (d *Dispatcher) Enqueue(ctx context.Context, event ports.WebhookEventInput) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}

	idx := d.shardIndex(event.ResourceID)
	depth := metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx))
	depth.Inc()
	select {
	case d.workers[idx] <- event:
		return nil
	case <-ctx.Done():
		depth.Dec()
		return ctx.Err()
	}
}

// shardIndex maps a resource id deterministically to a worker index.
func (d *Dispatcher) shardIndex(resourceID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(resourceID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.WebhookEventInput) {
	defer d.wg.Done()
	depth := metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(id))

	for event := range ch {
		depth.Dec()
		if err := d.service.Process(ctx, event); err != nil {
			d.log.Error().Err(err).
				Str("event", event.Event).
				Str("resource_id", event.ResourceID).
				Int("worker_id", id).
				Msg("event processing failed")
		}
	}
}
