// Package queue delivers account audit events to storage off the request path.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/userbase/accounts-api/internal/core/domain"
	"github.com/userbase/accounts-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	drainTimeout   = 5 * time.Second
)

// Counter is satisfied by prometheus.Counter.
type Counter interface {
	Inc()
}

// Dispatcher routes account events to a fixed set of workers using consistent
// hashing on the account, so events for one account are stored in order.
// It implements ports.AuditPublisher.
type Dispatcher struct {
	workers []chan domain.AccountEvent
	repo    ports.AuditRepository
	dropped Counter
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// Option customises a Dispatcher.
type Option func(*Dispatcher)

// WithDropCounter counts events discarded because their shard was full.
func WithDropCounter(c Counter) Option {
	return func(d *Dispatcher) { d.dropped = c }
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger, opts ...Option) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AccountEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AccountEvent, channelBuffer)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled,
// after flushing what is already buffered.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Publish hands an event to the worker responsible for its account.
// It never blocks: when the shard is full the event is dropped.
func (d *Dispatcher) Publish(event domain.AccountEvent) {
	select {
	case d.workers[d.shardIndex(event)] <- event:
	default:
		if d.dropped != nil {
			d.dropped.Inc()
		}
		d.log.Warn().
			Str("event_type", string(event.Type)).
			Int64("account_id", event.AccountID).
			Msg("audit queue full, event dropped")
	}
}

// Depth is the number of events waiting across all shards.
func (d *Dispatcher) Depth() int {
	n := 0
	for _, ch := range d.workers {
		n += len(ch)
	}
	return n
}

// shardIndex maps an event deterministically to a worker index. Events for
// an unknown account (id 0) are keyed by email instead.
func (d *Dispatcher) shardIndex(event domain.AccountEvent) int {
	key := event.Email
	if event.AccountID != 0 {
		key = strconv.FormatInt(event.AccountID, 10)
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AccountEvent) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(context.WithoutCancel(ctx), id, ch)
			return
		case event := <-ch:
			d.store(ctx, id, event)
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.AccountEvent) {
	ctx, cancel := context.WithTimeout(ctx, drainTimeout)
	defer cancel()
	for {
		select {
		case event := <-ch:
			d.store(ctx, id, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) store(ctx context.Context, id int, event domain.AccountEvent) {
	if err := d.repo.InsertEvent(ctx, &event); err != nil {
		d.log.Error().Err(err).
			Str("event_id", event.ID).
			Str("event_type", string(event.Type)).
			Int64("account_id", event.AccountID).
			Int("worker_id", id).
			Msg("audit event store failed")
	}
}
