// Package notify delivers Notifications. A Dispatcher persists each one to
// the notification store inline and then hands it to a background worker
// that fans it out to optional publishers (the Kafka event stream, e-mail).
// Delivery is best effort: failures are logged and counted but never
// reported to the caller, so a lost notification can never undo the roster
// change that produced it, and a slow sink never holds up the request.
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/umoc/basecamp/backend/internal/domain"
	"github.com/umoc/basecamp/backend/internal/metrics"
)

const (
	// DefaultQueueSize bounds the notifications waiting to be published.
	DefaultQueueSize = 1024
	// publishTimeout caps one publisher call made by the worker.
	publishTimeout = 30 * time.Second
)

var errQueueFull = errors.New("publish queue full")

// Store persists notifications. repo.NotificationRepo satisfies it.
type Store interface {
	Create(ctx context.Context, n domain.Notification) (domain.Notification, error)
}

// Publisher pushes a stored notification to an external sink.
type Publisher interface {
	// Name labels the sink in logs and metrics.
	Name() string
	Publish(ctx context.Context, n domain.Notification) error
}

type job struct {
	ctx context.Context
	n   domain.Notification
}

// Dispatcher stores notifications and publishes them in the background.
// Call Close on shutdown to drain the queue.
type Dispatcher struct {
	store      Store
	publishers []Publisher
	log        *slog.Logger
	metrics    *metrics.Metrics

	mu     sync.RWMutex
	closed bool
	queue  chan job
	done   chan struct{}
}

// NewDispatcher returns a Dispatcher whose worker is already running. m may
// be nil.
func NewDispatcher(store Store, log *slog.Logger, m *metrics.Metrics, publishers ...Publisher) *Dispatcher {
	return NewDispatcherSize(DefaultQueueSize, store, log, m, publishers...)
}

// NewDispatcherSize is NewDispatcher with an explicit queue bound. When the
// queue is full, further notifications are stored but not published.
func NewDispatcherSize(size int, store Store, log *slog.Logger, m *metrics.Metrics, publishers ...Publisher) *Dispatcher {
	if size < 1 {
		size = 1
	}
	d := &Dispatcher{
		store:      store,
		publishers: publishers,
		log:        log,
		metrics:    m,
		queue:      make(chan job, size),
		done:       make(chan struct{}),
	}
	go d.run()
	return d
}

// Notify stores n and queues the stored copy for every publisher. A
// notification that could not be stored is not published. The store write
// survives cancellation of ctx so that a client hanging up after its roster
// change committed still gets its notification recorded.
func (d *Dispatcher) Notify(ctx context.Context, n domain.Notification) {
	ctx = context.WithoutCancel(ctx)
	stored, err := d.store.Create(ctx, n)
	d.metrics.Notification("store", err)
	if err != nil {
		d.log.WarnContext(ctx, "notification not stored",
			"recipient_id", n.RecipientID,
			"link", n.Link,
			"error", err,
		)
		return
	}
	if len(d.publishers) == 0 {
		return
	}
	d.enqueue(ctx, stored)
}

func (d *Dispatcher) enqueue(ctx context.Context, n domain.Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(ctx, n, errors.New("dispatcher closed"))
		return
	}
	select {
	case d.queue <- job{ctx: ctx, n: n}:
	default:
		d.drop(ctx, n, errQueueFull)
	}
}

func (d *Dispatcher) drop(ctx context.Context, n domain.Notification, err error) {
	d.metrics.Notification("queue", err)
	d.log.WarnContext(ctx, "notification not published",
		"sink", "queue",
		"notification_id", n.ID,
		"error", err,
	)
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for j := range d.queue {
		d.publish(j.ctx, j.n)
	}
}

func (d *Dispatcher) publish(ctx context.Context, n domain.Notification) {
	for _, p := range d.publishers {
		pctx, cancel := context.WithTimeout(ctx, publishTimeout)
		err := p.Publish(pctx, n)
		cancel()
		d.metrics.Notification(p.Name(), err)
		if err != nil {
			d.log.WarnContext(ctx, "notification not published",
				"sink", p.Name(),
				"notification_id", n.ID,
				"error", err,
			)
		}
	}
}

// Close stops accepting work and waits for queued notifications to be
// published, or for ctx to end. It is safe to call more than once.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
