// Package events implements fire-and-forget delivery of request lifecycle
// notifications. Publishers never block on delivery; a single background
// worker fans events out to subscribed handlers.
package events

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for event delivery.
var (
	huduEventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hudu_events_published_total",
		Help: "Total lifecycle events accepted for delivery by type",
	}, []string{"type"})

	huduEventsDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hudu_events_dropped_total",
		Help: "Total lifecycle events dropped by reason (overflow, closed, shutdown)",
	}, []string{"reason"})

	huduEventHandlerPanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hudu_event_handler_panics_total",
		Help: "Total handler panics recovered during event delivery",
	})
)

// Event describes the completion of one HTTP request. Events are immutable
// once published.
type Event struct {
	Type      string
	Payload   map[string]any
	Timestamp time.Time
}

// Handler receives delivered events. Handlers run on the notifier's worker
// goroutine and should return quickly.
type Handler func(Event)

// ShutdownPolicy controls what happens to queued events on Close.
type ShutdownPolicy int

const (
	// Drain delivers queued events before the worker exits, bounded by the
	// configured grace period.
	Drain ShutdownPolicy = iota

	// Drop discards queued events immediately on Close.
	Drop
)

// Config holds notifier configuration.
type Config struct {
	// QueueSize bounds the pending event queue. Publish drops events once
	// the queue is full. Default: 1024.
	QueueSize int

	// Shutdown selects the Close behavior for queued events. Default: Drain.
	Shutdown ShutdownPolicy

	// GracePeriod bounds how long Close waits for the queue to drain.
	// Default: 5s. Ignored for the Drop policy.
	GracePeriod time.Duration

	// Logger for delivery diagnostics.
	Logger zerolog.Logger
}

// DefaultConfig returns a safe default notifier configuration.
func DefaultConfig() Config {
	return Config{
		QueueSize:   1024,
		Shutdown:    Drain,
		GracePeriod: 5 * time.Second,
	}
}

// Notifier fans lifecycle events out to registered handlers. The queue is a
// multi-producer single-consumer channel; delivery is FIFO per publish order,
// and handlers for a given type run in registration order.
type Notifier struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	closed   bool

	queue    chan Event
	done     chan struct{}
	dropping chan struct{}

	config Config
	logger zerolog.Logger
}

// NewNotifier creates a notifier and starts its delivery worker.
func NewNotifier(cfg Config) *Notifier {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = 5 * time.Second
	}

	n := &Notifier{
		handlers: make(map[string][]Handler),
		queue:    make(chan Event, cfg.QueueSize),
		done:     make(chan struct{}),
		dropping: make(chan struct{}),
		config:   cfg,
		logger:   cfg.Logger,
	}

	go n.run()

	return n
}

// Subscribe registers a handler for an exact event type. There is no
// wildcard matching.
func (n *Notifier) Subscribe(eventType string, h Handler) {
	if h == nil {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[eventType] = append(n.handlers[eventType], h)
}

// Publish enqueues an event and returns immediately. Events published after
// Close, or while the queue is full, are dropped and counted.
func (n *Notifier) Publish(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}

	// The read lock spans both the closed-check and the send: Close takes
	// the write lock before closing the queue, so no send can be in flight
	// once the queue closes. The send itself never blocks.
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		huduEventsDroppedTotal.WithLabelValues("closed").Inc()
		return
	}

	select {
	case n.queue <- evt:
		huduEventsPublishedTotal.WithLabelValues(evt.Type).Inc()
	default:
		huduEventsDroppedTotal.WithLabelValues("overflow").Inc()
		n.logger.Warn().
			Str("type", evt.Type).
			Msg("Event queue full - dropping lifecycle event")
	}
}

// Close stops intake and joins the worker. Under the Drain policy, queued
// events are delivered until the grace period elapses; under Drop they are
// discarded. Close is idempotent.
func (n *Notifier) Close() error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	if n.config.Shutdown == Drop {
		close(n.dropping)
	}
	close(n.queue)
	n.mu.Unlock()

	select {
	case <-n.done:
	case <-time.After(n.config.GracePeriod):
		n.logger.Warn().
			Dur("grace_period", n.config.GracePeriod).
			Msg("Event queue drain exceeded grace period - abandoning backlog")
	}

	return nil
}

// run is the single delivery worker. It exits when the queue is closed and
// empty.
func (n *Notifier) run() {
	defer close(n.done)

	for evt := range n.queue {
		select {
		case <-n.dropping:
			huduEventsDroppedTotal.WithLabelValues("shutdown").Inc()
			continue
		default:
		}

		n.deliver(evt)
	}
}

// deliver invokes every handler registered for the event's type in
// registration order. A panicking handler is logged and skipped; remaining
// handlers still run.
func (n *Notifier) deliver(evt Event) {
	n.mu.RLock()
	handlers := n.handlers[evt.Type]
	n.mu.RUnlock()

	for _, h := range handlers {
		n.invoke(evt, h)
	}
}

func (n *Notifier) invoke(evt Event, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			huduEventHandlerPanicsTotal.Inc()
			n.logger.Error().
				Str("type", evt.Type).
				Interface("panic", r).
				Msg("Event handler panicked")
		}
	}()

	h(evt)
}
