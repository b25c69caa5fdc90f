package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/solar-dashboard/internal/api"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindHealth Kind = iota
)

func (k Kind) String() string {
	switch k {
	case KindHealth:
		return "health"
	default:
		return "unknown"
	}
}

// Event conveys updated data or an error from a backend poll.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// HealthChecker is the slice of the API client the watcher needs.
type HealthChecker interface {
	HealthCheck(ctx context.Context) (api.HealthResponse, error)
}

// Watcher polls the API at a fixed interval and publishes events.
type Watcher struct {
	client   HealthChecker
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events  chan Event
	refresh chan struct{}
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher that checks API health every interval.
func NewWatcher(client HealthChecker, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		client:   client,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
		refresh:  make(chan struct{}, 1),
	}

	w.startHealthPoller()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Refresh requests an immediate poll. Requests made while one is already
// pending are coalesced.
func (w *Watcher) Refresh() {
	select {
	case w.refresh <- struct{}{}:
	default:
	}
}

// Stop cancels the watcher. Pollers exit after their current fetch completes;
// use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all poller goroutines have exited and the events channel
// is closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startHealthPoller() {
	throttle := newThrottle(250 * time.Millisecond)
	w.wg.Add(1)
	go w.poll(KindHealth, func(ctx context.Context) (interface{}, error) {
		if !throttle.wait(ctx) {
			return nil, ctx.Err()
		}
		return w.client.HealthCheck(ctx)
	})
}

func (w *Watcher) poll(kind Kind, fetch func(context.Context) (interface{}, error)) {
	defer w.wg.Done()

	emit := func() bool {
		data, err := fetch(w.ctx)
		evt := Event{Kind: kind, Data: data, Err: err}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		case <-w.refresh:
			if !emit() {
				return
			}
			ticker.Reset(w.interval)
		}
	}
}
