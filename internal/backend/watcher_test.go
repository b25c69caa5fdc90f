package backend

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/atomicstack/solar-dashboard/internal/api"
)

type fakeHealth struct {
	calls atomic.Int32
	err   error
}

func (f *fakeHealth) HealthCheck(ctx context.Context) (api.HealthResponse, error) {
	f.calls.Add(1)
	if f.err != nil {
		return api.HealthResponse{}, f.err
	}
	return api.HealthResponse{Status: "healthy"}, nil
}

func nextEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case evt, ok := <-w.Events():
		if !ok {
			t.Fatalf("events channel closed")
		}
		return evt
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
	}
	return Event{}
}

func TestWatcherEmitsInitialHealth(t *testing.T) {
	fake := &fakeHealth{}
	w := NewWatcher(fake, time.Hour)
	defer func() {
		w.Stop()
		w.Wait()
	}()

	evt := nextEvent(t, w)
	if evt.Kind != KindHealth {
		t.Fatalf("expected health event, got %v", evt.Kind)
	}
	if evt.Err != nil {
		t.Fatalf("unexpected error: %v", evt.Err)
	}
	resp, ok := evt.Data.(api.HealthResponse)
	if !ok || resp.Status != "healthy" {
		t.Fatalf("unexpected data %#v", evt.Data)
	}
}

func TestWatcherForwardsErrors(t *testing.T) {
	boom := errors.New("boom")
	w := NewWatcher(&fakeHealth{err: boom}, time.Hour)
	defer func() {
		w.Stop()
		w.Wait()
	}()

	evt := nextEvent(t, w)
	if !errors.Is(evt.Err, boom) {
		t.Fatalf("expected boom, got %v", evt.Err)
	}
}

func TestWatcherRefreshPollsImmediately(t *testing.T) {
	fake := &fakeHealth{}
	w := NewWatcher(fake, time.Hour)
	defer func() {
		w.Stop()
		w.Wait()
	}()

	nextEvent(t, w)
	w.Refresh()
	nextEvent(t, w)
	if got := fake.calls.Load(); got != 2 {
		t.Fatalf("expected 2 health calls, got %d", got)
	}
}

func TestWatcherStopClosesEvents(t *testing.T) {
	w := NewWatcher(&fakeHealth{}, time.Hour)
	nextEvent(t, w)
	w.Stop()
	w.Wait()
	for range w.Events() {
	}
}
