package backend

import (
	"context"
	"sync"
	"time"
)

// throttle enforces a minimum gap between successive health checks so a burst
// of refresh requests cannot hammer the API.
type throttle struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time
}

func newThrottle(interval time.Duration) *throttle {
	if interval <= 0 {
		return &throttle{}
	}
	return &throttle{interval: interval}
}

// wait blocks until the next slot opens. It returns false when ctx is
// cancelled first.
func (t *throttle) wait(ctx context.Context) bool {
	if t == nil || t.interval <= 0 {
		return ctx.Err() == nil
	}
	for {
		t.mu.Lock()
		wait := time.Until(t.next)
		if wait <= 0 {
			t.next = time.Now().Add(t.interval)
			t.mu.Unlock()
			return true
		}
		t.mu.Unlock()
		if wait > t.interval {
			wait = t.interval
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}
