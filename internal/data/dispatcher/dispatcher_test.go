package dispatcher

import (
	"errors"
	"testing"

	"github.com/atomicstack/solar-dashboard/internal/api"
	"github.com/atomicstack/solar-dashboard/internal/backend"
	"github.com/atomicstack/solar-dashboard/internal/state"
)

func TestHandleHealthSuccess(t *testing.T) {
	store := state.NewAppStore()
	d := New(store)
	res := d.Handle(backend.Event{Kind: backend.KindHealth, Data: api.HealthResponse{Status: "healthy"}})
	if !res.StatusUpdated || res.Status != "healthy" {
		t.Fatalf("unexpected result %#v", res)
	}
	if got := store.APIStatus(); got != "healthy" {
		t.Fatalf("expected store status healthy, got %q", got)
	}
}

func TestHandleHealthBlankStatus(t *testing.T) {
	store := state.NewAppStore()
	New(store).Handle(backend.Event{Kind: backend.KindHealth, Data: api.HealthResponse{Status: "  "}})
	if got := store.APIStatus(); got != api.StatusHealthy {
		t.Fatalf("expected %q, got %q", api.StatusHealthy, got)
	}
}

func TestHandleHealthFailure(t *testing.T) {
	store := state.NewAppStore()
	store.SetAPIStatus("healthy")
	boom := errors.New("boom")
	res := New(store).Handle(backend.Event{Kind: backend.KindHealth, Err: boom})
	if !res.StatusUpdated || !errors.Is(res.Err, boom) {
		t.Fatalf("unexpected result %#v", res)
	}
	if got := store.APIStatus(); got != StatusOffline {
		t.Fatalf("expected %q, got %q", StatusOffline, got)
	}
}

func TestHandleIgnoresUnexpectedData(t *testing.T) {
	store := state.NewAppStore()
	res := New(store).Handle(backend.Event{Kind: backend.KindHealth, Data: "nope"})
	if res.StatusUpdated {
		t.Fatalf("expected no update for unexpected payload")
	}
	if got := store.APIStatus(); got != state.StatusUnknown {
		t.Fatalf("expected status untouched, got %q", got)
	}
}
