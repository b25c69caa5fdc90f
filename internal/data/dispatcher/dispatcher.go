package dispatcher

import (
	"strings"

	"github.com/atomicstack/solar-dashboard/internal/api"
	"github.com/atomicstack/solar-dashboard/internal/backend"
	"github.com/atomicstack/solar-dashboard/internal/state"
)

// StatusOffline is recorded when a health check fails.
const StatusOffline = "offline"

type Result struct {
	StatusUpdated bool
	Status        string
	Err           error
}

// Dispatcher applies backend events to the app store.
type Dispatcher struct {
	store state.AppStore
}

func New(store state.AppStore) *Dispatcher {
	return &Dispatcher{store: store}
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	switch evt.Kind {
	case backend.KindHealth:
		if evt.Err != nil {
			d.store.SetAPIStatus(StatusOffline)
			return Result{StatusUpdated: true, Status: StatusOffline, Err: evt.Err}
		}
		if health, ok := evt.Data.(api.HealthResponse); ok {
			status := strings.TrimSpace(health.Status)
			if status == "" {
				status = api.StatusHealthy
			}
			d.store.SetAPIStatus(status)
			res.StatusUpdated = true
			res.Status = status
		}
	}
	return res
}
