package events

import "github.com/atomicstack/solar-dashboard/internal/logging"

type RouteTracer struct{}

var Route = RouteTracer{}

func (RouteTracer) Navigate(from, to string) {
	logging.Trace("route.navigate", map[string]interface{}{"from": from, "to": to})
}

func (RouteTracer) Back(from, to string) {
	logging.Trace("route.back", map[string]interface{}{"from": from, "to": to})
}

func (RouteTracer) Unknown(path string) {
	logging.Trace("route.unknown", map[string]interface{}{"path": path})
}
