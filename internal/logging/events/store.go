package events

import "github.com/atomicstack/solar-dashboard/internal/logging"

type StoreTracer struct{}

var Store = StoreTracer{}

func (StoreTracer) Set(field string, value interface{}) {
	logging.Trace("store.set", map[string]interface{}{"field": field, "value": value})
}
