package events

import "github.com/atomicstack/solar-dashboard/internal/logging"

type APITracer struct{}

var API = APITracer{}

func (APITracer) Request(method, url, requestID string) {
	logging.Trace("api.request", map[string]interface{}{
		"method":    method,
		"url":       url,
		"requestID": requestID,
	})
}

func (APITracer) Response(method, url string, status int) {
	logging.Trace("api.response", map[string]interface{}{
		"method": method,
		"url":    url,
		"status": status,
	})
}

func (APITracer) Error(method, url string, err error) {
	if err == nil {
		return
	}
	logging.Trace("api.error", map[string]interface{}{
		"method": method,
		"url":    url,
		"error":  err.Error(),
	})
}
