package state

import "github.com/atomicstack/solar-dashboard/internal/router"

// CloneItems produces a shallow copy of the provided routes.
func CloneItems(items []router.Route) []router.Route {
	if items == nil {
		return nil
	}
	dup := make([]router.Route, len(items))
	copy(dup, items)
	return dup
}
