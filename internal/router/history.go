package router

// History is an in-memory navigation stack. The first entry is never popped.
type History struct {
	entries []Route
}

// NewHistory starts a history at the supplied route.
func NewHistory(start Route) *History {
	return &History{entries: []Route{start}}
}

// Current returns the active route.
func (h *History) Current() Route {
	if len(h.entries) == 0 {
		return Route{}
	}
	return h.entries[len(h.entries)-1]
}

// Push navigates to route. Pushing the active route again is a no-op.
func (h *History) Push(route Route) bool {
	if len(h.entries) > 0 && h.Current().Path == route.Path {
		return false
	}
	h.entries = append(h.entries, route)
	return true
}

// Back pops the active route and reports whether anything was popped.
func (h *History) Back() (Route, bool) {
	if len(h.entries) <= 1 {
		return h.Current(), false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return h.Current(), true
}

// Replace swaps the active route without growing the stack.
func (h *History) Replace(route Route) {
	if len(h.entries) == 0 {
		h.entries = []Route{route}
		return
	}
	h.entries[len(h.entries)-1] = route
}

// Len reports the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}
