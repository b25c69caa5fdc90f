package state

import (
	"github.com/atomicstack/solar-dashboard/internal/router"
)

// Level tracks the sidebar: the route list, the active filter, the cursor and
// the scroll offset.
type Level struct {
	ID             string
	Title          string
	Items          []router.Route
	Full           []router.Route
	Filter         string
	FilterCursor   int
	Cursor         int
	LastCursor     int
	ViewportOffset int
}

// NewLevel constructs a Level over the provided routes.
func NewLevel(id, title string, items []router.Route) *Level {
	l := &Level{
		ID:         id,
		Title:      title,
		Cursor:     0,
		LastCursor: -1,
	}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the index of the route with the given path among the
// visible items, or -1.
func (l *Level) IndexOf(path string) int {
	if path == "" {
		return -1
	}
	want := router.Normalize(path)
	for i, item := range l.Items {
		if item.Path == want {
			return i
		}
	}
	return -1
}

// Selected returns the route under the cursor.
func (l *Level) Selected() (router.Route, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return router.Route{}, false
	}
	return l.Items[l.Cursor], true
}

// UpdateItems refreshes the level items while keeping the viewport if possible.
func (l *Level) UpdateItems(items []router.Route) {
	prevOffset := l.ViewportOffset
	l.Full = CloneItems(items)
	l.applyFilter()
	if len(l.Items) == 0 {
		l.ViewportOffset = 0
		return
	}
	if prevOffset < 0 {
		prevOffset = 0
	}
	if prevOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
		return
	}
	l.ViewportOffset = prevOffset
}
