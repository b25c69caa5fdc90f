package state

import (
	"strings"
	"unicode"

	"github.com/atomicstack/solar-dashboard/internal/router"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SetFilter updates the filter query and the rune offset of its caret. The
// route cursor jumps to the best match while a query is active and returns
// to its previous row once the query is cleared.
func (l *Level) SetFilter(query string, cursor int) {
	trimmed := strings.TrimSpace(query)
	prevTrimmed := strings.TrimSpace(l.Filter)
	l.Filter = query
	l.FilterCursor = min(max(cursor, 0), len([]rune(query)))

	switch {
	case trimmed != "" && prevTrimmed == "":
		l.LastCursor = l.Cursor
	case trimmed == "" && prevTrimmed != "":
		l.applyFilter()
		if l.LastCursor >= 0 && l.LastCursor < len(l.Items) {
			l.Cursor = l.LastCursor
		} else {
			l.Cursor = 0
		}
		l.LastCursor = -1
		return
	}
	l.applyFilter()
	if trimmed != "" {
		l.Cursor = max(BestMatchIndex(l.Items, trimmed), 0)
	}
}

func (l *Level) applyFilter() {
	l.Items = FilterItems(l.Full, l.Filter)
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = min(max(l.Cursor, 0), len(l.Items)-1)
	if l.ViewportOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
	}
}

// FilterCursorPos returns the rune offset of the filter caret.
func (l *Level) FilterCursorPos() int {
	return min(max(l.FilterCursor, 0), len([]rune(l.Filter)))
}

// InsertFilterText inserts text into the filter at the caret.
func (l *Level) InsertFilterText(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	runes := []rune(l.Filter)
	pos := l.FilterCursorPos()
	updated := make([]rune, 0, len(runes)+len(insert))
	updated = append(updated, runes[:pos]...)
	updated = append(updated, insert...)
	updated = append(updated, runes[pos:]...)
	l.SetFilter(string(updated), pos+len(insert))
	return true
}

// DeleteFilterRuneBackward deletes the rune before the caret.
func (l *Level) DeleteFilterRuneBackward() bool {
	runes := []rune(l.Filter)
	pos := l.FilterCursorPos()
	if pos == 0 {
		return false
	}
	updated := append(runes[:pos-1:pos-1], runes[pos:]...)
	l.SetFilter(string(updated), pos-1)
	return true
}

// DeleteFilterWordBackward deletes the word before the caret along with any
// whitespace between it and the caret.
func (l *Level) DeleteFilterWordBackward() bool {
	runes := []rune(l.Filter)
	pos := l.FilterCursorPos()
	if pos == 0 {
		return false
	}
	start := wordStart(runes, pos)
	updated := append(runes[:start:start], runes[pos:]...)
	l.SetFilter(string(updated), start)
	return true
}

// MoveFilterCursorStart moves the caret to the start of the filter.
func (l *Level) MoveFilterCursorStart() bool {
	return l.moveFilterCursor(0)
}

// MoveFilterCursorEnd moves the caret to the end of the filter.
func (l *Level) MoveFilterCursorEnd() bool {
	return l.moveFilterCursor(len([]rune(l.Filter)))
}

// MoveFilterCursorWordBackward moves the caret to the start of the previous word.
func (l *Level) MoveFilterCursorWordBackward() bool {
	return l.moveFilterCursor(wordStart([]rune(l.Filter), l.FilterCursorPos()))
}

// MoveFilterCursorWordForward moves the caret past the next word.
func (l *Level) MoveFilterCursorWordForward() bool {
	runes := []rune(l.Filter)
	i := l.FilterCursorPos()
	for i < len(runes) && !unicode.IsSpace(runes[i]) {
		i++
	}
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	return l.moveFilterCursor(i)
}

// MoveFilterCursorRuneBackward moves the caret one rune left.
func (l *Level) MoveFilterCursorRuneBackward() bool {
	return l.moveFilterCursor(l.FilterCursorPos() - 1)
}

// MoveFilterCursorRuneForward moves the caret one rune right.
func (l *Level) MoveFilterCursorRuneForward() bool {
	return l.moveFilterCursor(l.FilterCursorPos() + 1)
}

func (l *Level) moveFilterCursor(target int) bool {
	target = min(max(target, 0), len([]rune(l.Filter)))
	if target == l.FilterCursorPos() {
		return false
	}
	l.FilterCursor = target
	return true
}

func wordStart(runes []rune, pos int) int {
	i := pos
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	return i
}

// FilterItems returns the routes whose title fuzzily matches query. When the
// fuzzy pass finds nothing, a substring match on title, path and name is
// tried instead.
func FilterItems(items []router.Route, query string) []router.Route {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return CloneItems(items)
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, titles(items))
	if len(ranks) > 0 {
		matches := make(map[int]struct{}, len(ranks))
		for _, rank := range ranks {
			matches[rank.OriginalIndex] = struct{}{}
		}
		filtered := make([]router.Route, 0, len(matches))
		for idx, item := range items {
			if _, ok := matches[idx]; ok {
				filtered = append(filtered, item)
			}
		}
		return filtered
	}
	lower := strings.ToLower(trimmed)
	filtered := make([]router.Route, 0, len(items))
	for _, item := range items {
		if containsFold(item.Title, lower) || containsFold(item.Path, lower) || containsFold(item.Name, lower) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// BestMatchIndex ranks exact matches first, then prefixes, then substrings,
// then the closest fuzzy match.
func BestMatchIndex(items []router.Route, query string) int {
	if len(items) == 0 {
		return -1
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)
	passes := []func(router.Route) bool{
		func(r router.Route) bool {
			return strings.EqualFold(r.Title, trimmed) || strings.EqualFold(r.Name, trimmed) || strings.EqualFold(r.Path, trimmed)
		},
		func(r router.Route) bool { return strings.HasPrefix(strings.ToLower(r.Title), lower) },
		func(r router.Route) bool { return strings.HasPrefix(strings.ToLower(r.Name), lower) },
		func(r router.Route) bool { return containsFold(r.Title, lower) || containsFold(r.Name, lower) },
	}
	for _, match := range passes {
		for i, item := range items {
			if match(item) {
				return i
			}
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, titles(items))
	if len(ranks) == 0 {
		return 0
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance ||
			(rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex) {
			best = rank
		}
	}
	if best.OriginalIndex < 0 || best.OriginalIndex >= len(items) {
		return 0
	}
	return best.OriginalIndex
}

func titles(items []router.Route) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}

func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}
