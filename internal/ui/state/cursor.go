package state

// MoveCursorUp moves the cursor one row up, wrapping to the bottom.
func (l *Level) MoveCursorUp() bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	if l.Cursor > 0 {
		l.Cursor--
	} else {
		l.Cursor = n - 1
	}
	return n > 1
}

// MoveCursorDown moves the cursor one row down, wrapping to the top.
func (l *Level) MoveCursorDown() bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	if l.Cursor < n-1 {
		l.Cursor++
	} else {
		l.Cursor = 0
	}
	return n > 1
}

// MoveCursorHome moves the cursor to the first route.
func (l *Level) MoveCursorHome() bool {
	return l.moveCursorTo(0)
}

// MoveCursorEnd moves the cursor to the last route.
func (l *Level) MoveCursorEnd() bool {
	return l.moveCursorTo(len(l.Items) - 1)
}

// MoveCursorPageUp moves the cursor up by one page of maxVisible rows.
func (l *Level) MoveCursorPageUp(maxVisible int) bool {
	return l.moveCursorTo(l.clampedCursor() - l.pageSize(maxVisible))
}

// MoveCursorPageDown moves the cursor down by one page of maxVisible rows.
func (l *Level) MoveCursorPageDown(maxVisible int) bool {
	return l.moveCursorTo(l.clampedCursor() + l.pageSize(maxVisible))
}

// moveCursorTo clamps target into range and reports whether the cursor moved.
func (l *Level) moveCursorTo(target int) bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	if target < 0 {
		target = 0
	}
	if target > n-1 {
		target = n - 1
	}
	old := l.Cursor
	l.Cursor = target
	return old != target
}

func (l *Level) clampedCursor() int {
	if l.Cursor < 0 {
		return 0
	}
	return l.Cursor
}

// pageSize falls back to the whole list when maxVisible is unknown.
func (l *Level) pageSize(maxVisible int) int {
	total := len(l.Items)
	if maxVisible <= 0 || maxVisible > total {
		return total
	}
	return maxVisible
}

// EnsureCursorVisible adjusts the viewport offset so the cursor stays visible.
func (l *Level) EnsureCursorVisible(maxVisible int) {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = min(max(l.Cursor, 0), n-1)
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	maxOffset := max(n-maxVisible, 0)
	offset := min(max(l.ViewportOffset, 0), maxOffset)
	switch {
	case l.Cursor < offset:
		offset = l.Cursor
	case l.Cursor > offset+maxVisible-1:
		offset = min(max(l.Cursor-maxVisible+1, 0), maxOffset)
	}
	l.ViewportOffset = offset
}
