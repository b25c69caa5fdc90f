package ui

import (
	"unicode"

	"github.com/atomicstack/solar-dashboard/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// handleTextInput edits the sidebar filter. It reports whether the key was
// consumed.
func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	current := m.sidebar
	switch msg.String() {
	case "ctrl+u":
		if current.Filter == "" {
			return false
		}
		current.SetFilter("", 0)
		m.forceClearInfo()
		events.Filter.Cleared(current.ID)
		m.syncViewport(current)
		return true
	case "ctrl+w":
		if !current.DeleteFilterWordBackward() {
			return false
		}
		m.forceClearInfo()
		events.Filter.WordBackspace(current.ID, current.Filter)
		m.syncViewport(current)
		return true
	case "ctrl+a":
		if !current.MoveFilterCursorStart() {
			return false
		}
		events.Filter.Cursor(current.ID, current.FilterCursor)
		return true
	case "ctrl+e":
		if !current.MoveFilterCursorEnd() {
			return false
		}
		events.Filter.Cursor(current.ID, current.FilterCursor)
		return true
	case "alt+b":
		if !current.MoveFilterCursorWordBackward() {
			return false
		}
		events.Filter.CursorWord(current.ID, current.FilterCursor)
		return true
	case "alt+f":
		if !current.MoveFilterCursorWordForward() {
			return false
		}
		events.Filter.CursorWord(current.ID, current.FilterCursor)
		return true
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		return m.removeFilterRune()
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) || unicode.IsSpace(r) {
				return false
			}
		}
		return m.appendToFilter(string(msg.Runes))
	case tea.KeySpace:
		return m.appendToFilter(" ")
	case tea.KeyLeft:
		if !current.MoveFilterCursorRuneBackward() {
			return false
		}
		events.Filter.Cursor(current.ID, current.FilterCursor)
		return true
	case tea.KeyRight:
		if !current.MoveFilterCursorRuneForward() {
			return false
		}
		events.Filter.Cursor(current.ID, current.FilterCursor)
		return true
	}
	return false
}

func (m *Model) appendToFilter(text string) bool {
	if text == "" {
		return false
	}
	current := m.sidebar
	if !current.InsertFilterText(text) {
		return false
	}
	m.forceClearInfo()
	events.Filter.Append(current.ID, current.Filter)
	m.syncViewport(current)
	return true
}

func (m *Model) removeFilterRune() bool {
	current := m.sidebar
	if !current.DeleteFilterRuneBackward() {
		return false
	}
	m.forceClearInfo()
	events.Filter.Backspace(current.ID, current.Filter)
	m.syncViewport(current)
	return true
}

// filterPrompt renders the sidebar filter with a static block caret.
func (m *Model) filterPrompt() string {
	current := m.sidebar
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	prompt := "» "
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	text := current.Filter
	if text == "" {
		runes := []rune("(type to filter pages)")
		return prompt + renderFilterCaret(string(runes[0])) + render(styles.FilterPlaceholder, string(runes[1:]))
	}
	runes := []rune(text)
	pos := current.FilterCursorPos()
	before := render(styles.Filter, string(runes[:pos]))
	caretRune := " "
	after := ""
	if pos < len(runes) {
		caretRune = string(runes[pos])
		after = render(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + before + renderFilterCaret(caretRune) + after
}

func renderFilterCaret(char string) string {
	if char == "" {
		char = " "
	}
	if styles.Cursor != nil {
		return styles.Cursor.Copy().Inline(true).Render(char)
	}
	return lipgloss.NewStyle().Reverse(true).Render(char)
}
