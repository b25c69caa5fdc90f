package ui

import (
	"github.com/atomicstack/solar-dashboard/internal/logging/events"
	"github.com/atomicstack/solar-dashboard/internal/router"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleEscapeKey() tea.Cmd {
	from := m.history.Current()
	route, ok := m.history.Back()
	if !ok {
		return tea.Quit
	}
	events.Route.Back(from.Path, route.Path)
	m.errMsg = ""
	m.forceClearInfo()
	m.syncSidebarToRoute()
	return nil
}

func (m *Model) handleEnterKey() tea.Cmd {
	current := m.sidebar
	route, ok := current.Selected()
	if !ok {
		return nil
	}
	events.UI.SidebarEnter(route.Path, route.Title, current.Filter)
	current.SetFilter("", 0)
	m.navigate(route)
	return nil
}

// navigate pushes route onto the history and points the sidebar at it.
func (m *Model) navigate(route router.Route) {
	from := m.history.Current()
	if m.history.Push(route) {
		events.Route.Navigate(from.Path, route.Path)
	}
	m.errMsg = ""
	m.forceClearInfo()
	m.syncSidebarToRoute()
}

func (m *Model) syncSidebarToRoute() {
	if idx := m.sidebar.IndexOf(m.history.Current().Path); idx >= 0 {
		m.sidebar.Cursor = idx
	}
	m.syncViewport(m.sidebar)
}

func (m *Model) moveCursorUp() {
	if m.sidebar.MoveCursorUp() {
		events.UI.SidebarCursor(m.sidebar.Cursor)
	}
	m.syncViewport(m.sidebar)
}

func (m *Model) moveCursorDown() {
	if m.sidebar.MoveCursorDown() {
		events.UI.SidebarCursor(m.sidebar.Cursor)
	}
	m.syncViewport(m.sidebar)
}

func (m *Model) moveCursorPageUp() {
	if m.sidebar.MoveCursorPageUp(m.maxVisibleItems()) {
		events.UI.SidebarCursor(m.sidebar.Cursor)
	}
	m.syncViewport(m.sidebar)
}

func (m *Model) moveCursorPageDown() {
	if m.sidebar.MoveCursorPageDown(m.maxVisibleItems()) {
		events.UI.SidebarCursor(m.sidebar.Cursor)
	}
	m.syncViewport(m.sidebar)
}

func (m *Model) moveCursorHome() {
	if m.sidebar.MoveCursorHome() {
		events.UI.SidebarCursor(m.sidebar.Cursor)
	}
	m.syncViewport(m.sidebar)
}

func (m *Model) moveCursorEnd() {
	if m.sidebar.MoveCursorEnd() {
		events.UI.SidebarCursor(m.sidebar.Cursor)
	}
	m.syncViewport(m.sidebar)
}

func (m *Model) syncViewport(l *level) {
	if l == nil {
		return
	}
	l.EnsureCursorVisible(m.maxVisibleItems())
}

// toggleAIPanel flips the panel flag in the store and moves focus to match.
func (m *Model) toggleAIPanel() tea.Cmd {
	m.store.ToggleAIPanel()
	return m.applyPanelState(m.store.IsAIPanelOpen())
}

func (m *Model) closeAIPanel() tea.Cmd {
	m.store.CloseAIPanel()
	return m.applyPanelState(false)
}

func (m *Model) applyPanelState(open bool) tea.Cmd {
	wasOpen := m.mode == ModeChat
	if open == wasOpen {
		return nil
	}
	events.UI.AIPanel(open)
	if !open {
		m.mode = ModeNavigate
		m.chatInput.Blur()
		return nil
	}
	m.mode = ModeChat
	return m.chatInput.Focus()
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "tab":
		return m.toggleAIPanel()
	case "ctrl+r":
		return m.refreshHealth()
	}
	if m.mode == ModeChat {
		return m.handleChatKey(keyMsg)
	}
	if m.handleTextInput(keyMsg) {
		return nil
	}
	switch keyMsg.String() {
	case "esc":
		return m.handleEscapeKey()
	case "enter":
		return m.handleEnterKey()
	case "up", "ctrl+p":
		m.moveCursorUp()
	case "down", "ctrl+n":
		m.moveCursorDown()
	case "pgup":
		m.moveCursorPageUp()
	case "pgdown":
		m.moveCursorPageDown()
	case "home":
		m.moveCursorHome()
	case "end":
		m.moveCursorEnd()
	}
	return nil
}
