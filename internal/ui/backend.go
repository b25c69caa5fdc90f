package ui

import (
	"context"

	"github.com/atomicstack/solar-dashboard/internal/backend"
	"github.com/atomicstack/solar-dashboard/internal/state"
	"github.com/atomicstack/solar-dashboard/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt, fromWatcher: true}
	}
}

func waitForStoreSnapshot(ch <-chan state.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		return storeSnapshotMsg{snapshot: snap, closed: !ok}
	}
}

// backendEventMsg carries one health result. Results read from the watcher
// re-arm the watcher subscription; one-off checks do not.
type backendEventMsg struct {
	event       backend.Event
	fromWatcher bool
}

type backendDoneMsg struct{}

type storeSnapshotMsg struct {
	snapshot state.Snapshot
	closed   bool
}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	m.applyBackendEvent(eventMsg.event)
	if eventMsg.fromWatcher && m.backend != nil {
		return waitForBackendEvent(m.backend)
	}
	return nil
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

func (m *Model) applyBackendEvent(evt backend.Event) {
	res := m.dispatcher.Handle(evt)
	if res.Err != nil {
		m.backendErr = res.Err.Error()
		return
	}
	if res.StatusUpdated {
		m.backendErr = ""
	}
}

// handleStoreSnapshotMsg keeps the panel focus in step with the store, which
// other goroutines may write to, and re-arms the subscription.
func (m *Model) handleStoreSnapshotMsg(msg tea.Msg) tea.Cmd {
	snapMsg, ok := msg.(storeSnapshotMsg)
	if !ok {
		return nil
	}
	if snapMsg.closed {
		m.storeCh = nil
		return nil
	}
	focusCmd := m.applyPanelState(snapMsg.snapshot.IsAIPanelOpen)
	return tea.Batch(focusCmd, waitForStoreSnapshot(m.storeCh))
}

// refreshHealth asks the watcher for an immediate poll, or runs a one-off
// check when no watcher is attached.
func (m *Model) refreshHealth() tea.Cmd {
	if m.backend != nil {
		m.backend.Refresh()
		m.setInfo("Checking API status…")
		return nil
	}
	if m.client == nil {
		return nil
	}
	m.setInfo("Checking API status…")
	return m.healthCheckCmd()
}

func (m *Model) healthCheckCmd() tea.Cmd {
	client := m.client
	return m.bus.Execute(command.Request{
		ID:    "api:health",
		Label: "health check",
		Run: func(ctx context.Context) tea.Msg {
			resp, err := client.HealthCheck(ctx)
			return backendEventMsg{event: backend.Event{Kind: backend.KindHealth, Data: resp, Err: err}}
		},
	})
}
