package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atomicstack/solar-dashboard/internal/api"
	"github.com/atomicstack/solar-dashboard/internal/logging"
	"github.com/atomicstack/solar-dashboard/internal/logging/events"
	"github.com/atomicstack/solar-dashboard/internal/ui/command"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var errNoClient = errors.New("API client unavailable")

// chatEntry is one exchange in the assistant transcript. reply stays nil
// until the API answers.
type chatEntry struct {
	message string
	reply   *api.AIChatResponse
	err     string
}

type chatResultMsg struct {
	message string
	reply   api.AIChatResponse
	err     error
}

func (m *Model) handleChatKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return m.closeAIPanel()
	case "enter":
		return m.submitChat()
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	return cmd
}

func (m *Model) submitChat() tea.Cmd {
	if m.store.IsLoading() {
		return nil
	}
	message := strings.TrimSpace(m.chatInput.Value())
	if message == "" {
		return nil
	}
	m.chatInput.Reset()
	m.errMsg = ""
	m.transcript = append(m.transcript, chatEntry{message: message})
	events.Chat.Submit(message)
	if m.client == nil {
		m.failLastEntry(errNoClient)
		return nil
	}
	m.store.SetLoading(true)
	client := m.client
	chatCmd := m.bus.Execute(command.Request{
		ID:    "ai:chat",
		Label: message,
		Run: func(ctx context.Context) tea.Msg {
			reply, err := client.AIChat(ctx, message)
			return chatResultMsg{message: message, reply: reply, err: err}
		},
	})
	return tea.Batch(chatCmd, m.spinner.Tick)
}

func (m *Model) handleChatResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(chatResultMsg)
	if !ok {
		return nil
	}
	m.store.SetLoading(false)
	if result.err != nil {
		m.failLastEntry(result.err)
		return nil
	}
	reply := result.reply
	if n := len(m.transcript); n > 0 && m.transcript[n-1].message == result.message {
		m.transcript[n-1].reply = &reply
	} else {
		m.transcript = append(m.transcript, chatEntry{message: result.message, reply: &reply})
	}
	events.Chat.Reply(reply.MessageType)
	return nil
}

func (m *Model) failLastEntry(err error) {
	events.Chat.Error(err)
	if errors.Is(err, errNoClient) {
		logging.Error(err)
	}
	m.errMsg = fmt.Sprintf("Assistant request failed: %v", err)
	if n := len(m.transcript); n > 0 {
		m.transcript[n-1].err = err.Error()
	}
}

func (m *Model) handleSpinnerTickMsg(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(spinner.TickMsg)
	if !ok {
		return nil
	}
	if !m.store.IsLoading() {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(tick)
	return cmd
}
