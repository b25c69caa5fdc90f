package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/atomicstack/solar-dashboard/internal/api"
	"github.com/atomicstack/solar-dashboard/internal/logging"
	"github.com/atomicstack/solar-dashboard/internal/router"
	"github.com/atomicstack/solar-dashboard/internal/state"
	tea "github.com/charmbracelet/bubbletea"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "ui-test")
	if err != nil {
		panic(err)
	}
	logging.Configure(filepath.Join(dir, "ui.log"))
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

type fakeAPI struct {
	mu        sync.Mutex
	health    api.HealthResponse
	healthErr error
	reply     api.AIChatResponse
	chatErr   error
	messages  []string
	checks    int
}

func (f *fakeAPI) HealthCheck(ctx context.Context) (api.HealthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks++
	return f.health, f.healthErr
}

func (f *fakeAPI) AIChat(ctx context.Context, message string) (api.AIChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	return f.reply, f.chatErr
}

func newTestModel(t *testing.T, opts Options) *Model {
	t.Helper()
	if opts.Store == nil {
		opts.Store = state.NewAppStore()
	}
	m := NewModel(opts)
	t.Cleanup(m.Close)
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelStartsAtRoot(t *testing.T) {
	m := newTestModel(t, Options{})
	if got := m.CurrentRoute().Path; got != "/" {
		t.Fatalf("expected root route, got %q", got)
	}
	if m.sidebar.Cursor != 0 {
		t.Fatalf("expected sidebar cursor on first route, got %d", m.sidebar.Cursor)
	}
	if len(m.sidebar.Items) != len(router.DefaultRoutes()) {
		t.Fatalf("expected every route in the sidebar, got %d", len(m.sidebar.Items))
	}
	if m.errMsg != "" {
		t.Fatalf("expected no error, got %q", m.errMsg)
	}
	if m.mode != ModeNavigate {
		t.Fatalf("expected navigate mode")
	}
}

func TestInitialRouteOverride(t *testing.T) {
	m := newTestModel(t, Options{InitialRoute: "/settings/"})
	route := m.CurrentRoute()
	if route.Path != "/settings" {
		t.Fatalf("expected settings route, got %q", route.Path)
	}
	if got := m.sidebar.Items[m.sidebar.Cursor].Path; got != "/settings" {
		t.Fatalf("expected sidebar cursor on settings, got %q", got)
	}
	if header := m.header(); header != "solar dashboard → Settings" {
		t.Fatalf("unexpected header %q", header)
	}
}

func TestInitialRouteAcceptsName(t *testing.T) {
	m := newTestModel(t, Options{InitialRoute: "tax-calculators"})
	if got := m.CurrentRoute().Path; got != "/tax-calculators" {
		t.Fatalf("expected tax calculators route, got %q", got)
	}
}

func TestUnknownInitialRouteFallsBackToRoot(t *testing.T) {
	m := newTestModel(t, Options{InitialRoute: "/does-not-exist"})
	if got := m.CurrentRoute().Path; got != "/" {
		t.Fatalf("expected fallback to root, got %q", got)
	}
	if !strings.Contains(m.errMsg, "Unknown route") {
		t.Fatalf("expected unknown route error, got %q", m.errMsg)
	}
}

func TestMissingViewIsReported(t *testing.T) {
	rt, err := router.New([]router.Route{
		{Name: "home", Path: "/", Component: router.DashboardComponent},
		{Name: "reports", Path: "/reports", Component: "reports"},
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	m := newTestModel(t, Options{Router: rt})
	if !strings.Contains(m.errMsg, "No view registered for reports") {
		t.Fatalf("expected missing view error, got %q", m.errMsg)
	}
}

func TestStoreWithOpenPanelStartsInChatMode(t *testing.T) {
	store := state.NewAppStore()
	store.OpenAIPanel()
	m := newTestModel(t, Options{Store: store})
	if m.mode != ModeChat {
		t.Fatalf("expected chat mode when the panel starts open")
	}
	if !m.chatInput.Focused() {
		t.Fatalf("expected chat input focused")
	}
}

func TestCloseStopsSubscription(t *testing.T) {
	m := NewModel(Options{})
	ch := m.storeCh
	m.Close()
	if _, ok := <-ch; ok {
		t.Fatalf("expected subscription channel closed")
	}
	m.Close()
}

func TestStoreSnapshotSyncsPanelFocus(t *testing.T) {
	store := state.NewAppStore()
	m := newTestModel(t, Options{Store: store})

	store.OpenAIPanel()
	if cmd := m.handleStoreSnapshotMsg(storeSnapshotMsg{snapshot: store.Snapshot()}); cmd == nil {
		t.Fatalf("expected the subscription to be re-armed")
	}
	if m.mode != ModeChat {
		t.Fatalf("expected chat mode after external open")
	}

	store.CloseAIPanel()
	m.handleStoreSnapshotMsg(storeSnapshotMsg{snapshot: store.Snapshot()})
	if m.mode != ModeNavigate {
		t.Fatalf("expected navigate mode after external close")
	}

	if cmd := m.handleStoreSnapshotMsg(storeSnapshotMsg{closed: true}); cmd != nil {
		t.Fatalf("expected no command once the subscription closed")
	}
	if m.storeCh != nil {
		t.Fatalf("expected store channel dropped")
	}
}
