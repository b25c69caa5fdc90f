package ui

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/atomicstack/solar-dashboard/internal/api"
	"github.com/atomicstack/solar-dashboard/internal/backend"
	"github.com/atomicstack/solar-dashboard/internal/data/dispatcher"
	"github.com/atomicstack/solar-dashboard/internal/logging/events"
	"github.com/atomicstack/solar-dashboard/internal/router"
	"github.com/atomicstack/solar-dashboard/internal/state"
	"github.com/atomicstack/solar-dashboard/internal/theme"
	"github.com/atomicstack/solar-dashboard/internal/ui/command"
	uistate "github.com/atomicstack/solar-dashboard/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type level = uistate.Level

type Mode int

const (
	ModeNavigate Mode = iota
	ModeChat
)

const (
	headerSeparator = "→"
	appTitle        = "solar dashboard"
	sidebarID       = "sidebar"
)

var styles = theme.Default()

// API is the slice of the HTTP client the UI calls.
type API interface {
	HealthCheck(ctx context.Context) (api.HealthResponse, error)
	AIChat(ctx context.Context, message string) (api.AIChatResponse, error)
}

// Options configures a Model.
type Options struct {
	Router       *router.Router
	Store        state.AppStore
	Client       API
	Watcher      *backend.Watcher
	InitialRoute string
	Width        int
	Height       int
	ShowFooter   bool
	Context      context.Context
}

type msgHandler func(tea.Msg) tea.Cmd

// Model implements the Bubble Tea model for the dashboard shell.
type Model struct {
	sidebar     *level
	history     *router.History
	router      *router.Router
	views       map[string]viewRenderer
	errMsg      string
	infoMsg     string
	infoExpire  time.Time
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	mode        Mode

	store       state.AppStore
	storeCh     <-chan state.Snapshot
	unsubscribe func()
	client      API
	backend     *backend.Watcher
	dispatcher  *dispatcher.Dispatcher
	bus         *command.Bus

	chatInput  textinput.Model
	spinner    spinner.Model
	transcript []chatEntry
	backendErr string

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the UI with the route table, the store and the API
// client. A nil router or store falls back to the defaults.
func NewModel(opts Options) *Model {
	rt := opts.Router
	if rt == nil {
		rt = router.Default()
	}
	store := opts.Store
	if store == nil {
		store = state.NewAppStore()
	}
	m := &Model{
		sidebar:    uistate.NewLevel(sidebarID, "Navigation", rt.Routes()),
		history:    router.NewHistory(rt.Root()),
		router:     rt,
		views:      defaultViews(),
		showFooter: opts.ShowFooter,
		mode:       ModeNavigate,
		store:      store,
		client:     opts.Client,
		backend:    opts.Watcher,
		dispatcher: dispatcher.New(store),
		bus:        command.New(opts.Context),
		chatInput:  newChatInput(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	if styles.Loading != nil {
		m.spinner.Style = *styles.Loading
	}
	m.storeCh, m.unsubscribe = store.Subscribe()
	if missing := m.missingViews(); len(missing) > 0 {
		m.errMsg = fmt.Sprintf("No view registered for %s", strings.Join(missing, ", "))
	}
	m.applyInitialRoute(opts.InitialRoute)
	m.syncSidebarToRoute()
	if store.IsAIPanelOpen() {
		m.mode = ModeChat
		m.chatInput.Focus()
	}
	m.registerHandlers()
	return m
}

func newChatInput() textinput.Model {
	input := textinput.New()
	input.Placeholder = "Ask the solar assistant…"
	input.Prompt = "? "
	input.CharLimit = 2000
	input.Cursor.SetMode(cursor.CursorStatic)
	if styles.FilterPrompt != nil {
		input.PromptStyle = *styles.FilterPrompt
	}
	if styles.FilterPlaceholder != nil {
		input.PlaceholderStyle = *styles.FilterPlaceholder
	}
	return input
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForStoreSnapshot(m.storeCh)}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	} else if m.client != nil {
		cmds = append(cmds, m.healthCheckCmd())
	}
	return tea.Batch(cmds...)
}

// Close releases the store subscription.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	if m.mode == ModeChat {
		var cmd tea.Cmd
		m.chatInput, cmd = m.chatInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
		reflect.TypeOf(storeSnapshotMsg{}):  m.handleStoreSnapshotMsg,
		reflect.TypeOf(chatResultMsg{}):     m.handleChatResultMsg,
		reflect.TypeOf(spinner.TickMsg{}):   m.handleSpinnerTickMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// CurrentRoute returns the route the main pane is showing.
func (m *Model) CurrentRoute() router.Route {
	return m.history.Current()
}

// Store exposes the app store backing the UI flags.
func (m *Model) Store() state.AppStore {
	return m.store
}

func (m *Model) missingViews() []string {
	var missing []string
	seen := make(map[string]struct{})
	for _, route := range m.router.Routes() {
		if _, ok := m.views[route.Component]; ok {
			continue
		}
		if _, dup := seen[route.Component]; dup {
			continue
		}
		seen[route.Component] = struct{}{}
		missing = append(missing, route.Component)
	}
	return missing
}

func (m *Model) applyInitialRoute(requested string) {
	trimmed := strings.TrimSpace(requested)
	if trimmed == "" {
		return
	}
	route, ok := m.router.Resolve(trimmed)
	if !ok {
		route, ok = m.router.ByName(trimmed)
	}
	if !ok {
		events.Route.Unknown(trimmed)
		m.errMsg = fmt.Sprintf("Unknown route %q", trimmed)
		return
	}
	m.history.Replace(route)
}
