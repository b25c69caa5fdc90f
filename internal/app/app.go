package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/solar-dashboard/internal/api"
	"github.com/atomicstack/solar-dashboard/internal/backend"
	"github.com/atomicstack/solar-dashboard/internal/logging/events"
	"github.com/atomicstack/solar-dashboard/internal/router"
	"github.com/atomicstack/solar-dashboard/internal/state"
	"github.com/atomicstack/solar-dashboard/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultHealthInterval is how often the API health endpoint is polled.
const DefaultHealthInterval = 15 * time.Second

// Config describes user-provided application options.
type Config struct {
	APIURL         string
	APIToken       string
	Timeout        time.Duration
	InitialRoute   string
	HealthInterval time.Duration
	Width          int
	Height         int
	ShowFooter     bool
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	client, err := api.NewClient(api.Options{
		BaseURL: cfg.APIURL,
		Token:   cfg.APIToken,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return fmt.Errorf("create api client: %w", err)
	}

	interval := cfg.HealthInterval
	if interval <= 0 {
		interval = DefaultHealthInterval
	}
	watcher := backend.NewWatcher(client, interval)
	defer watcher.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := ui.NewModel(ui.Options{
		Router:       router.Default(),
		Store:        state.NewAppStore(),
		Client:       client,
		Watcher:      watcher,
		InitialRoute: cfg.InitialRoute,
		Width:        cfg.Width,
		Height:       cfg.Height,
		ShowFooter:   cfg.ShowFooter,
		Context:      ctx,
	})
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	events.App.Exit(err)
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
