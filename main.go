package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/atomicstack/solar-dashboard/internal/app"
	"github.com/atomicstack/solar-dashboard/internal/config"
	"github.com/atomicstack/solar-dashboard/internal/logging"
	"github.com/atomicstack/solar-dashboard/internal/logging/events"
	"golang.org/x/term"
)

const redactedToken = "********"

var errNoTerminal = errors.New("no interactive terminal on stdin/stdout")

func main() {
	os.Exit(run())
}

func run() int {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 2
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	tty := collectTTYDetails()
	if logging.TraceEnabled() {
		events.App.Start(startupTracePayload(runtimeCfg, tty))
	}

	if err := requireTerminal(tty); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := app.Run(runtimeCfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// startupTracePayload bundles runtime context for trace logging. The API
// token never reaches the log.
func startupTracePayload(cfg config.Config, tty ttyDetails) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath

	redacted := cfg
	if redacted.App.APIToken != "" {
		redacted.App.APIToken = redactedToken
	}
	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": redacted,
		"tty":    tty,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	return payload
}

type ttyDetails struct {
	Detected    *ttyDetected    `json:"detected,omitempty"`
	Descriptors []ttyDescriptor `json:"descriptors"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyDescriptor struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (d ttyDetails) lookup(name string) (ttyDescriptor, bool) {
	for _, p := range d.Descriptors {
		if p.Name == name {
			return p, true
		}
	}
	return ttyDescriptor{}, false
}

// requireTerminal fails when the dashboard would have nowhere to read keys
// from or draw to.
func requireTerminal(d ttyDetails) error {
	in, _ := d.lookup("stdin")
	out, _ := d.lookup("stdout")
	if !in.IsTerminal || !out.IsTerminal {
		return errNoTerminal
	}
	return nil
}

type descriptor struct {
	name string
	fd   uintptr
}

func standardDescriptors() []descriptor {
	return []descriptor{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
}

func collectTTYDetails() ttyDetails {
	return inspectDescriptors(standardDescriptors())
}

// inspectDescriptors inspects each descriptor for terminal support and size.
func inspectDescriptors(descs []descriptor) ttyDetails {
	results := make([]ttyDescriptor, 0, len(descs))
	var detected *ttyDetected
	for _, d := range descs {
		entry := ttyDescriptor{Name: d.name}
		fd := int(d.fd)
		if fd >= 0 && term.IsTerminal(fd) {
			entry.IsTerminal = true
			if width, height, err := term.GetSize(fd); err == nil {
				entry.Width = width
				entry.Height = height
				if detected == nil {
					detected = &ttyDetected{Source: d.name, Width: width, Height: height}
				}
			} else {
				entry.Error = err.Error()
			}
		}
		results = append(results, entry)
	}
	return ttyDetails{Detected: detected, Descriptors: results}
}
