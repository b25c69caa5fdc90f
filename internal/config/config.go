package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/solar-dashboard/internal/api"
	"github.com/atomicstack/solar-dashboard/internal/app"
	"github.com/joho/godotenv"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envAPIURL         = "SOLAR_DASHBOARD_API_URL"
	envViteAPIURL     = "VITE_API_URL"
	envAPIToken       = "SOLAR_DASHBOARD_API_TOKEN"
	envTimeout        = "SOLAR_DASHBOARD_TIMEOUT"
	envRoute          = "SOLAR_DASHBOARD_ROUTE"
	envHealthInterval = "SOLAR_DASHBOARD_HEALTH_INTERVAL"
	envWidth          = "SOLAR_DASHBOARD_WIDTH"
	envHeight         = "SOLAR_DASHBOARD_HEIGHT"
	envShowFooter     = "SOLAR_DASHBOARD_FOOTER"
	envTrace          = "SOLAR_DASHBOARD_TRACE"
	envLogFile        = "SOLAR_DASHBOARD_LOG_FILE"
	envEnvFile        = "SOLAR_DASHBOARD_ENV_FILE"
)

const defaultEnvFile = ".env"

// MinHealthInterval bounds how aggressively the health endpoint is polled.
const MinHealthInterval = time.Second

// Load parses configuration from CLI arguments, the process environment and
// an optional dotenv file. Process variables win over the file.
func Load() (Config, error) {
	environ := os.Environ()
	path := envOrDefault(parseEnv(environ), envEnvFile, defaultEnvFile)
	environ, err := WithDotEnv(environ, path)
	if err != nil {
		return Config{}, err
	}
	return LoadArgs(os.Args[1:], environ)
}

// WithDotEnv returns environ extended with the variables defined in path that
// environ does not already set. A missing file is not an error.
func WithDotEnv(environ []string, path string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return environ, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return environ, nil
		}
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	present := parseEnv(environ)
	keys := make([]string, 0, len(values))
	for key := range values {
		if _, ok := present[key]; !ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	merged := append([]string(nil), environ...)
	for _, key := range keys {
		merged = append(merged, key+"="+values[key])
	}
	return merged, nil
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("solar-dashboard", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	defaultURL := envOrDefault(env, envAPIURL, envOrDefault(env, envViteAPIURL, api.DefaultBaseURL))
	apiURL := fs.String("api-url", defaultURL, "base URL of the dashboard API")
	apiToken := fs.String("api-token", envOrDefault(env, envAPIToken, ""), "bearer token sent with every API request")
	timeout := fs.Duration("timeout", envOrDuration(env, envTimeout, 0), "per-request timeout (0 disables)")
	route := fs.String("route", envOrDefault(env, envRoute, ""), "initial route path or name")
	healthInterval := fs.Duration("health-interval", envOrDuration(env, envHealthInterval, app.DefaultHealthInterval), "how often to poll the API health endpoint")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	cfg := Config{
		App: app.Config{
			APIURL:         strings.TrimSpace(*apiURL),
			APIToken:       *apiToken,
			Timeout:        *timeout,
			InitialRoute:   strings.TrimSpace(*route),
			HealthInterval: *healthInterval,
			Width:          *width,
			Height:         *height,
			ShowFooter:     *footer,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Flags: map[string]string{
			"apiURL":         *apiURL,
			"apiToken":       redact(*apiToken),
			"timeout":        timeout.String(),
			"route":          *route,
			"healthInterval": healthInterval.String(),
			"width":          strconv.Itoa(*width),
			"height":         strconv.Itoa(*height),
			"footer":         strconv.FormatBool(*footer),
			"trace":          strconv.FormatBool(*trace),
			"logFile":        *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures the parsed configuration can start the application.
func Validate(cfg Config) error {
	if cfg.App.HealthInterval < MinHealthInterval {
		return fmt.Errorf("health interval must be >= %s (got %s)", MinHealthInterval, cfg.App.HealthInterval)
	}
	if cfg.App.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0 (got %s)", cfg.App.Timeout)
	}
	if cfg.App.APIURL != "" {
		parsed, err := url.Parse(cfg.App.APIURL)
		if err != nil {
			return fmt.Errorf("api url: %w", err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("api url %q: scheme must be http or https", cfg.App.APIURL)
		}
		if parsed.Host == "" {
			return fmt.Errorf("api url %q: missing host", cfg.App.APIURL)
		}
	}
	return nil
}
