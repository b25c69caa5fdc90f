// Package devapi serves a canned stand-in for the dashboard API so the
// terminal client can be exercised without the real backend.
package devapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/atomicstack/solar-dashboard/internal/api"
	"github.com/atomicstack/solar-dashboard/internal/logging"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Prefix is where the API routes are mounted, matching api.DefaultBaseURL.
const Prefix = "/api"

// Options tune the fake server.
type Options struct {
	// Delay is applied before every chat reply to make the client's loading
	// state visible.
	Delay time.Duration
	// Unhealthy makes the health endpoint report a degraded backend.
	Unhealthy bool
}

type server struct {
	opts Options
}

// NewRouter returns the routes of the development API.
func NewRouter(opts Options) *mux.Router {
	s := &server{opts: opts}
	r := mux.NewRouter()
	r.Use(requestID)
	// Middleware only runs on a match, so the fallbacks are wrapped too.
	r.NotFoundHandler = requestID(http.HandlerFunc(notFound))
	r.MethodNotAllowedHandler = requestID(http.HandlerFunc(methodNotAllowed))

	sub := r.PathPrefix(Prefix).Subrouter()
	sub.HandleFunc(api.PathHealth, s.health).Methods(http.MethodGet)
	sub.HandleFunc(api.PathAIChat, s.chat).Methods(http.MethodPost)
	return r
}

// requestID echoes the caller's request ID or assigns one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(api.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(api.HeaderRequestID, id)
		next.ServeHTTP(w, r)
	})
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{Status: api.StatusHealthy, Message: "development API is running"}
	if s.opts.Unhealthy {
		resp = api.HealthResponse{Status: "degraded", Message: "assistant backend unavailable"}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) chat(w http.ResponseWriter, r *http.Request) {
	var req api.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if s.opts.Delay > 0 {
		select {
		case <-time.After(s.opts.Delay):
		case <-r.Context().Done():
			return
		}
	}
	writeJSON(w, http.StatusOK, CannedReply(message))
}

// CannedReply picks a scripted answer based on keywords in message.
func CannedReply(message string) api.AIChatResponse {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "tax") || strings.Contains(lower, "credit"):
		return api.AIChatResponse{
			Response:    "Your installation qualifies for the residential clean energy credit.",
			MessageType: "tax",
			Title:       "Tax credit estimate",
			Subtitle:    "Based on a 6 kW system",
			TableData: &api.TableData{
				Headers: []string{"Year", "Credit"},
				Rows: []api.TableRow{
					{Label: "2026", Values: []string{"$4,200"}},
					{Label: "2027", Values: []string{"$1,100"}, Highlight: true},
				},
			},
			Actions: []string{"Upload your installer invoice", "Open the tax calculators page"},
			Savings: "$5,300",
		}
	case strings.Contains(lower, "battery") || strings.Contains(lower, "setup") || strings.Contains(lower, "install"):
		return api.AIChatResponse{
			Response:    "A home battery stores midday surplus for the evening peak.",
			MessageType: "guide",
			Title:       "Battery storage",
			HowItWorks: []string{
				"Panels charge the battery when production exceeds usage",
				"The inverter discharges it when tariffs rise",
			},
			HowToSetup: "Ask your installer to enable time-of-use mode on the inverter.",
			Savings:    "$38/month",
		}
	default:
		return api.AIChatResponse{
			Response:    "I can help with production, savings, tax credits and battery setup. You asked: " + message,
			MessageType: "text",
			Actions:     []string{"Ask about tax credits", "Ask about battery setup"},
		}
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.ErrorWithPrefix("devapi", err)
	}
}
