package devapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/solar-dashboard/internal/api"
	"github.com/atomicstack/solar-dashboard/internal/logging"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "devapi-test")
	if err != nil {
		panic(err)
	}
	logging.Configure(filepath.Join(dir, "devapi.log"))
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

func newClient(t *testing.T, opts Options) *api.Client {
	t.Helper()
	srv := httptest.NewServer(NewRouter(opts))
	t.Cleanup(srv.Close)
	client, err := api.NewClient(api.Options{BaseURL: srv.URL + Prefix, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func serve(method, path, body string, header http.Header) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}
	NewRouter(Options{}).ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body["error"]
}

func TestHealthThroughClient(t *testing.T) {
	client := newClient(t, Options{})
	resp, err := client.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if resp.Status != api.StatusHealthy || resp.Message == "" {
		t.Fatalf("unexpected health %#v", resp)
	}
}

func TestUnhealthyOption(t *testing.T) {
	client := newClient(t, Options{Unhealthy: true})
	resp, err := client.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if resp.Status != "degraded" {
		t.Fatalf("expected degraded status, got %q", resp.Status)
	}
}

func TestChatThroughClient(t *testing.T) {
	client := newClient(t, Options{})
	reply, err := client.AIChat(context.Background(), "What tax credit do I get?")
	if err != nil {
		t.Fatalf("AIChat: %v", err)
	}
	if reply.Title != "Tax credit estimate" || reply.Savings != "$5,300" {
		t.Fatalf("unexpected reply %#v", reply)
	}
	if reply.TableData == nil {
		t.Fatalf("expected table data")
	}
	if !reflect.DeepEqual(reply.TableData.Headers, []string{"Year", "Credit"}) {
		t.Fatalf("unexpected headers %v", reply.TableData.Headers)
	}
	if len(reply.TableData.Rows) != 2 || !reply.TableData.Rows[1].Highlight {
		t.Fatalf("unexpected rows %#v", reply.TableData.Rows)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	client := newClient(t, Options{})
	_, err := client.AIChat(context.Background(), "   ")
	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected status error, got %v", err)
	}
	if statusErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", statusErr.StatusCode)
	}
	if !strings.Contains(string(statusErr.Body), "message is required") {
		t.Fatalf("unexpected body %q", statusErr.Body)
	}
}

func TestChatRejectsInvalidBody(t *testing.T) {
	rec := serve(http.MethodPost, Prefix+api.PathAIChat, "{", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := errorBody(t, rec); got != "invalid request body" {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestWrongMethodIsRejected(t *testing.T) {
	rec := serve(http.MethodGet, Prefix+api.PathAIChat, "", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if got := errorBody(t, rec); got != "method not allowed" {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestUnknownPathIsNotFound(t *testing.T) {
	rec := serve(http.MethodGet, "/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := errorBody(t, rec); got != "not found" {
		t.Fatalf("unexpected error %q", got)
	}
}

func TestRequestIDEchoedOrAssigned(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"matched route", http.MethodGet, Prefix + api.PathHealth, http.StatusOK},
		{"method not allowed", http.MethodGet, Prefix + api.PathAIChat, http.StatusMethodNotAllowed},
		{"not found", http.MethodGet, Prefix + "/nope/", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(tc.method, tc.path, "", http.Header{api.HeaderRequestID: {"abc-123"}})
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			if got := rec.Header().Get(api.HeaderRequestID); got != "abc-123" {
				t.Fatalf("expected echoed request id, got %q", got)
			}

			rec = serve(tc.method, tc.path, "", nil)
			if rec.Header().Get(api.HeaderRequestID) == "" {
				t.Fatalf("expected an assigned request id")
			}
		})
	}
}

func TestDelayHonoursCancellation(t *testing.T) {
	client := newClient(t, Options{Delay: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := client.AIChat(ctx, "hello"); err == nil {
		t.Fatalf("expected cancelled request to fail")
	}
}

func TestCannedReplies(t *testing.T) {
	battery := CannedReply("How do I set up a battery?")
	if battery.MessageType != "guide" || len(battery.HowItWorks) != 2 || battery.HowToSetup == "" {
		t.Fatalf("unexpected battery reply %#v", battery)
	}

	other := CannedReply("hello")
	if other.MessageType != "text" || !strings.Contains(other.Response, "hello") {
		t.Fatalf("unexpected default reply %#v", other)
	}
	if other.TableData != nil {
		t.Fatalf("expected no table data, got %#v", other.TableData)
	}
}
