package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/atomicstack/solar-dashboard/internal/logging"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "api-test")
	if err != nil {
		panic(err)
	}
	logging.Configure(filepath.Join(dir, "api.log"))
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   string
}

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (r *recorder) add(req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	r.requests = append(r.requests, recordedRequest{
		Method: req.Method,
		Path:   req.URL.Path,
		Header: req.Header.Clone(),
		Body:   string(body),
	})
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func (r *recorder) last(t *testing.T) recordedRequest {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.requests) == 0 {
		t.Fatalf("no request recorded")
	}
	return r.requests[len(r.requests)-1]
}

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func mustClient(t *testing.T, opts Options) *Client {
	t.Helper()
	c, err := NewClient(opts)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

// captureLog points the shared log at a fresh file for the test and returns
// a func reading it back.
func captureLog(t *testing.T) func() string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "errors.log")
	prev := logging.Path()
	logging.Configure(path)
	t.Cleanup(func() { logging.Configure(prev) })
	return func() string {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("read log: %v", err)
		}
		return string(data)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := mustClient(t, Options{})
	if got := c.BaseURL(); got != DefaultBaseURL {
		t.Fatalf("expected base url %q, got %q", DefaultBaseURL, got)
	}
	if got := c.URL(PathHealth); got != "http://localhost:8000/api/health/" {
		t.Fatalf("unexpected health url %q", got)
	}
	if c.http.Jar == nil {
		t.Fatalf("expected a cookie jar for credentialed requests")
	}
}

func TestNewClientRejectsInvalidBaseURL(t *testing.T) {
	for _, base := range []string{"ftp://example.com", "localhost:8000", "http://"} {
		if _, err := NewClient(Options{BaseURL: base}); err == nil {
			t.Fatalf("expected error for base url %q", base)
		}
	}
}

func TestHealthCheckUsesBaseURLAndJSONHeaders(t *testing.T) {
	srv, rec := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":"healthy","message":"Django API is running!"}`)
	})
	c := mustClient(t, Options{BaseURL: srv.URL + "/api/"})

	health, err := c.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if health.Status != "healthy" || health.Message != "Django API is running!" {
		t.Fatalf("unexpected health %#v", health)
	}

	req := rec.last(t)
	if req.Method != http.MethodGet || req.Path != "/api/health/" {
		t.Fatalf("unexpected request %s %s", req.Method, req.Path)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected JSON content type, got %q", got)
	}
	if got := req.Header.Get("Accept"); got != "application/json" {
		t.Fatalf("expected JSON accept header, got %q", got)
	}
	if req.Header.Get(HeaderRequestID) == "" {
		t.Fatalf("expected a request id")
	}
	if got := req.Header.Get(HeaderAuthorization); got != "" {
		t.Fatalf("expected no authorization header, got %q", got)
	}
}

func TestHealthCheckAcceptsPlainTextBody(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "OK\n")
	})
	c := mustClient(t, Options{BaseURL: srv.URL})

	health, err := c.HealthCheck(context.Background())
	if err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if health.Status != StatusHealthy || health.Message != "OK" {
		t.Fatalf("unexpected health %#v", health)
	}
}

func TestAIChatPostsMessage(t *testing.T) {
	srv, rec := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(AIChatResponse{
			Response:    "Here is your estimate.",
			MessageType: "table",
			Title:       "Savings",
			Actions:     []string{"Start planning"},
			TableData: &TableData{
				Headers: []string{"Year", "Savings"},
				Rows: []TableRow{
					{Label: "2026", Values: []string{"$1,200"}},
					{Label: "2027", Values: []string{"$1,400"}, Highlight: true},
				},
			},
		})
	})
	c := mustClient(t, Options{BaseURL: srv.URL + "/api", Token: "secret"})

	reply, err := c.AIChat(context.Background(), "how much will I save?")
	if err != nil {
		t.Fatalf("AIChat: %v", err)
	}
	if reply.Response != "Here is your estimate." || reply.MessageType != "table" {
		t.Fatalf("unexpected reply %#v", reply)
	}
	if reply.TableData == nil || len(reply.TableData.Rows) != 2 || !reply.TableData.Rows[1].Highlight {
		t.Fatalf("unexpected table data %#v", reply.TableData)
	}

	req := rec.last(t)
	if req.Method != http.MethodPost || req.Path != "/api/ai/chat/" {
		t.Fatalf("unexpected request %s %s", req.Method, req.Path)
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(req.Body), &body); err != nil {
		t.Fatalf("decode request body %q: %v", req.Body, err)
	}
	if !reflect.DeepEqual(body, map[string]string{"message": "how much will I save?"}) {
		t.Fatalf("unexpected request body %#v", body)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected JSON content type, got %q", got)
	}
	if got := req.Header.Get(HeaderAuthorization); got != "Bearer secret" {
		t.Fatalf("expected bearer token, got %q", got)
	}
}

func TestNon2xxIsStatusError(t *testing.T) {
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"boom"}`)
	})
	c := mustClient(t, Options{BaseURL: srv.URL})

	_, err := c.AIChat(context.Background(), "hi")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T (%v)", err, err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", statusErr.StatusCode)
	}
	if string(statusErr.Body) != `{"error":"boom"}` {
		t.Fatalf("unexpected body %q", statusErr.Body)
	}
	if !strings.Contains(err.Error(), "status code 500") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

type failingTransport struct {
	err error
}

func (f failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, f.err
}

func TestTransportErrorPassesThroughUnchanged(t *testing.T) {
	sentinel := errors.New("connection refused")
	c := mustClient(t, Options{
		BaseURL:    "http://api.invalid",
		HTTPClient: &http.Client{Transport: failingTransport{err: sentinel}},
	})

	var seen error
	c.UseResponse(ResponseInterceptor{
		OnRejected: func(err error) error {
			seen = err
			return nil
		},
	})

	_, err := c.HealthCheck(context.Background())
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if seen != err {
		t.Fatalf("interceptor returning nil must keep the original error, saw %v returned %v", seen, err)
	}
}

func TestInterceptorsRunInRegistrationOrder(t *testing.T) {
	srv, rec := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	c := mustClient(t, Options{BaseURL: srv.URL})

	var order []string
	c.UseRequest(RequestInterceptor{OnFulfilled: func(req *http.Request) (*http.Request, error) {
		order = append(order, "req-1")
		req.Header.Set("X-Trace", "one")
		return req, nil
	}})
	c.UseRequest(RequestInterceptor{OnFulfilled: func(req *http.Request) (*http.Request, error) {
		order = append(order, "req-2")
		req.Header.Set("X-Trace", req.Header.Get("X-Trace")+",two")
		return nil, nil
	}})
	c.UseResponse(ResponseInterceptor{OnFulfilled: func(resp *Response) (*Response, error) {
		order = append(order, "resp-1")
		return resp, nil
	}})
	c.UseResponse(ResponseInterceptor{OnFulfilled: func(resp *Response) (*Response, error) {
		order = append(order, "resp-2")
		return resp, nil
	}})

	resp, err := c.Get(context.Background(), "/ping/", nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	want := []string{"req-1", "req-2", "resp-1", "resp-2"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("expected order %v, got %v", want, order)
	}
	if got := rec.last(t).Header.Get("X-Trace"); got != "one,two" {
		t.Fatalf("expected X-Trace one,two, got %q", got)
	}
}

func TestRequestInterceptorErrorSkipsDispatch(t *testing.T) {
	srv, rec := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	c := mustClient(t, Options{BaseURL: srv.URL})

	blocked := errors.New("blocked")
	c.UseRequest(RequestInterceptor{OnFulfilled: func(*http.Request) (*http.Request, error) {
		return nil, blocked
	}})
	var rejected []error
	c.UseResponse(ResponseInterceptor{OnRejected: func(err error) error {
		rejected = append(rejected, err)
		return nil
	}})

	_, err := c.Get(context.Background(), "/health/", nil)
	if !errors.Is(err, blocked) {
		t.Fatalf("expected blocked error, got %v", err)
	}
	if len(rejected) != 1 || rejected[0] != blocked {
		t.Fatalf("expected response chain to see the blocked error once, got %v", rejected)
	}
	if n := rec.count(); n != 0 {
		t.Fatalf("expected no request dispatched, got %d", n)
	}
}

func TestDefaultResponseInterceptorLogsErrors(t *testing.T) {
	readLog := captureLog(t)

	c := mustClient(t, Options{
		BaseURL:    "http://api.invalid",
		HTTPClient: &http.Client{Transport: failingTransport{err: errors.New("dial failed")}},
	})
	if _, err := c.HealthCheck(context.Background()); err == nil {
		t.Fatalf("expected transport error")
	}

	data := readLog()
	if !strings.Contains(data, "API Error:") || !strings.Contains(data, "dial failed") {
		t.Fatalf("expected logged API error, log was %q", data)
	}
}

func TestDecodeFailureIsLoggedAndRejected(t *testing.T) {
	readLog := captureLog(t)
	srv, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>maintenance</html>")
	})
	c := mustClient(t, Options{BaseURL: srv.URL})

	var rejected error
	c.UseResponse(ResponseInterceptor{OnRejected: func(err error) error {
		rejected = err
		return nil
	}})

	_, err := c.AIChat(context.Background(), "hello")
	if err == nil || !strings.Contains(err.Error(), "decode POST") {
		t.Fatalf("expected decode error, got %v", err)
	}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected wrapped *json.SyntaxError, got %T", err)
	}
	if rejected != err {
		t.Fatalf("expected response interceptors to see the decode error, got %v", rejected)
	}
	if data := readLog(); !strings.Contains(data, "API Error:") || !strings.Contains(data, "decode POST") {
		t.Fatalf("expected decode failure in log, log was %q", data)
	}
}

func TestCookiesAreSentBack(t *testing.T) {
	srv, rec := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/health/" {
			http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "abc", Path: "/"})
		}
		_, _ = io.WriteString(w, `{"status":"healthy"}`)
	})
	c := mustClient(t, Options{BaseURL: srv.URL + "/api"})

	if _, err := c.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
	if _, err := c.AIChat(context.Background(), "hello"); err != nil {
		t.Fatalf("AIChat: %v", err)
	}
	if cookie := rec.last(t).Header.Get("Cookie"); !strings.Contains(cookie, "sessionid=abc") {
		t.Fatalf("expected session cookie sent back, got %q", cookie)
	}
}
