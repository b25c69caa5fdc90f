package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/solar-dashboard/internal/logging/events"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000/api"

const contentTypeJSON = "application/json"

// Options configures a Client.
type Options struct {
	// BaseURL prefixes every request path. Empty uses DefaultBaseURL.
	BaseURL string
	// Token, when set, is sent as a bearer Authorization header.
	Token string
	// Timeout bounds a whole request. Zero means no client-side timeout.
	Timeout time.Duration
	// HTTPClient overrides the transport. Its cookie jar and timeout are
	// used as-is.
	HTTPClient *http.Client
}

// Response is a fully read HTTP reply.
type Response struct {
	Method     string
	URL        string
	Status     string
	StatusCode int
	Header     http.Header
	Data       []byte
}

// StatusError reports a reply outside the 2xx range.
type StatusError struct {
	Method     string
	URL        string
	Status     string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: request failed with status code %d", e.Method, e.URL, e.StatusCode)
}

// Client is a JSON-over-HTTP client rooted at a base URL.
type Client struct {
	baseURL string
	http    *http.Client
	headers http.Header

	mu                   sync.RWMutex
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewClient builds a client with JSON default headers, a cookie jar and the
// default pass-through interceptors installed.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", base)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", base)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		httpClient = &http.Client{Jar: jar, Timeout: opts.Timeout}
	}

	headers := make(http.Header)
	headers.Set("Content-Type", contentTypeJSON)
	headers.Set("Accept", contentTypeJSON)

	c := &Client{
		baseURL: strings.TrimRight(base, "/"),
		http:    httpClient,
		headers: headers,
	}
	c.UseRequest(defaultRequestInterceptor(opts.Token))
	c.UseResponse(defaultResponseInterceptor())
	return c, nil
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL joins path onto the base URL, keeping any trailing slash on path.
func (c *Client) URL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Get issues a GET and decodes a JSON body into out when out is non-nil.
func (c *Client) Get(ctx context.Context, path string, out interface{}) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with body encoded as JSON and decodes the reply into out
// when out is non-nil.
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Do runs one request through the interceptor chains. Every error, whether
// from encoding, the transport, a non-2xx reply, an interceptor or decoding,
// is handed to the response interceptors before it is returned.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	target := c.URL(path)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return c.runResponseChain(nil, fmt.Errorf("encode %s %s body: %w", method, target, err))
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return c.runResponseChain(nil, err)
	}
	for key, values := range c.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	req, err = c.runRequestChain(req)
	if err != nil {
		return c.runResponseChain(nil, err)
	}

	events.API.Request(req.Method, req.URL.String(), req.Header.Get(HeaderRequestID))
	resp, err := c.send(req)
	if err != nil {
		events.API.Error(req.Method, req.URL.String(), err)
	}
	resp, err = c.runResponseChain(resp, err)
	if err != nil {
		return nil, err
	}

	if out != nil && len(bytes.TrimSpace(resp.Data)) > 0 {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			return c.runResponseChain(nil, fmt.Errorf("decode %s %s response: %w", resp.Method, resp.URL, err))
		}
	}
	return resp, nil
}

func (c *Client) send(req *http.Request) (*Response, error) {
	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	resp := &Response{
		Method:     req.Method,
		URL:        req.URL.String(),
		Status:     httpResp.Status,
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header.Clone(),
		Data:       data,
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, &StatusError{
			Method:     resp.Method,
			URL:        resp.URL,
			Status:     resp.Status,
			StatusCode: resp.StatusCode,
			Body:       data,
		}
	}
	return resp, nil
}
