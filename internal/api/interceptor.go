package api

import (
	"net/http"

	"github.com/atomicstack/solar-dashboard/internal/logging"
	"github.com/atomicstack/solar-dashboard/internal/logging/events"
	"github.com/google/uuid"
)

const (
	HeaderRequestID     = "X-Request-ID"
	HeaderAuthorization = "Authorization"
)

// RequestInterceptor runs before a request is sent. OnFulfilled may return a
// replacement request; returning nil keeps the current one. OnRejected sees
// errors raised by earlier interceptors and may replace them; returning nil
// keeps the original error.
type RequestInterceptor struct {
	OnFulfilled func(*http.Request) (*http.Request, error)
	OnRejected  func(error) error
}

// ResponseInterceptor runs after a reply has been read. OnRejected receives
// transport failures, non-2xx replies and request-chain errors.
type ResponseInterceptor struct {
	OnFulfilled func(*Response) (*Response, error)
	OnRejected  func(error) error
}

// UseRequest registers a request interceptor. Interceptors run in
// registration order.
func (c *Client) UseRequest(ic RequestInterceptor) {
	c.mu.Lock()
	c.requestInterceptors = append(c.requestInterceptors, ic)
	c.mu.Unlock()
}

// UseResponse registers a response interceptor. Interceptors run in
// registration order.
func (c *Client) UseResponse(ic ResponseInterceptor) {
	c.mu.Lock()
	c.responseInterceptors = append(c.responseInterceptors, ic)
	c.mu.Unlock()
}

func (c *Client) runRequestChain(req *http.Request) (*http.Request, error) {
	c.mu.RLock()
	chain := append([]RequestInterceptor(nil), c.requestInterceptors...)
	c.mu.RUnlock()

	var err error
	for _, ic := range chain {
		if err != nil {
			if ic.OnRejected != nil {
				if replaced := ic.OnRejected(err); replaced != nil {
					err = replaced
				}
			}
			continue
		}
		if ic.OnFulfilled == nil {
			continue
		}
		next, ferr := ic.OnFulfilled(req)
		if ferr != nil {
			err = ferr
			continue
		}
		if next != nil {
			req = next
		}
	}
	return req, err
}

func (c *Client) runResponseChain(resp *Response, err error) (*Response, error) {
	c.mu.RLock()
	chain := append([]ResponseInterceptor(nil), c.responseInterceptors...)
	c.mu.RUnlock()

	for _, ic := range chain {
		if err != nil {
			if ic.OnRejected != nil {
				if replaced := ic.OnRejected(err); replaced != nil {
					err = replaced
				}
			}
			continue
		}
		if ic.OnFulfilled == nil {
			continue
		}
		next, ferr := ic.OnFulfilled(resp)
		if ferr != nil {
			err = ferr
			continue
		}
		if next != nil {
			resp = next
		}
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// defaultRequestInterceptor tags each request with an id and, when a token is
// configured, a bearer Authorization header. Headers already set are kept.
func defaultRequestInterceptor(token string) RequestInterceptor {
	return RequestInterceptor{
		OnFulfilled: func(req *http.Request) (*http.Request, error) {
			if req.Header.Get(HeaderRequestID) == "" {
				req.Header.Set(HeaderRequestID, uuid.NewString())
			}
			if token != "" && req.Header.Get(HeaderAuthorization) == "" {
				req.Header.Set(HeaderAuthorization, "Bearer "+token)
			}
			return req, nil
		},
		OnRejected: func(err error) error {
			return err
		},
	}
}

// defaultResponseInterceptor passes replies through and logs every failure
// before handing it back unchanged.
func defaultResponseInterceptor() ResponseInterceptor {
	return ResponseInterceptor{
		OnFulfilled: func(resp *Response) (*Response, error) {
			events.API.Response(resp.Method, resp.URL, resp.StatusCode)
			return resp, nil
		},
		OnRejected: func(err error) error {
			logging.ErrorWithPrefix("API Error", err)
			return err
		},
	}
}
