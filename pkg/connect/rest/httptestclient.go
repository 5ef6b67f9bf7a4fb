package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// TestTransport is a Transport that serves requests directly to an
// http.Handler using httptest.NewRecorder, without network calls. It records
// every submitted request and counts Init calls so tests can assert on
// dispatch behavior and on lazy one-time initialization.
type TestTransport struct {
	// Handler receives every submitted request. Tests typically use a
	// small http.HandlerFunc with canned responses, or a full fake
	// worker router.
	Handler http.Handler

	mu        sync.Mutex
	config    Configurator
	initCalls int
	requests  []Request
}

// NewTestTransport creates a TestTransport serving requests to handler.
func NewTestTransport(handler http.Handler) *TestTransport {
	return &TestTransport{Handler: handler}
}

// Init records the configuration. It never fails unless the server URL does
// not parse, mirroring the production transport's validation.
func (t *TestTransport) Init(config Configurator) error {
	probe := &HTTPTransport{}
	if err := probe.Init(config); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.config = config
	t.initCalls++
	return nil
}

// Submit serves the request to the configured handler and captures the
// recorded response. A body of zero length is reported as nil, matching the
// production transport.
func (t *TestTransport) Submit(ctx context.Context, req Request) (Response, error) {
	t.mu.Lock()
	config := t.config
	t.requests = append(t.requests, req)
	t.mu.Unlock()

	if config == nil {
		return Response{}, fmt.Errorf("transport is not initialized")
	}
	if t.Handler == nil {
		return Response{}, fmt.Errorf("no handler configured")
	}

	httpReq, err := newHTTPRequest(ctx, strings.TrimSuffix(config.GetServerURL(), "/"), config, req)
	if err != nil {
		return Response{}, err
	}

	rr := httptest.NewRecorder()
	t.Handler.ServeHTTP(rr, httpReq)

	body := rr.Body.Bytes()
	if len(body) == 0 {
		body = nil
	}
	return Response{
		StatusCode: rr.Code,
		Body:       body,
		Header:     rr.Result().Header,
	}, nil
}

// InitCalls reports how many times Init ran.
func (t *TestTransport) InitCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.initCalls
}

// Requests returns a copy of every request submitted so far, in order.
func (t *TestTransport) Requests() []Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Request, len(t.requests))
	copy(out, t.requests)
	return out
}
