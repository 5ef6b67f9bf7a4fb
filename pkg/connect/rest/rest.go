// Package rest provides the HTTP transport layer for the Kafka Connect REST
// API client. It exposes a Transport interface that submits one request and
// reports the raw status code and body without interpreting either, plus a
// production implementation backed by net/http and a handler-backed test
// implementation that never touches the network. The package requires a
// Configurator implementation for server address, credentials, and
// connection options.
package rest

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// Configurator defines the interface for providing server address,
// credentials, and connection options to a Transport. Implementations must
// be safe for concurrent reads.
type Configurator interface {
	GetServerURL() string
	GetBasicAuthUsername() string
	GetBasicAuthPassword() string
	GetRequestTimeout() time.Duration
	GetInsecureSkipVerify() bool
	GetProxyURL() string
}

// Request describes one HTTP call to the Connect API. Path must be fully
// resolved with identifier segments already percent-encoded; the transport
// never escapes it further. A nil Body means the request carries no body.
type Request struct {
	Method string     // HTTP method (GET, POST, PUT, DELETE)
	Path   string     // resolved endpoint path, starting with "/"
	Query  url.Values // optional query parameters
	Body   []byte     // optional request body
}

// Response is the uninterpreted outcome of a submitted request. A nil Body
// means the server sent no body, which is distinct from an empty document.
type Response struct {
	StatusCode int         // HTTP status code as received
	Body       []byte      // raw response body, nil when the server sent none
	Header     http.Header // response headers
}

// Transport submits requests to a Connect worker. Implementations must not
// retry, must not interpret status codes, and must support concurrent
// outstanding calls without mixing up request/response pairs.
type Transport interface {
	// Init prepares the transport from the given configuration. It is
	// idempotent; the client calls it lazily exactly once before the
	// first dispatch.
	Init(config Configurator) error

	// Submit performs one blocking request/response cycle. Errors are
	// I/O level only; any HTTP status is a successful submission.
	Submit(ctx context.Context, req Request) (Response, error)
}

// Verify that HTTPTransport and TestTransport implement Transport.
var _ Transport = &HTTPTransport{}
var _ Transport = &TestTransport{}
