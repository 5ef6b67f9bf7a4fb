package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries a unique identifier for every submitted request
// so client and worker logs can be correlated.
const RequestIDHeader = "X-Request-Id"

// HTTPTransport is the production Transport backed by net/http. It applies
// the configured timeout, TLS options, proxy, and basic-auth credentials to
// every request and is safe for concurrent use once initialized.
type HTTPTransport struct {
	config     Configurator
	baseURL    string
	httpClient *http.Client
}

// Init builds the underlying http.Client from the configuration. Calling it
// again replaces the previous configuration.
func (t *HTTPTransport) Init(config Configurator) error {
	u, err := url.Parse(config.GetServerURL())
	if err != nil {
		return fmt.Errorf("invalid server URL %q: %w", config.GetServerURL(), err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server URL %q: scheme must be http or https", config.GetServerURL())
	}

	httpTransport := &http.Transport{}
	if config.GetInsecureSkipVerify() {
		httpTransport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}
	if proxy := config.GetProxyURL(); proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return fmt.Errorf("invalid proxy URL %q: %w", proxy, err)
		}
		httpTransport.Proxy = http.ProxyURL(proxyURL)
	}

	t.config = config
	t.baseURL = strings.TrimSuffix(u.String(), "/")
	t.httpClient = &http.Client{
		Timeout:   config.GetRequestTimeout(),
		Transport: httpTransport,
	}
	return nil
}

// Submit performs one request/response cycle. The returned Response carries
// the status code and body exactly as received; a body of zero length is
// reported as nil.
func (t *HTTPTransport) Submit(ctx context.Context, req Request) (Response, error) {
	if t.httpClient == nil {
		return Response{}, fmt.Errorf("transport is not initialized")
	}

	httpReq, err := newHTTPRequest(ctx, t.baseURL, t.config, req)
	if err != nil {
		return Response{}, err
	}

	start := time.Now()
	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) == 0 {
		body = nil
	}

	log.Ctx(ctx).Debug().
		Str("method", req.Method).
		Str("url", httpReq.URL.String()).
		Int("status", resp.StatusCode).
		Str("duration", fmt.Sprintf("%dms", time.Since(start).Milliseconds())).
		Msg("request completed")

	return Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Header:     resp.Header,
	}, nil
}

// newHTTPRequest builds the outgoing http.Request shared by the production
// and test transports: resolved URL, content type, request ID, and
// basic-auth credentials when a username is configured.
func newHTTPRequest(ctx context.Context, baseURL string, config Configurator, req Request) (*http.Request, error) {
	endpoint := baseURL + req.Path
	if len(req.Query) > 0 {
		endpoint = endpoint + "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, newRequestID())

	if config.GetBasicAuthUsername() != "" {
		httpReq.SetBasicAuth(config.GetBasicAuthUsername(), config.GetBasicAuthPassword())
	}
	return httpReq, nil
}

// newRequestID generates a unique request identifier. It attempts to create
// a UUID first, falling back to a timestamp-based ID if UUID generation
// fails.
func newRequestID() string {
	u, err := uuid.NewRandom()
	if err == nil {
		return u.String()
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}
