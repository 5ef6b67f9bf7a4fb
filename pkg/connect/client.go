// Package connect provides a typed client for the Kafka Connect REST API.
// It wraps every documented worker operation in a context-aware method,
// percent-encodes identifiers embedded in endpoint paths, and converts
// non-2xx responses into a small taxonomy of typed errors. Transport
// concerns (TLS, timeouts, proxies, credentials on the wire) live in the
// rest subpackage and are configured through Config.
package connect

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/NashTech-Labs/kafka-connect-client/pkg/connect/rest"
)

// Client is a typed client for one Connect worker. A single Client is safe
// for concurrent use; the underlying transport is initialized lazily
// exactly once, on the first dispatch.
type Client struct {
	config    rest.Configurator
	transport rest.Transport

	initOnce sync.Once
	initErr  error
}

// NewClient returns a client for the worker described by config, using the
// production HTTP transport. The transport is not touched until the first
// dispatch; configuration problems surface as the first call's error.
func NewClient(config *Config) *Client {
	return NewClientWithTransport(config, &rest.HTTPTransport{})
}

// NewClientWithTransport returns a client submitting requests through the
// given transport. Tests use this with rest.TestTransport to exercise the
// client against an in-process handler.
func NewClientWithTransport(config rest.Configurator, transport rest.Transport) *Client {
	return &Client{
		config:    config,
		transport: transport,
	}
}

// init prepares the transport on first use. The outcome is sticky: every
// dispatch after a failed initialization reports the same error.
func (c *Client) init() error {
	c.initOnce.Do(func() {
		if cfg, ok := c.config.(*Config); ok {
			if err := cfg.Validate(); err != nil {
				c.initErr = fmt.Errorf("invalid client configuration: %w", err)
				return
			}
		}
		c.initErr = c.transport.Init(c.config)
	})
	return c.initErr
}

// Do dispatches a request descriptor through the client and returns the
// decoded result. Exactly one of the result or the error is produced.
//
// Status handling: 2xx decodes the body (204 and 205 with no body decode
// against an empty one); 401 yields *UnauthorizedError; any other status
// yields *InvalidRequestError, specialized to *NotFoundError or
// *ConflictError when the worker's error document says so. Transport I/O
// failures are returned unmodified. Do never retries.
func Do[T any](ctx context.Context, c *Client, req Request[T]) (T, error) {
	var zero T

	if err := c.init(); err != nil {
		return zero, err
	}

	var body []byte
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return zero, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = encoded
	}

	resp, err := c.transport.Submit(ctx, rest.Request{
		Method: req.Method,
		Path:   req.Path,
		Query:  req.Query,
		Body:   body,
	})
	if err != nil {
		return zero, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		raw := resp.Body
		// 204 and 205 carry no body by convention; decode against an
		// empty one. Other 2xx statuses are not special-cased.
		if (resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusResetContent) && raw == nil {
			raw = []byte{}
		}
		decode := req.Decode
		if decode == nil {
			decode = decodeJSON[T]
		}
		out, err := decode(raw)
		if err != nil {
			return zero, &ResponseParseError{Message: err.Error(), Err: err}
		}
		return out, nil
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return zero, c.unauthorizedError(resp)
	}

	if errResp, ok := tryDecodeErrorBody(resp.Body); ok {
		return zero, newRequestError(resp.StatusCode, errResp)
	}
	return zero, &InvalidRequestError{
		StatusCode: resp.StatusCode,
		ErrorCode:  resp.StatusCode,
		Message:    "Invalid response from server: " + string(resp.Body),
	}
}

// unauthorizedError builds the contextual 401 error. The message names the
// configured username when one exists and never includes the password.
func (c *Client) unauthorizedError(resp rest.Response) *UnauthorizedError {
	var msg string
	if c.config.GetBasicAuthUsername() == "" {
		msg = "Server required authentication credentials but none were provided in client configuration."
	} else {
		msg = "Client authentication credentials (username=" + c.config.GetBasicAuthUsername() + ") was rejected by server."
	}
	msg = msg + " Server responded with: \"" + string(resp.Body) + "\""
	return &UnauthorizedError{
		StatusCode: resp.StatusCode,
		Message:    msg,
	}
}

// ServerVersion returns the version of the worker answering the base URL.
func (c *Client) ServerVersion(ctx context.Context) (ServerVersion, error) {
	return Do(ctx, c, serverVersionReq())
}

// Connectors lists the names of all deployed connectors.
func (c *Client) Connectors(ctx context.Context) ([]string, error) {
	return Do(ctx, c, connectorsReq())
}

// ConnectorsExpandedStatus lists connectors with their status metadata.
// Requires a 2.3.0+ worker; see ServerVersion.SupportsExpandedMetadata.
func (c *Client) ConnectorsExpandedStatus(ctx context.Context) (ConnectorsMetadata, error) {
	return Do(ctx, c, connectorsExpandedReq("status"))
}

// ConnectorsExpandedInfo lists connectors with their definition metadata.
// Requires a 2.3.0+ worker.
func (c *Client) ConnectorsExpandedInfo(ctx context.Context) (ConnectorsMetadata, error) {
	return Do(ctx, c, connectorsExpandedReq("info"))
}

// ConnectorsAllExpanded lists connectors with both definition and status
// metadata. Requires a 2.3.0+ worker.
func (c *Client) ConnectorsAllExpanded(ctx context.Context) (ConnectorsMetadata, error) {
	return Do(ctx, c, connectorsExpandedReq("info", "status"))
}

// Connector returns the definition of the named connector.
func (c *Client) Connector(ctx context.Context, name string) (ConnectorDefinition, error) {
	return Do(ctx, c, connectorReq(name))
}

// ConnectorConfig returns the configuration of the named connector.
func (c *Client) ConnectorConfig(ctx context.Context, name string) (map[string]string, error) {
	return Do(ctx, c, connectorConfigReq(name))
}

// ConnectorStatus returns the current state of the named connector and all
// of its tasks.
func (c *Client) ConnectorStatus(ctx context.Context, name string) (ConnectorStatus, error) {
	return Do(ctx, c, connectorStatusReq(name))
}

// ConnectorTopics returns the topics the named connector has interacted
// with. Requires a 2.5.0+ worker; see ServerVersion.SupportsTopicTracking.
func (c *Client) ConnectorTopics(ctx context.Context, name string) (ConnectorTopics, error) {
	return Do(ctx, c, connectorTopicsReq(name))
}

// ResetConnectorTopics clears the set of topics tracked for the named
// connector. Requires a 2.5.0+ worker.
func (c *Client) ResetConnectorTopics(ctx context.Context, name string) (bool, error) {
	return Do(ctx, c, resetConnectorTopicsReq(name))
}

// CreateConnector deploys a new connector and returns the definition the
// worker accepted. The worker answers 409 while a rebalance is in progress.
func (c *Client) CreateConnector(ctx context.Context, def NewConnectorDefinition) (ConnectorDefinition, error) {
	return Do(ctx, c, createConnectorReq(def))
}

// UpdateConnectorConfig replaces the configuration of the named connector,
// creating it when it does not exist, and returns the resulting definition.
func (c *Client) UpdateConnectorConfig(ctx context.Context, name string, config map[string]string) (ConnectorDefinition, error) {
	return Do(ctx, c, updateConnectorConfigReq(name, config))
}

// RestartConnector asks the worker to restart the named connector. Task
// restarts are separate; see RestartConnectorTask.
func (c *Client) RestartConnector(ctx context.Context, name string) (bool, error) {
	return Do(ctx, c, restartConnectorReq(name))
}

// PauseConnector pauses the named connector and its tasks. The pause is
// asynchronous; poll ConnectorStatus to observe the transition.
func (c *Client) PauseConnector(ctx context.Context, name string) (bool, error) {
	return Do(ctx, c, pauseConnectorReq(name))
}

// ResumeConnector resumes a paused connector.
func (c *Client) ResumeConnector(ctx context.Context, name string) (bool, error) {
	return Do(ctx, c, resumeConnectorReq(name))
}

// DeleteConnector removes the named connector, halting all its tasks.
func (c *Client) DeleteConnector(ctx context.Context, name string) (bool, error) {
	return Do(ctx, c, deleteConnectorReq(name))
}

// ConnectorTasks lists the tasks currently allocated for the named
// connector together with their configurations.
func (c *Client) ConnectorTasks(ctx context.Context, name string) ([]Task, error) {
	return Do(ctx, c, connectorTasksReq(name))
}

// ConnectorTaskStatus returns the state of one task of the named connector.
func (c *Client) ConnectorTaskStatus(ctx context.Context, name string, taskID int) (TaskStatus, error) {
	return Do(ctx, c, connectorTaskStatusReq(name, taskID))
}

// RestartConnectorTask restarts one task of the named connector.
func (c *Client) RestartConnectorTask(ctx context.Context, name string, taskID int) (bool, error) {
	return Do(ctx, c, restartConnectorTaskReq(name, taskID))
}

// ConnectorPlugins lists the connector plugins installed on the worker.
func (c *Client) ConnectorPlugins(ctx context.Context) ([]ConnectorPlugin, error) {
	return Do(ctx, c, connectorPluginsReq())
}

// ValidatePluginConfig submits a candidate configuration for the named
// plugin and returns the worker's per-key validation verdict.
func (c *Client) ValidatePluginConfig(ctx context.Context, def PluginConfigDefinition) (ConfigValidationResults, error) {
	return Do(ctx, c, validatePluginConfigReq(def))
}
