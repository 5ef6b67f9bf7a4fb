package connect

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/NashTech-Labs/kafka-connect-client/pkg/urlx"
)

// Request describes one Connect API call: the HTTP method, the fully
// resolved endpoint path, optional query parameters and body, and how to
// decode the success payload into T. Descriptors are plain immutable
// values; they carry no state between dispatches and are safe to reuse.
//
// Path must have identifier segments already percent-encoded; the
// constructors in this package route every caller-supplied identifier
// through urlx.EscapePathSegment.
type Request[T any] struct {
	Method string
	Path   string
	Query  url.Values
	Body   any

	// Decode turns the raw success payload into T. Nil selects JSON
	// decoding into T.
	Decode func(raw []byte) (T, error)
}

// decodeJSON is the default decoder: the raw payload unmarshals into T.
func decodeJSON[T any](raw []byte) (T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// decodeAccepted discards the payload; reaching the decode step at all
// means the worker accepted the request.
func decodeAccepted([]byte) (bool, error) {
	return true, nil
}

func serverVersionReq() Request[ServerVersion] {
	return Request[ServerVersion]{Method: http.MethodGet, Path: "/"}
}

func connectorsReq() Request[[]string] {
	return Request[[]string]{Method: http.MethodGet, Path: "/connectors"}
}

func connectorsExpandedReq(expansions ...string) Request[ConnectorsMetadata] {
	return Request[ConnectorsMetadata]{
		Method: http.MethodGet,
		Path:   "/connectors",
		Query:  url.Values{"expand": expansions},
	}
}

func connectorReq(name string) Request[ConnectorDefinition] {
	return Request[ConnectorDefinition]{
		Method: http.MethodGet,
		Path:   "/connectors/" + urlx.EscapePathSegment(name),
	}
}

func connectorConfigReq(name string) Request[map[string]string] {
	return Request[map[string]string]{
		Method: http.MethodGet,
		Path:   "/connectors/" + urlx.EscapePathSegment(name) + "/config",
	}
}

func connectorStatusReq(name string) Request[ConnectorStatus] {
	return Request[ConnectorStatus]{
		Method: http.MethodGet,
		Path:   "/connectors/" + urlx.EscapePathSegment(name) + "/status",
	}
}

func connectorTopicsReq(name string) Request[ConnectorTopics] {
	return Request[ConnectorTopics]{
		Method: http.MethodGet,
		Path:   "/connectors/" + urlx.EscapePathSegment(name) + "/topics",
	}
}

func resetConnectorTopicsReq(name string) Request[bool] {
	return Request[bool]{
		Method: http.MethodPut,
		Path:   "/connectors/" + urlx.EscapePathSegment(name) + "/topics/reset",
		Decode: decodeAccepted,
	}
}

func createConnectorReq(def NewConnectorDefinition) Request[ConnectorDefinition] {
	return Request[ConnectorDefinition]{
		Method: http.MethodPost,
		Path:   "/connectors",
		Body:   def,
	}
}

func updateConnectorConfigReq(name string, config map[string]string) Request[ConnectorDefinition] {
	return Request[ConnectorDefinition]{
		Method: http.MethodPut,
		Path:   "/connectors/" + urlx.EscapePathSegment(name) + "/config",
		Body:   config,
	}
}

func restartConnectorReq(name string) Request[bool] {
	return Request[bool]{
		Method: http.MethodPost,
		Path:   "/connectors/" + urlx.EscapePathSegment(name) + "/restart",
		Decode: decodeAccepted,
	}
}

func pauseConnectorReq(name string) Request[bool] {
	return Request[bool]{
		Method: http.MethodPut,
		Path:   "/connectors/" + urlx.EscapePathSegment(name) + "/pause",
		Decode: decodeAccepted,
	}
}

func resumeConnectorReq(name string) Request[bool] {
	return Request[bool]{
		Method: http.MethodPut,
		Path:   "/connectors/" + urlx.EscapePathSegment(name) + "/resume",
		Decode: decodeAccepted,
	}
}

func deleteConnectorReq(name string) Request[bool] {
	return Request[bool]{
		Method: http.MethodDelete,
		Path:   "/connectors/" + urlx.EscapePathSegment(name),
		Decode: decodeAccepted,
	}
}

func connectorTasksReq(name string) Request[[]Task] {
	return Request[[]Task]{
		Method: http.MethodGet,
		Path:   "/connectors/" + urlx.EscapePathSegment(name) + "/tasks",
	}
}

func connectorTaskStatusReq(name string, taskID int) Request[TaskStatus] {
	return Request[TaskStatus]{
		Method: http.MethodGet,
		Path:   "/connectors/" + urlx.EscapePathSegment(name) + "/tasks/" + strconv.Itoa(taskID) + "/status",
	}
}

func restartConnectorTaskReq(name string, taskID int) Request[bool] {
	return Request[bool]{
		Method: http.MethodPost,
		Path:   "/connectors/" + urlx.EscapePathSegment(name) + "/tasks/" + strconv.Itoa(taskID) + "/restart",
		Decode: decodeAccepted,
	}
}

func connectorPluginsReq() Request[[]ConnectorPlugin] {
	return Request[[]ConnectorPlugin]{Method: http.MethodGet, Path: "/connector-plugins"}
}

func validatePluginConfigReq(def PluginConfigDefinition) Request[ConfigValidationResults] {
	return Request[ConfigValidationResults]{
		Method: http.MethodPut,
		Path:   "/connector-plugins/" + urlx.EscapePathSegment(def.Name) + "/config/validate",
		Body:   def.Config,
	}
}
