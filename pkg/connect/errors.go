package connect

import (
	"fmt"
	"net/http"
)

// errorResponse is the structured error document Connect workers return for
// rejected requests. Workers may attach per-field validation messages.
type errorResponse struct {
	ErrorCode int      `json:"error_code"`
	Message   string   `json:"message"`
	Errors    []string `json:"errors,omitempty"`
}

// UnauthorizedError reports an HTTP 401 from the worker. Message states
// whether credentials were configured at all and names the rejected
// username; it never contains the secret.
type UnauthorizedError struct {
	StatusCode int
	Message    string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

// InvalidRequestError reports a non-2xx response other than 401. When the
// worker returned a structured error document, ErrorCode and Message carry
// its contents; otherwise Message embeds the raw response text and
// ErrorCode repeats the HTTP status.
type InvalidRequestError struct {
	StatusCode int      // HTTP status of the response
	ErrorCode  int      // error_code reported by the worker
	Message    string   // message reported by the worker
	Errors     []string // per-field validation messages, when present
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("%s (error code %d)", e.Message, e.ErrorCode)
}

// NotFoundError is an InvalidRequestError whose worker error code is 404:
// the named connector, task, or plugin does not exist. errors.As matches it
// both as *NotFoundError and as *InvalidRequestError.
type NotFoundError struct {
	InvalidRequestError
}

func (e *NotFoundError) Unwrap() error {
	return &e.InvalidRequestError
}

// ConflictError is an InvalidRequestError whose worker error code is 409:
// the cluster is rebalancing or the connector configuration was modified
// concurrently. Safe to retry once the rebalance settles; retrying is the
// caller's decision.
type ConflictError struct {
	InvalidRequestError
}

func (e *ConflictError) Unwrap() error {
	return &e.InvalidRequestError
}

// ResponseParseError reports a 2xx response whose body did not match the
// expected success shape. It is distinct from transport failures, which
// propagate unmodified.
type ResponseParseError struct {
	Message string
	Err     error
}

func (e *ResponseParseError) Error() string {
	return e.Message
}

func (e *ResponseParseError) Unwrap() error {
	return e.Err
}

// tryDecodeErrorBody attempts to decode body as a structured error
// document. It reports false when the body is absent, not JSON, or does not
// carry the expected fields; the caller falls back to a generic error.
func tryDecodeErrorBody(body []byte) (errorResponse, bool) {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return errorResponse{}, false
	}
	if resp.ErrorCode == 0 && resp.Message == "" {
		return errorResponse{}, false
	}
	return resp, true
}

// newRequestError classifies a decoded error document into the most
// specific error kind based on the worker's error code.
func newRequestError(statusCode int, resp errorResponse) error {
	base := InvalidRequestError{
		StatusCode: statusCode,
		ErrorCode:  resp.ErrorCode,
		Message:    resp.Message,
		Errors:     resp.Errors,
	}
	switch resp.ErrorCode {
	case http.StatusNotFound:
		return &NotFoundError{InvalidRequestError: base}
	case http.StatusConflict:
		return &ConflictError{InvalidRequestError: base}
	}
	return &base
}
