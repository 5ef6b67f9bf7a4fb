package connect

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryDecodeErrorBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		ok       bool
		code     int
		message  string
		numFails int
	}{
		{
			name:    "full document",
			body:    `{"error_code":409,"message":"Connector x already exists"}`,
			ok:      true,
			code:    409,
			message: "Connector x already exists",
		},
		{
			name:    "message only",
			body:    `{"message":"something went wrong"}`,
			ok:      true,
			message: "something went wrong",
		},
		{
			name:     "with field errors",
			body:     `{"error_code":400,"message":"bad config","errors":["a is required","b must be an int"]}`,
			ok:       true,
			code:     400,
			message:  "bad config",
			numFails: 2,
		},
		{name: "not json", body: "Service Unavailable", ok: false},
		{name: "wrong shape", body: `{"status":"error"}`, ok: false},
		{name: "empty object", body: `{}`, ok: false},
		{name: "empty body", body: "", ok: false},
		{name: "json array", body: `[1,2]`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, ok := tryDecodeErrorBody([]byte(tt.body))
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.code, resp.ErrorCode)
			assert.Equal(t, tt.message, resp.Message)
			assert.Len(t, resp.Errors, tt.numFails)
		})
	}
}

func TestNewRequestErrorClassification(t *testing.T) {
	notFound := newRequestError(http.StatusNotFound, errorResponse{
		ErrorCode: http.StatusNotFound,
		Message:   "Connector ghost not found",
	})
	var nf *NotFoundError
	require.ErrorAs(t, notFound, &nf)
	assert.Equal(t, "Connector ghost not found (error code 404)", notFound.Error())

	conflict := newRequestError(http.StatusConflict, errorResponse{
		ErrorCode: http.StatusConflict,
		Message:   "Connector busy already exists",
	})
	var cf *ConflictError
	require.ErrorAs(t, conflict, &cf)

	// Classification follows the document's error code, not the HTTP
	// status it arrived with.
	mismatched := newRequestError(http.StatusBadRequest, errorResponse{
		ErrorCode: http.StatusNotFound,
		Message:   "nothing here",
	})
	require.ErrorAs(t, mismatched, &nf)
	assert.Equal(t, http.StatusBadRequest, nf.StatusCode)
	assert.Equal(t, http.StatusNotFound, nf.ErrorCode)

	plain := newRequestError(http.StatusBadRequest, errorResponse{
		ErrorCode: http.StatusBadRequest,
		Message:   "bad request",
		Errors:    []string{"tasks.max must be an int"},
	})
	var invalid *InvalidRequestError
	require.ErrorAs(t, plain, &invalid)
	assert.False(t, stderrors.As(plain, &nf))
	assert.False(t, stderrors.As(plain, &cf))
	assert.Equal(t, []string{"tasks.max must be an int"}, invalid.Errors)
}

func TestErrorSubtypesUnwrap(t *testing.T) {
	err := newRequestError(http.StatusNotFound, errorResponse{
		ErrorCode: http.StatusNotFound,
		Message:   "Connector ghost not found",
	})

	// The specialized kinds expose the broad kind through the unwrap
	// chain, so callers can match at either granularity.
	var invalid *InvalidRequestError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, http.StatusNotFound, invalid.ErrorCode)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Same(t, &nf.InvalidRequestError, stderrors.Unwrap(err).(*InvalidRequestError))
}

func TestErrorsSurviveWrapping(t *testing.T) {
	orig := newRequestError(http.StatusConflict, errorResponse{
		ErrorCode: http.StatusConflict,
		Message:   "Cannot complete request momentarily due to stale configuration",
	})

	wrapped := errors.Wrap(orig, "deploying connector audit-sink")
	assert.Contains(t, wrapped.Error(), "deploying connector audit-sink")

	var conflict *ConflictError
	require.ErrorAs(t, wrapped, &conflict)
	assert.Equal(t, http.StatusConflict, conflict.ErrorCode)

	var invalid *InvalidRequestError
	require.ErrorAs(t, wrapped, &invalid)

	parseErr := &ResponseParseError{Message: "unexpected end of JSON input", Err: stderrors.New("unexpected end of JSON input")}
	wrappedParse := errors.WithMessage(parseErr, "listing connectors")
	var pe *ResponseParseError
	require.ErrorAs(t, wrappedParse, &pe)
	assert.Equal(t, "unexpected end of JSON input", pe.Message)
}

func TestUnauthorizedErrorMessage(t *testing.T) {
	err := &UnauthorizedError{
		StatusCode: http.StatusUnauthorized,
		Message:    `Client authentication credentials (username=ops) was rejected by server. Server responded with: "Unauthorized"`,
	}
	assert.Equal(t, err.Message, err.Error())

	var unauthorized *UnauthorizedError
	require.ErrorAs(t, error(err), &unauthorized)

	// 401 never classifies as an invalid request.
	var invalid *InvalidRequestError
	assert.False(t, stderrors.As(error(err), &invalid))
}
