package logtrace

import "os"

// IsTraceEnabled reports whether route tracing is enabled. Controlled by
// the CONNECT_MOCK_TRACE environment variable; when set, the mock worker
// prints its mounted routes at startup.
func IsTraceEnabled() bool {
	return os.Getenv("CONNECT_MOCK_TRACE") != ""
}
