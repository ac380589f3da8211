package authorizer

import (
	"net/http"
)

// ErrorHandler writes the response for a denied request. It receives the
// decision only; the reason for a denial is never exposed to callers.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, decision Decision)

// DefaultErrorHandler responds 401 with a bearer challenge and a fixed
// body.
func DefaultErrorHandler(w http.ResponseWriter, _ *http.Request, _ Decision) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"Unauthorized"}`))
}
