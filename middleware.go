package authorizer

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/auth0-samples/go-jwt-authorizer/core"
)

// Middleware guards net/http handlers with an Authorizer.
type Middleware struct {
	authorizer        *Authorizer
	errorHandler      ErrorHandler
	validateOnOptions bool
}

// MiddlewareOption is how options for the Middleware are set up.
type MiddlewareOption func(*Middleware) error

// WithErrorHandler sets the handler called for denied requests.
// Defaults to DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) MiddlewareOption {
	return func(m *Middleware) error {
		if h == nil {
			return errors.New("error handler cannot be nil")
		}
		m.errorHandler = h
		return nil
	}
}

// WithValidateOnOptions controls whether OPTIONS requests are authorized.
// Defaults to true.
func WithValidateOnOptions(value bool) MiddlewareOption {
	return func(m *Middleware) error {
		m.validateOnOptions = value
		return nil
	}
}

// NewMiddleware constructs a Middleware around a.
func NewMiddleware(a *Authorizer, opts ...MiddlewareOption) (*Middleware, error) {
	if a == nil {
		return nil, errors.New("authorizer is required but was nil")
	}

	m := &Middleware{
		authorizer:        a,
		errorHandler:      DefaultErrorHandler,
		validateOnOptions: true,
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	return m, nil
}

// Handler authorizes each request before passing it to next. On Allow the
// subject is stored in the request context, see core.UserID.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.validateOnOptions && r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		decision := m.authorizer.Authorize(r.Context(), RequestCredential(r))
		if !decision.Allowed() {
			m.errorHandler(w, r, decision)
			return
		}

		next.ServeHTTP(w, r.WithContext(core.WithUserID(r.Context(), decision.UserID())))
	})
}
