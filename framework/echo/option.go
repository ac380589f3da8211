package jwtecho

import (
	"github.com/labstack/echo/v4"

	authorizer "github.com/auth0-samples/go-jwt-authorizer"
)

// Option is a function that configures the middleware
type Option func(*echoMiddlewareConfig)

// WithErrorHandler sets a custom handler for denied requests.
func WithErrorHandler(handler func(echo.Context, authorizer.Decision) error) Option {
	return func(config *echoMiddlewareConfig) {
		config.errorHandler = handler
	}
}

// WithContextKey sets a custom context key to store the subject
func WithContextKey(key string) Option {
	return func(config *echoMiddlewareConfig) {
		config.contextKey = key
	}
}

// WithSkipper sets a function that exempts requests from authorization.
func WithSkipper(skipper func(echo.Context) bool) Option {
	return func(config *echoMiddlewareConfig) {
		config.skipper = skipper
	}
}
