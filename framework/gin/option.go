package jwtgin

import (
	"github.com/gin-gonic/gin"

	authorizer "github.com/auth0-samples/go-jwt-authorizer"
)

// Option defines a functional option for configuring the middleware
type Option func(*ginMiddlewareConfig)

// WithErrorHandler sets a custom handler for denied requests.
func WithErrorHandler(handler func(*gin.Context, authorizer.Decision)) Option {
	return func(config *ginMiddlewareConfig) {
		config.errorHandler = handler
	}
}

// WithContextKey sets the gin context key the subject is stored under.
func WithContextKey(key string) Option {
	return func(config *ginMiddlewareConfig) {
		config.contextKey = key
	}
}
