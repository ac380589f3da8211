package jwtgin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	authorizer "github.com/auth0-samples/go-jwt-authorizer"
	"github.com/auth0-samples/go-jwt-authorizer/core"
)

// DefaultUserIDKey is the gin context key the subject is stored under.
const DefaultUserIDKey = authorizer.UserIDKey

var (
	ErrMissingUserID = errors.New("no user id found in context")
	ErrInvalidUserID = errors.New("invalid user id type")
)

type ginMiddlewareConfig struct {
	errorHandler func(*gin.Context, authorizer.Decision)
	contextKey   string
}

// NewGinMiddleware returns a gin handler that authorizes each request with
// a. Denied requests are aborted through the error handler; allowed ones
// carry the subject under the context key and in the request context.
func NewGinMiddleware(a *authorizer.Authorizer, opts ...Option) gin.HandlerFunc {
	config := &ginMiddlewareConfig{
		errorHandler: defaultGinErrorHandler,
		contextKey:   DefaultUserIDKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(c *gin.Context) {
		decision := a.Authorize(c.Request.Context(), authorizer.RequestCredential(c.Request))
		if !decision.Allowed() {
			config.errorHandler(c, decision)
			c.Abort()
			return
		}

		userID := decision.UserID()
		c.Set(config.contextKey, userID)
		c.Request = c.Request.WithContext(core.WithUserID(c.Request.Context(), userID))

		c.Next()
	}
}

func defaultGinErrorHandler(c *gin.Context, _ authorizer.Decision) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": "Unauthorized",
	})
}

// GetUserID returns the subject stored by the middleware.
func GetUserID(c *gin.Context, contextKey string) (string, error) {
	if contextKey == "" {
		contextKey = DefaultUserIDKey
	}
	value, exists := c.Get(contextKey)
	if !exists {
		return "", ErrMissingUserID
	}

	userID, ok := value.(string)
	if !ok {
		return "", ErrInvalidUserID
	}

	return userID, nil
}
