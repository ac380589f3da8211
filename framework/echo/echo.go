package jwtecho

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authorizer "github.com/auth0-samples/go-jwt-authorizer"
	"github.com/auth0-samples/go-jwt-authorizer/core"
)

// DefaultUserIDKey is the echo context key the subject is stored under.
var DefaultUserIDKey = authorizer.UserIDKey

type echoMiddlewareConfig struct {
	errorHandler func(echo.Context, authorizer.Decision) error
	contextKey   string
	skipper      func(echo.Context) bool
}

// NewEchoMiddleware returns echo middleware that authorizes each request
// with a.
func NewEchoMiddleware(a *authorizer.Authorizer, opts ...Option) echo.MiddlewareFunc {
	config := &echoMiddlewareConfig{
		errorHandler: defaultEchoErrorHandler,
		contextKey:   DefaultUserIDKey,
		skipper:      func(echo.Context) bool { return false },
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.skipper(c) {
				return next(c)
			}

			req := c.Request()
			decision := a.Authorize(req.Context(), authorizer.RequestCredential(req))
			if !decision.Allowed() {
				return config.errorHandler(c, decision)
			}

			userID := decision.UserID()
			c.Set(config.contextKey, userID)
			c.SetRequest(req.WithContext(core.WithUserID(req.Context(), userID)))

			return next(c)
		}
	}
}

func defaultEchoErrorHandler(c echo.Context, _ authorizer.Decision) error {
	c.Response().Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	return c.JSON(http.StatusUnauthorized, map[string]string{
		"message": "Unauthorized",
	})
}

// GetUserID extracts the subject from the echo context. An empty contextKey
// selects DefaultUserIDKey.
func GetUserID(c echo.Context, contextKey string) (string, bool) {
	if contextKey == "" {
		contextKey = DefaultUserIDKey
	}
	userID, ok := c.Get(contextKey).(string)
	return userID, ok
}
