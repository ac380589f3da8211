package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	authorizer "github.com/auth0-samples/go-jwt-authorizer"
	jwtgin "github.com/auth0-samples/go-jwt-authorizer/framework/gin"
)

const shutdownTimeout = 10 * time.Second

// authorizeRequest is the body of POST /authorize, mirroring an API
// Gateway TOKEN authorizer event.
type authorizeRequest struct {
	AuthorizationToken string `json:"authorizationToken"`
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve authorization decisions over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			authz, cleanup, err := newAuthorizer(a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server := &http.Server{
				Addr:              a.cfg.HTTPAddr,
				Handler:           newRouter(authz, a.logger),
				ReadHeaderTimeout: 5 * time.Second,
			}

			return serve(ctx, server, a.logger)
		},
	}
}

func serve(ctx context.Context, server *http.Server, logger logrus.FieldLogger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", server.Addr).Info("starting http server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func newRouter(authz *authorizer.Authorizer, logger logrus.FieldLogger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// The decision is the answer, so it is returned with 200 whether it
	// allows or denies.
	router.POST("/authorize", func(c *gin.Context) {
		credential := authorizer.RequestCredential(c.Request)

		var body authorizeRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
				return
			}
		}
		if body.AuthorizationToken != "" {
			credential = body.AuthorizationToken
		}

		c.JSON(http.StatusOK, authz.Authorize(c.Request.Context(), credential))
	})

	protected := router.Group("/", jwtgin.NewGinMiddleware(authz))
	protected.GET("/whoami", func(c *gin.Context) {
		userID, err := jwtgin.GetUserID(c, "")
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{authorizer.UserIDKey: userID})
	})

	return router
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Debug("handled request")
	}
}
