package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auth0-samples/go-jwt-authorizer/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Domain:          "example.auth0.com",
		Audience:        "my-api",
		KeyFetchTimeout: time.Second,
		LogLevel:        "info",
		LogFormat:       "json",
		HTTPAddr:        ":0",
	}
}

func Test_newAuthorizer(t *testing.T) {
	logger, _ := newTestLogger()

	t.Run("without caching", func(t *testing.T) {
		authz, cleanup, err := newAuthorizer(testConfig(), logger)
		require.NoError(t, err)
		defer cleanup()

		decision := authz.Authorize(context.Background(), "")
		assert.False(t, decision.Allowed())
	})

	t.Run("with a redis cache", func(t *testing.T) {
		mr := miniredis.RunT(t)

		cfg := testConfig()
		cfg.JWKSCacheTTL = time.Minute
		cfg.RedisAddr = mr.Addr()

		authz, cleanup, err := newAuthorizer(cfg, logger)
		require.NoError(t, err)
		defer cleanup()

		assert.NotNil(t, authz)
	})

	t.Run("with an invalid domain", func(t *testing.T) {
		cfg := testConfig()
		cfg.Domain = ""

		_, cleanup, err := newAuthorizer(cfg, logger)
		defer cleanup()
		assert.ErrorContains(t, err, "failed to create key provider")
	})
}

func Test_checkCmd(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTH0_DOMAIN", "example.auth0.com")
	t.Setenv("AUTH0_AUDIENCE", "my-api")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"check", "Basic dXNlcjpwYXNz"})

	err := cmd.Execute()
	assert.ErrorIs(t, err, errDenied)

	var decision map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decision))
	assert.Equal(t, "unauthorized", decision["principalId"])
	assert.NotContains(t, decision, "context")
}

func Test_rootCmdRejectsInvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTH0_DOMAIN", "")
	t.Setenv("AUTH0_AUDIENCE", "")

	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"check", "Bearer x"})

	assert.ErrorContains(t, cmd.Execute(), "invalid config")
}

func newTestLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}
