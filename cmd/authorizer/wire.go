package main

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	authorizer "github.com/auth0-samples/go-jwt-authorizer"
	"github.com/auth0-samples/go-jwt-authorizer/internal/config"
	"github.com/auth0-samples/go-jwt-authorizer/internal/oidc"
	"github.com/auth0-samples/go-jwt-authorizer/jwks"
	"github.com/auth0-samples/go-jwt-authorizer/validator"
)

// newAuthorizer assembles the key provider, validator and authorizer
// described by cfg. The returned func releases the Redis client, if any.
func newAuthorizer(cfg *config.Config, logger logrus.FieldLogger) (*authorizer.Authorizer, func(), error) {
	cleanup := func() {}

	provider, err := jwks.NewProvider(
		jwks.WithDomain(cfg.Domain),
		jwks.WithTimeout(cfg.KeyFetchTimeout),
		jwks.WithLogger(logger),
	)
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to create key provider: %w", err)
	}

	var resolver jwks.Resolver = provider
	if cfg.CachingEnabled() {
		opts := []jwks.CachingProviderOption{
			jwks.WithCacheTTL(cfg.JWKSCacheTTL),
			jwks.WithCacheLogger(logger),
		}

		if cfg.RedisAddr != "" {
			client := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
			})
			cleanup = func() { _ = client.Close() }

			cache, err := jwks.NewRedisCache(client, "")
			if err != nil {
				cleanup()
				return nil, func() {}, fmt.Errorf("failed to create redis cache: %w", err)
			}
			opts = append(opts, jwks.WithCache(cache))
		}

		cached, err := jwks.NewCachingProvider(provider, opts...)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("failed to create caching provider: %w", err)
		}
		resolver = cached
	}

	issuer, err := oidc.IssuerURL(cfg.Domain)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}

	v, err := validator.New(
		validator.WithResolver(resolver),
		validator.WithIssuer(issuer.String()),
		validator.WithAudience(cfg.Audience),
	)
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("failed to create validator: %w", err)
	}

	a, err := authorizer.New(v, authorizer.WithLogger(logger))
	if err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("failed to create authorizer: %w", err)
	}

	return a, cleanup, nil
}
