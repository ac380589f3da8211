package validator

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/auth0-samples/go-jwt-authorizer/jwks"
)

// Option is how options for the Validator are set up.
// Options return errors to enable validation during construction.
type Option func(*Validator) error

// WithResolver sets where signing keys come from.
// This is a required option.
//
// Use *jwks.Provider to fetch the key set per token or *jwks.CachingProvider
// to reuse it.
func WithResolver(resolver jwks.Resolver) Option {
	return func(v *Validator) error {
		if resolver == nil {
			return errors.New("resolver cannot be nil")
		}
		v.resolver = resolver
		return nil
	}
}

// WithIssuer sets the expected issuer claim (iss) for token validation.
// This is a required option.
//
// The comparison is exact, including the trailing slash Auth0 issuers carry.
func WithIssuer(issuerURL string) Option {
	return func(v *Validator) error {
		if issuerURL == "" {
			return errors.New("issuer cannot be empty")
		}
		if _, err := url.Parse(issuerURL); err != nil {
			return fmt.Errorf("invalid issuer URL: %w", err)
		}
		v.issuer = issuerURL
		return nil
	}
}

// WithAudience sets the expected audience claim (aud) for token validation.
// This is a required option.
//
// The token's aud may be a single string or an array containing audience.
func WithAudience(audience string) Option {
	return func(v *Validator) error {
		if audience == "" {
			return errors.New("audience cannot be empty")
		}
		v.audience = audience
		return nil
	}
}

// WithAllowedClockSkew sets the tolerance applied to exp and nbf.
// If not set, the default is 0 (no clock skew allowed).
func WithAllowedClockSkew(skew time.Duration) Option {
	return func(v *Validator) error {
		if skew < 0 {
			return errors.New("clock skew cannot be negative")
		}
		v.allowedClockSkew = skew
		return nil
	}
}

// WithClock overrides the time source used for exp and nbf.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		v.now = now
		return nil
	}
}
