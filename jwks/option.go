package jwks

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/auth0-samples/go-jwt-authorizer/internal/oidc"
)

// ============================================================================
// Provider Options
// ============================================================================

// ProviderOption is how options for the Provider are set up.
type ProviderOption func(*Provider) error

// WithDomain sets the JWKS URI to https://{domain}/.well-known/jwks.json.
func WithDomain(domain string) ProviderOption {
	return func(p *Provider) error {
		u, err := oidc.JWKSURL(domain)
		if err != nil {
			return err
		}
		p.JWKSURI = u
		return nil
	}
}

// WithCustomJWKSURI sets the JWKS URI directly, overriding WithDomain.
func WithCustomJWKSURI(jwksURI *url.URL) ProviderOption {
	return func(p *Provider) error {
		if jwksURI == nil {
			return fmt.Errorf("custom JWKS URI cannot be nil")
		}
		p.JWKSURI = jwksURI
		return nil
	}
}

// WithCustomClient sets a custom HTTP client for the Provider.
// If not specified, a client with DefaultTimeout is used.
func WithCustomClient(c *http.Client) ProviderOption {
	return func(p *Provider) error {
		if c == nil {
			return fmt.Errorf("HTTP client cannot be nil")
		}
		p.Client = c
		return nil
	}
}

// WithTimeout bounds each key set fetch. Exceeding it is reported as
// core.KindKeySetUnavailable.
func WithTimeout(timeout time.Duration) ProviderOption {
	return func(p *Provider) error {
		if timeout <= 0 {
			return fmt.Errorf("timeout must be positive")
		}
		p.Timeout = timeout
		return nil
	}
}

// WithLogger routes the HTTP client's diagnostics to l.
func WithLogger(l logrus.FieldLogger) ProviderOption {
	return func(p *Provider) error {
		if l == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		p.logger = l
		return nil
	}
}

// ============================================================================
// CachingProvider Options
// ============================================================================

// CachingProviderOption is how options for the CachingProvider are set up.
type CachingProviderOption func(*CachingProvider) error

// WithCacheTTL sets how long a fetched key set is reused.
// If not specified, defaults to DefaultCacheTTL.
func WithCacheTTL(ttl time.Duration) CachingProviderOption {
	return func(c *CachingProvider) error {
		if ttl < 0 {
			return fmt.Errorf("cache TTL cannot be negative")
		}
		if ttl == 0 {
			ttl = DefaultCacheTTL
		}
		c.ttl = ttl
		return nil
	}
}

// WithCache sets a custom Cache implementation, e.g. NewRedisCache to share
// key sets across instances.
func WithCache(cache Cache) CachingProviderOption {
	return func(c *CachingProvider) error {
		if cache == nil {
			return fmt.Errorf("cache cannot be nil")
		}
		c.cache = cache
		return nil
	}
}

// WithCacheLogger reports cache read and write failures, which are
// otherwise treated as misses.
func WithCacheLogger(l logrus.FieldLogger) CachingProviderOption {
	return func(c *CachingProvider) error {
		if l == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = l
		return nil
	}
}
