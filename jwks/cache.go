package jwks

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/auth0-samples/go-jwt-authorizer/core"
)

// DefaultCacheTTL is how long a fetched key set is reused by default.
const DefaultCacheTTL = 5 * time.Minute

// Cache stores fetched key sets by JWKS URI.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached set, or ok == false on a miss or expiry.
	Get(ctx context.Context, key string) (set *KeySet, ok bool, err error)
	Set(ctx context.Context, key string, set *KeySet, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CachingProvider wraps a Provider and reuses fetched key sets for a bounded
// time. A lookup that misses in a cached set drops the entry and fetches
// again once, so keys added by a rotation are picked up immediately.
// Outcomes are the same as with the uncached Provider.
//
// Concurrent callers that miss the cache wait for a single fetch and then
// read its result from the cache.
type CachingProvider struct {
	provider *Provider
	cache    Cache
	ttl      time.Duration
	logger   logrus.FieldLogger

	fetchMu sync.Mutex    // Ensures only one fetch at a time.
	fetched atomic.Uint64 // Successful fetches stored in the cache.
}

// NewCachingProvider builds and returns a new CachingProvider.
//
// Optional options:
//   - WithCacheTTL: Cache lifetime (default: 5 minutes)
//   - WithCache: Custom cache implementation (default: in-memory)
//   - WithCacheLogger: Report cache failures
//
// Example:
//
//	provider, err := jwks.NewProvider(jwks.WithDomain("example.auth0.com"))
//	if err != nil {
//	    return err
//	}
//	cached, err := jwks.NewCachingProvider(provider, jwks.WithCacheTTL(time.Minute))
func NewCachingProvider(provider *Provider, opts ...CachingProviderOption) (*CachingProvider, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider is required")
	}

	c := &CachingProvider{
		provider: provider,
		ttl:      DefaultCacheTTL,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if c.cache == nil {
		c.cache = NewMemoryCache()
	}

	return c, nil
}

// Resolve returns the key matching kid, fetching the key set only when it is
// not cached or does not contain kid.
func (c *CachingProvider) Resolve(ctx context.Context, kid string) (*SigningKey, error) {
	key := c.provider.JWKSURI.String()
	seen := c.fetched.Load()

	set, cached, err := c.cache.Get(ctx, key)
	if err != nil {
		c.warn(err, "could not read cached JWKS")
	}
	if cached {
		signingKey, err := set.Lookup(kid)
		if core.KindOf(err) != core.KindKeyNotFound {
			return signingKey, err
		}
	}

	c.fetchMu.Lock()
	defer c.fetchMu.Unlock()

	// Another caller stored a fresh set while this one waited.
	if c.fetched.Load() != seen {
		if set, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			return set.Lookup(kid)
		}
	}

	if cached {
		if err := c.cache.Delete(ctx, key); err != nil {
			c.warn(err, "could not invalidate cached JWKS")
		}
	}

	set, err = c.provider.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, set, c.ttl); err != nil {
		c.warn(err, "could not cache JWKS")
	}
	c.fetched.Add(1)

	return set.Lookup(kid)
}

func (c *CachingProvider) warn(err error, msg string) {
	if c.logger != nil {
		c.logger.WithError(err).Warn(msg)
	}
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	set       *KeySet
	expiresAt time.Time
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (*KeySet, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok || !m.now().Before(entry.expiresAt) {
		return nil, false, nil
	}

	return entry.set, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, set *KeySet, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{set: set, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}
