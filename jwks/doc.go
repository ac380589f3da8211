/*
Package jwks resolves the public key that signed a token from an issuer's
JSON Web Key Set.

The key set is read from https://{domain}/.well-known/jwks.json and the key
is selected strictly by its "kid". The leaf certificate of the selected key
(x5c[0]) is returned wrapped in PEM delimiters; turning it into a
verification key is left to the validator package.

# Provider

Provider fetches the key set on every call:

	provider, err := jwks.NewProvider(
	    jwks.WithDomain("example.auth0.com"),
	    jwks.WithTimeout(3*time.Second),
	)
	if err != nil {
	    log.Fatal(err)
	}

	key, err := provider.Resolve(ctx, "K1")

Failures are *core.Error values:

  - core.KindKeySetUnavailable: transport error, timeout, non-2xx status
  - core.KindKeySetMalformed: body is not JSON, has no "keys" array, or the
    matching key has no certificate chain
  - core.KindKeyNotFound: no key carries the requested "kid"

No retries are performed.

# CachingProvider

CachingProvider reuses a fetched set for a bounded time. When a "kid" is not
found in a cached set the entry is dropped and the set is fetched again once,
so a rotation on the issuer side is picked up on the first request that
needs the new key:

	cached, err := jwks.NewCachingProvider(provider,
	    jwks.WithCacheTTL(5*time.Minute),
	)

The default cache lives in process memory. RedisCache shares it between
instances:

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	cache, err := jwks.NewRedisCache(client, "")
	cached, err := jwks.NewCachingProvider(provider, jwks.WithCache(cache))

Cache failures are treated as misses and never change the outcome of a
resolution.
*/
package jwks
