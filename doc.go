/*
Package authorizer decides whether a request carrying an
"Authorization: Bearer <token>" credential may reach an API.

A decision is produced in three steps:

 1. ExtractToken strips the case-insensitive "Bearer " scheme.
 2. A Verifier (normally *validator.Validator) checks the RS256 signature
    against the issuer's published key set, then the issuer, audience and
    expiry claims.
 3. BuildDecision turns the outcome into an IAM-style policy: Allow with
    the token subject as principal, or Deny with UnauthorizedPrincipal.

Authorize never returns an error. Every failure is logged with its
core.Kind and becomes a Deny; the token and the reason are never exposed
in the decision itself.

# Quick Start

	provider, err := jwks.NewProvider(jwks.WithDomain("example.auth0.com"))
	if err != nil {
	    log.Fatal(err)
	}

	v, err := validator.New(
	    validator.WithResolver(provider),
	    validator.WithIssuer("https://example.auth0.com/"),
	    validator.WithAudience("my-api"),
	)
	if err != nil {
	    log.Fatal(err)
	}

	a, err := authorizer.New(v)
	if err != nil {
	    log.Fatal(err)
	}

	decision := a.Authorize(ctx, "Bearer eyJ...")
	if decision.Allowed() {
	    fmt.Println(decision.UserID())
	}

# Caching

By default every decision fetches the key set. Wrap the provider in a
jwks.CachingProvider to reuse it for a bounded time; a key identifier that
is missing from the cached set forces one refetch, so rotated keys are
picked up without waiting for expiry. A jwks.RedisCache shares fetched
sets between instances.

# Transports

The Middleware in this package guards net/http handlers. Adapters for gin,
echo, gRPC and AWS Lambda live under framework/ and integrations/.
*/
package authorizer
