/*
Package validator verifies RS256 bearer tokens using the lestrrat-go/jwx v2
library.

A token is checked in a fixed order and the first failing step decides the
error kind:

 1. The header is decoded without verification to read "kid" and "alg"
    (core.KindTokenMalformed).
 2. The signing key is resolved by "kid" (errors of the jwks package).
 3. "alg" must be RS256 (core.KindAlgorithmMismatch). The algorithm is never
    taken from the token itself, which rules out algorithm confusion.
 4. The signature is verified with the key's certificate
    (core.KindSignatureInvalid).
 5. iss must equal the configured issuer (core.KindIssuerMismatch).
 6. aud must contain the configured audience (core.KindAudienceMismatch).
 7. exp must be present and in the future (core.KindTokenExpired).
 8. nbf, when present, must not be in the future (core.KindTokenNotYetValid).
 9. sub must be present (core.KindTokenMalformed).

# Usage

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

	claims, err := v.Verify(ctx, token)
	if err != nil {
	    log.Printf("refused: %s", core.KindOf(err))
	    return
	}
	fmt.Println(claims.Subject)

The only side effect of Verify is the key set fetch performed by the resolver.
*/
package validator
