package validator

import (
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
)

// VerifiedClaims holds the claims of a token whose signature and registered
// claims have been checked. It is only ever built by Validator.Verify.
type VerifiedClaims struct {
	Subject   string
	Issuer    string
	Audience  []string
	Expiry    time.Time
	NotBefore time.Time
	IssuedAt  time.Time
	ID        string

	// Extra holds every non-registered claim of the token.
	Extra map[string]any
}

func newVerifiedClaims(token jwt.Token) *VerifiedClaims {
	return &VerifiedClaims{
		Subject:   token.Subject(),
		Issuer:    token.Issuer(),
		Audience:  token.Audience(),
		Expiry:    token.Expiration(),
		NotBefore: token.NotBefore(),
		IssuedAt:  token.IssuedAt(),
		ID:        token.JwtID(),
		Extra:     token.PrivateClaims(),
	}
}
