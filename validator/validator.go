package validator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/auth0-samples/go-jwt-authorizer/core"
	"github.com/auth0-samples/go-jwt-authorizer/jwks"
)

// RS256 is the only signature algorithm accepted. It is fixed rather than
// taken from the token header.
const RS256 = jwa.RS256

const tracerName = "github.com/auth0-samples/go-jwt-authorizer/validator"

// Validator verifies RS256 bearer tokens against keys published by a single
// issuer. It is immutable after New and safe for concurrent use.
type Validator struct {
	resolver         jwks.Resolver    // Required.
	issuer           string           // Required.
	audience         string           // Required.
	allowedClockSkew time.Duration    // Optional.
	now              func() time.Time // Optional.
}

// New sets up a new Validator with the provided options.
//
// Required options:
//   - WithResolver: Source of signing keys
//   - WithIssuer: Expected issuer (iss)
//   - WithAudience: Expected audience (aud)
//
// Optional options:
//   - WithAllowedClockSkew: Clock skew tolerance for exp and nbf
//   - WithClock: Time source, for tests
func New(opts ...Option) (*Validator, error) {
	v := &Validator{
		now: time.Now,
	}

	for _, opt := range opts {
		if err := opt(v); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if v.resolver == nil {
		return nil, errors.New("resolver is required but was nil")
	}
	if v.issuer == "" {
		return nil, errors.New("issuer is required but was empty")
	}
	if v.audience == "" {
		return nil, errors.New("audience is required but was empty")
	}

	return v, nil
}

// Verify checks token and returns its claims. The checks run in this order,
// each failing with the listed kind:
//
//  1. header decode: core.KindTokenMalformed
//  2. key resolution by kid: errors of the resolver, unchanged
//  3. algorithm is RS256: core.KindAlgorithmMismatch
//  4. signature: core.KindSignatureInvalid
//  5. issuer: core.KindIssuerMismatch
//  6. audience: core.KindAudienceMismatch
//  7. expiry: core.KindTokenExpired
//  8. not before: core.KindTokenNotYetValid
//  9. subject present: core.KindTokenMalformed
func (v *Validator) Verify(ctx context.Context, token string) (*VerifiedClaims, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "validator.Verify")
	defer span.End()

	claims, err := v.verify(ctx, token)
	if err != nil {
		span.SetStatus(codes.Error, string(core.KindOf(err)))
		return nil, err
	}

	return claims, nil
}

func (v *Validator) verify(ctx context.Context, token string) (*VerifiedClaims, error) {
	header, err := DecodeHeader(token)
	if err != nil {
		return nil, err
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("jwt.kid", header.KeyID),
		attribute.String("jwt.alg", header.Algorithm),
	)

	signingKey, err := v.resolver.Resolve(ctx, header.KeyID)
	if err != nil {
		return nil, err
	}

	if header.Algorithm != RS256.String() {
		return nil, core.NewError(
			core.KindAlgorithmMismatch,
			fmt.Sprintf("expected %q signing algorithm but token specified %q", RS256, header.Algorithm),
			nil,
		)
	}

	key, err := jwk.ParseKey([]byte(signingKey.PEM), jwk.WithPEM(true))
	if err != nil {
		return nil, core.NewError(core.KindKeySetMalformed, "could not parse signing certificate", err)
	}

	payload, err := jws.Verify([]byte(token), jws.WithKey(RS256, key))
	if err != nil {
		return nil, core.NewError(core.KindSignatureInvalid, "could not verify token signature", err)
	}

	parsed := jwt.New()
	if err := json.Unmarshal(payload, parsed); err != nil {
		return nil, core.NewError(core.KindTokenMalformed, "could not decode token claims", err)
	}

	if err := v.validateClaims(parsed); err != nil {
		return nil, err
	}

	return newVerifiedClaims(parsed), nil
}

func (v *Validator) validateClaims(token jwt.Token) error {
	now := v.now()

	if token.Issuer() != v.issuer {
		return core.NewError(core.KindIssuerMismatch, "token issuer does not match", nil)
	}

	if !slices.Contains(token.Audience(), v.audience) {
		return core.NewError(core.KindAudienceMismatch, "token audience does not match", nil)
	}

	exp := token.Expiration()
	if exp.IsZero() {
		return core.NewError(core.KindTokenExpired, "token has no expiry", nil)
	}
	if !now.Before(exp.Add(v.allowedClockSkew)) {
		return core.NewError(core.KindTokenExpired, "token is expired", nil)
	}

	if nbf := token.NotBefore(); !nbf.IsZero() && now.Add(v.allowedClockSkew).Before(nbf) {
		return core.NewError(core.KindTokenNotYetValid, "token is not valid yet", nil)
	}

	if token.Subject() == "" {
		return core.NewError(core.KindTokenMalformed, "token has no subject", nil)
	}

	return nil
}
