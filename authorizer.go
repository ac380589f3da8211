package authorizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/auth0-samples/go-jwt-authorizer/core"
	"github.com/auth0-samples/go-jwt-authorizer/validator"
)

// Verifier checks a bearer token and returns its verified claims.
// *validator.Validator implements it.
type Verifier interface {
	Verify(ctx context.Context, token string) (*validator.VerifiedClaims, error)
}

// Authorizer turns a raw Authorization credential into an allow or deny
// decision. It holds no per-request state and is safe for concurrent use.
type Authorizer struct {
	verifier Verifier
	logger   logrus.FieldLogger
	tracer   trace.Tracer
	metrics  *decisionMetrics
}

// New constructs an Authorizer around verifier.
func New(verifier Verifier, opts ...Option) (*Authorizer, error) {
	if verifier == nil {
		return nil, errors.New("verifier is required but was nil")
	}

	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	metrics, err := newDecisionMetrics(o.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	return &Authorizer{
		verifier: verifier,
		logger:   o.logger,
		tracer:   o.tracerProvider.Tracer(tracerName),
		metrics:  metrics,
	}, nil
}

// Authorize decides whether the request carrying credential may proceed.
// It never fails: every error, including a panic inside verification,
// becomes a Deny decision. Failures are logged with their kind; the token
// itself is never written to the log.
func (a *Authorizer) Authorize(ctx context.Context, credential string) (decision Decision) {
	ctx, span := a.tracer.Start(ctx, "authorizer.Authorize")
	defer span.End()

	logger := a.logger.WithField("decision_id", uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("kind", core.KindUnknown).Errorf("recovered from panic during authorization: %v", r)
			span.SetStatus(codes.Error, "panic")
			a.metrics.record(ctx, Deny, core.KindUnknown)
			decision = denyDecision()
		}
	}()

	claims, err := a.verify(ctx, credential)
	decision = BuildDecision(claims, err)

	if !decision.Allowed() {
		kind := core.KindOf(err)
		logger.WithError(err).WithField("kind", kind).Warn("request denied")
		span.SetAttributes(attribute.String("authorizer.effect", string(Deny)))
		span.SetStatus(codes.Error, string(kind))
		a.metrics.record(ctx, Deny, kind)
		return decision
	}

	logger.WithField("principal", decision.PrincipalID).Debug("request allowed")
	span.SetAttributes(attribute.String("authorizer.effect", string(Allow)))
	a.metrics.record(ctx, Allow, "")
	return decision
}

// AuthorizeHeaders authorizes using the Authorization entry of a header
// map, matching the header name as HeaderCredential does.
func (a *Authorizer) AuthorizeHeaders(ctx context.Context, headers map[string]string) Decision {
	return a.Authorize(ctx, HeaderCredential(headers))
}

func (a *Authorizer) verify(ctx context.Context, credential string) (*validator.VerifiedClaims, error) {
	token, err := ExtractToken(credential)
	if err != nil {
		return nil, err
	}
	return a.verifier.Verify(ctx, token)
}
