package jwks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/auth0-samples/go-jwt-authorizer/core"
)

const (
	// DefaultTimeout bounds a single key set fetch.
	DefaultTimeout = 5 * time.Second

	// maxBodySize limits the key set response to prevent memory exhaustion.
	// 1MB is generous for JWKS (typically <10KB).
	maxBodySize = 1 << 20

	tracerName = "github.com/auth0-samples/go-jwt-authorizer/jwks"
)

// Resolver locates the signing key for a key identifier.
type Resolver interface {
	Resolve(ctx context.Context, kid string) (*SigningKey, error)
}

// Provider fetches the key set from JWKSURI on every call. It holds no
// state between calls, so the key set may change freely between requests.
// Use CachingProvider to avoid a network round trip per request.
type Provider struct {
	JWKSURI *url.URL // Required.
	Client  *http.Client
	Timeout time.Duration

	logger logrus.FieldLogger
	http   *resty.Client
}

// NewProvider builds and returns a new *Provider.
// Required options (one of):
//   - WithDomain: tenant domain, JWKS at https://{domain}/.well-known/jwks.json
//   - WithCustomJWKSURI: explicit JWKS URI
//
// Optional options:
//   - WithCustomClient: Custom HTTP client
//   - WithTimeout: Fetch timeout (default 5s)
//   - WithLogger: Logger for the HTTP client
func NewProvider(opts ...ProviderOption) (*Provider, error) {
	p := &Provider{
		Client:  &http.Client{Timeout: DefaultTimeout},
		Timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if p.JWKSURI == nil {
		return nil, errors.New("JWKS URI is required (use WithDomain or WithCustomJWKSURI)")
	}

	p.http = resty.NewWithClient(p.Client).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if p.logger != nil {
		p.http.SetLogger(p.logger)
	}

	return p, nil
}

// Resolve fetches the key set and returns the key matching kid.
func (p *Provider) Resolve(ctx context.Context, kid string) (*SigningKey, error) {
	set, err := p.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	return set.Lookup(kid)
}

// Fetch retrieves and decodes the key set. Transport failures, timeouts and
// non-2xx responses are reported as core.KindKeySetUnavailable; bodies that
// are not a JSON object with a "keys" array as core.KindKeySetMalformed.
func (p *Provider) Fetch(ctx context.Context) (*KeySet, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "jwks.Fetch")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	resp, err := p.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(p.JWKSURI.String())
	if err != nil {
		span.SetStatus(codes.Error, "request failed")
		return nil, core.NewError(core.KindKeySetUnavailable, "could not fetch JWKS", err)
	}

	body := resp.RawBody()
	defer body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode()))

	if !resp.IsSuccess() {
		span.SetStatus(codes.Error, "unexpected status")
		return nil, core.NewError(
			core.KindKeySetUnavailable,
			fmt.Sprintf("JWKS request returned status %d", resp.StatusCode()),
			nil,
		)
	}

	data, err := io.ReadAll(io.LimitReader(body, maxBodySize))
	if err != nil {
		span.SetStatus(codes.Error, "read failed")
		return nil, core.NewError(core.KindKeySetUnavailable, "could not read JWKS", err)
	}

	set, err := decodeKeySet(data)
	if err != nil {
		span.SetStatus(codes.Error, "malformed key set")
		return nil, err
	}

	span.SetAttributes(attribute.Int("jwks.keys", len(set.Keys)))

	return set, nil
}

func decodeKeySet(data []byte) (*KeySet, error) {
	var raw struct {
		Keys *[]JSONWebKey `json:"keys"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, core.NewError(core.KindKeySetMalformed, "could not decode JWKS", err)
	}
	if raw.Keys == nil {
		return nil, core.NewError(core.KindKeySetMalformed, "JWKS has no keys array", nil)
	}

	return &KeySet{Keys: *raw.Keys}, nil
}
