package authorizer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/auth0-samples/go-jwt-authorizer/core"
	"github.com/auth0-samples/go-jwt-authorizer/jwks"
	"github.com/auth0-samples/go-jwt-authorizer/validator"
)

type verifierFunc func(ctx context.Context, token string) (*validator.VerifiedClaims, error)

func (f verifierFunc) Verify(ctx context.Context, token string) (*validator.VerifiedClaims, error) {
	return f(ctx, token)
}

func newTestAuthorizer(t *testing.T, verifier Verifier) (*Authorizer, *test.Hook) {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	a, err := New(verifier, WithLogger(logger))
	require.NoError(t, err)

	return a, hook
}

func TestAuthorizer_Authorize(t *testing.T) {
	ks := newKeyServer(t)
	token := ks.sign(t, "K1", validClaims())

	testCases := []struct {
		name        string
		path        string
		credential  string
		wantAllow   bool
		wantKind    core.Kind
		wantFetches int32
	}{
		{
			name:        "it allows a valid token",
			path:        "/.well-known/jwks.json",
			credential:  "Bearer " + token,
			wantAllow:   true,
			wantFetches: 1,
		},
		{
			name:     "it denies an absent credential",
			path:     "/.well-known/jwks.json",
			wantKind: core.KindMissingCredential,
		},
		{
			name:       "it denies a credential without the bearer prefix",
			path:       "/.well-known/jwks.json",
			credential: token,
			wantKind:   core.KindMalformedCredential,
		},
		{
			name:        "it denies a token for another audience",
			path:        "/.well-known/jwks.json",
			credential:  "Bearer " + ks.sign(t, "K1", withClaim(validClaims(), "aud", "other-api")),
			wantKind:    core.KindAudienceMismatch,
			wantFetches: 1,
		},
		{
			name:        "it denies an unknown key identifier after fetching the key set",
			path:        "/.well-known/jwks.json",
			credential:  "Bearer " + ks.sign(t, "K9", validClaims()),
			wantKind:    core.KindKeyNotFound,
			wantFetches: 1,
		},
		{
			name:        "it denies an expired token with a valid signature",
			path:        "/.well-known/jwks.json",
			credential:  "Bearer " + ks.sign(t, "K1", withClaim(validClaims(), "exp", time.Now().Add(-time.Hour).Unix())),
			wantKind:    core.KindTokenExpired,
			wantFetches: 1,
		},
		{
			name:        "it denies when the key set endpoint fails",
			path:        "/error",
			credential:  "Bearer " + token,
			wantKind:    core.KindKeySetUnavailable,
			wantFetches: 1,
		},
		{
			name:        "it denies when the key set fetch times out",
			path:        "/slow",
			credential:  "Bearer " + token,
			wantKind:    core.KindKeySetUnavailable,
			wantFetches: 1,
		},
		{
			name:       "it denies a malformed token",
			path:       "/.well-known/jwks.json",
			credential: "Bearer not-a-token",
			wantKind:   core.KindTokenMalformed,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			a, hook := newTestAuthorizer(t, ks.validator(t, testCase.path))
			before := ks.fetches()

			decision := a.Authorize(context.Background(), testCase.credential)

			assert.Equal(t, testCase.wantFetches, ks.fetches()-before)

			if testCase.wantAllow {
				want := BuildDecision(&validator.VerifiedClaims{Subject: subject}, nil)
				if diff := cmp.Diff(want, decision); diff != "" {
					t.Errorf("Authorize() mismatch (-want +got):\n%s", diff)
				}
				return
			}

			assert.False(t, decision.Allowed())
			assert.Equal(t, UnauthorizedPrincipal, decision.PrincipalID)
			assert.Nil(t, decision.Context)

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, logrus.WarnLevel, entry.Level)
			assert.Equal(t, testCase.wantKind, entry.Data["kind"])
			assert.NotEmpty(t, entry.Data["decision_id"])

			for _, e := range hook.AllEntries() {
				s, err := e.String()
				require.NoError(t, err)
				if testCase.credential != "" {
					assert.NotContains(t, s, testCase.credential)
				}
			}
		})
	}
}

func TestAuthorizer_AuthorizeIsIdempotent(t *testing.T) {
	ks := newKeyServer(t)
	a, _ := newTestAuthorizer(t, ks.validator(t, "/.well-known/jwks.json"))
	credential := "Bearer " + ks.sign(t, "K1", validClaims())

	first := a.Authorize(context.Background(), credential)
	second := a.Authorize(context.Background(), credential)

	assert.True(t, first.Allowed())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second decision differs (-first +second):\n%s", diff)
	}
}

func TestAuthorizer_AuthorizeConcurrently(t *testing.T) {
	const callers = 32

	testCases := []struct {
		name        string
		verifier    func(t *testing.T, ks *keyServer) Verifier
		wantFetches int32
	}{
		{
			name: "uncached key set",
			verifier: func(t *testing.T, ks *keyServer) Verifier {
				return ks.validator(t, "/.well-known/jwks.json")
			},
			wantFetches: callers,
		},
		{
			name: "cached key set",
			verifier: func(t *testing.T, ks *keyServer) Verifier {
				cached, err := jwks.NewCachingProvider(
					ks.provider(t, "/.well-known/jwks.json"),
					jwks.WithCacheTTL(time.Minute),
				)
				require.NoError(t, err)
				return newValidator(t, cached)
			},
			wantFetches: 1,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			ks := newKeyServer(t)
			a, _ := newTestAuthorizer(t, testCase.verifier(t, ks))
			credential := "Bearer " + ks.sign(t, "K1", validClaims())

			decisions := make([]Decision, callers)

			var wg sync.WaitGroup
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					decisions[i] = a.Authorize(context.Background(), credential)
				}(i)
			}
			wg.Wait()

			for i, decision := range decisions {
				assert.True(t, decision.Allowed(), "decision %d", i)
				if diff := cmp.Diff(decisions[0], decision); diff != "" {
					t.Errorf("decision %d differs (-first +got):\n%s", i, diff)
				}
			}
			assert.Equal(t, subject, decisions[0].UserID())
			assert.Equal(t, testCase.wantFetches, ks.fetches())
		})
	}
}

func TestAuthorizer_AuthorizeHeaders(t *testing.T) {
	ks := newKeyServer(t)
	a, _ := newTestAuthorizer(t, ks.validator(t, "/.well-known/jwks.json"))
	token := ks.sign(t, "K1", validClaims())

	decision := a.AuthorizeHeaders(context.Background(), map[string]string{"authorization": "Bearer " + token})
	assert.True(t, decision.Allowed())
	assert.Equal(t, subject, decision.UserID())

	decision = a.AuthorizeHeaders(context.Background(), map[string]string{})
	assert.False(t, decision.Allowed())
}

func TestAuthorizer_RecoversFromPanics(t *testing.T) {
	a, hook := newTestAuthorizer(t, verifierFunc(func(context.Context, string) (*validator.VerifiedClaims, error) {
		panic("boom")
	}))

	var decision Decision
	assert.NotPanics(t, func() {
		decision = a.Authorize(context.Background(), "Bearer a.b.c")
	})

	assert.False(t, decision.Allowed())
	assert.Equal(t, UnauthorizedPrincipal, decision.PrincipalID)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestAuthorizer_LogsAllowAtDebug(t *testing.T) {
	a, hook := newTestAuthorizer(t, verifierFunc(func(context.Context, string) (*validator.VerifiedClaims, error) {
		return &validator.VerifiedClaims{Subject: subject}, nil
	}))

	decision := a.Authorize(context.Background(), "Bearer a.b.c")

	assert.True(t, decision.Allowed())
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.DebugLevel, hook.LastEntry().Level)
	assert.Equal(t, subject, hook.LastEntry().Data["principal"])
}

func TestAuthorizer_Telemetry(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	logger, _ := test.NewNullLogger()
	a, err := New(
		verifierFunc(func(_ context.Context, token string) (*validator.VerifiedClaims, error) {
			if token == "good" {
				return &validator.VerifiedClaims{Subject: subject}, nil
			}
			return nil, core.ErrSignatureInvalid
		}),
		WithLogger(logger),
		WithTracerProvider(tp),
		WithMeterProvider(mp),
	)
	require.NoError(t, err)

	a.Authorize(context.Background(), "Bearer good")
	a.Authorize(context.Background(), "Bearer bad")
	a.Authorize(context.Background(), "Bearer bad")

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "authorizer.Authorize", spans[0].Name())
	assert.Equal(t, otelcodes.Unset, spans[0].Status().Code)
	assert.Equal(t, otelcodes.Error, spans[1].Status().Code)
	assert.Equal(t, string(core.KindSignatureInvalid), spans[1].Status().Description)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != DecisionCounterName {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				effect, _ := dp.Attributes.Value(attribute.Key("effect"))
				counts[effect.AsString()] += dp.Value
			}
		}
	}
	assert.Equal(t, map[string]int64{"Allow": 1, "Deny": 2}, counts)
}

func TestNew(t *testing.T) {
	verifier := verifierFunc(func(context.Context, string) (*validator.VerifiedClaims, error) { return nil, nil })

	testCases := []struct {
		name      string
		verifier  Verifier
		opts      []Option
		wantError string
	}{
		{
			name:      "nil verifier",
			wantError: "verifier is required but was nil",
		},
		{
			name:      "nil logger",
			verifier:  verifier,
			opts:      []Option{WithLogger(nil)},
			wantError: "invalid option: logger cannot be nil",
		},
		{
			name:      "nil tracer provider",
			verifier:  verifier,
			opts:      []Option{WithTracerProvider(nil)},
			wantError: "invalid option: tracer provider cannot be nil",
		},
		{
			name:      "nil meter provider",
			verifier:  verifier,
			opts:      []Option{WithMeterProvider(nil)},
			wantError: "invalid option: meter provider cannot be nil",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := New(testCase.verifier, testCase.opts...)
			assert.EqualError(t, err, testCase.wantError)
		})
	}
}
