package authorizer

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/stretchr/testify/require"

	"github.com/auth0-samples/go-jwt-authorizer/jwks"
	"github.com/auth0-samples/go-jwt-authorizer/validator"
)

const (
	issuer   = "https://example.auth0.com/"
	audience = "my-api"
	subject  = "user-42"
)

// keyServer publishes a single RS256 certificate under kid K1.
type keyServer struct {
	*httptest.Server
	private  *rsa.PrivateKey
	requests int32
}

func newKeyServer(t *testing.T) *keyServer {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "example.auth0.com"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &privateKey.PublicKey, privateKey)
	require.NoError(t, err)

	set := jwks.KeySet{Keys: []jwks.JSONWebKey{{
		KeyID:     "K1",
		KeyType:   "RSA",
		Algorithm: "RS256",
		Use:       "sig",
		X5c:       []string{base64.StdEncoding.EncodeToString(der)},
	}}}

	ks := &keyServer{private: privateKey}
	ks.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&ks.requests, 1)

		switch r.URL.Path {
		case "/.well-known/jwks.json":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(set)
		case "/error":
			w.WriteHeader(http.StatusInternalServerError)
		case "/slow":
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ks.Close)

	return ks
}

func (ks *keyServer) fetches() int32 {
	return atomic.LoadInt32(&ks.requests)
}

// provider returns an uncached Provider reading keys from path on the server.
func (ks *keyServer) provider(t *testing.T, path string) *jwks.Provider {
	t.Helper()

	jwksURI, err := url.Parse(ks.URL + path)
	require.NoError(t, err)

	provider, err := jwks.NewProvider(
		jwks.WithCustomJWKSURI(jwksURI),
		jwks.WithTimeout(100*time.Millisecond),
	)
	require.NoError(t, err)

	return provider
}

// validator returns a Validator reading keys from path on the server.
func (ks *keyServer) validator(t *testing.T, path string) *validator.Validator {
	t.Helper()

	return newValidator(t, ks.provider(t, path))
}

func newValidator(t *testing.T, resolver jwks.Resolver) *validator.Validator {
	t.Helper()

	v, err := validator.New(
		validator.WithResolver(resolver),
		validator.WithIssuer(issuer),
		validator.WithAudience(audience),
	)
	require.NoError(t, err)

	return v
}

func (ks *keyServer) sign(t *testing.T, kid string, claims map[string]any) string {
	t.Helper()

	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	headers := jws.NewHeaders()
	require.NoError(t, headers.Set(jws.KeyIDKey, kid))

	signed, err := jws.Sign(payload, jws.WithKey(jwa.RS256, ks.private, jws.WithProtectedHeaders(headers)))
	require.NoError(t, err)

	return string(signed)
}

func validClaims() map[string]any {
	return map[string]any{
		"sub": subject,
		"iss": issuer,
		"aud": audience,
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Add(-time.Minute).Unix(),
	}
}

func withClaim(claims map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(claims))
	for k, v := range claims {
		out[k] = v
	}
	out[key] = value
	return out
}
