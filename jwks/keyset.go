package jwks

import (
	"strings"

	"github.com/auth0-samples/go-jwt-authorizer/core"
)

const (
	pemHeader = "-----BEGIN CERTIFICATE-----"
	pemFooter = "-----END CERTIFICATE-----"
)

// JSONWebKey is the subset of an RFC 7517 key the authorizer reads.
type JSONWebKey struct {
	KeyID     string   `json:"kid"`
	KeyType   string   `json:"kty,omitempty"`
	Algorithm string   `json:"alg,omitempty"`
	Use       string   `json:"use,omitempty"`
	X5c       []string `json:"x5c,omitempty"` // X.509 certificate chain, base64 DER
}

// KeySet is a fetched JSON Web Key Set.
type KeySet struct {
	Keys []JSONWebKey `json:"keys"`
}

// SigningKey is the key selected for a token, with its leaf certificate
// already wrapped in PEM delimiters.
type SigningKey struct {
	KeyID        string
	Certificates []string
	PEM          string
}

// Lookup returns the first key whose identifier equals kid.
// Keys are never selected by position.
func (s *KeySet) Lookup(kid string) (*SigningKey, error) {
	if s == nil {
		return nil, core.NewError(core.KindKeyNotFound, "signing key not found", nil)
	}

	for _, key := range s.Keys {
		if key.KeyID != kid {
			continue
		}

		if len(key.X5c) == 0 || strings.TrimSpace(key.X5c[0]) == "" {
			return nil, core.NewError(core.KindKeySetMalformed, "signing key has no certificate chain", nil)
		}

		return &SigningKey{
			KeyID:        key.KeyID,
			Certificates: key.X5c,
			PEM:          CertificatePEM(key.X5c[0]),
		}, nil
	}

	return nil, core.NewError(core.KindKeyNotFound, "signing key not found", nil)
}

// CertificatePEM wraps a base64 DER certificate in PEM delimiters.
// The body is split into 64 character lines as required by RFC 7468.
func CertificatePEM(cert string) string {
	cert = strings.TrimSpace(cert)

	var b strings.Builder
	b.WriteString(pemHeader)
	b.WriteByte('\n')
	for len(cert) > 64 {
		b.WriteString(cert[:64])
		b.WriteByte('\n')
		cert = cert[64:]
	}
	if cert != "" {
		b.WriteString(cert)
		b.WriteByte('\n')
	}
	b.WriteString(pemFooter)
	b.WriteByte('\n')

	return b.String()
}
