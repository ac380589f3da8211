package oidc

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// JWKSPath is the well-known location of an issuer's key set.
const JWKSPath = "/.well-known/jwks.json"

// ErrEmptyDomain is returned when no issuer domain was configured.
var ErrEmptyDomain = errors.New("issuer domain is empty")

// IssuerURL returns the issuer identifier for domain, e.g.
// "example.auth0.com" becomes "https://example.auth0.com/".
// The trailing slash is part of the identifier and must match the iss claim.
func IssuerURL(domain string) (*url.URL, error) {
	host, err := normalize(domain)
	if err != nil {
		return nil, err
	}

	return &url.URL{Scheme: "https", Host: host, Path: "/"}, nil
}

// JWKSURL returns the key set location for domain:
// https://{domain}/.well-known/jwks.json.
func JWKSURL(domain string) (*url.URL, error) {
	host, err := normalize(domain)
	if err != nil {
		return nil, err
	}

	return &url.URL{Scheme: "https", Host: host, Path: JWKSPath}, nil
}

func normalize(domain string) (string, error) {
	domain = strings.TrimSpace(domain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimSuffix(domain, "/")
	if domain == "" {
		return "", ErrEmptyDomain
	}

	u, err := url.Parse("https://" + domain)
	if err != nil {
		return "", fmt.Errorf("invalid issuer domain %q: %w", domain, err)
	}
	if u.Host == "" || u.Path != "" {
		return "", fmt.Errorf("invalid issuer domain %q: expected a bare host name", domain)
	}

	return u.Host, nil
}
