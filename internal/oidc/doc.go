// Package oidc derives the issuer identifier and key set location of an
// Auth0-style tenant from its domain.
package oidc
