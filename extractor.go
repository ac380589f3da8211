package authorizer

import (
	"net/http"
	"strings"

	"github.com/auth0-samples/go-jwt-authorizer/core"
)

// bearerPrefix is matched case-insensitively.
const bearerPrefix = "bearer "

// ExtractToken returns the token carried by a "Bearer <token>" credential.
// Everything after the scheme and its separating space is returned as is;
// extra whitespace or segments are left for the validator to reject.
func ExtractToken(credential string) (string, error) {
	if credential == "" {
		return "", core.NewError(core.KindMissingCredential, "no authorization credential", nil)
	}

	if len(credential) < len(bearerPrefix) || !strings.EqualFold(credential[:len(bearerPrefix)], bearerPrefix) {
		return "", core.NewError(core.KindMalformedCredential, "authorization credential format must be Bearer {token}", nil)
	}

	token := credential[len(bearerPrefix):]
	if token == "" {
		return "", core.NewError(core.KindMalformedCredential, "authorization credential has no token", nil)
	}

	return token, nil
}

// HeaderCredential returns the Authorization value from a header map whose
// keys were not canonicalized, as delivered by API gateways.
// The exact spellings "Authorization" and "authorization" win over other
// casings. Among other casings the lowest key in byte order is used.
func HeaderCredential(headers map[string]string) string {
	if v, ok := headers["Authorization"]; ok {
		return v
	}
	if v, ok := headers["authorization"]; ok {
		return v
	}

	match := ""
	for k := range headers {
		if strings.EqualFold(k, "Authorization") && (match == "" || k < match) {
			match = k
		}
	}
	if match == "" {
		return ""
	}
	return headers[match]
}

// RequestCredential returns the Authorization header of r.
func RequestCredential(r *http.Request) string {
	return r.Header.Get("Authorization")
}
