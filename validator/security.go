package validator

import (
	"encoding/json"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jws"

	"github.com/auth0-samples/go-jwt-authorizer/core"
)

// maxTokenSize rejects tokens that are suspiciously large before parsing.
// Valid JWTs should rarely exceed a few KB.
const maxTokenSize = 64 * 1024

// DecodedHeader is the part of a token header used to pick a signing key.
// It is read without verifying the signature and must not be trusted for
// anything else.
type DecodedHeader struct {
	Algorithm string
	KeyID     string
}

// DecodeHeader parses the header of a compact JWS without verifying it.
// Tokens that are not three dot-separated parts, are not valid base64url,
// have a header that is not JSON, or a payload that is not a JSON object
// fail with core.KindTokenMalformed.
func DecodeHeader(token string) (*DecodedHeader, error) {
	if err := validateTokenFormat(token); err != nil {
		return nil, err
	}

	msg, err := jws.Parse([]byte(token))
	if err != nil {
		return nil, core.NewError(core.KindTokenMalformed, "could not parse the token", err)
	}

	signatures := msg.Signatures()
	if len(signatures) != 1 {
		return nil, core.NewError(core.KindTokenMalformed, "token must carry exactly one signature", nil)
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		return nil, core.NewError(core.KindTokenMalformed, "token payload is not a JSON object", err)
	}

	headers := signatures[0].ProtectedHeaders()

	return &DecodedHeader{
		Algorithm: headers.Algorithm().String(),
		KeyID:     headers.KeyID(),
	}, nil
}

// validateTokenFormat rejects inputs that cannot be a compact JWS before
// they reach the parser.
func validateTokenFormat(token string) error {
	if token == "" {
		return core.NewError(core.KindTokenMalformed, "token is empty", nil)
	}

	if len(token) > maxTokenSize {
		return core.NewError(core.KindTokenMalformed, "token exceeds maximum size", nil)
	}

	if strings.Count(token, ".") != 2 {
		return core.NewError(core.KindTokenMalformed, "token must have three parts", nil)
	}

	return nil
}
