package core

import "errors"

// ErrUnauthorized is matched by every *Error, so callers that only care
// whether a request was refused can use errors.Is(err, ErrUnauthorized).
var ErrUnauthorized = errors.New("unauthorized")

// ErrUserIDNotFound is returned when no principal is stored in a context.
var ErrUserIDNotFound = errors.New("user id not found in context")

// Kind is a machine-readable reason for refusing a request.
type Kind string

// Error kinds produced along the authorization pipeline.
const (
	KindUnknown             Kind = "unknown"
	KindMissingCredential   Kind = "missing_credential"
	KindMalformedCredential Kind = "malformed_credential"
	KindTokenMalformed      Kind = "token_malformed"
	KindKeySetUnavailable   Kind = "key_set_unavailable"
	KindKeySetMalformed     Kind = "key_set_malformed"
	KindKeyNotFound         Kind = "key_not_found"
	KindAlgorithmMismatch   Kind = "algorithm_mismatch"
	KindSignatureInvalid    Kind = "signature_invalid"
	KindIssuerMismatch      Kind = "issuer_mismatch"
	KindAudienceMismatch    Kind = "audience_mismatch"
	KindTokenExpired        Kind = "token_expired"
	KindTokenNotYetValid    Kind = "token_not_yet_valid"
)

// Error carries the kind of an authorization failure along with a
// human-readable message for operators. Messages must never contain the
// raw token or key material.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Message describes the failure.
	Message string

	// Details contains the underlying error, if any.
	Details error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Details != nil {
		return e.Message + ": " + e.Details.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *Error) Unwrap() error {
	return e.Details
}

// Is reports whether target is ErrUnauthorized or an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if target == ErrUnauthorized {
		return true
	}

	if t, ok := target.(*Error); ok {
		return t.Kind == e.Kind
	}

	return false
}

// NewError creates a new *Error with the given kind and message.
func NewError(kind Kind, message string, details error) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Details: details,
	}
}

// KindOf returns the kind of the first *Error in err's chain,
// or KindUnknown if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Sentinel values usable as errors.Is targets, e.g.
// errors.Is(err, core.ErrKeyNotFound).
var (
	ErrMissingCredential   = sentinel(KindMissingCredential)
	ErrMalformedCredential = sentinel(KindMalformedCredential)
	ErrTokenMalformed      = sentinel(KindTokenMalformed)
	ErrKeySetUnavailable   = sentinel(KindKeySetUnavailable)
	ErrKeySetMalformed     = sentinel(KindKeySetMalformed)
	ErrKeyNotFound         = sentinel(KindKeyNotFound)
	ErrAlgorithmMismatch   = sentinel(KindAlgorithmMismatch)
	ErrSignatureInvalid    = sentinel(KindSignatureInvalid)
	ErrIssuerMismatch      = sentinel(KindIssuerMismatch)
	ErrAudienceMismatch    = sentinel(KindAudienceMismatch)
	ErrTokenExpired        = sentinel(KindTokenExpired)
	ErrTokenNotYetValid    = sentinel(KindTokenNotYetValid)
)

func sentinel(kind Kind) *Error {
	return &Error{Kind: kind, Message: string(kind)}
}
