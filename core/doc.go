/*
Package core holds the pieces shared by every layer of the authorizer: the
error taxonomy used to classify refusals and the context helpers that carry
an authorized principal to downstream handlers.

Every stage of the pipeline returns a *Error whose Kind tells operators why a
request was refused:

	if core.KindOf(err) == core.KindKeyNotFound {
	    // the token was signed by a key the issuer no longer publishes
	}

Errors also match the sentinel values of the same kind and ErrUnauthorized:

	errors.Is(err, core.ErrTokenExpired)
	errors.Is(err, core.ErrUnauthorized)

Decisions returned to callers never include this information.
*/
package core
