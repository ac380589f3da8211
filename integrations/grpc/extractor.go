package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/metadata"
)

// CredentialExtractor returns the raw authorization credential of a call.
type CredentialExtractor func(ctx context.Context) (string, error)

// ErrMultipleAuthHeaders indicates multiple authorization metadata entries were provided.
var ErrMultipleAuthHeaders = errors.New("multiple authorization metadata entries are not allowed")

// MetadataCredentialExtractor returns the "authorization" metadata entry,
// scheme included. gRPC lowercases incoming metadata keys, so only the
// lowercase key is checked. A call without the entry yields "".
func MetadataCredentialExtractor(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", nil
	}

	values := md.Get("authorization")
	switch len(values) {
	case 0:
		return "", nil
	case 1:
		return values[0], nil
	default:
		return "", ErrMultipleAuthHeaders
	}
}
