package grpc

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorHandler builds the status returned for a denied call.
type ErrorHandler func(method string) error

// DefaultErrorHandler returns codes.Unauthenticated with a fixed message so
// the reason for the denial does not reach the client.
func DefaultErrorHandler(string) error {
	return status.Error(codes.Unauthenticated, "unauthorized")
}
