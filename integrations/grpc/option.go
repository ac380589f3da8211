package grpc

import (
	"errors"
)

// Option configures the interceptor.
type Option func(*Interceptor) error

// WithCredentialExtractor sets a custom credential extractor function.
// Default is MetadataCredentialExtractor.
func WithCredentialExtractor(extractor CredentialExtractor) Option {
	return func(i *Interceptor) error {
		if extractor == nil {
			return errors.New("credential extractor cannot be nil")
		}
		i.extractor = extractor
		return nil
	}
}

// WithErrorHandler sets a custom error handler function.
// Default is DefaultErrorHandler.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(i *Interceptor) error {
		if handler == nil {
			return errors.New("error handler cannot be nil")
		}
		i.errorHandler = handler
		return nil
	}
}

// WithExcludedMethods excludes specific gRPC methods from authorization.
// Methods should be provided in the format: "/package.Service/Method"
// Example: "/grpc.health.v1.Health/Check"
func WithExcludedMethods(methods ...string) Option {
	return func(i *Interceptor) error {
		for _, method := range methods {
			i.excludedMethods[method] = true
		}
		return nil
	}
}
