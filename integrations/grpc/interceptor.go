package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"

	authorizer "github.com/auth0-samples/go-jwt-authorizer"
	"github.com/auth0-samples/go-jwt-authorizer/core"
)

// Interceptor authorizes gRPC calls with an Authorizer.
type Interceptor struct {
	authorizer      *authorizer.Authorizer
	extractor       CredentialExtractor
	errorHandler    ErrorHandler
	excludedMethods map[string]bool
}

// New creates a new gRPC interceptor around a.
func New(a *authorizer.Authorizer, opts ...Option) (*Interceptor, error) {
	if a == nil {
		return nil, errors.New("authorizer is required but was nil")
	}

	interceptor := &Interceptor{
		authorizer:      a,
		extractor:       MetadataCredentialExtractor,
		errorHandler:    DefaultErrorHandler,
		excludedMethods: make(map[string]bool),
	}

	for _, opt := range opts {
		if err := opt(interceptor); err != nil {
			return nil, err
		}
	}

	return interceptor, nil
}

// UnaryServerInterceptor returns a grpc.UnaryServerInterceptor that
// authorizes each call and stores the subject in its context.
func (i *Interceptor) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if i.excludedMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		authorizedCtx, err := i.authorize(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}

		return handler(authorizedCtx, req)
	}
}

// StreamServerInterceptor returns a grpc.StreamServerInterceptor that
// authorizes each stream once, when it opens.
func (i *Interceptor) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if i.excludedMethods[info.FullMethod] {
			return handler(srv, ss)
		}

		authorizedCtx, err := i.authorize(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}

		return handler(srv, &wrappedServerStream{
			ServerStream: ss,
			ctx:          authorizedCtx,
		})
	}
}

func (i *Interceptor) authorize(ctx context.Context, method string) (context.Context, error) {
	credential, err := i.extractor(ctx)
	if err != nil {
		// Ambiguous credentials are refused without consulting the authorizer.
		return ctx, i.errorHandler(method)
	}

	decision := i.authorizer.Authorize(ctx, credential)
	if !decision.Allowed() {
		return ctx, i.errorHandler(method)
	}

	return core.WithUserID(ctx, decision.UserID()), nil
}

// wrappedServerStream wraps grpc.ServerStream with a custom context.
type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

// Context returns the wrapped context carrying the subject.
func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}
