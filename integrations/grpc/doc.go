// Package grpc provides unary and stream server interceptors that authorize
// gRPC calls from their "authorization" metadata.
//
//	interceptor, err := jwtgrpc.New(a, jwtgrpc.WithExcludedMethods("/grpc.health.v1.Health/Check"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	server := grpc.NewServer(
//	    grpc.UnaryInterceptor(interceptor.UnaryServerInterceptor()),
//	    grpc.StreamInterceptor(interceptor.StreamServerInterceptor()),
//	)
//
// Handlers read the subject with core.UserID(ctx). Denied calls fail with
// codes.Unauthenticated.
package grpc
