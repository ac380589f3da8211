// Package lambda exposes an Authorizer as an AWS API Gateway Lambda
// authorizer, for both TOKEN and REQUEST authorizer types.
package lambda

import (
	"context"
	"errors"

	"github.com/aws/aws-lambda-go/events"

	authorizer "github.com/auth0-samples/go-jwt-authorizer"
)

// Handler answers API Gateway authorizer invocations.
type Handler struct {
	authorizer *authorizer.Authorizer
}

// NewHandler returns a Handler deciding with a.
func NewHandler(a *authorizer.Authorizer) (*Handler, error) {
	if a == nil {
		return nil, errors.New("authorizer is required but was nil")
	}
	return &Handler{authorizer: a}, nil
}

// HandleToken serves a TOKEN authorizer. The returned error is always nil:
// a denial is a Deny policy, never a failed invocation.
func (h *Handler) HandleToken(ctx context.Context, req events.APIGatewayCustomAuthorizerRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	return Response(h.authorizer.Authorize(ctx, req.AuthorizationToken)), nil
}

// HandleRequest serves a REQUEST authorizer, reading the credential from
// the Authorization header in any casing.
func (h *Handler) HandleRequest(ctx context.Context, req events.APIGatewayCustomAuthorizerRequestTypeRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	return Response(h.authorizer.AuthorizeHeaders(ctx, req.Headers)), nil
}

// Response converts a decision into the shape API Gateway expects.
func Response(d authorizer.Decision) events.APIGatewayCustomAuthorizerResponse {
	statements := make([]events.IAMPolicyStatement, 0, len(d.PolicyDocument.Statement))
	for _, s := range d.PolicyDocument.Statement {
		statements = append(statements, events.IAMPolicyStatement{
			Action:   []string{s.Action},
			Effect:   string(s.Effect),
			Resource: []string{s.Resource},
		})
	}

	resp := events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: d.PrincipalID,
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version:   d.PolicyDocument.Version,
			Statement: statements,
		},
	}

	if len(d.Context) > 0 {
		resp.Context = make(map[string]interface{}, len(d.Context))
		for k, v := range d.Context {
			resp.Context[k] = v
		}
	}

	return resp
}
