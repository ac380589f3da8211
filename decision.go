package authorizer

import (
	"github.com/auth0-samples/go-jwt-authorizer/validator"
)

const (
	// PolicyVersion is the IAM policy language version of every decision.
	PolicyVersion = "2012-10-17"

	// InvokeAction is the API Gateway action the policy governs.
	InvokeAction = "execute-api:Invoke"

	// UnauthorizedPrincipal is the principal of every Deny decision.
	UnauthorizedPrincipal = "unauthorized"

	// UserIDKey is the context key under which the subject is passed to
	// downstream handlers.
	UserIDKey = "userId"
)

// Effect is the outcome of a decision.
type Effect string

const (
	Allow Effect = "Allow"
	Deny  Effect = "Deny"
)

// Statement is a single IAM policy statement.
type Statement struct {
	Action   string `json:"Action"`
	Effect   Effect `json:"Effect"`
	Resource string `json:"Resource"`
}

// PolicyDocument is the IAM policy returned to the gateway.
type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// Decision is the result of authorizing one request. An Allow decision
// always carries the verified subject; a Deny decision carries
// UnauthorizedPrincipal and no context.
type Decision struct {
	PrincipalID    string            `json:"principalId"`
	PolicyDocument PolicyDocument    `json:"policyDocument"`
	Context        map[string]string `json:"context,omitempty"`
}

// Effect returns the effect of the decision's policy.
func (d Decision) Effect() Effect {
	if len(d.PolicyDocument.Statement) == 0 {
		return Deny
	}
	return d.PolicyDocument.Statement[0].Effect
}

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool {
	return d.Effect() == Allow
}

// UserID returns the identity passed downstream, or "" for Deny.
func (d Decision) UserID() string {
	return d.Context[UserIDKey]
}

// BuildDecision turns the outcome of verification into a decision. It is
// total: any error, missing claims or empty subject yields Deny.
func BuildDecision(claims *validator.VerifiedClaims, err error) Decision {
	if err != nil || claims == nil || claims.Subject == "" {
		return denyDecision()
	}

	return Decision{
		PrincipalID:    claims.Subject,
		PolicyDocument: policy(Allow),
		Context:        map[string]string{UserIDKey: claims.Subject},
	}
}

func denyDecision() Decision {
	return Decision{
		PrincipalID:    UnauthorizedPrincipal,
		PolicyDocument: policy(Deny),
	}
}

func policy(effect Effect) PolicyDocument {
	return PolicyDocument{
		Version: PolicyVersion,
		Statement: []Statement{
			{Action: InvokeAction, Effect: effect, Resource: "*"},
		},
	}
}
