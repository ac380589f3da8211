package authorizer

const tracerName = "github.com/auth0-samples/go-jwt-authorizer"
