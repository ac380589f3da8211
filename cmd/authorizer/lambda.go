package main

import (
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	authlambda "github.com/auth0-samples/go-jwt-authorizer/integrations/lambda"
)

func newLambdaCmd(a *app) *cobra.Command {
	var authorizerType string

	cmd := &cobra.Command{
		Use:   "lambda",
		Short: "Run as an API Gateway Lambda authorizer",
		RunE: func(_ *cobra.Command, _ []string) error {
			authz, cleanup, err := newAuthorizer(a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer cleanup()

			handler, err := authlambda.NewHandler(authz)
			if err != nil {
				return err
			}

			a.logger.WithField("type", authorizerType).Info("starting lambda authorizer")

			switch authorizerType {
			case "token":
				lambda.Start(handler.HandleToken)
			case "request":
				lambda.Start(handler.HandleRequest)
			default:
				return fmt.Errorf("unknown authorizer type %q", authorizerType)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&authorizerType, "type", "token", "API Gateway authorizer type: token or request")

	return cmd
}
