package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	authorizer "github.com/auth0-samples/go-jwt-authorizer"
	"github.com/auth0-samples/go-jwt-authorizer/internal/config"
)

// app holds what every subcommand needs once flags are parsed.
type app struct {
	configFile string
	cfg        *config.Config
	logger     *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "authorizer",
		Short:         "Bearer token authorizer",
		Long:          "authorizer verifies RS256 bearer tokens against an Auth0 tenant's published keys and answers with an IAM policy.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}

			logger, err := authorizer.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = logger
			logger.WithField("config", cfg.String()).Debug("loaded config")
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default is ./config.yaml if present)")

	rootCmd.AddCommand(
		newLambdaCmd(a),
		newServeCmd(a),
		newCheckCmd(a),
	)

	return rootCmd
}
