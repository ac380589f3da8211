package main

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var errDenied = errors.New("request denied")

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <credential>",
		Short: "Print the decision for a credential such as \"Bearer eyJ...\"",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			authz, cleanup, err := newAuthorizer(a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer cleanup()

			decision := authz.Authorize(cmd.Context(), strings.TrimSpace(args[0]))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(decision); err != nil {
				return err
			}

			if !decision.Allowed() {
				return errDenied
			}
			return nil
		},
	}
}
