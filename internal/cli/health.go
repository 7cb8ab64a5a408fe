package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the analysis service is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.runtimeConfig()
			if err != nil {
				return err
			}
			logger, closeLog, err := opts.logger(cfg, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer closeLog()

			client := opts.client(cfg, logger)
			status, err := client.Health(cmd.Context())
			if err != nil {
				return requestError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", client.BaseURL(), status.Status, status.Message)
			return nil
		},
	}
}
