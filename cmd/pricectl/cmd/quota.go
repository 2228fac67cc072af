package cmd

import (
	"github.com/spf13/cobra"
)

func quotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show request quota state across limiters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := newClient().GetQuota(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(resp)
			}
			return printQuota(resp)
		},
	}
}
