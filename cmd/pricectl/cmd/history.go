package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/bluberry-labs/price-engine/internal/api/client"
)

func historyCmd() *cobra.Command {
	var params apiclient.ListEstimatesParams

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List persisted estimates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := newClient().ListEstimates(cmd.Context(), &params)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(resp)
			}
			if err := printHistoryTable(resp.Estimates); err != nil {
				return err
			}
			fmt.Printf("\n%d of %d estimates\n", len(resp.Estimates), resp.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Source, "source", "", "filter by source (ebay, openai, local)")
	cmd.Flags().StringVar(&params.Confidence, "confidence", "", "filter by confidence (low, medium, high)")
	cmd.Flags().StringVar(&params.Category, "category", "", "filter by category")
	cmd.Flags().StringVar(&params.Since, "since", "", "only estimates created after this RFC3339 time")
	cmd.Flags().IntVar(&params.Limit, "limit", 50, "max rows")
	cmd.Flags().IntVar(&params.Offset, "offset", 0, "pagination offset")
	cmd.Flags().StringVar(&params.OrderBy, "order-by", "", "sort column (created_at, amount)")

	return cmd
}
