package cmd

import (
	"github.com/spf13/cobra"

	apiclient "github.com/bluberry-labs/price-engine/internal/api/client"
)

func marketCmd() *cobra.Command {
	var (
		condition string
		category  string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "market [query]",
		Short: "Aggregate live eBay listings for a search query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().MarketEstimate(cmd.Context(), &apiclient.MarketEstimateParams{
				Query:     args[0],
				Condition: condition,
				Category:  category,
				Limit:     limit,
			})
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(resp)
			}
			return printMarketDetail(resp)
		},
	}

	cmd.Flags().StringVar(&condition, "condition", "", "condition filter")
	cmd.Flags().StringVar(&category, "category", "", "category hint for the marketplace search")
	cmd.Flags().IntVar(&limit, "limit", 0, "max listings to fetch (default server-side)")

	return cmd
}
