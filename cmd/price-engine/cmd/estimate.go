package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/bluberry-labs/price-engine/internal/api/client"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

func estimateCommand() *cobra.Command {
	var (
		description string
		condition   string
		issues      string
		category    string
	)

	cmd := &cobra.Command{
		Use:   "estimate [item name]",
		Short: "Price an item against a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			est, err := apiclient.New(apiURL).Estimate(cmd.Context(), &domain.PriceQuery{
				ItemName:    args[0],
				Description: description,
				Condition:   condition,
				Issues:      issues,
				Category:    category,
			})
			if err != nil {
				return err
			}

			fmt.Printf("%s  (%s)\n", est.Price, est.PriceRange)
			fmt.Printf("confidence: %s  source: %s\n", est.Confidence, est.Source)
			if est.Reasoning != "" {
				fmt.Println(est.Reasoning)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "item description")
	cmd.Flags().StringVar(&condition, "condition", "", "item condition")
	cmd.Flags().StringVar(&issues, "issues", "", "known issues or defects")
	cmd.Flags().StringVar(&category, "category", "", "explicit category override")

	return cmd
}

func marketCommand() *cobra.Command {
	var (
		condition string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "market [query]",
		Short: "Aggregate live eBay listings against a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := apiclient.New(apiURL).MarketEstimate(cmd.Context(), &apiclient.MarketEstimateParams{
				Query:     args[0],
				Condition: condition,
				Limit:     limit,
			})
			if err != nil {
				return err
			}

			fmt.Printf("median $%.2f  mean $%.2f  range $%.2f - $%.2f\n",
				resp.MedianPrice, resp.MeanPrice, resp.MinPrice, resp.MaxPrice)
			fmt.Printf("samples: %d  confidence: %s\n", resp.SampleCount, resp.Confidence)
			return nil
		},
	}

	cmd.Flags().StringVar(&condition, "condition", "", "condition filter")
	cmd.Flags().IntVar(&limit, "limit", 0, "max listings to fetch")

	return cmd
}

func init() {
	rootCmd.AddCommand(estimateCommand())
	rootCmd.AddCommand(marketCommand())
}
