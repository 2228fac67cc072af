package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

func estimateCmd() *cobra.Command {
	var (
		description string
		condition   string
		issues      string
		category    string
		batchFile   string
	)

	cmd := &cobra.Command{
		Use:   "estimate [item name]",
		Short: "Price an item through the estimator chain",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if batchFile != "" {
				return runBatch(cmd, batchFile)
			}
			if len(args) == 0 {
				return fmt.Errorf("item name required (or use --batch)")
			}

			est, err := newClient().Estimate(cmd.Context(), &domain.PriceQuery{
				ItemName:    args[0],
				Description: description,
				Condition:   condition,
				Issues:      issues,
				Category:    category,
			})
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(est)
			}
			return printEstimateDetail(est)
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "item description")
	cmd.Flags().StringVar(&condition, "condition", "", "item condition (new, like_new, good, fair, poor)")
	cmd.Flags().StringVar(&issues, "issues", "", "known issues or defects")
	cmd.Flags().StringVar(&category, "category", "", "explicit category override")
	cmd.Flags().StringVar(&batchFile, "batch", "", "JSON file with an array of items to price")

	return cmd
}

func runBatch(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path from trusted CLI flag
	if err != nil {
		return fmt.Errorf("reading batch file: %w", err)
	}

	var queries []domain.PriceQuery
	if err := json.Unmarshal(data, &queries); err != nil {
		return fmt.Errorf("parsing batch file: %w", err)
	}

	ests, err := newClient().EstimateBatch(cmd.Context(), queries)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return outputJSON(ests)
	}
	return printEstimatesTable(queries, ests)
}
