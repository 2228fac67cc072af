package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bluberry-labs/price-engine/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the embedded pricing catalog",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the embedded pricing tables",
	RunE: func(_ *cobra.Command, _ []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return fmt.Errorf("catalog invalid: %w", err)
		}
		fmt.Printf("catalog OK: %d categories, %d known products, %d blocklist terms\n",
			len(cat.Categories.Categories),
			len(cat.TechPrices.Models),
			len(cat.Blocklist.Terms),
		)
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the category and known-product price tables",
	RunE: func(_ *cobra.Command, _ []string) error {
		cat, err := catalog.Load()
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

		fmt.Fprintf(tw, "CATEGORY\tBASE PRICE\tKEYWORDS\n")
		fmt.Fprintf(tw, "%s (default)\t$%.0f\t-\n",
			cat.Categories.Default.Name, cat.Categories.Default.BasePrice)
		for _, rule := range cat.Categories.Categories {
			fmt.Fprintf(tw, "%s\t$%.0f\t%d\n", rule.Name, rule.BasePrice, len(rule.Keywords))
		}

		fmt.Fprintf(tw, "\nKNOWN PRODUCT\tPRICE\n")
		models := make([]string, 0, len(cat.TechPrices.Models))
		for m := range cat.TechPrices.Models {
			models = append(models, m)
		}
		sort.Strings(models)
		for _, m := range models {
			fmt.Fprintf(tw, "%s\t$%.0f\n", m, cat.TechPrices.Models[m])
		}

		return tw.Flush()
	},
}

func init() {
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	rootCmd.AddCommand(catalogCmd)
}
