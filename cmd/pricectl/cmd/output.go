package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	apiclient "github.com/bluberry-labs/price-engine/internal/api/client"
	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printEstimateDetail(est *domain.PriceEstimate) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Price:\t%s\n", est.Price)
	tw.writef("Range:\t%s\n", est.PriceRange)
	tw.writef("Confidence:\t%s\n", est.Confidence)
	tw.writef("Source:\t%s\n", est.Source)
	if est.ReferenceCount > 0 {
		tw.writef("References:\t%d\n", est.ReferenceCount)
	}
	if est.Reasoning != "" {
		tw.writef("Reasoning:\t%s\n", est.Reasoning)
	}
	return tw.finish()
}

func printEstimatesTable(queries []domain.PriceQuery, ests []*domain.PriceEstimate) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ITEM\tPRICE\tRANGE\tCONFIDENCE\tSOURCE\n")
	for i := range ests {
		name := "-"
		if i < len(queries) {
			name = truncate(queries[i].ItemName, 40)
		}
		tw.writef("%s\t%s\t%s\t%s\t%s\n",
			name,
			ests[i].Price,
			ests[i].PriceRange,
			ests[i].Confidence,
			ests[i].Source,
		)
	}
	return tw.finish()
}

func printHistoryTable(records []domain.EstimateRecord) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("CREATED\tITEM\tAMOUNT\tCONFIDENCE\tSOURCE\tCATEGORY\n")
	for i := range records {
		r := &records[i]
		tw.writef("%s\t%s\t$%.0f\t%s\t%s\t%s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			truncate(r.ItemName, 40),
			r.Amount,
			r.Confidence,
			r.Source,
			r.Category,
		)
	}
	return tw.finish()
}

func printMarketDetail(m *apiclient.MarketEstimateResponse) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("Query:\t%s\n", m.Query)
	tw.writef("Condition:\t%s\n", m.Condition)
	if m.Category != "" {
		tw.writef("Category:\t%s\n", m.Category)
	}
	tw.writef("Median:\t$%.2f\n", m.MedianPrice)
	tw.writef("Mean:\t$%.2f\n", m.MeanPrice)
	tw.writef("Range:\t$%.2f - $%.2f\n", m.MinPrice, m.MaxPrice)
	tw.writef("Std Dev:\t$%.2f\n", m.StdDev)
	tw.writef("Samples:\t%d\n", m.SampleCount)
	tw.writef("Confidence:\t%s\n", m.Confidence)
	return tw.finish()
}

func printQuota(q *apiclient.QuotaResponse) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("LIMITER\tUSED\tLIMIT\tREMAINING\tRESET\n")
	if q.Public != nil {
		tw.writef("public\t%d\t%d\t%d\t-\n",
			q.Public.Limit-q.Public.Remaining, q.Public.Limit, q.Public.Remaining)
	}
	if q.Ebay != nil {
		reset := "-"
		if q.Ebay.ResetAt != nil {
			reset = q.Ebay.ResetAt.Format("2006-01-02 15:04:05")
		}
		tw.writef("ebay\t%d\t%d\t%d\t%s\n", q.Ebay.Used, q.Ebay.Limit, q.Ebay.Remaining, reset)
	}
	if q.Provider != nil {
		reset := "-"
		if q.Provider.ResetAt != nil {
			reset = q.Provider.ResetAt.Format("2006-01-02 15:04:05")
		}
		tw.writef("provider\t%d\t%d\t%d\t%s\n",
			q.Provider.Count, q.Provider.Limit, q.Provider.Remaining, reset)
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
