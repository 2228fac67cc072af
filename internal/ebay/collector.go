package ebay

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	defaultPageSize = 100
	defaultMaxItems = 200
)

// Collector pages through Browse API search results until it has gathered
// enough items for a statistically useful sample. Snapshot refreshes use it
// to pull more listings than a single interactive search would.
type Collector struct {
	client   Client
	log      *slog.Logger
	pageSize int
	maxItems int
}

// CollectorOption configures the Collector.
type CollectorOption func(*Collector)

// WithPageSize overrides the default page size.
func WithPageSize(size int) CollectorOption {
	return func(c *Collector) {
		c.pageSize = size
	}
}

// WithMaxItems caps the total number of items collected across pages.
func WithMaxItems(n int) CollectorOption {
	return func(c *Collector) {
		c.maxItems = n
	}
}

// WithCollectorLogger sets the logger.
func WithCollectorLogger(l *slog.Logger) CollectorOption {
	return func(c *Collector) {
		c.log = l
	}
}

// NewCollector creates a new Collector.
func NewCollector(client Client, opts ...CollectorOption) *Collector {
	c := &Collector{
		client:   client,
		log:      slog.Default(),
		pageSize: defaultPageSize,
		maxItems: defaultMaxItems,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect fetches pages for the request until maxItems have been gathered
// or eBay signals no more results. The request's Limit and Offset fields
// are managed by the collector.
func (c *Collector) Collect(
	ctx context.Context,
	req SearchRequest,
) ([]ItemSummary, error) {
	req.Limit = c.pageSize

	var items []ItemSummary
	for page := 0; len(items) < c.maxItems; page++ {
		req.Offset = page * c.pageSize

		resp, err := c.client.Search(ctx, req)
		if err != nil {
			if page > 0 {
				// Later pages failing is degradation, not failure;
				// return what we already have.
				c.log.Warn("search page failed, returning partial results",
					"query", req.Query, "page", page, "err", err)
				return items, nil
			}
			return nil, fmt.Errorf("searching page %d: %w", page, err)
		}

		if len(resp.Items) == 0 {
			break
		}

		items = append(items, resp.Items...)

		if !resp.HasMore {
			break
		}
	}

	if len(items) > c.maxItems {
		items = items[:c.maxItems]
	}
	return items, nil
}
