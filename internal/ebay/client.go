// Package ebay provides an eBay Browse API client abstracted behind
// interfaces for testability, with OAuth2 token management and rate
// limiting.
package ebay

import (
	"context"
)

// SearchRequest defines the parameters for a Browse API search.
type SearchRequest struct {
	Query      string
	CategoryID string
	Limit      int
	Offset     int
	Filters    map[string]string
}

// SearchResponse holds one page of search results.
type SearchResponse struct {
	Items   []ItemSummary
	Total   int
	Offset  int
	Limit   int
	HasMore bool
}

// Client defines the interface for searching eBay listings.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// TokenProvider defines the interface for obtaining OAuth2 tokens.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}
