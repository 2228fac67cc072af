package ebay

// ItemSummary represents a single item from the Browse API search response.
// Only the fields the pricing pipeline reads are mapped.
type ItemSummary struct {
	ItemID        string         `json:"itemId"`
	Title         string         `json:"title"`
	Price         ItemPrice      `json:"price"`
	ItemWebURL    string         `json:"itemWebUrl"`
	Condition     string         `json:"condition"`
	ConditionID   string         `json:"conditionId"`
	BuyingOptions []string       `json:"buyingOptions"`
	Categories    []ItemCategory `json:"categories,omitempty"`
}

// ItemPrice holds eBay price information.
type ItemPrice struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// ItemCategory holds eBay category information.
type ItemCategory struct {
	CategoryID string `json:"categoryId"`
}
