// Package catalog loads the versioned pricing tables the estimators run on:
// category keyword rules, condition multipliers, the known-product tech price
// table, the content blocklist, and eBay filter mappings. Tables ship as
// embedded YAML so they can be reviewed and updated as data, not code.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	domain "github.com/bluberry-labs/price-engine/pkg/types"
)

//go:embed tables/*.yaml
var tablesFS embed.FS

// CategoryRule matches free text to a category with a base price.
type CategoryRule struct {
	Name      string   `yaml:"name"`
	BasePrice float64  `yaml:"base_price"`
	Keywords  []string `yaml:"keywords"`
}

// DefaultCategory is the fallback when no keyword matches.
type DefaultCategory struct {
	Name       string  `yaml:"name"`
	BasePrice  float64 `yaml:"base_price"`
	Confidence float64 `yaml:"confidence"`
}

// CategoryTable holds all category rules plus the fallback.
type CategoryTable struct {
	Version    string          `yaml:"version"`
	Default    DefaultCategory `yaml:"default"`
	Categories []CategoryRule  `yaml:"categories"`
}

// ConditionTable holds the condition multiplier tables and the
// premium/defect keyword lists.
type ConditionTable struct {
	Version         string             `yaml:"version"`
	General         map[string]float64 `yaml:"general"`
	Tech            map[string]float64 `yaml:"tech"`
	PremiumKeywords []string           `yaml:"premium_keywords"`
	DefectKeywords  []string           `yaml:"defect_keywords"`
}

// GeneralMultiplier returns the general-merchandise multiplier for a
// condition, falling back to the "unknown" entry.
func (t *ConditionTable) GeneralMultiplier(c domain.Condition) float64 {
	if m, ok := t.General[string(c)]; ok {
		return m
	}
	return t.General[string(domain.ConditionUnknown)]
}

// TechMultiplier returns the electronics multiplier for a condition,
// falling back to the "unknown" entry.
func (t *ConditionTable) TechMultiplier(c domain.Condition) float64 {
	if m, ok := t.Tech[string(c)]; ok {
		return m
	}
	return t.Tech[string(domain.ConditionUnknown)]
}

// TechFamily resolves a product family plus generation marker to a price
// when no exact model string matches.
type TechFamily struct {
	Name         string             `yaml:"name"`
	MarkerPrices map[string]float64 `yaml:"marker_prices"`
	DefaultPrice float64            `yaml:"default_price"`
}

// TechPriceTable holds the curated known-product price table.
type TechPriceTable struct {
	Version  string             `yaml:"version"`
	Models   map[string]float64 `yaml:"models"`
	Families []TechFamily       `yaml:"families"`
}

// Blocklist holds the content-policy terms we refuse to price.
type Blocklist struct {
	Version string   `yaml:"version"`
	Terms   []string `yaml:"terms"`
}

// EbayCategory maps an internal category to an eBay category ID and the
// representative query used by the snapshot refresh job.
type EbayCategory struct {
	ID    string `yaml:"id"`
	Query string `yaml:"query"`
}

// EbayFilterTable holds condition-ID and category mappings for the Browse API.
type EbayFilterTable struct {
	Version      string                  `yaml:"version"`
	ConditionIDs map[string][]string     `yaml:"condition_ids"`
	Categories   map[string]EbayCategory `yaml:"categories"`
}

// ConditionIDFilter returns the comma-joined eBay condition ID codes for a
// normalized condition, or "" when the condition has no mapping.
func (t *EbayFilterTable) ConditionIDFilter(c domain.Condition) string {
	ids, ok := t.ConditionIDs[string(c)]
	if !ok {
		return ""
	}
	return strings.Join(ids, "|")
}

// Catalog bundles all loaded tables.
type Catalog struct {
	Categories  CategoryTable
	Conditions  ConditionTable
	TechPrices  TechPriceTable
	Blocklist   Blocklist
	EbayFilters EbayFilterTable
}

// Load parses and validates the embedded tables.
func Load() (*Catalog, error) {
	c := &Catalog{}

	files := []struct {
		name string
		dst  any
	}{
		{"categories.yaml", &c.Categories},
		{"conditions.yaml", &c.Conditions},
		{"tech_prices.yaml", &c.TechPrices},
		{"blocklist.yaml", &c.Blocklist},
		{"ebay_filters.yaml", &c.EbayFilters},
	}

	for _, f := range files {
		data, err := tablesFS.ReadFile("tables/" + f.name)
		if err != nil {
			return nil, fmt.Errorf("reading table %s: %w", f.name, err)
		}
		if err := yaml.Unmarshal(data, f.dst); err != nil {
			return nil, fmt.Errorf("parsing table %s: %w", f.name, err)
		}
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}

	return c, nil
}

func (c *Catalog) validate() error {
	var errs []error

	errs = append(errs, c.validateCategories()...)
	errs = append(errs, c.validateConditions()...)
	errs = append(errs, c.validateTechPrices()...)
	errs = append(errs, c.validateBlocklist()...)
	errs = append(errs, c.validateEbayFilters()...)

	return errors.Join(errs...)
}

func (c *Catalog) validateCategories() []error {
	var errs []error

	if c.Categories.Version == "" {
		errs = append(errs, fmt.Errorf("categories: missing version"))
	}
	if len(c.Categories.Categories) == 0 {
		errs = append(errs, fmt.Errorf("categories: no category rules"))
	}
	if c.Categories.Default.Name == "" || c.Categories.Default.BasePrice <= 0 {
		errs = append(errs, fmt.Errorf("categories: invalid default category"))
	}

	seen := map[string]struct{}{}
	for _, rule := range c.Categories.Categories {
		if _, dup := seen[rule.Name]; dup {
			errs = append(errs, fmt.Errorf("categories: duplicate category %q", rule.Name))
		}
		seen[rule.Name] = struct{}{}

		if rule.BasePrice <= 0 {
			errs = append(errs, fmt.Errorf("categories: %q has non-positive base price", rule.Name))
		}
		if len(rule.Keywords) == 0 {
			errs = append(errs, fmt.Errorf("categories: %q has no keywords", rule.Name))
		}
	}

	return errs
}

func (c *Catalog) validateConditions() []error {
	var errs []error

	if c.Conditions.Version == "" {
		errs = append(errs, fmt.Errorf("conditions: missing version"))
	}
	for name, table := range map[string]map[string]float64{
		"general": c.Conditions.General,
		"tech":    c.Conditions.Tech,
	} {
		if _, ok := table[string(domain.ConditionUnknown)]; !ok {
			errs = append(errs, fmt.Errorf("conditions: %s table missing unknown entry", name))
		}
		for cond, m := range table {
			if m <= 0 || m > 1.0 {
				errs = append(errs, fmt.Errorf("conditions: %s multiplier for %q out of (0,1]", name, cond))
			}
		}
	}

	return errs
}

func (c *Catalog) validateTechPrices() []error {
	var errs []error

	if c.TechPrices.Version == "" {
		errs = append(errs, fmt.Errorf("tech_prices: missing version"))
	}
	for model, price := range c.TechPrices.Models {
		if price <= 0 {
			errs = append(errs, fmt.Errorf("tech_prices: %q has non-positive price", model))
		}
	}
	for _, fam := range c.TechPrices.Families {
		if fam.Name == "" || fam.DefaultPrice <= 0 {
			errs = append(errs, fmt.Errorf("tech_prices: invalid family %q", fam.Name))
		}
	}

	return errs
}

func (c *Catalog) validateBlocklist() []error {
	var errs []error

	if c.Blocklist.Version == "" {
		errs = append(errs, fmt.Errorf("blocklist: missing version"))
	}
	if len(c.Blocklist.Terms) == 0 {
		errs = append(errs, fmt.Errorf("blocklist: no terms"))
	}
	for _, term := range c.Blocklist.Terms {
		if strings.TrimSpace(term) == "" {
			errs = append(errs, fmt.Errorf("blocklist: empty term"))
		}
	}

	return errs
}

func (c *Catalog) validateEbayFilters() []error {
	var errs []error

	if c.EbayFilters.Version == "" {
		errs = append(errs, fmt.Errorf("ebay_filters: missing version"))
	}
	for cat, ec := range c.EbayFilters.Categories {
		if ec.ID == "" || ec.Query == "" {
			errs = append(errs, fmt.Errorf("ebay_filters: category %q missing id or query", cat))
		}
	}

	return errs
}
