package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/example/shopfront/internal/model"
)

// SortMode selects the client-side ordering of the fetched page. It is
// a pure view transform: it never refetches and never touches
// pagination.
type SortMode string

const (
	SortFeatured  SortMode = "featured" // server order
	SortPriceLow  SortMode = "price-low"
	SortPriceHigh SortMode = "price-high"
	SortName      SortMode = "name"
)

// ParseSortMode maps a user-supplied mode string; unknown values fall
// back to featured.
func ParseSortMode(s string) SortMode {
	switch SortMode(s) {
	case SortPriceLow, SortPriceHigh, SortName:
		return SortMode(s)
	default:
		return SortFeatured
	}
}

// sortProducts orders a copy of products by mode. The name mode uses
// locale-aware collation so that, e.g., "apple" sorts before "Banana".
func sortProducts(products []model.Product, mode SortMode, collator *collate.Collator) []model.Product {
	sorted := make([]model.Product, len(products))
	copy(sorted, products)

	switch mode {
	case SortPriceLow:
		sort.SliceStable(sorted, func(i, j int) bool {
			return float64(sorted[i].Price) < float64(sorted[j].Price)
		})
	case SortPriceHigh:
		sort.SliceStable(sorted, func(i, j int) bool {
			return float64(sorted[i].Price) > float64(sorted[j].Price)
		})
	case SortName:
		if collator == nil {
			collator = collate.New(language.English)
		}
		sort.SliceStable(sorted, func(i, j int) bool {
			return collator.CompareString(sorted[i].Name, sorted[j].Name) < 0
		})
	case SortFeatured:
		// keep server order
	}
	return sorted
}
