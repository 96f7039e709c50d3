package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/example/shopfront/internal/model"
)

func named(name string, price float64) model.Product {
	return model.Product{Name: name, Price: model.Price(price)}
}

func names(products []model.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestSortProducts(t *testing.T) {
	page := []model.Product{named("b", 30), named("c", 10), named("a", 20)}

	tests := []struct {
		name string
		mode SortMode
		want []string
	}{
		{"featured keeps server order", SortFeatured, []string{"b", "c", "a"}},
		{"price low ascends", SortPriceLow, []string{"c", "a", "b"}},
		{"price high descends", SortPriceHigh, []string{"b", "a", "c"}},
		{"name is alphabetical", SortName, []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sortProducts(page, tt.mode, nil)

			assert.Equal(t, tt.want, names(got))
			assert.Equal(t, []string{"b", "c", "a"}, names(page), "input order untouched")
		})
	}
}

func TestSortProducts_NameIsLocaleAware(t *testing.T) {
	page := []model.Product{named("Banana", 1), named("apple", 1)}

	got := sortProducts(page, SortName, collate.New(language.English))

	// a plain byte comparison would put "Banana" first
	assert.Equal(t, []string{"apple", "Banana"}, names(got))
}

func TestSortProducts_StableOnEqualPrices(t *testing.T) {
	page := []model.Product{named("first", 10), named("second", 10), named("third", 10)}

	got := sortProducts(page, SortPriceLow, nil)

	assert.Equal(t, []string{"first", "second", "third"}, names(got))
}

func TestParseSortMode(t *testing.T) {
	tests := []struct {
		in   string
		want SortMode
	}{
		{"featured", SortFeatured},
		{"price-low", SortPriceLow},
		{"price-high", SortPriceHigh},
		{"name", SortName},
		{"", SortFeatured},
		{"cheapest", SortFeatured},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSortMode(tt.in), "input %q", tt.in)
	}
}
