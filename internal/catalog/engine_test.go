package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopfront/internal/apiclient"
	"github.com/example/shopfront/internal/model"
)

// fakeCatalog serves /products, records every query it sees and answers
// with whatever the respond hook returns.
type fakeCatalog struct {
	mu       sync.Mutex
	requests []url.Values
	respond  func(q url.Values) model.ProductsResponse
}

func (f *fakeCatalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f.mu.Lock()
	f.requests = append(f.requests, q)
	respond := f.respond
	f.mu.Unlock()

	resp := model.ProductsResponse{}
	if respond != nil {
		resp = respond(q)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (f *fakeCatalog) seen() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]url.Values, len(f.requests))
	copy(out, f.requests)
	return out
}

func newTestEngine(t *testing.T, fake *fakeCatalog, opts ...EngineOption) *Engine {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	engine := NewEngine(NewService(apiclient.New(server.URL)), opts...)
	t.Cleanup(engine.Close)
	return engine
}

func pageOf(products ...model.Product) func(url.Values) model.ProductsResponse {
	return func(url.Values) model.ProductsResponse {
		return model.ProductsResponse{
			Products: products,
			Pagination: model.PaginationInfo{
				CurrentPage: 1,
				TotalPages:  1,
				TotalItems:  len(products),
			},
		}
	}
}

// ============================================
// Filter facets
// ============================================

func TestEngine_CategoryAndSearchResetPage(t *testing.T) {
	fake := &fakeCatalog{respond: func(url.Values) model.ProductsResponse {
		return model.ProductsResponse{Pagination: model.PaginationInfo{
			CurrentPage: 1, TotalPages: 5, HasNextPage: true,
		}}
	}}
	engine := newTestEngine(t, fake)
	ctx := context.Background()

	require.NoError(t, engine.Refresh(ctx))
	require.NoError(t, engine.GoToPage(ctx, 3))
	assert.Equal(t, 3, engine.Filter().Page)

	require.NoError(t, engine.SetCategory(ctx, "shoes"))
	assert.Equal(t, 1, engine.Filter().Page)

	require.NoError(t, engine.GoToPage(ctx, 2))
	require.NoError(t, engine.SetSearch(ctx, "tee"))
	assert.Equal(t, 1, engine.Filter().Page)

	last := fake.seen()[len(fake.seen())-1]
	assert.Equal(t, "tee", last.Get("search"))
	assert.Equal(t, "1", last.Get("page"))
}

func TestEngine_ToggleInStockKeepsPage(t *testing.T) {
	fake := &fakeCatalog{respond: func(url.Values) model.ProductsResponse {
		return model.ProductsResponse{Pagination: model.PaginationInfo{
			CurrentPage: 1, TotalPages: 3, HasNextPage: true,
		}}
	}}
	engine := newTestEngine(t, fake)
	ctx := context.Background()

	require.NoError(t, engine.Refresh(ctx))
	require.NoError(t, engine.GoToPage(ctx, 2))

	require.NoError(t, engine.ToggleInStock(ctx))

	assert.True(t, engine.Filter().InStock)
	assert.Equal(t, 2, engine.Filter().Page, "availability toggle does not reset the page")
	last := fake.seen()[len(fake.seen())-1]
	assert.Equal(t, "true", last.Get("inStock"))
	assert.Equal(t, "2", last.Get("page"))

	require.NoError(t, engine.ToggleInStock(ctx))
	assert.False(t, engine.Filter().InStock)
	last = fake.seen()[len(fake.seen())-1]
	assert.Empty(t, last.Get("inStock"), "cleared toggle is omitted from the query")
}

func TestEngine_SetPriceRange(t *testing.T) {
	fake := &fakeCatalog{respond: pageOf()}
	engine := newTestEngine(t, fake)
	ctx := context.Background()

	require.NoError(t, engine.SetPriceRange(ctx, 10, 50))

	require.Len(t, fake.seen(), 1)
	q := fake.seen()[0]
	assert.Equal(t, "10", q.Get("minPrice"))
	assert.Equal(t, "50", q.Get("maxPrice"))
}

func TestEngine_InvertedPriceRangeIsRejected(t *testing.T) {
	fake := &fakeCatalog{respond: pageOf()}
	engine := newTestEngine(t, fake)
	ctx := context.Background()

	require.NoError(t, engine.SetPriceRange(ctx, 10, 50))
	before := engine.Filter()

	require.NoError(t, engine.SetPriceRange(ctx, 80, 20))

	assert.Equal(t, before, engine.Filter(), "filter unchanged")
	assert.Len(t, fake.seen(), 1, "no fetch issued")
}

func TestEngine_ClearFilters(t *testing.T) {
	fake := &fakeCatalog{respond: pageOf()}
	engine := newTestEngine(t, fake)
	ctx := context.Background()

	require.NoError(t, engine.SetCategory(ctx, "shoes"))
	require.NoError(t, engine.SetPriceRange(ctx, 5, 40))

	require.NoError(t, engine.ClearFilters(ctx))

	assert.Equal(t, model.ProductFilter{Page: 1, Limit: DefaultPageSize}, engine.Filter())
	last := fake.seen()[len(fake.seen())-1]
	assert.Empty(t, last.Get("category"))
	assert.Empty(t, last.Get("minPrice"))
}

// ============================================
// Debounced price input
// ============================================

func TestEngine_PriceInputDebounce(t *testing.T) {
	fake := &fakeCatalog{respond: pageOf()}
	engine := newTestEngine(t, fake, WithDebounceWindow(20*time.Millisecond))
	ctx := context.Background()

	// rapid edits on both bounds collapse into one fetch carrying the
	// final value of each
	engine.SetMinPriceInput(ctx, "2")
	engine.SetMinPriceInput(ctx, "5")
	engine.SetMaxPriceInput(ctx, "90")
	engine.SetMinPriceInput(ctx, "10")

	require.Eventually(t, func() bool {
		return len(fake.seen()) == 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	requests := fake.seen()
	require.Len(t, requests, 1, "exactly one fetch after the window")
	assert.Equal(t, "10", requests[0].Get("minPrice"))
	assert.Equal(t, "90", requests[0].Get("maxPrice"))
}

func TestEngine_PriceInputClearsOnUnparsable(t *testing.T) {
	fake := &fakeCatalog{respond: pageOf()}
	engine := newTestEngine(t, fake, WithDebounceWindow(20*time.Millisecond))
	ctx := context.Background()

	require.NoError(t, engine.SetPriceRange(ctx, 10, 50))

	engine.SetMinPriceInput(ctx, "not a number")
	require.Eventually(t, func() bool {
		return engine.Filter().MinPrice == 0
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 50.0, engine.Filter().MaxPrice, "other bound untouched")
}

func TestEngine_CloseDropsPendingEdit(t *testing.T) {
	fake := &fakeCatalog{respond: pageOf()}
	engine := newTestEngine(t, fake, WithDebounceWindow(10*time.Millisecond))
	ctx := context.Background()

	engine.SetMinPriceInput(ctx, "25")
	engine.Close()

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, fake.seen())
}

// ============================================
// Pagination
// ============================================

func TestEngine_GoToPageIgnoresOutOfRange(t *testing.T) {
	fake := &fakeCatalog{respond: func(url.Values) model.ProductsResponse {
		return model.ProductsResponse{Pagination: model.PaginationInfo{
			CurrentPage: 1, TotalPages: 3, HasNextPage: true,
		}}
	}}
	engine := newTestEngine(t, fake)
	ctx := context.Background()

	require.NoError(t, engine.Refresh(ctx))
	fetched := len(fake.seen())

	require.NoError(t, engine.GoToPage(ctx, 0))
	require.NoError(t, engine.GoToPage(ctx, 4))

	assert.Len(t, fake.seen(), fetched, "out-of-range pages fetch nothing")
	assert.Equal(t, 1, engine.Filter().Page)
}

func TestEngine_NextAndPreviousFollowServerFlags(t *testing.T) {
	fake := &fakeCatalog{respond: func(q url.Values) model.ProductsResponse {
		page := 1
		if q.Get("page") == "2" {
			page = 2
		}
		return model.ProductsResponse{Pagination: model.PaginationInfo{
			CurrentPage:     page,
			TotalPages:      2,
			HasNextPage:     page < 2,
			HasPreviousPage: page > 1,
		}}
	}}
	engine := newTestEngine(t, fake)
	ctx := context.Background()

	require.NoError(t, engine.Refresh(ctx))

	require.NoError(t, engine.NextPage(ctx))
	assert.Equal(t, 2, engine.Pagination().CurrentPage)

	// already on the last page
	fetched := len(fake.seen())
	require.NoError(t, engine.NextPage(ctx))
	assert.Len(t, fake.seen(), fetched)

	require.NoError(t, engine.PreviousPage(ctx))
	assert.Equal(t, 1, engine.Pagination().CurrentPage)

	fetched = len(fake.seen())
	require.NoError(t, engine.PreviousPage(ctx))
	assert.Len(t, fake.seen(), fetched)
}

// ============================================
// View refinement and sorting
// ============================================

func TestEngine_SearchRefinesPageClientSide(t *testing.T) {
	fake := &fakeCatalog{respond: pageOf(
		named("Denim Jacket", 89.50),
		named("Wool Scarf", 32.25),
		named("Bomber jacket", 120),
	)}
	engine := newTestEngine(t, fake)

	require.NoError(t, engine.SetSearch(context.Background(), "JACKET"))

	assert.Equal(t, []string{"Denim Jacket", "Bomber jacket"}, names(engine.Products()))
}

func TestEngine_SetSortReordersWithoutFetching(t *testing.T) {
	fake := &fakeCatalog{respond: pageOf(
		named("b", 30), named("c", 10), named("a", 20),
	)}
	engine := newTestEngine(t, fake)

	require.NoError(t, engine.Refresh(context.Background()))
	fetched := len(fake.seen())

	engine.SetSort(SortPriceLow)

	assert.Equal(t, []string{"c", "a", "b"}, names(engine.Products()))
	assert.Len(t, fake.seen(), fetched, "sorting is a pure view transform")
	assert.Equal(t, SortPriceLow, engine.SortMode())
}

// ============================================
// Stale responses
// ============================================

func TestEngine_StaleResponseNeverAppliedOverNewer(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fake := &fakeCatalog{}
	fake.respond = func(q url.Values) model.ProductsResponse {
		if q.Get("search") == "old" {
			close(started)
			<-release
			return model.ProductsResponse{Products: []model.Product{named("old thing", 1)}}
		}
		return model.ProductsResponse{Products: []model.Product{named("new thing", 2)}}
	}
	engine := newTestEngine(t, fake)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- engine.SetSearch(ctx, "old") }()
	<-started

	// refinement matches "thing" in both responses, so only the stale
	// guard decides which page wins
	require.NoError(t, engine.SetSearch(ctx, "thing"))
	require.Equal(t, []string{"new thing"}, names(engine.Products()))

	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"new thing"}, names(engine.Products()),
		"slow stale response must not clobber the newer page")
}
