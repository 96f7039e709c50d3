package catalog

import (
	"context"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/example/shopfront/internal/model"
)

const (
	// DefaultPageSize matches the storefront's product grid.
	DefaultPageSize = 15

	// priceDebounceWindow collapses rapid free-text price edits into a
	// single filter update and fetch.
	priceDebounceWindow = 500 * time.Millisecond
)

// Engine composes the product filter facets, fetches pages through the
// catalog Service, and exposes the client-side refined, sorted view
// plus the server's pagination metadata.
//
// Fetches are tagged with a monotonically increasing sequence number;
// a response is applied only while it is still the newest fetch issued,
// so a slow stale response can never clobber state set by a newer one.
type Engine struct {
	svc *Service

	mu         sync.Mutex
	filter     model.ProductFilter
	raw        []model.Product // last accepted page, search-refined, server order
	view       []model.Product // raw after sort
	pagination model.PaginationInfo
	sortMode   SortMode
	collator   *collate.Collator

	fetchSeq uint64

	debounce   *time.Timer
	pendingMin *string
	pendingMax *string
	window     time.Duration
	closed     bool
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLanguage sets the collation language for the name sort mode.
func WithLanguage(tag language.Tag) EngineOption {
	return func(e *Engine) { e.collator = collate.New(tag) }
}

// WithDebounceWindow overrides the price-input debounce window. Used by
// tests to keep them fast.
func WithDebounceWindow(d time.Duration) EngineOption {
	return func(e *Engine) { e.window = d }
}

func NewEngine(svc *Service, opts ...EngineOption) *Engine {
	e := &Engine{
		svc:      svc,
		filter:   model.ProductFilter{Page: 1, Limit: DefaultPageSize},
		sortMode: SortFeatured,
		window:   priceDebounceWindow,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.collator == nil {
		e.collator = collate.New(language.English)
	}
	return e
}

// Close cancels any pending debounced price edit. Further scheduled
// edits are dropped.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.debounce != nil {
		e.debounce.Stop()
		e.debounce = nil
	}
	e.pendingMin, e.pendingMax = nil, nil
}

// Filter returns the current filter facets.
func (e *Engine) Filter() model.ProductFilter {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter
}

// Products returns the current sorted, search-refined page.
func (e *Engine) Products() []model.Product {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Product, len(e.view))
	copy(out, e.view)
	return out
}

// Pagination returns the server's pagination metadata for the current
// page.
func (e *Engine) Pagination() model.PaginationInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pagination
}

// SortMode returns the active sort mode.
func (e *Engine) SortMode() SortMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sortMode
}

// Refresh fetches the current filter page.
func (e *Engine) Refresh(ctx context.Context) error {
	return e.fetch(ctx)
}

// SetCategory sets the category facet ("" clears it) and re-paginates
// from page 1.
func (e *Engine) SetCategory(ctx context.Context, category string) error {
	e.mu.Lock()
	e.filter.Category = category
	e.filter.Page = 1
	e.mu.Unlock()
	return e.fetch(ctx)
}

// SetSearch sets the free-text facet and re-paginates from page 1.
func (e *Engine) SetSearch(ctx context.Context, search string) error {
	e.mu.Lock()
	e.filter.Search = search
	e.filter.Page = 1
	e.mu.Unlock()
	return e.fetch(ctx)
}

// SetPriceRange sets the price facets; values <= 0 clear a bound. A
// range with min > max (both set) is rejected: the filter is left
// unchanged and no fetch is issued.
func (e *Engine) SetPriceRange(ctx context.Context, min, max float64) error {
	if min < 0 {
		min = 0
	}
	if max < 0 {
		max = 0
	}
	if min > 0 && max > 0 && min > max {
		return nil
	}

	e.mu.Lock()
	e.filter.MinPrice = min
	e.filter.MaxPrice = max
	e.filter.Page = 1
	e.mu.Unlock()
	return e.fetch(ctx)
}

// ToggleInStock flips the in-stock facet.
func (e *Engine) ToggleInStock(ctx context.Context) error {
	e.mu.Lock()
	e.filter.InStock = !e.filter.InStock
	e.mu.Unlock()
	return e.fetch(ctx)
}

// SetMinPriceInput records a raw minimum-price edit and schedules the
// debounced filter update. A newer edit on either bound cancels the
// pending one; when the window elapses the latest values win and a
// single fetch is issued.
func (e *Engine) SetMinPriceInput(ctx context.Context, raw string) {
	e.schedulePriceEdit(ctx, &raw, nil)
}

// SetMaxPriceInput records a raw maximum-price edit, debounced like
// SetMinPriceInput.
func (e *Engine) SetMaxPriceInput(ctx context.Context, raw string) {
	e.schedulePriceEdit(ctx, nil, &raw)
}

func (e *Engine) schedulePriceEdit(ctx context.Context, min, max *string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if min != nil {
		e.pendingMin = min
	}
	if max != nil {
		e.pendingMax = max
	}
	if e.debounce != nil {
		e.debounce.Stop()
	}
	e.debounce = time.AfterFunc(e.window, func() {
		e.flushPriceEdit(ctx)
	})
}

// flushPriceEdit applies the pending raw edits. An unparsable or empty
// input clears its bound, matching the free-text field semantics.
func (e *Engine) flushPriceEdit(ctx context.Context) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	min, max := e.filter.MinPrice, e.filter.MaxPrice
	if e.pendingMin != nil {
		min = parsePrice(*e.pendingMin)
	}
	if e.pendingMax != nil {
		max = parsePrice(*e.pendingMax)
	}
	e.pendingMin, e.pendingMax = nil, nil
	e.debounce = nil
	e.mu.Unlock()

	if err := e.SetPriceRange(ctx, min, max); err != nil {
		log.Printf("[Catalog] Debounced price fetch failed: %v", err)
	}
}

func parsePrice(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f <= 0 {
		return 0
	}
	return f
}

// SetSort changes the sort mode and re-orders the current view in
// place. No network traffic, pagination untouched.
func (e *Engine) SetSort(mode SortMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sortMode = mode
	e.resortLocked()
}

// GoToPage navigates to page n. Out-of-range requests are silently
// ignored.
func (e *Engine) GoToPage(ctx context.Context, n int) error {
	e.mu.Lock()
	if n < 1 || n > e.pagination.TotalPages {
		e.mu.Unlock()
		return nil
	}
	e.filter.Page = n
	e.mu.Unlock()
	return e.fetch(ctx)
}

// NextPage advances one page when the server reports one exists.
func (e *Engine) NextPage(ctx context.Context) error {
	e.mu.Lock()
	ok := e.pagination.HasNextPage
	page := e.pagination.CurrentPage + 1
	e.mu.Unlock()
	if !ok {
		return nil
	}
	return e.GoToPage(ctx, page)
}

// PreviousPage steps back one page when the server reports one exists.
func (e *Engine) PreviousPage(ctx context.Context) error {
	e.mu.Lock()
	ok := e.pagination.HasPreviousPage
	page := e.pagination.CurrentPage - 1
	e.mu.Unlock()
	if !ok {
		return nil
	}
	return e.GoToPage(ctx, page)
}

// ClearFilters resets every facet to its default and refetches page 1.
func (e *Engine) ClearFilters(ctx context.Context) error {
	e.mu.Lock()
	e.filter = model.ProductFilter{Page: 1, Limit: DefaultPageSize}
	e.mu.Unlock()
	return e.fetch(ctx)
}

// fetch requests the current filter page and, if the response is still
// the newest in flight, applies the client-side search refinement and
// stores the page plus the server's pagination verbatim.
func (e *Engine) fetch(ctx context.Context) error {
	e.mu.Lock()
	e.fetchSeq++
	seq := e.fetchSeq
	filter := e.filter
	e.mu.Unlock()

	resp, err := e.svc.GetAllProducts(ctx, filter)
	if err != nil {
		return err
	}

	products := resp.Products
	if filter.Search != "" {
		products = refineBySearch(products, filter.Search)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if seq != e.fetchSeq {
		// a newer fetch was issued while this one was in flight
		return nil
	}
	e.raw = products
	e.pagination = resp.Pagination
	e.resortLocked()
	return nil
}

// refineBySearch layers the case-insensitive substring match on product
// name over whatever the server already filtered.
func refineBySearch(products []model.Product, search string) []model.Product {
	q := strings.ToLower(search)
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

func (e *Engine) resortLocked() {
	e.view = sortProducts(e.raw, e.sortMode, e.collator)
}
