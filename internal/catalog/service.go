package catalog

import (
	"context"
	"fmt"

	"github.com/example/shopfront/internal/apiclient"
	"github.com/example/shopfront/internal/model"
)

// Service issues product catalog calls, including the admin CRUD
// surface over the same endpoints.
type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// GetAllProducts lists products for the given filter. Unset facets are
// omitted from the query string entirely.
func (s *Service) GetAllProducts(ctx context.Context, filter model.ProductFilter) (*model.ProductsResponse, error) {
	query := apiclient.Query{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.MinPrice > 0 {
		query["minPrice"] = filter.MinPrice
	}
	if filter.MaxPrice > 0 {
		query["maxPrice"] = filter.MaxPrice
	}
	if filter.Search != "" {
		query["search"] = filter.Search
	}
	if filter.InStock {
		query["inStock"] = "true"
	}
	if filter.Page > 0 {
		query["page"] = filter.Page
	}
	if filter.Limit > 0 {
		query["limit"] = filter.Limit
	}

	var resp model.ProductsResponse
	if err := s.client.GetJSON(ctx, "/products", &resp, apiclient.WithQuery(query)); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &resp, nil
}

// GetProductByID fetches a single product.
func (s *Service) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	if err := s.client.GetJSON(ctx, fmt.Sprintf("/products/%d", id), &p); err != nil {
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &p, nil
}

// GetCategories lists the known category names.
func (s *Service) GetCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := s.client.GetJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// SearchProducts is a convenience wrapper that lists products matching
// a free-text query.
func (s *Service) SearchProducts(ctx context.Context, query string) ([]model.Product, error) {
	resp, err := s.GetAllProducts(ctx, model.ProductFilter{Search: query})
	if err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// CreateProduct creates a product. Admin only.
func (s *Service) CreateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	var created model.Product
	if err := s.client.PostJSON(ctx, "/products", p, &created); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return &created, nil
}

// UpdateProduct sends a partial product update. Admin only.
func (s *Service) UpdateProduct(ctx context.Context, id int64, fields map[string]any) (*model.Product, error) {
	var updated model.Product
	if err := s.client.PutJSON(ctx, fmt.Sprintf("/products/%d", id), fields, &updated); err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	return &updated, nil
}

// DeleteProduct removes a product. Admin only.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	var resp struct {
		Message string `json:"message"`
	}
	if err := s.client.DeleteJSON(ctx, fmt.Sprintf("/products/%d", id), &resp); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}
