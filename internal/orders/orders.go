package orders

import (
	"context"
	"fmt"

	"github.com/example/shopfront/internal/apiclient"
	"github.com/example/shopfront/internal/model"
)

// Service issues order calls for the signed-in user, plus the admin
// status-update surface.
type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// Create places an order from the current server-side cart.
func (s *Service) Create(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	var order model.Order
	if err := s.client.PostJSON(ctx, "/orders", req, &order, apiclient.WithAlert(false)); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &order, nil
}

// List returns the caller's orders (all orders for admins).
func (s *Service) List(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := s.client.GetJSON(ctx, "/orders", &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Get fetches a single order with its items.
func (s *Service) Get(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	if err := s.client.GetJSON(ctx, fmt.Sprintf("/orders/%d", id), &order); err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return &order, nil
}

// UpdateStatus moves an order to a new status. Admin only.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*model.Order, error) {
	body := map[string]string{"status": status}
	var order model.Order
	if err := s.client.PutJSON(ctx, fmt.Sprintf("/orders/%d/status", id), body, &order); err != nil {
		return nil, fmt.Errorf("update order %d status: %w", id, err)
	}
	return &order, nil
}
