package users

import (
	"context"
	"fmt"

	"github.com/example/shopfront/internal/apiclient"
	"github.com/example/shopfront/internal/model"
)

// Service exposes the admin user listing.
type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// List returns every registered user. Admin only.
func (s *Service) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.client.GetJSON(ctx, "/users", &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
