package mockapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router builds the full REST surface the storefront client consumes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/register", s.handleRegister)

	r.Get("/products", s.handleListProducts)
	r.Get("/products/categories", s.handleListCategories)
	r.Get("/products/{id}", s.handleGetProduct)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/auth/profile", s.handleGetProfile)
		r.Put("/auth/profile", s.handleUpdateProfile)

		r.Get("/cart", s.handleGetCart)
		r.Post("/cart", s.handleAddToCart)
		r.Put("/cart/{id}", s.handleUpdateCartLine)
		r.Delete("/cart/{id}", s.handleRemoveCartLine)
		r.Delete("/cart", s.handleClearCart)

		r.Get("/orders", s.handleListOrders)
		r.Post("/orders", s.handleCreateOrder)
		r.Get("/orders/{id}", s.handleGetOrder)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth, s.requireAdmin)

		r.Post("/products", s.handleCreateProduct)
		r.Put("/products/{id}", s.handleUpdateProduct)
		r.Delete("/products/{id}", s.handleDeleteProduct)

		r.Put("/orders/{id}/status", s.handleUpdateOrderStatus)
		r.Get("/users", s.handleListUsers)
	})

	return r
}
