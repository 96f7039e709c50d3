package mockapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/example/shopfront/internal/cart"
	"github.com/example/shopfront/internal/model"
)

// handleCreateOrder turns the caller's current cart into an order,
// priced with the same shipping and tax rules the client derives, and
// empties the cart.
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	var req model.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]model.CartLine, 0)
	for _, line := range s.cartLines {
		if line.UserID == userID {
			lines = append(lines, *line)
		}
	}
	if len(lines) == 0 {
		respondError(w, http.StatusBadRequest, "cart is empty")
		return
	}
	sortByID(lines, func(l model.CartLine) int64 { return l.ID })

	s.nextOrder++
	order := &model.Order{
		ID:                 s.nextOrder,
		UserID:             userID,
		TotalAmount:        cart.Totals(lines).Total,
		Status:             model.OrderPending,
		ShippingAddress:    req.ShippingAddress,
		ShippingCity:       req.ShippingCity,
		ShippingPostalCode: req.ShippingPostalCode,
		ShippingCountry:    req.ShippingCountry,
		CreatedAt:          time.Now(),
	}
	for _, line := range lines {
		s.nextItem++
		order.Items = append(order.Items, model.OrderItem{
			ID:           s.nextItem,
			OrderID:      order.ID,
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			ProductImage: line.ProductImage,
			Quantity:     line.Quantity,
			Price:        line.ProductPrice,
			Size:         line.Size,
			Color:        line.Color,
		})
		delete(s.cartLines, line.ID)
		if product, ok := s.products[line.ProductID]; ok {
			product.Stock -= line.Quantity
		}
	}
	s.orders[order.ID] = order
	respondJSON(w, http.StatusCreated, *order)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	claims, _ := claimsFromContext(r.Context())
	isAdmin := claims != nil && claims.Role == "admin"

	s.mu.Lock()
	out := make([]model.Order, 0, len(s.orders))
	for _, order := range s.orders {
		if isAdmin || order.UserID == userID {
			out = append(out, *order)
		}
	}
	s.mu.Unlock()
	sortByID(out, func(o model.Order) int64 { return o.ID })
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	claims, _ := claimsFromContext(r.Context())
	isAdmin := claims != nil && claims.Role == "admin"

	s.mu.Lock()
	order, ok := s.orders[pathID(r)]
	s.mu.Unlock()
	if !ok || (!isAdmin && order.UserID != userID) {
		respondError(w, http.StatusNotFound, "order not found")
		return
	}
	respondJSON(w, http.StatusOK, *order)
}

func (s *Server) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch req.Status {
	case model.OrderPending, model.OrderProcessing, model.OrderShipped,
		model.OrderDelivered, model.OrderCancelled:
	default:
		respondError(w, http.StatusBadRequest, "unknown order status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[pathID(r)]
	if !ok {
		respondError(w, http.StatusNotFound, "order not found")
		return
	}
	order.Status = req.Status
	respondJSON(w, http.StatusOK, *order)
}
