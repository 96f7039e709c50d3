package mockapi

import (
	"encoding/json"
	"net/http"

	"github.com/example/shopfront/internal/model"
)

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	s.mu.Lock()
	lines := make([]model.CartLine, 0)
	for _, line := range s.cartLines {
		if line.UserID == userID {
			lines = append(lines, *line)
		}
	}
	s.mu.Unlock()
	sortByID(lines, func(l model.CartLine) int64 { return l.ID })
	respondJSON(w, http.StatusOK, lines)
}

// handleAddToCart merges by (productId, size, color): adding an already
// present variant increases its quantity and returns the same line, so
// the client replaces rather than duplicates it.
func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	var req model.CartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[req.ProductID]
	if !ok {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}

	var existing *model.CartLine
	for _, line := range s.cartLines {
		if line.UserID == userID && line.ProductID == req.ProductID &&
			line.Size == req.Size && line.Color == req.Color {
			existing = line
			break
		}
	}

	newQuantity := req.Quantity
	if existing != nil {
		newQuantity += existing.Quantity
	}
	if newQuantity > product.Stock {
		respondError(w, http.StatusBadRequest, "insufficient stock")
		return
	}

	if existing != nil {
		existing.Quantity = newQuantity
		respondJSON(w, http.StatusOK, *existing)
		return
	}

	s.nextLine++
	line := &model.CartLine{
		ID:           s.nextLine,
		UserID:       userID,
		ProductID:    product.ID,
		Quantity:     newQuantity,
		Size:         req.Size,
		Color:        req.Color,
		ProductName:  product.Name,
		ProductPrice: float64(product.Price),
		ProductImage: product.ImageURL,
		ProductStock: product.Stock,
	}
	s.cartLines[line.ID] = line
	respondJSON(w, http.StatusCreated, *line)
}

func (s *Server) handleUpdateCartLine(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.cartLines[pathID(r)]
	if !ok || line.UserID != userID {
		respondError(w, http.StatusNotFound, "cart item not found")
		return
	}
	if product, ok := s.products[line.ProductID]; ok && req.Quantity > product.Stock {
		respondError(w, http.StatusBadRequest, "insufficient stock")
		return
	}
	line.Quantity = req.Quantity
	respondJSON(w, http.StatusOK, *line)
}

func (s *Server) handleRemoveCartLine(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	s.mu.Lock()
	line, ok := s.cartLines[pathID(r)]
	if ok && line.UserID == userID {
		delete(s.cartLines, line.ID)
	}
	s.mu.Unlock()
	if !ok || line.UserID != userID {
		respondError(w, http.StatusNotFound, "cart item not found")
		return
	}
	respondMessage(w, "cart item removed")
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	s.mu.Lock()
	for id, line := range s.cartLines {
		if line.UserID == userID {
			delete(s.cartLines, id)
		}
	}
	s.mu.Unlock()
	respondMessage(w, "cart cleared")
}
