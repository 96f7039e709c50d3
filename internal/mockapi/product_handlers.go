package mockapi

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/shopfront/internal/model"
)

const defaultPageSize = 15

func sortByID[T any](items []T, id func(T) int64) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("category")
	search := strings.ToLower(q.Get("search"))
	minPrice, _ := strconv.ParseFloat(q.Get("minPrice"), 64)
	maxPrice, _ := strconv.ParseFloat(q.Get("maxPrice"), 64)
	inStock := q.Get("inStock") == "true"

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = defaultPageSize
	}

	s.mu.Lock()
	matched := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if minPrice > 0 && float64(p.Price) < minPrice {
			continue
		}
		if maxPrice > 0 && float64(p.Price) > maxPrice {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if inStock && p.Stock <= 0 {
			continue
		}
		matched = append(matched, *p)
	}
	s.mu.Unlock()
	sortByID(matched, func(p model.Product) int64 { return p.ID })

	totalItems := len(matched)
	totalPages := (totalItems + limit - 1) / limit
	start := (page - 1) * limit
	if start > totalItems {
		start = totalItems
	}
	end := start + limit
	if end > totalItems {
		end = totalItems
	}

	respondJSON(w, http.StatusOK, model.ProductsResponse{
		Products: matched[start:end],
		Pagination: model.PaginationInfo{
			CurrentPage:     page,
			ItemsPerPage:    limit,
			TotalItems:      totalItems,
			TotalPages:      totalPages,
			HasNextPage:     page < totalPages,
			HasPreviousPage: page > 1 && totalPages > 0,
		},
	})
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	p, ok := s.products[id]
	s.mu.Unlock()
	if !ok {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	respondJSON(w, http.StatusOK, *p)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	seen := make(map[string]bool)
	for _, p := range s.products {
		if p.Category != "" {
			seen[p.Category] = true
		}
	}
	s.mu.Unlock()

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	respondJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var p model.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(p.Name) == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if p.Price < 0 {
		respondError(w, http.StatusBadRequest, "price must not be negative")
		return
	}
	s.addProduct(&p)
	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string      `json:"name"`
		Description *string      `json:"description"`
		Price       *model.Price `json:"price"`
		Category    *string      `json:"category"`
		ImageURL    *string      `json:"imageUrl"`
		Stock       *int         `json:"stock"`
		Sizes       *string      `json:"sizes"`
		Colors      *string      `json:"colors"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[pathID(r)]
	if !ok {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Sizes != nil {
		p.Sizes = *req.Sizes
	}
	if req.Colors != nil {
		p.Colors = *req.Colors
	}
	respondJSON(w, http.StatusOK, *p)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	s.mu.Lock()
	_, ok := s.products[id]
	delete(s.products, id)
	s.mu.Unlock()
	if !ok {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	respondMessage(w, "product deleted")
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id
}
