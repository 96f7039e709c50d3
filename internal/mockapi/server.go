// Package mockapi is an in-memory stand-in for the storefront REST API,
// used by cmd/mockapi for offline development and by the package tests.
// It speaks the same wire format and auth scheme as the real backend.
package mockapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/example/shopfront/internal/model"
)

// DefaultSecret signs mock tokens. Long enough to pass the usual
// minimum-length checks; never used outside local development.
const DefaultSecret = "mockapi-local-development-signing-secret"

const tokenExpiry = 24 * time.Hour

type userRecord struct {
	model.User
	passwordHash string
}

// Server holds the mock backend's in-memory state. All maps are guarded
// by mu; there is no durable storage by design.
type Server struct {
	tokens *TokenService

	mu        sync.Mutex
	users     map[int64]*userRecord
	products  map[int64]*model.Product
	cartLines map[int64]*model.CartLine
	orders    map[int64]*model.Order
	nextUser  int64
	nextProd  int64
	nextLine  int64
	nextOrder int64
	nextItem  int64
}

// New constructs a seeded mock server signing tokens with DefaultSecret.
func New() *Server {
	return NewWithSecret(DefaultSecret)
}

// NewWithSecret constructs a seeded mock server with a custom signing
// secret.
func NewWithSecret(secret string) *Server {
	s := &Server{
		tokens:    NewTokenService(secret, tokenExpiry),
		users:     make(map[int64]*userRecord),
		products:  make(map[int64]*model.Product),
		cartLines: make(map[int64]*model.CartLine),
		orders:    make(map[int64]*model.Order),
	}
	s.seed()
	return s
}

// Tokens exposes the token service, so tests can mint tokens directly.
func (s *Server) Tokens() *TokenService {
	return s.tokens
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondMessage(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusOK, map[string]string{"message": message})
}
