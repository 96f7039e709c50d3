package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/example/shopfront/internal/model"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	rec := s.findUserByEmailLocked(req.Email)
	s.mu.Unlock()
	if rec == nil || !checkPassword(req.Password, rec.passwordHash) {
		respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	s.respondAuth(w, rec)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		respondError(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooShort) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	s.mu.Lock()
	if s.findUserByEmailLocked(req.Email) != nil {
		s.mu.Unlock()
		respondError(w, http.StatusBadRequest, "email is already registered")
		return
	}
	s.mu.Unlock()

	rec := &userRecord{
		User: model.User{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      model.RoleCustomer,
		},
		passwordHash: hash,
	}
	s.addUser(rec)
	s.respondAuth(w, rec)
}

func (s *Server) respondAuth(w http.ResponseWriter, rec *userRecord) {
	token, err := s.tokens.Issue(rec.ID, rec.Email, rec.Role)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	respondJSON(w, http.StatusOK, model.AuthResponse{Token: token, User: rec.User})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rec, ok := s.users[userIDFromContext(r.Context())]
	s.mu.Unlock()
	if !ok {
		respondError(w, http.StatusUnauthorized, "unknown account")
		return
	}
	respondJSON(w, http.StatusOK, rec.User)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName  *string `json:"firstName"`
		LastName   *string `json:"lastName"`
		Phone      *string `json:"phone"`
		Address    *string `json:"address"`
		City       *string `json:"city"`
		PostalCode *string `json:"postalCode"`
		Country    *string `json:"country"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[userIDFromContext(r.Context())]
	if !ok {
		respondError(w, http.StatusUnauthorized, "unknown account")
		return
	}
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&rec.FirstName, req.FirstName)
	apply(&rec.LastName, req.LastName)
	apply(&rec.Phone, req.Phone)
	apply(&rec.Address, req.Address)
	apply(&rec.City, req.City)
	apply(&rec.PostalCode, req.PostalCode)
	apply(&rec.Country, req.Country)
	respondJSON(w, http.StatusOK, rec.User)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]model.User, 0, len(s.users))
	for _, rec := range s.users {
		out = append(out, rec.User)
	}
	s.mu.Unlock()
	sortByID(out, func(u model.User) int64 { return u.ID })
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) findUserByEmailLocked(email string) *userRecord {
	email = strings.TrimSpace(strings.ToLower(email))
	for _, rec := range s.users {
		if strings.ToLower(rec.Email) == email {
			return rec
		}
	}
	return nil
}
