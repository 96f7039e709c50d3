package session

import (
	"context"
	"log"
	"sync"

	"github.com/example/shopfront/internal/apiclient"
	"github.com/example/shopfront/internal/auth"
	"github.com/example/shopfront/internal/model"
	"github.com/example/shopfront/internal/storage"
)

// Store holds the authenticated identity and bearer token. The token is
// mirrored to local storage; the identity lives only in memory and is
// re-derived from the token at startup via Restore.
//
// Session failures are never presented here; callers receive the typed
// *apiclient.APIError and decide presentation.
type Store struct {
	client  *apiclient.Client
	storage *storage.Store

	mu   sync.RWMutex
	user *model.User
}

// New wires a session store to the API client: the store becomes the
// client's token source and its forced-teardown hook for 401 responses,
// no matter which store triggered the call.
func New(client *apiclient.Client, st *storage.Store) *Store {
	s := &Store{client: client, storage: st}
	client.SetTokenFunc(s.Token)
	client.SetUnauthorizedHook(s.teardown)
	return s
}

// Token returns the stored bearer token, or "".
func (s *Store) Token() string {
	return s.storage.GetString(storage.KeyToken)
}

// User returns the current identity, or nil when logged out.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether both an identity and a stored token
// are present. Either alone is insufficient.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	hasUser := s.user != nil
	s.mu.RUnlock()
	return hasUser && s.Token() != ""
}

// IsAdmin reports whether the current session carries the admin role.
func (s *Store) IsAdmin() bool {
	u := s.User()
	return u != nil && u.Role == model.RoleAdmin
}

// Login authenticates with email and password. On success the token is
// durably stored and the identity set from the response; on failure
// both remain unchanged.
func (s *Store) Login(ctx context.Context, email, password string) (*model.User, error) {
	body := map[string]string{"email": email, "password": password}
	var resp model.AuthResponse
	if err := s.client.PostJSON(ctx, "/auth/login", body, &resp, apiclient.WithAlert(false)); err != nil {
		return nil, err
	}
	return s.establish(resp)
}

// Register creates an account and signs it in.
func (s *Store) Register(ctx context.Context, email, password, firstName, lastName string) (*model.User, error) {
	body := map[string]string{
		"email":     email,
		"password":  password,
		"firstName": firstName,
		"lastName":  lastName,
	}
	var resp model.AuthResponse
	if err := s.client.PostJSON(ctx, "/auth/register", body, &resp, apiclient.WithAlert(false)); err != nil {
		return nil, err
	}
	return s.establish(resp)
}

func (s *Store) establish(resp model.AuthResponse) (*model.User, error) {
	if err := s.storage.Set(storage.KeyToken, resp.Token); err != nil {
		return nil, err
	}
	s.mu.Lock()
	u := resp.User
	s.user = &u
	s.mu.Unlock()
	return s.User(), nil
}

// FetchProfile re-derives the identity from the stored token. Failure is
// treated as proof of an invalid token and forces a full logout.
func (s *Store) FetchProfile(ctx context.Context) (*model.User, error) {
	var u model.User
	err := s.client.GetJSON(ctx, "/auth/profile", &u,
		apiclient.WithAlert(false), apiclient.WithLoading(false))
	if err != nil {
		s.teardown()
		return nil, err
	}
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	return s.User(), nil
}

// UpdateProfile sends a partial profile update and replaces the
// identity with the server's response.
func (s *Store) UpdateProfile(ctx context.Context, fields map[string]any) (*model.User, error) {
	var u model.User
	if err := s.client.PutJSON(ctx, "/auth/profile", fields, &u, apiclient.WithAlert(false)); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
	return s.User(), nil
}

// Restore re-establishes a session from a previously stored token at
// startup. A missing or already-expired token short-circuits without a
// network call; any profile-fetch failure leaves the store logged out.
func (s *Store) Restore(ctx context.Context) bool {
	token := s.Token()
	if token == "" {
		return false
	}
	if auth.IsExpired(token) {
		log.Println("[Session] Stored token expired, discarding")
		s.teardown()
		return false
	}
	if _, err := s.FetchProfile(ctx); err != nil {
		log.Printf("[Session] Profile fetch failed, session discarded: %v", err)
		return false
	}
	return true
}

// Logout clears the identity and the stored token. Idempotent.
func (s *Store) Logout() {
	s.teardown()
}

func (s *Store) teardown() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	if err := s.storage.Delete(storage.KeyToken); err != nil {
		log.Printf("[Session] Failed to clear stored token: %v", err)
	}
}
