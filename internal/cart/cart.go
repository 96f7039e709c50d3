package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/example/shopfront/internal/apiclient"
	"github.com/example/shopfront/internal/model"
	"github.com/example/shopfront/internal/storage"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrNotSignedIn     = errors.New("sign in to use the cart")
)

// Pricing rules applied to the derived cart view.
const (
	freeShippingOver = 100.0
	shippingFlatRate = 10.0
	taxRate          = 0.08
)

// Authenticator gates cart loading on session state. It is polled at
// call time, not subscribed to.
type Authenticator interface {
	IsAuthenticated() bool
}

// Store owns the cart line list. The server is authoritative: every
// mutation goes to the API first and local state changes only on
// success. The line list is mirrored to local storage after each
// successful mutation; failed calls leave both untouched.
type Store struct {
	client  *apiclient.Client
	storage *storage.Store
	auth    Authenticator

	mu    sync.RWMutex
	lines []model.CartLine
}

func New(client *apiclient.Client, st *storage.Store, auth Authenticator) *Store {
	return &Store{client: client, storage: st, auth: auth}
}

// Lines returns a copy of the current line list.
func (s *Store) Lines() []model.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Cart derives the totals view from the current lines. Pure and
// side-effect free; reading it never touches the network.
func (s *Store) Cart() model.Cart {
	return Totals(s.Lines())
}

// Totals computes the derived cart view for a line list. Tax is rounded
// to cents; shipping is free for empty carts and for subtotals over the
// free-shipping threshold.
func Totals(lines []model.CartLine) model.Cart {
	c := model.Cart{Lines: lines}
	for _, line := range lines {
		c.TotalItems += line.Quantity
		c.Subtotal += line.ProductPrice * float64(line.Quantity)
	}
	if c.Subtotal > 0 && c.Subtotal <= freeShippingOver {
		c.Shipping = shippingFlatRate
	}
	c.Tax = math.Round(c.Subtotal*taxRate*100) / 100
	c.Total = c.Subtotal + c.Shipping + c.Tax
	return c
}

// Load fetches the authoritative line list. On success local state is
// replaced wholesale; on failure it is left untouched and the error
// returned to the caller (no automatic retry).
func (s *Store) Load(ctx context.Context) error {
	if s.auth != nil && !s.auth.IsAuthenticated() {
		return ErrNotSignedIn
	}
	var lines []model.CartLine
	if err := s.client.GetJSON(ctx, "/cart", &lines, apiclient.WithAlert(false)); err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	s.replace(lines)
	return nil
}

// Add creates a cart line. When the server merges the add into an
// existing line (same product, size and color) the response replaces
// that line; otherwise it is appended. The server owns the merged
// quantity.
func (s *Store) Add(ctx context.Context, productID int64, quantity int, size, color string) (model.CartLine, error) {
	if quantity <= 0 {
		return model.CartLine{}, ErrInvalidQuantity
	}
	req := model.CartLineRequest{ProductID: productID, Quantity: quantity, Size: size, Color: color}
	var line model.CartLine
	if err := s.client.PostJSON(ctx, "/cart", req, &line, apiclient.WithAlert(false)); err != nil {
		return model.CartLine{}, fmt.Errorf("add to cart: %w", err)
	}

	s.mu.Lock()
	replaced := false
	for i := range s.lines {
		if s.lines[i].ID == line.ID || s.lines[i].SameVariant(line) {
			s.lines[i] = line
			replaced = true
			break
		}
	}
	if !replaced {
		s.lines = append(s.lines, line)
	}
	s.persistLocked()
	s.mu.Unlock()
	return line, nil
}

// UpdateQuantity changes the quantity of a line by ID.
func (s *Store) UpdateQuantity(ctx context.Context, lineID int64, quantity int) (model.CartLine, error) {
	if quantity <= 0 {
		return model.CartLine{}, ErrInvalidQuantity
	}
	body := map[string]int{"quantity": quantity}
	var line model.CartLine
	path := fmt.Sprintf("/cart/%d", lineID)
	if err := s.client.PutJSON(ctx, path, body, &line, apiclient.WithAlert(false)); err != nil {
		return model.CartLine{}, fmt.Errorf("update cart line: %w", err)
	}

	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines[i] = line
			break
		}
	}
	s.persistLocked()
	s.mu.Unlock()
	return line, nil
}

// Remove deletes a line by ID.
func (s *Store) Remove(ctx context.Context, lineID int64) error {
	var resp struct {
		Message string `json:"message"`
	}
	path := fmt.Sprintf("/cart/%d", lineID)
	if err := s.client.DeleteJSON(ctx, path, &resp, apiclient.WithAlert(false)); err != nil {
		return fmt.Errorf("remove cart line: %w", err)
	}

	s.mu.Lock()
	kept := s.lines[:0]
	for _, line := range s.lines {
		if line.ID != lineID {
			kept = append(kept, line)
		}
	}
	s.lines = kept
	s.persistLocked()
	s.mu.Unlock()
	return nil
}

// Clear empties the cart and erases the persisted mirror.
func (s *Store) Clear(ctx context.Context) error {
	var resp struct {
		Message string `json:"message"`
	}
	if err := s.client.DeleteJSON(ctx, "/cart", &resp, apiclient.WithAlert(false)); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	s.mu.Lock()
	s.lines = nil
	if err := s.storage.Delete(storage.KeyCart); err != nil {
		log.Printf("[Cart] Failed to erase cart mirror: %v", err)
	}
	s.mu.Unlock()
	return nil
}

// RestoreLocal loads the persisted mirror into memory, for display
// before the authoritative Load. Absence of a mirror is not an error.
func (s *Store) RestoreLocal() {
	var lines []model.CartLine
	if err := s.storage.Get(storage.KeyCart, &lines); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Printf("[Cart] Failed to read cart mirror: %v", err)
		}
		return
	}
	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
}

func (s *Store) replace(lines []model.CartLine) {
	s.mu.Lock()
	s.lines = lines
	s.persistLocked()
	s.mu.Unlock()
}

// persistLocked mirrors the full line list to local storage. Callers
// hold mu. Mirror failures are logged, not surfaced: in-memory state is
// the source of truth.
func (s *Store) persistLocked() {
	if err := s.storage.Set(storage.KeyCart, s.lines); err != nil {
		log.Printf("[Cart] Failed to persist cart mirror: %v", err)
	}
}
