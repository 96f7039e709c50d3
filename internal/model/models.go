package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Price is a product price. The backend occasionally serializes prices
// as quoted strings; both forms decode to the numeric value.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return err
		}
		*p = Price(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*p = Price(f)
	return nil
}

// Product is a catalog product as returned by the API.
type Product struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       Price      `json:"price"`
	Category    string     `json:"category"`
	ImageURL    string     `json:"imageUrl"`
	Stock       int        `json:"stock"`
	Sizes       string     `json:"sizes,omitempty"`  // comma-separated backend string
	Colors      string     `json:"colors,omitempty"` // comma-separated backend string
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// ProductFilter carries the query facets for product listing.
// Zero values mean "facet not set"; Page and Limit are always sent.
type ProductFilter struct {
	Category string
	MinPrice float64
	MaxPrice float64
	Search   string
	InStock  bool
	Page     int
	Limit    int
}

// PaginationInfo mirrors the server's pagination envelope verbatim.
type PaginationInfo struct {
	CurrentPage     int  `json:"currentPage"`
	ItemsPerPage    int  `json:"itemsPerPage"`
	TotalItems      int  `json:"totalItems"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// ProductsResponse is the paginated product listing payload.
type ProductsResponse struct {
	Products   []Product      `json:"products"`
	Pagination PaginationInfo `json:"pagination"`
}

// CartLine is one cart entry, keyed server-side by ID and logically by
// the (ProductID, Size, Color) tuple.
type CartLine struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"userId"`
	ProductID    int64   `json:"productId"`
	Quantity     int     `json:"quantity"`
	Size         string  `json:"size,omitempty"`
	Color        string  `json:"color,omitempty"`
	ProductName  string  `json:"productName"`
	ProductPrice float64 `json:"productPrice"`
	ProductImage string  `json:"productImage"`
	ProductStock int     `json:"productStock"`
}

// SameVariant reports whether two lines refer to the same product variant.
func (l CartLine) SameVariant(other CartLine) bool {
	return l.ProductID == other.ProductID && l.Size == other.Size && l.Color == other.Color
}

// CartLineRequest is the add-to-cart request body.
type CartLineRequest struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// Cart is the derived view over the current lines. It is recomputed on
// every read and never stored.
type Cart struct {
	Lines      []CartLine `json:"items"`
	TotalItems int        `json:"totalItems"`
	Subtotal   float64    `json:"subtotal"`
	Shipping   float64    `json:"shipping"`
	Tax        float64    `json:"tax"`
	Total      float64    `json:"total"`
}

// User is the authenticated account profile.
type User struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Role       string     `json:"role"` // "admin" or "customer"
	Phone      string     `json:"phone,omitempty"`
	Address    string     `json:"address,omitempty"`
	City       string     `json:"city,omitempty"`
	PostalCode string     `json:"postalCode,omitempty"`
	Country    string     `json:"country,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Order statuses as reported by the API.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Order is a placed order with its line items.
type Order struct {
	ID                 int64       `json:"id"`
	UserID             int64       `json:"userId"`
	TotalAmount        float64     `json:"totalAmount"`
	Status             string      `json:"status"`
	ShippingAddress    string      `json:"shippingAddress"`
	ShippingCity       string      `json:"shippingCity"`
	ShippingPostalCode string      `json:"shippingPostalCode"`
	ShippingCountry    string      `json:"shippingCountry"`
	CreatedAt          time.Time   `json:"createdAt"`
	Items              []OrderItem `json:"items,omitempty"`
}

// OrderItem is one line of a placed order.
type OrderItem struct {
	ID           int64   `json:"id"`
	OrderID      int64   `json:"orderId"`
	ProductID    int64   `json:"productId"`
	ProductName  string  `json:"productName"`
	ProductImage string  `json:"productImage"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	Size         string  `json:"size,omitempty"`
	Color        string  `json:"color,omitempty"`
}

// CreateOrderRequest is the checkout request body.
type CreateOrderRequest struct {
	ShippingAddress    string `json:"shippingAddress"`
	ShippingCity       string `json:"shippingCity"`
	ShippingPostalCode string `json:"shippingPostalCode"`
	ShippingCountry    string `json:"shippingCountry"`
}

// ParseSizes splits the backend's comma-separated sizes string.
func ParseSizes(sizes string) []string {
	return splitList(sizes)
}

// ParseColors splits the backend's comma-separated colors string.
func ParseColors(colors string) []string {
	return splitList(colors)
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
