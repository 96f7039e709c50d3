package mockapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopfront/internal/mockapi"
	"github.com/example/shopfront/internal/model"
)

type testAPI struct {
	t      *testing.T
	server *httptest.Server
}

func newAPI(t *testing.T) *testAPI {
	t.Helper()
	server := httptest.NewServer(mockapi.New().Router())
	t.Cleanup(server.Close)
	return &testAPI{t: t, server: server}
}

// do issues a request and decodes the response body into out (when out
// is non-nil), returning the status code.
func (a *testAPI) do(method, path, token string, body, out any) int {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.server.URL+path, &buf)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.server.Client().Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *testAPI) login(email, password string) model.AuthResponse {
	a.t.Helper()
	var auth model.AuthResponse
	status := a.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	}, &auth)
	require.Equal(a.t, http.StatusOK, status)
	require.NotEmpty(a.t, auth.Token)
	return auth
}

type errorBody struct {
	Error string `json:"error"`
}

// ============================================
// Authentication
// ============================================

func TestLogin(t *testing.T) {
	api := newAPI(t)

	auth := api.login("customer@example.com", "customer-password")

	assert.Equal(t, "Casey", auth.User.FirstName)
	assert.Equal(t, model.RoleCustomer, auth.User.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	api := newAPI(t)

	var body errorBody
	status := api.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "customer@example.com", "password": "wrong",
	}, &body)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid email or password", body.Error)
}

func TestRegister(t *testing.T) {
	api := newAPI(t)

	var auth model.AuthResponse
	status := api.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email":     "New@Example.com",
		"password":  "long-enough",
		"firstName": "Nadia",
		"lastName":  "New",
	}, &auth)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "new@example.com", auth.User.Email, "email is normalized")
	assert.Equal(t, model.RoleCustomer, auth.User.Role)

	// the fresh account can sign in
	api.login("new@example.com", "long-enough")
}

func TestRegister_Validation(t *testing.T) {
	api := newAPI(t)

	tests := []struct {
		name    string
		body    map[string]string
		message string
	}{
		{
			"duplicate email",
			map[string]string{"email": "Customer@example.com", "password": "long-enough"},
			"email is already registered",
		},
		{
			"short password",
			map[string]string{"email": "short@example.com", "password": "short"},
			"password must be at least 8 characters",
		},
		{
			"missing email",
			map[string]string{"password": "long-enough"},
			"a valid email is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorBody
			status := api.do(http.MethodPost, "/auth/register", "", tt.body, &body)

			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tt.message, body.Error)
		})
	}
}

func TestProfile_RequiresToken(t *testing.T) {
	api := newAPI(t)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/auth/profile", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/auth/profile", "not-a-jwt", nil, nil))
}

func TestProfile_PartialUpdate(t *testing.T) {
	api := newAPI(t)
	auth := api.login("customer@example.com", "customer-password")

	var updated model.User
	status := api.do(http.MethodPut, "/auth/profile", auth.Token, map[string]string{
		"city": "Lisbon",
	}, &updated)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Lisbon", updated.City)
	assert.Equal(t, "Casey", updated.FirstName, "omitted fields keep their value")
}

// ============================================
// Product listing
// ============================================

func listProducts(t *testing.T, api *testAPI, query string) model.ProductsResponse {
	t.Helper()
	var resp model.ProductsResponse
	status := api.do(http.MethodGet, "/products"+query, "", nil, &resp)
	require.Equal(t, http.StatusOK, status)
	return resp
}

func productNames(products []model.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestListProducts_Filters(t *testing.T) {
	api := newAPI(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"category", "?category=accessories", []string{"Wool Scarf", "Leather Belt"}},
		{"category is case insensitive", "?category=SHOES", []string{"Canvas Sneakers"}},
		{"min price", "?minPrice=60", []string{"Denim Jacket", "Hooded Sweatshirt"}},
		{"price band", "?minPrice=25&maxPrice=50", []string{"Wool Scarf", "Canvas Sneakers", "Leather Belt"}},
		{"search matches name", "?search=denim", []string{"Denim Jacket"}},
		{"search matches description", "?search=merino", []string{"Wool Scarf"}},
		{"in stock drops sold out items", "?inStock=true&category=accessories", []string{"Leather Belt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := listProducts(t, api, tt.query)
			assert.Equal(t, tt.want, productNames(resp.Products))
		})
	}
}

func TestListProducts_Pagination(t *testing.T) {
	api := newAPI(t)

	resp := listProducts(t, api, "?limit=3&page=2")

	assert.Len(t, resp.Products, 3)
	assert.Equal(t, model.PaginationInfo{
		CurrentPage:     2,
		ItemsPerPage:    3,
		TotalItems:      8,
		TotalPages:      3,
		HasNextPage:     true,
		HasPreviousPage: true,
	}, resp.Pagination)

	last := listProducts(t, api, "?limit=3&page=3")
	assert.Len(t, last.Products, 2)
	assert.False(t, last.Pagination.HasNextPage)
}

func TestGetProduct_Unknown(t *testing.T) {
	api := newAPI(t)

	var body errorBody
	status := api.do(http.MethodGet, "/products/999", "", nil, &body)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "product not found", body.Error)
}

func TestCategories(t *testing.T) {
	api := newAPI(t)

	var categories []string
	status := api.do(http.MethodGet, "/products/categories", "", nil, &categories)

	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"accessories", "men", "shoes", "women"}, categories)
}

// ============================================
// Admin gating
// ============================================

func TestAdminRoutes_Gating(t *testing.T) {
	api := newAPI(t)
	customer := api.login("customer@example.com", "customer-password")

	newProduct := map[string]any{"name": "Rain Poncho", "price": 15.0, "category": "accessories"}

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/products", "", newProduct, nil))
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/products", customer.Token, newProduct, nil))
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/users", customer.Token, nil, nil))
}

func TestAdmin_ProductLifecycle(t *testing.T) {
	api := newAPI(t)
	admin := api.login("admin@example.com", "admin-password")

	var created model.Product
	status := api.do(http.MethodPost, "/products", admin.Token, map[string]any{
		"name": "Rain Poncho", "price": 15.0, "category": "accessories", "stock": 10,
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	require.NotZero(t, created.ID)

	path := fmt.Sprintf("/products/%d", created.ID)

	var updated model.Product
	status = api.do(http.MethodPut, path, admin.Token, map[string]any{"price": 12.5}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, model.Price(12.5), updated.Price)
	assert.Equal(t, "Rain Poncho", updated.Name, "omitted fields keep their value")

	require.Equal(t, http.StatusOK, api.do(http.MethodDelete, path, admin.Token, nil, nil))
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, path, "", nil, nil))
}

func TestAdmin_ListUsers(t *testing.T) {
	api := newAPI(t)
	admin := api.login("admin@example.com", "admin-password")

	var users []model.User
	status := api.do(http.MethodGet, "/users", admin.Token, nil, &users)

	require.Equal(t, http.StatusOK, status)
	require.Len(t, users, 2)
	assert.Equal(t, "admin@example.com", users[0].Email)
}

// ============================================
// Orders
// ============================================

var checkoutBody = model.CreateOrderRequest{
	ShippingAddress:    "1 Dock Road",
	ShippingCity:       "Lisbon",
	ShippingPostalCode: "1100-001",
	ShippingCountry:    "PT",
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	api := newAPI(t)
	customer := api.login("customer@example.com", "customer-password")

	var body errorBody
	status := api.do(http.MethodPost, "/orders", customer.Token, checkoutBody, &body)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "cart is empty", body.Error)
}

func TestCreateOrder_Flow(t *testing.T) {
	api := newAPI(t)
	customer := api.login("customer@example.com", "customer-password")

	status := api.do(http.MethodPost, "/cart", customer.Token, model.CartLineRequest{
		ProductID: 5, Quantity: 2, Size: "40", Color: "white",
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var order model.Order
	status = api.do(http.MethodPost, "/orders", customer.Token, checkoutBody, &order)
	require.Equal(t, http.StatusCreated, status)

	// 2 x 45.00, flat shipping, 8% tax rounded to cents
	assert.Equal(t, model.OrderPending, order.Status)
	assert.InDelta(t, 90+10+7.20, order.TotalAmount, 1e-9)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Canvas Sneakers", order.Items[0].ProductName)
	assert.Equal(t, 2, order.Items[0].Quantity)

	// checkout empties the cart and draws down stock
	var lines []model.CartLine
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/cart", customer.Token, nil, &lines))
	assert.Empty(t, lines)

	var product model.Product
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/products/5", "", nil, &product))
	assert.Equal(t, 58, product.Stock)
}

func TestOrders_ScopedToOwnerUnlessAdmin(t *testing.T) {
	api := newAPI(t)
	customer := api.login("customer@example.com", "customer-password")

	var other model.AuthResponse
	status := api.do(http.MethodPost, "/auth/register", "", map[string]string{
		"email": "other@example.com", "password": "long-enough",
	}, &other)
	require.Equal(t, http.StatusOK, status)

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/cart", customer.Token, model.CartLineRequest{
		ProductID: 1, Quantity: 1, Size: "M", Color: "white",
	}, nil))
	var order model.Order
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/orders", customer.Token, checkoutBody, &order))

	orderPath := fmt.Sprintf("/orders/%d", order.ID)

	var mine []model.Order
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/orders", other.Token, nil, &mine))
	assert.Empty(t, mine, "someone else's order is invisible")
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, orderPath, other.Token, nil, nil))

	admin := api.login("admin@example.com", "admin-password")
	var all []model.Order
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/orders", admin.Token, nil, &all))
	assert.Len(t, all, 1)
}

func TestUpdateOrderStatus(t *testing.T) {
	api := newAPI(t)
	customer := api.login("customer@example.com", "customer-password")
	admin := api.login("admin@example.com", "admin-password")

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/cart", customer.Token, model.CartLineRequest{
		ProductID: 1, Quantity: 1, Size: "M", Color: "white",
	}, nil))
	var order model.Order
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/orders", customer.Token, checkoutBody, &order))

	path := fmt.Sprintf("/orders/%d/status", order.ID)

	assert.Equal(t, http.StatusForbidden,
		api.do(http.MethodPut, path, customer.Token, map[string]string{"status": "shipped"}, nil))

	var body errorBody
	status := api.do(http.MethodPut, path, admin.Token, map[string]string{"status": "teleported"}, &body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "unknown order status", body.Error)

	var updated model.Order
	require.Equal(t, http.StatusOK,
		api.do(http.MethodPut, path, admin.Token, map[string]string{"status": "shipped"}, &updated))
	assert.Equal(t, model.OrderShipped, updated.Status)
}
