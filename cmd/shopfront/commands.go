package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/shopfront/internal/apiclient"
	"github.com/example/shopfront/internal/catalog"
	"github.com/example/shopfront/internal/model"
	"github.com/example/shopfront/internal/storage"
)

var (
	errUsage     = errors.New("bad arguments, see 'help'")
	errAdminOnly = errors.New("admin account required")
)

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		printHelp()
		return nil

	// session
	case "login":
		return a.cmdLogin(ctx, args)
	case "register":
		return a.cmdRegister(ctx, args)
	case "logout":
		a.session.Logout()
		fmt.Println("logged out")
		return nil
	case "whoami":
		return a.cmdWhoami()
	case "profile":
		return a.cmdUpdateProfile(ctx, args)

	// catalog
	case "products":
		return a.cmdProducts(ctx)
	case "product":
		return a.cmdProduct(ctx, args)
	case "categories":
		return a.cmdCategories(ctx)
	case "category":
		return a.engineThenList(ctx, func() error {
			return a.engine.SetCategory(ctx, strings.Join(args, " "))
		})
	case "search":
		return a.engineThenList(ctx, func() error {
			return a.engine.SetSearch(ctx, strings.Join(args, " "))
		})
	case "price":
		return a.cmdPrice(ctx, args)
	case "instock":
		return a.engineThenList(ctx, func() error { return a.engine.ToggleInStock(ctx) })
	case "sort":
		if len(args) != 1 {
			return errUsage
		}
		a.engine.SetSort(catalog.ParseSortMode(args[0]))
		a.printProductPage()
		return nil
	case "page":
		if len(args) != 1 {
			return errUsage
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return errUsage
		}
		return a.engineThenList(ctx, func() error { return a.engine.GoToPage(ctx, n) })
	case "next":
		return a.engineThenList(ctx, func() error { return a.engine.NextPage(ctx) })
	case "prev":
		return a.engineThenList(ctx, func() error { return a.engine.PreviousPage(ctx) })
	case "clear-filters":
		return a.engineThenList(ctx, func() error { return a.engine.ClearFilters(ctx) })

	// cart
	case "add":
		return a.cmdAdd(ctx, args)
	case "cart":
		return a.cmdCart(ctx)
	case "update":
		return a.cmdUpdateQuantity(ctx, args)
	case "remove":
		return a.cmdRemove(ctx, args)
	case "clear":
		return a.cmdClear(ctx)

	// orders
	case "checkout":
		return a.cmdCheckout(ctx)
	case "orders":
		return a.cmdOrders(ctx)
	case "order":
		return a.cmdOrder(ctx, args)

	// preferences
	case "lang":
		if len(args) != 1 {
			return errUsage
		}
		return a.store.Set(storage.KeyLanguage, args[0])

	// admin
	case "users", "order-status", "product-delete":
		if !a.session.IsAdmin() {
			return errAdminOnly
		}
		switch cmd {
		case "users":
			return a.cmdUsers(ctx)
		case "order-status":
			return a.cmdOrderStatus(ctx, args)
		default:
			return a.cmdProductDelete(ctx, args)
		}

	default:
		return fmt.Errorf("unknown command %q, see 'help'", cmd)
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	u, err := a.session.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s %s (%s)\n", u.FirstName, u.LastName, u.Role)
	return a.cart.Load(ctx)
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	if len(args) != 4 {
		return errUsage
	}
	u, err := a.session.Register(ctx, args[0], args[1], args[2], args[3])
	if err != nil {
		return err
	}
	fmt.Printf("account created for %s %s\n", u.FirstName, u.LastName)
	return nil
}

func (a *app) cmdWhoami() error {
	if !a.session.IsAuthenticated() {
		fmt.Println("not signed in")
		return nil
	}
	u := a.session.User()
	fmt.Printf("%s %s <%s> role=%s\n", u.FirstName, u.LastName, u.Email, u.Role)
	return nil
}

func (a *app) cmdUpdateProfile(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Println("usage: profile <field> <value>   (firstName, lastName, phone, address, city, postalCode, country)")
		return nil
	}
	u, err := a.session.UpdateProfile(ctx, map[string]any{args[0]: args[1]})
	if err != nil {
		return err
	}
	fmt.Printf("profile updated for %s %s\n", u.FirstName, u.LastName)
	return nil
}

func (a *app) cmdProducts(ctx context.Context) error {
	if err := a.engine.Refresh(ctx); err != nil {
		return err
	}
	a.printProductPage()
	return nil
}

func (a *app) cmdProduct(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	p, err := a.catalog.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("#%d %s — $%.2f (%s)\n%s\n", p.ID, p.Name, float64(p.Price), p.Category, p.Description)
	if sizes := model.ParseSizes(p.Sizes); len(sizes) > 0 {
		fmt.Printf("sizes:  %s\n", strings.Join(sizes, ", "))
	}
	if colors := model.ParseColors(p.Colors); len(colors) > 0 {
		fmt.Printf("colors: %s\n", strings.Join(colors, ", "))
	}
	fmt.Printf("stock:  %d\n", p.Stock)
	return nil
}

func (a *app) cmdCategories(ctx context.Context) error {
	categories, err := a.catalog.GetCategories(ctx)
	if err != nil {
		return err
	}
	fmt.Println(strings.Join(categories, ", "))
	return nil
}

func (a *app) cmdPrice(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	min, err1 := strconv.ParseFloat(args[0], 64)
	max, err2 := strconv.ParseFloat(args[1], 64)
	if err1 != nil || err2 != nil {
		return errUsage
	}
	return a.engineThenList(ctx, func() error { return a.engine.SetPriceRange(ctx, min, max) })
}

func (a *app) engineThenList(ctx context.Context, op func() error) error {
	if err := op(); err != nil {
		return err
	}
	a.printProductPage()
	return nil
}

func (a *app) printProductPage() {
	products := a.engine.Products()
	if len(products) == 0 {
		fmt.Println("no products match")
		return
	}
	for _, p := range products {
		stock := "in stock"
		if p.Stock <= 0 {
			stock = "out of stock"
		}
		fmt.Printf("#%-4d %-24s $%8.2f  %-12s %s\n", p.ID, p.Name, float64(p.Price), p.Category, stock)
	}
	pg := a.engine.Pagination()
	fmt.Printf("page %d/%d — %d item(s)\n", pg.CurrentPage, pg.TotalPages, pg.TotalItems)
}

func (a *app) cmdAdd(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 4 {
		return errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errUsage
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return errUsage
	}
	var size, color string
	if len(args) > 2 {
		size = args[2]
	}
	if len(args) > 3 {
		color = args[3]
	}
	line, err := a.cart.Add(ctx, id, qty, size, color)
	if err != nil {
		return err
	}
	fmt.Printf("added %d × %s\n", line.Quantity, line.ProductName)
	return nil
}

func (a *app) cmdCart(ctx context.Context) error {
	if a.session.IsAuthenticated() {
		if err := a.cart.Load(ctx); err != nil {
			return err
		}
	}
	c := a.cart.Cart()
	if len(c.Lines) == 0 {
		fmt.Println("cart is empty")
		return nil
	}
	for _, line := range c.Lines {
		variant := ""
		if line.Size != "" || line.Color != "" {
			variant = fmt.Sprintf(" (%s)", strings.TrimPrefix(line.Size+" "+line.Color, " "))
		}
		fmt.Printf("#%-4d %d × %s%s @ $%.2f\n", line.ID, line.Quantity, line.ProductName, variant, line.ProductPrice)
	}
	fmt.Printf("items: %d  subtotal: $%.2f  shipping: $%.2f  tax: $%.2f  total: $%.2f\n",
		c.TotalItems, c.Subtotal, c.Shipping, c.Tax, c.Total)
	return nil
}

func (a *app) cmdUpdateQuantity(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errUsage
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return errUsage
	}
	line, err := a.cart.UpdateQuantity(ctx, id, qty)
	if err != nil {
		return err
	}
	fmt.Printf("%s → %d\n", line.ProductName, line.Quantity)
	return nil
}

func (a *app) cmdRemove(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if err := a.cart.Remove(ctx, id); err != nil {
		return err
	}
	fmt.Println("removed")
	return nil
}

func (a *app) cmdClear(ctx context.Context) error {
	if !a.confirm("Clear the cart?") {
		fmt.Println("kept")
		return nil
	}
	if err := a.cart.Clear(ctx); err != nil {
		return err
	}
	fmt.Println("cart cleared")
	return nil
}

func (a *app) cmdCheckout(ctx context.Context) error {
	if a.cart.Cart().TotalItems == 0 {
		fmt.Println("cart is empty")
		return nil
	}
	req := model.CreateOrderRequest{
		ShippingAddress:    a.readLine("address: "),
		ShippingCity:       a.readLine("city: "),
		ShippingPostalCode: a.readLine("postal code: "),
		ShippingCountry:    a.readLine("country: "),
	}
	order, err := a.orders.Create(ctx, req)
	if err != nil {
		return err
	}
	// server emptied the cart as part of the order
	if err := a.cart.Load(ctx); err != nil {
		return err
	}
	fmt.Printf("order #%d placed — total $%.2f\n", order.ID, order.TotalAmount)
	return nil
}

func (a *app) cmdOrders(ctx context.Context) error {
	list, err := a.orders.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Println("no orders")
		return nil
	}
	for _, o := range list {
		fmt.Printf("#%-4d %-11s $%8.2f  %s\n", o.ID, o.Status, o.TotalAmount, o.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func (a *app) cmdOrder(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	o, err := a.orders.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("order #%d — %s — $%.2f\nship to: %s, %s %s, %s\n",
		o.ID, o.Status, o.TotalAmount,
		o.ShippingAddress, o.ShippingCity, o.ShippingPostalCode, o.ShippingCountry)
	for _, item := range o.Items {
		fmt.Printf("  %d × %s @ $%.2f\n", item.Quantity, item.ProductName, item.Price)
	}
	return nil
}

func (a *app) cmdUsers(ctx context.Context) error {
	list, err := a.users.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range list {
		fmt.Printf("#%-4d %-28s %-8s %s %s\n", u.ID, u.Email, u.Role, u.FirstName, u.LastName)
	}
	return nil
}

func (a *app) cmdOrderStatus(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return errUsage
	}
	o, err := a.orders.UpdateStatus(ctx, id, args[1])
	if err != nil {
		return err
	}
	fmt.Printf("order #%d → %s\n", o.ID, o.Status)
	return nil
}

func (a *app) cmdProductDelete(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if !a.confirm(fmt.Sprintf("Delete product #%d?", id)) {
		fmt.Println("kept")
		return nil
	}
	return a.catalog.DeleteProduct(ctx, id)
}

func parseID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, errUsage
	}
	return id, nil
}

// friendlyError maps the client error taxonomy onto messages a shopper
// can act on; everything else passes through unchanged.
func friendlyError(err error) string {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, apiclient.ErrUnauthenticated):
		return "please log in first"
	case errors.Is(err, apiclient.ErrInvalidRequest):
		if errors.As(err, &apiErr) {
			return apiErr.Message
		}
		return "invalid request"
	case errors.Is(err, apiclient.ErrNotFound):
		return "not found"
	case errors.Is(err, apiclient.ErrTransport):
		return "cannot reach the store, try again"
	case errors.Is(err, apiclient.ErrServer):
		return "the store had a problem, try again later"
	default:
		return err.Error()
	}
}

func printHelp() {
	fmt.Print(`session:
  login <email> <password>        register <email> <password> <first> <last>
  logout                          whoami
  profile <field> <value>

catalog:
  products                        product <id>
  categories                      category [name]
  search [text]                   price <min> <max>
  instock                         sort featured|price-low|price-high|name
  page <n>  next  prev            clear-filters

cart:
  add <productID> <qty> [size] [color]
  cart      update <lineID> <qty>
  remove <lineID>      clear

orders:
  checkout      orders      order <id>

admin:
  users      order-status <id> <status>      product-delete <id>

other:
  lang <code>      help      quit
`)
}
