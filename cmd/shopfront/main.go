package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/example/shopfront/internal/apiclient"
	"github.com/example/shopfront/internal/cart"
	"github.com/example/shopfront/internal/catalog"
	"github.com/example/shopfront/internal/dialog"
	"github.com/example/shopfront/internal/notify"
	"github.com/example/shopfront/internal/orders"
	"github.com/example/shopfront/internal/session"
	"github.com/example/shopfront/internal/storage"
	"github.com/example/shopfront/internal/users"
)

// app bundles the stores the command handlers operate on. Stores are
// constructed once here and passed by reference; there are no package
// globals.
type app struct {
	store   *storage.Store
	session *session.Store
	cart    *cart.Store
	catalog *catalog.Service
	engine  *catalog.Engine
	orders  *orders.Service
	users   *users.Service
	dialogs *dialog.Service
	stdin   *bufio.Scanner
}

func main() {
	_ = godotenv.Load()

	apiURL := getEnv("SHOPFRONT_API_URL", "http://localhost:8090")
	statePath := getEnv("SHOPFRONT_STATE_FILE", defaultStatePath())

	store, err := storage.Open(statePath)
	if err != nil {
		log.Fatalf("[Shopfront] Failed to open state file: %v", err)
	}

	client := apiclient.New(apiURL,
		apiclient.WithNotifier(notify.Console{}),
		apiclient.WithLoadingSink(consoleLoading{}),
	)

	sess := session.New(client, store)
	cartStore := cart.New(client, store, sess)
	catalogSvc := catalog.NewService(client)
	engine := catalog.NewEngine(catalogSvc, catalog.WithLanguage(preferredLanguage(store)))
	defer engine.Close()

	a := &app{
		store:   store,
		session: sess,
		cart:    cartStore,
		catalog: catalogSvc,
		engine:  engine,
		orders:  orders.NewService(client),
		users:   users.NewService(client),
		dialogs: dialog.NewService(),
		stdin:   bufio.NewScanner(os.Stdin),
	}

	ctx := context.Background()

	// Show the locally mirrored cart immediately, then reconcile with
	// the server once the session is restored.
	a.cart.RestoreLocal()
	if a.session.Restore(ctx) {
		u := a.session.User()
		fmt.Printf("Welcome back, %s %s\n", u.FirstName, u.LastName)
		if err := a.cart.Load(ctx); err != nil {
			log.Printf("[Shopfront] Cart load failed: %v", err)
		}
	}

	fmt.Printf("shopfront — connected to %s (type 'help')\n", apiURL)
	a.repl(ctx)
}

func (a *app) repl(ctx context.Context) {
	for {
		fmt.Print("> ")
		if !a.stdin.Scan() {
			return
		}
		line := strings.TrimSpace(a.stdin.Text())
		if line == "" {
			continue
		}
		args := strings.Fields(line)
		cmd, rest := args[0], args[1:]
		if cmd == "quit" || cmd == "exit" {
			return
		}
		if err := a.dispatch(ctx, cmd, rest); err != nil {
			fmt.Printf("error: %s\n", friendlyError(err))
		}
	}
}

// readLine prompts for one line of input.
func (a *app) readLine(prompt string) string {
	fmt.Print(prompt)
	if !a.stdin.Scan() {
		return ""
	}
	return strings.TrimSpace(a.stdin.Text())
}

// confirm routes a yes/no question through the dialog service so the
// prompt lifecycle matches what a graphical shell would drive.
func (a *app) confirm(message string) bool {
	prompt, err := a.dialogs.Ask(message)
	if err != nil {
		return false
	}
	answer := a.readLine(fmt.Sprintf("%s [y/N]: ", message))
	a.dialogs.Resolve(strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes"))
	return <-prompt.Result()
}

// consoleLoading is the global loading indicator analog; the terminal
// has nothing useful to animate, so it stays silent.
type consoleLoading struct{}

func (consoleLoading) SetLoading(bool) {}

func preferredLanguage(store *storage.Store) language.Tag {
	code := store.GetString(storage.KeyLanguage)
	if code == "" {
		return language.English
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.English
	}
	return tag
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shopfront-state.json"
	}
	return filepath.Join(home, ".shopfront", "state.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
