package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/shopfront/internal/mockapi"
)

func main() {
	_ = godotenv.Load()

	addr := getEnv("MOCKAPI_ADDR", ":8090")
	secret := getEnv("MOCKAPI_SECRET", mockapi.DefaultSecret)

	server := mockapi.NewWithSecret(secret)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Router(),
	}

	go func() {
		log.Printf("[MockAPI] Serving storefront API on %s", addr)
		log.Println("[MockAPI] Accounts: admin@example.com / admin-password, customer@example.com / customer-password")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[MockAPI] Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[MockAPI] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
