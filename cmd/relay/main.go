// The chat relay runs as its own process, deliberately decoupled from the
// API server: it holds only live connections and forwards frames between the
// admin and user pools. Nothing is persisted and, unless RELAY_VERIFY is
// enabled, nothing is authenticated.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"labdesk/logs"
	"labdesk/relay"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logs.Logger.Info("No .env file found; using system environment")
	}

	logs.Init(logs.Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
	})

	port := os.Getenv("RELAY_PORT")
	if port == "" {
		port = ":8090"
	} else if port[0] != ':' {
		port = ":" + port
	}

	var verifier relay.Verifier = relay.AllowAll{}
	if os.Getenv("RELAY_VERIFY") == "1" {
		authURL := os.Getenv("AUTH_URL")
		if authURL == "" {
			logs.Logger.Fatal("RELAY_VERIFY=1 requires AUTH_URL")
		}
		v, err := relay.FetchVerifier(authURL)
		if err != nil {
			logs.Logger.Fatalf("relay verifier setup failed: %v", err)
		}
		verifier = v
		logs.Logger.Infof("connect tickets verified against %s", authURL)
	} else {
		logs.Logger.Warn("relay is running unauthenticated; clients assert their own role")
	}

	registry := relay.NewRegistry()

	router := httprouter.New()
	router.GET("/ws", relay.Handler(registry, verifier))

	server := &http.Server{
		Addr:              port,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		logs.Logger.Infof("chat relay listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logs.Logger.Fatalf("relay shutdown failed: %v", err)
	}
	logs.Logger.Info("relay stopped cleanly")
}
