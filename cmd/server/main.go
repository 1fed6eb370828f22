/*
main.go - Application entry point

PURPOSE:
  Starts the cashdesk HTTP server over the configured persistence backend.

STARTUP SEQUENCE:
  1. Load configuration (defaults, YAML, .env / environment)
  2. Apply command-line flags on top
  3. Open the persistence backend and load the ledger
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config   YAML config file (optional)
  -port     HTTP server port (default from config: 8080)
  -backend  memory | json | sqlite | postgres
  -db       File path for json/sqlite, connection string for postgres.
            Use ":memory:" with sqlite for a throwaway database.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the backend
  4. Exit

EXAMPLES:
  ./server -db="./data/cashdesk.db"
  ./server -backend=json -db="./data/ledger.json"
  ./server -backend=postgres -db="postgres://localhost/cashdesk?sslmode=disable"

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - store/backend.go: Backend selection
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/cashdesk/api"
	"github.com/warp/cashdesk/config"
	"github.com/warp/cashdesk/register"
	"github.com/warp/cashdesk/store"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "YAML config file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	backend := flag.String("backend", "", "Persistence backend (overrides config)")
	dsn := flag.String("db", "", "Database path or DSN (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *dsn != "" {
		cfg.DSN = *dsn
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}
	if cfg.Debug {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
		log.Printf("Debug logging enabled (backend: %s, timezone: %q, origins: %v)", cfg.Backend, cfg.Timezone, cfg.AllowedOrigins)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("%v", err)
	}

	// Initialize store
	ctx := context.Background()
	db, err := store.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s backend: %v", cfg.Backend, err)
	}
	defer db.Close()

	ledger, err := register.NewLedger(ctx, db, register.SystemClock{Location: loc})
	if err != nil {
		log.Fatalf("Failed to load ledger: %v", err)
	}

	handler := api.NewHandler(ledger)
	router := api.NewRouter(handler, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Cashdesk starting on http://localhost:%d (backend: %s, today: %s)", cfg.Port, db.Name, ledger.Today())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
