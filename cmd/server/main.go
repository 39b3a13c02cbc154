/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the RapidHR Lifecycle Engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Load category profiles (defaults or YAML file)
  4. Wire engine, notifier, handler, router
  5. Start reminder scheduler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port      HTTP server port (default: 8080)
  -db        SQLite database path (default: lifecycle.db)
             Use ":memory:" for in-memory database
  -profiles  Optional YAML file overriding category profiles
  -remind    Reminder scan interval (default: 24h)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the reminder scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/lifecycle.db"

  # Run with in-memory database and custom profiles
  ./server -db=":memory:" -profiles="./profiles.yaml"

  # Run on different port
  ./server -port=3000

ENVIRONMENT:
  No environment variables currently. All config via flags.
  Future: DATABASE_URL, PORT, LOG_LEVEL

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
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

	"github.com/rapidhr/lifecycle-engine/api"
	"github.com/rapidhr/lifecycle-engine/factory"
	"github.com/rapidhr/lifecycle-engine/lifecycle"
	"github.com/rapidhr/lifecycle-engine/notify"
	"github.com/rapidhr/lifecycle-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "lifecycle.db", "SQLite database path")
	profilesPath := flag.String("profiles", "", "YAML file overriding category profiles")
	remindEvery := flag.Duration("remind", 24*time.Hour, "reminder scan interval")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Category profiles
	provider := factory.Defaults()
	if *profilesPath != "" {
		provider, err = factory.LoadFile(*profilesPath)
		if err != nil {
			log.Fatalf("Failed to load profiles from %s: %v", *profilesPath, err)
		}
		log.Printf("Loaded category profiles from %s", *profilesPath)
	}

	// Wire engine and API
	engine := lifecycle.NewEngine(store, provider)
	notifier := notify.NewLogger()
	handler := api.NewHandler(engine, notifier)
	router := api.NewRouter(handler)

	// Background reminders
	scheduler := api.NewReminderScheduler(engine, notifier)
	scheduler.CheckInterval = *remindEvery
	scheduler.Start()
	defer scheduler.Stop()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
