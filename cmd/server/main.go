/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the mission management server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Configure structured logging (slog + tint)
  3. Initialize SQLite store
  4. Create API handler with dependencies
  5. Optionally seed demo data
  6. Start server with graceful shutdown

CONFIGURATION:
  Flags override environment variables; both have defaults.
    -port / PORT            HTTP server port (default: 8080)
    -db / DB_PATH           SQLite database path (default: missions.db)
                            Use ":memory:" for in-memory database
    -jwt-secret / JWT_SECRET  Token signing key (required outside dev)
    -token-ttl / TOKEN_TTL  Token lifetime (default: 24h)
    -seed / SEED            Load demo data on startup (default: false)
    LOG_LEVEL               debug, info, warn, error (default: info)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with demo data in memory
  ./server -db=":memory:" -seed

  # Run with file database on another port
  ./server -db="./data/missions.db" -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - api/seed.go: Demo dataset
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/warp/mission-engine/api"
	"github.com/warp/mission-engine/auth"
	"github.com/warp/mission-engine/store/sqlite"
)

func main() {
	// .env is optional; flags and real environment win over it.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "missions.db"), "SQLite database path")
	jwtSecret := flag.String("jwt-secret", envStr("JWT_SECRET", "dev-secret-change-me"), "JWT signing key")
	tokenTTL := flag.Duration("token-ttl", envDuration("TOKEN_TTL", 24*time.Hour), "JWT lifetime")
	seed := flag.Bool("seed", envBool("SEED", false), "load demo data on startup")
	flag.Parse()

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel(),
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	store, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	tokens := auth.NewJWTManager(*jwtSecret, *tokenTTL)
	handler := api.NewHandler(store, tokens, logger)

	if *seed {
		if err := handler.Seed(context.Background()); err != nil {
			logger.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
		logger.Info("demo data loaded", "password", api.SeedPassword)
	}

	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", fmt.Sprintf("http://localhost:%d/api", *port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// =============================================================================
// CONFIG HELPERS
// =============================================================================

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func logLevel() slog.Level {
	switch envStr("LOG_LEVEL", "info") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
