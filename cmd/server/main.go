// sitechat - marketing-site assistant and content API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/mmopane/sitechat/internal/api"
	"github.com/mmopane/sitechat/internal/auth"
	"github.com/mmopane/sitechat/internal/config"
	"github.com/mmopane/sitechat/internal/middleware"
	"github.com/mmopane/sitechat/internal/store"
	"github.com/mmopane/sitechat/internal/tenant"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "tenant", cfg.Tenant, "dev", cfg.IsDevelopment())

	// Load the tenant configuration (builtin unless overridden by file).
	var tc *tenant.Config
	if cfg.TenantPath != "" {
		tc, err = tenant.Load(cfg.TenantPath)
	} else {
		tc, err = tenant.Builtin(cfg.Tenant)
	}
	if err != nil {
		slog.Error("Failed to load tenant configuration", "error", err)
		os.Exit(1)
	}

	engine, err := tc.Engine(cfg.ChatMemoryTTL)
	if err != nil {
		slog.Error("Failed to build responder engine", "error", err)
		os.Exit(1)
	}
	slog.Info("Responder engine ready", "tenant", tc.Name, "intents", len(tc.Intents))

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	gate := auth.NewGate(cfg.AdminPassword, cfg.CookieSecret, cfg.IsDevelopment())
	if !gate.Enabled() {
		slog.Warn("Admin login disabled (ADMIN_PASSWORD not set)")
	}

	// Initialize handlers.
	botHandler := api.NewBotHandler(engine, cfg.IsDevelopment())
	authHandler := api.NewAuthHandler(gate)
	contentHandler := api.NewContentHandler(repo, gate)
	uploadHandler := api.NewUploadHandler(cfg.UploadDir, cfg.UploadBaseURL, gate)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(corsOrigins(cfg)))

	botHandler.RegisterRoutes(r)
	authHandler.RegisterRoutes(r)
	contentHandler.RegisterRoutes(r)
	uploadHandler.RegisterRoutes(r)

	// Create server.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Prune idle conversation memory in the background.
	engine.StartMemorySweeper(ctx, 10*time.Minute)

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

func corsOrigins(cfg *config.Config) []string {
	if cfg.FrontendURL == "" {
		return []string{"*"}
	}
	return []string{cfg.FrontendURL}
}
