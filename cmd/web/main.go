// Package main is the entry point for the ConstructIQ web client.
package main

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/TheDeveloper404/ConstructionIQ/internal/api"
	"github.com/TheDeveloper404/ConstructionIQ/internal/auth"
	"github.com/TheDeveloper404/ConstructionIQ/internal/config"
	"github.com/TheDeveloper404/ConstructionIQ/internal/db"
	"github.com/TheDeveloper404/ConstructionIQ/internal/demo"
	"github.com/TheDeveloper404/ConstructionIQ/internal/handlers"
	"github.com/TheDeveloper404/ConstructionIQ/internal/metrics"
	"github.com/TheDeveloper404/ConstructionIQ/internal/middleware"
	"github.com/TheDeveloper404/ConstructionIQ/internal/templates"
	"github.com/TheDeveloper404/ConstructionIQ/web"
)

const sessionCleanupInterval = time.Hour

func main() {
	cfg := config.Load()

	// Set up structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions, closeSessions, err := openSessionStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize session store", "error", err)
		os.Exit(1)
	}
	defer closeSessions()

	m := metrics.New()

	jar, err := api.NewCookieJar()
	if err != nil {
		slog.Error("failed to initialize cookie jar", "error", err)
		os.Exit(1)
	}
	client := api.New(cfg.APIBaseURL,
		api.WithHTTPClient(&http.Client{Jar: jar}),
		api.WithObserver(m),
	)

	// Demo mode is decided once at startup.
	demoCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	demoProvider := demo.Load(demoCtx, client)
	cancel()
	slog.Info("demo status loaded", "enabled", demoProvider.Enabled())

	tmpl, err := templates.New(web.TemplatesFS)
	if err != nil {
		slog.Error("failed to initialize templates", "error", err)
		os.Exit(1)
	}

	h := handlers.New(client, sessions, tmpl, handlers.Options{
		BaseURL:  cfg.BaseURL,
		PageSize: cfg.PageSize,
		Demo:     demoProvider,
		Metrics:  m,
	})

	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(middleware.ForwardRequestID)

	// Serve static files from embedded FS
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		slog.Error("failed to create static file sub-filesystem", "error", err)
		os.Exit(1)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", m.Handler())

	h.Routes(r)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "addr", cfg.Addr, "api", cfg.APIBaseURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// openSessionStore returns the Postgres store when DATABASE_URL is set and
// the sealed-cookie store otherwise.
func openSessionStore(ctx context.Context, cfg *config.Config) (auth.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		store, err := auth.NewCookieStore(cfg.SessionSecret)
		if err != nil {
			return nil, nil, err
		}
		if cfg.SessionSecret == "" {
			slog.Warn("SESSION_SECRET not set, sessions will not survive a restart")
		}
		return store, func() {}, nil
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("connected to database")

	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, nil, err
	}
	store := auth.NewPGStore(database)
	go cleanSessions(ctx, store)

	return store, database.Close, nil
}

func cleanSessions(ctx context.Context, store *auth.PGStore) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.CleanExpiredSessions(ctx); err != nil {
				slog.Warn("failed to clean expired sessions", "error", err)
			}
		}
	}
}
