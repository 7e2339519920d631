// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the answers API server. It loads
// configuration, connects to PostgreSQL and (optionally) Valkey, wires the
// catalog and starts the HTTP server with graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cpp41419/fns50322-answers/internal/cache"
	"github.com/cpp41419/fns50322-answers/internal/catalog"
	"github.com/cpp41419/fns50322-answers/internal/config"
	"github.com/cpp41419/fns50322-answers/internal/database"
	"github.com/cpp41419/fns50322-answers/internal/handlers"
	"github.com/cpp41419/fns50322-answers/internal/metrics"
	"github.com/cpp41419/fns50322-answers/internal/middleware"
	"github.com/cpp41419/fns50322-answers/internal/router"
	"github.com/cpp41419/fns50322-answers/internal/store"
	"github.com/cpp41419/fns50322-answers/internal/views"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("failed to load environment file", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON otherwise.
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"cache", cfg.CacheEnabled(),
		"admin", cfg.AdminEnabled(),
	)

	pool := database.DefaultPool
	pool.MaxOpenConns = cfg.DBMaxOpenConns
	db, err := database.Connect(cfg.DSN(), pool)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Starter categories (no-op once any category exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// The response cache is optional; the API works without Valkey.
	var (
		valkeyClient *redis.Client
		responses    *cache.ResponseCache
	)
	if cfg.CacheEnabled() {
		valkeyClient, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		responses = cache.NewResponseCache(valkeyClient, cfg.CacheTTL)
	} else {
		slog.Warn("valkey not configured, response cache disabled")
	}

	poolStats := metrics.NewPoolStatsCollector(db)
	poolStats.Start(15 * time.Second)
	defer poolStats.Stop()

	categoryStore := store.NewCategoryStore(db)
	questionStore := store.NewQuestionStore(db)
	submissionStore := store.NewSubmissionStore(db)
	upsertLog := store.NewUpsertLogStore(db)

	counter := views.New(questionStore, views.Options{
		Workers:   cfg.ViewWorkers,
		QueueSize: cfg.ViewQueueSize,
		Timeout:   cfg.ViewTimeout,
	})

	cat := catalog.New(categoryStore, questionStore, counter)

	submitLimiter := middleware.NewRateLimiter(cfg.SubmitRateLimit, cfg.SubmitRateWindow)
	defer submitLimiter.Stop()

	routes := router.Options{
		Public:        handlers.NewPublic(cat, submissionStore, responses),
		Health:        handlers.NewHealth(db),
		SubmitLimiter: submitLimiter,
		TrustProxy:    cfg.TrustProxy,
	}
	if cfg.AdminEnabled() {
		routes.Admin = handlers.NewAdmin(cat, upsertLog, responses)
		routes.AdminTokenHash = cfg.AdminTokenHash
	} else {
		slog.Warn("ADMIN_TOKEN_HASH not set, admin routes disabled")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(routes),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	// No more reads can arrive; flush the pending view increments.
	if err := counter.Close(ctx); err != nil {
		slog.Warn("view counter did not drain", "error", err)
	}

	slog.Info("server stopped gracefully")
}
