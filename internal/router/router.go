// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains for the
// answers API. Public routes are always mounted; administrative routes are
// mounted only when an admin token hash is configured.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cpp41419/fns50322-answers/internal/handlers"
	"github.com/cpp41419/fns50322-answers/internal/middleware"
)

// Options carries the handler groups and route-level settings.
type Options struct {
	Public *handlers.Public
	Health *handlers.Health

	// Admin and AdminTokenHash must both be set for /admin to be mounted.
	Admin          *handlers.Admin
	AdminTokenHash string

	// SubmitLimiter throttles POST /submit when non-nil.
	SubmitLimiter *middleware.RateLimiter

	// TrustProxy rewrites RemoteAddr from X-Forwarded-For / X-Real-IP. Set
	// it only behind a reverse proxy that overwrites those headers.
	TrustProxy bool
}

// New creates the configured chi router.
func New(opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	if opts.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.RequestID)
	r.Use(middleware.Metrics)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonStatus(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonStatus(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Operational endpoints.
	r.Get("/health", opts.Health.Live)
	r.Get("/ready", opts.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	p := opts.Public
	r.Get("/categories", p.Categories)
	r.Get("/categories/{slug}", p.Category)
	r.Get("/categories/{slug}/questions", p.CategoryQuestions)

	r.Get("/questions", p.Questions)
	r.Get("/questions/{slug}", p.Question)
	r.Post("/questions/{slug}/feedback", p.Feedback)

	r.Get("/search", p.Search)

	r.Group(func(r chi.Router) {
		if opts.SubmitLimiter != nil {
			r.Use(opts.SubmitLimiter.Middleware)
		}
		r.Post("/submit", p.Submit)
	})

	if opts.Admin != nil && opts.AdminTokenHash != "" {
		a := opts.Admin
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdminToken(opts.AdminTokenHash))

			r.Post("/categories", a.UpsertCategories)
			r.Post("/questions", a.UpsertQuestions)
			r.Get("/questions/{slug}", a.Question)
			r.Get("/upserts", a.Upserts)
		})
	}

	return r
}

func jsonStatus(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + msg + `"}` + "\n"))
}
