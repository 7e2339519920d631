// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cpp41419/fns50322-answers/internal/cache"
	"github.com/cpp41419/fns50322-answers/internal/catalog"
	"github.com/cpp41419/fns50322-answers/internal/models"
	"github.com/cpp41419/fns50322-answers/internal/store"
)

// Writer is the administrative side of the catalog.
type Writer interface {
	UpsertCategories(ctx context.Context, rows []models.CategoryInput) (models.UpsertResult, error)
	UpsertQuestions(ctx context.Context, rows []models.QuestionInput) (models.UpsertResult, error)
	AdminQuestionBySlug(ctx context.Context, slug string) (*models.Question, error)
}

// UpsertLog records and lists applied upsert batches.
type UpsertLog interface {
	Log(ctx context.Context, entityType string, res models.UpsertResult, source string)
	RecentEntries(ctx context.Context, limit int) ([]store.UpsertLogEntry, error)
}

// Admin groups the administrative API handlers. Routes are mounted behind
// middleware.RequireAdminToken.
type Admin struct {
	catalog Writer
	log     UpsertLog
	cache   *cache.ResponseCache
}

// NewAdmin creates the admin handler group. responses may be nil.
func NewAdmin(catalog Writer, log UpsertLog, responses *cache.ResponseCache) *Admin {
	return &Admin{catalog: catalog, log: log, cache: responses}
}

// sourceHeader lets a client label a batch in the upsert log.
const sourceHeader = "X-Upsert-Source"

func upsertSource(r *http.Request) string {
	if s := r.Header.Get(sourceHeader); s != "" && len(s) <= 200 {
		return s
	}
	return "api"
}

// UpsertCategories applies a JSON array of category rows.
func (a *Admin) UpsertCategories(w http.ResponseWriter, r *http.Request) {
	var rows []models.CategoryInput
	if err := decodeJSON(w, r, maxAdminBodyBytes, &rows); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := a.catalog.UpsertCategories(r.Context(), rows)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.applied(r, "category", res)
	writeJSON(w, http.StatusOK, res)
}

// UpsertQuestions applies a JSON array of question rows. The batch is
// rejected whole if any row's category does not exist.
func (a *Admin) UpsertQuestions(w http.ResponseWriter, r *http.Request) {
	var rows []models.QuestionInput
	if err := decodeJSON(w, r, maxAdminBodyBytes, &rows); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := a.catalog.UpsertQuestions(r.Context(), rows)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.applied(r, "question", res)
	writeJSON(w, http.StatusOK, res)
}

// applied runs the bookkeeping after a successful batch.
func (a *Admin) applied(r *http.Request, entity string, res models.UpsertResult) {
	if res.Total() == 0 {
		return
	}
	ctx := r.Context()
	a.cache.InvalidateAll(ctx)
	if a.log != nil {
		a.log.Log(ctx, entity, res, upsertSource(r))
	}
	slog.Info("admin upsert applied", "entity", entity, "inserted", res.Inserted, "updated", res.Updated)
}

// Question returns a question whatever its publish state. No view is
// recorded.
func (a *Admin) Question(w http.ResponseWriter, r *http.Request) {
	q, err := a.catalog.AdminQuestionBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// defaultUpsertEntries is how many log entries Upserts returns by default.
const defaultUpsertEntries = 50

// Upserts lists recent upsert batches, newest first.
func (a *Admin) Upserts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	switch {
	case limit < 0:
		writeError(w, r, fmt.Errorf("%w: limit must not be negative", catalog.ErrInvalidArgument))
		return
	case limit == 0:
		limit = defaultUpsertEntries
	case limit > 500:
		limit = 500
	}

	if a.log == nil {
		writeJSON(w, http.StatusOK, map[string]any{"entries": []store.UpsertLogEntry{}})
		return
	}
	entries, err := a.log.RecentEntries(r.Context(), limit)
	if err != nil {
		writeError(w, r, storageFailure("list upsert log", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
