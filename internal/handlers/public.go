// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/cpp41419/fns50322-answers/internal/cache"
	"github.com/cpp41419/fns50322-answers/internal/catalog"
	"github.com/cpp41419/fns50322-answers/internal/models"
)

// Reader is the read side of the catalog used by the public API.
type Reader interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	CategoryQuestions(ctx context.Context, categorySlug string, limit int) (*models.Category, []models.Question, error)
	GetQuestionBySlug(ctx context.Context, slug string) (*models.QuestionDetail, error)
	ListQuestions(ctx context.Context, f catalog.QuestionFilter) ([]models.Question, error)
	Search(ctx context.Context, term string, limit int) ([]models.Question, error)
	RecordFeedback(ctx context.Context, slug string, helpful bool) error
}

// SubmissionCreator stores reader-submitted questions.
type SubmissionCreator interface {
	Create(ctx context.Context, sub *models.SubmittedQuestion) (*models.SubmittedQuestion, error)
}

// Public groups the public API handlers. Listing responses go through the
// response cache; question detail never does, so every successful read
// reaches the view counter.
type Public struct {
	catalog     Reader
	submissions SubmissionCreator
	cache       *cache.ResponseCache
}

// NewPublic creates the public handler group. responses may be nil to
// disable caching.
func NewPublic(catalog Reader, submissions SubmissionCreator, responses *cache.ResponseCache) *Public {
	return &Public{
		catalog:     catalog,
		submissions: submissions,
		cache:       responses,
	}
}

type questionList struct {
	Questions []models.Question `json:"questions"`
	Total     int               `json:"total"`
}

func newQuestionList(qs []models.Question) questionList {
	if qs == nil {
		qs = []models.Question{}
	}
	return questionList{Questions: qs, Total: len(qs)}
}

// cached serves r from the response cache, or computes the body with load
// and stores it. Errors are written, never cached.
func (p *Public) cached(w http.ResponseWriter, r *http.Request, load func(ctx context.Context) (any, error)) {
	ctx := r.Context()
	key := cache.Key(r.URL.Path, r.URL.Query())

	if body, ok := p.cache.Get(ctx, key); ok {
		w.Header().Set("X-Cache", "HIT")
		writeRaw(w, body)
		return
	}

	data, err := load(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := json.Marshal(data)
	if err != nil {
		writeError(w, r, fmt.Errorf("encode response: %w", err))
		return
	}
	p.cache.Set(ctx, key, body)

	w.Header().Set("X-Cache", "MISS")
	writeRaw(w, body)
}

// Categories lists every category with its published question count.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, func(ctx context.Context) (any, error) {
		cats, err := p.catalog.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]any{"categories": cats}, nil
	})
}

// Category returns one category by slug.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	p.cached(w, r, func(ctx context.Context) (any, error) {
		return p.catalog.GetCategoryBySlug(ctx, slug)
	})
}

// CategoryQuestions returns a category and its published questions. With
// no limit every question is returned.
func (p *Public) CategoryQuestions(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p.cached(w, r, func(ctx context.Context) (any, error) {
		cat, qs, err := p.catalog.CategoryQuestions(ctx, slug, limit)
		if err != nil {
			return nil, err
		}
		list := newQuestionList(qs)
		return struct {
			Category *models.Category `json:"category"`
			questionList
		}{cat, list}, nil
	})
}

// Questions is the combined listing endpoint. category, featured and
// search narrow one listing together; with none of them the most popular
// questions are returned. A search parameter that is present but blank is
// rejected, as on /search.
func (p *Public) Questions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	filter := catalog.QuestionFilter{
		CategorySlug: q.Get("category"),
		Limit:        limit,
	}
	if raw := q.Get("featured"); raw != "" {
		filter.FeaturedOnly, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: featured must be a boolean", catalog.ErrInvalidArgument))
			return
		}
	}
	if q.Has("search") {
		term := q.Get("search")
		filter.Term = &term
	}

	p.cached(w, r, func(ctx context.Context) (any, error) {
		qs, err := p.catalog.ListQuestions(ctx, filter)
		if err != nil {
			return nil, err
		}
		return newQuestionList(qs), nil
	})
}

// Question returns one published question with its related questions.
// Responses are never cached.
func (p *Public) Question(w http.ResponseWriter, r *http.Request) {
	detail, err := p.catalog.GetQuestionBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, detail)
}

// Search runs a text search over published questions.
func (p *Public) Search(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	term := r.URL.Query().Get("q")
	p.cached(w, r, func(ctx context.Context) (any, error) {
		qs, err := p.catalog.Search(ctx, term, limit)
		if err != nil {
			return nil, err
		}
		list := newQuestionList(qs)
		return struct {
			Query string `json:"query"`
			questionList
		}{strings.TrimSpace(term), list}, nil
	})
}

type feedbackRequest struct {
	Helpful *bool `json:"helpful"`
}

// Feedback records a helpful or not-helpful vote on a published question.
func (p *Public) Feedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Helpful == nil {
		writeError(w, r, fmt.Errorf("%w: helpful is required", catalog.ErrInvalidArgument))
		return
	}
	if err := p.catalog.RecordFeedback(r.Context(), chi.URLParam(r, "slug"), *req.Helpful); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type submitRequest struct {
	Question string `json:"question"`
	Category string `json:"category"`
	Email    string `json:"email"`
}

// Submit stores a reader-submitted question for review.
func (p *Public) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeJSON(w, r, maxBodyBytes, &req); err != nil {
		writeError(w, r, err)
		return
	}
	question := strings.TrimSpace(req.Question)
	category := strings.TrimSpace(req.Category)
	email := strings.TrimSpace(req.Email)

	if err := catalog.ValidateSubmission(question, category, email); err != nil {
		writeError(w, r, err)
		return
	}

	sub := &models.SubmittedQuestion{Question: question}
	if category != "" {
		sub.Category = &category
	}
	if email != "" {
		sub.Email = &email
	}

	created, err := p.submissions.Create(r.Context(), sub)
	if err != nil {
		writeError(w, r, storageFailure("create submission", err))
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":     created.ID,
		"status": created.Status,
	})
}
