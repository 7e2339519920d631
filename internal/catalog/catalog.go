// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog is the single point of truth for reading and writing
// categories and questions. It enforces the catalog invariants on top of a
// storage collaborator, keeps no state between calls, and reports failures
// using the error taxonomy in errors.go.
package catalog

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/cpp41419/fns50322-answers/internal/metrics"
	"github.com/cpp41419/fns50322-answers/internal/models"
	"github.com/cpp41419/fns50322-answers/internal/ranking"
)

// Listing limits.
const (
	DefaultLimit  = 10
	MaxLimit      = 100
	maxSearchTerm = 200
)

// Catalog implements the catalog read and write operations.
type Catalog struct {
	categories CategoryStore
	questions  QuestionStore
	views      ViewRecorder
}

// New creates a Catalog. views may be nil, in which case reads are not
// counted.
func New(categories CategoryStore, questions QuestionStore, views ViewRecorder) *Catalog {
	return &Catalog{categories: categories, questions: questions, views: views}
}

// ListCategories returns every category ordered by sort_order then slug,
// each carrying its published question count.
func (c *Catalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	cats, err := c.categories.ListCategories(ctx)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	slices.SortFunc(cats, func(a, b models.Category) int {
		if n := cmp.Compare(a.SortOrder, b.SortOrder); n != 0 {
			return n
		}
		return strings.Compare(a.Slug, b.Slug)
	})
	if cats == nil {
		cats = []models.Category{}
	}
	return cats, nil
}

// GetCategoryBySlug returns the category with exactly this slug.
func (c *Catalog) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	if slug == "" {
		return nil, invalid("category slug is empty")
	}
	cat, err := c.categories.FindCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, storageErr("get category", err)
	}
	if cat == nil {
		return nil, notFound("category", slug)
	}
	return cat, nil
}

// ListQuestionsByCategory returns the category's published questions in
// popularity order. A limit of zero returns all of them. An existing
// category with no published questions yields an empty slice.
func (c *Catalog) ListQuestionsByCategory(ctx context.Context, categorySlug string, limit int) ([]models.Question, error) {
	_, qs, err := c.CategoryQuestions(ctx, categorySlug, limit)
	return qs, err
}

// CategoryQuestions is ListQuestionsByCategory that also returns the
// category it resolved, so callers need only one category read.
func (c *Catalog) CategoryQuestions(ctx context.Context, categorySlug string, limit int) (*models.Category, []models.Question, error) {
	if limit < 0 {
		return nil, nil, invalid("limit must not be negative")
	}
	cat, err := c.GetCategoryBySlug(ctx, categorySlug)
	if err != nil {
		return nil, nil, err
	}
	qs, err := c.questions.ListQuestions(ctx, QuestionQuery{
		CategoryID: &cat.ID,
		Limit:      limit,
	})
	if err != nil {
		return nil, nil, storageErr("list questions by category", err)
	}
	return cat, published(qs, limit), nil
}

// GetQuestionBySlug resolves a published question with up to three related
// questions from its category. A successful fetch records one view; the
// returned Views value is the snapshot read before that increment.
func (c *Catalog) GetQuestionBySlug(ctx context.Context, slug string) (*models.QuestionDetail, error) {
	if slug == "" {
		return nil, invalid("question slug is empty")
	}
	q, err := c.questions.FindQuestionBySlug(ctx, slug)
	if err != nil {
		return nil, storageErr("get question", err)
	}
	if q == nil || !q.IsPublished {
		return nil, notFound("question", slug)
	}

	detail := &models.QuestionDetail{Question: *q, Related: []models.RelatedQuestion{}}

	candidates, err := c.questions.ListQuestions(ctx, QuestionQuery{
		CategoryID:  &q.CategoryID,
		ExcludeSlug: q.Slug,
		Limit:       ranking.MaxRelated,
	})
	if err != nil {
		// Related questions are optional; the read still succeeds.
		slog.Warn("related questions lookup failed", "slug", slug, "error", err)
	} else {
		detail.Related = ranking.Related(*q, candidates)
	}

	// An abandoned read must not count as a view.
	if err := ctx.Err(); err != nil {
		return nil, storageErr("get question", err)
	}
	if c.views != nil {
		c.views.Record(q.ID)
	}
	return detail, nil
}

// ListPopular returns the most viewed published questions.
func (c *Catalog) ListPopular(ctx context.Context, limit int) ([]models.Question, error) {
	return c.list(ctx, "list popular", QuestionQuery{}, limit)
}

// ListFeatured returns the most viewed published, featured questions.
func (c *Catalog) ListFeatured(ctx context.Context, limit int) ([]models.Question, error) {
	return c.list(ctx, "list featured", QuestionQuery{FeaturedOnly: true}, limit)
}

// Search returns published questions whose title or answer contains term
// case-insensitively, or which carry term as a tag. A blank term is
// rejected rather than treated as "match everything".
func (c *Catalog) Search(ctx context.Context, term string, limit int) ([]models.Question, error) {
	term, err := searchTerm(term)
	if err != nil {
		return nil, err
	}
	return c.list(ctx, "search", QuestionQuery{Term: term}, limit)
}

// QuestionFilter combines the public listing filters. Zero fields do not
// filter; a non-nil Term is a search and must not be blank.
type QuestionFilter struct {
	CategorySlug string
	FeaturedOnly bool
	Term         *string
	Limit        int
}

// ListQuestions returns published questions matching every filter in f, in
// popularity order, with the default and maximum listing sizes applied.
// An unknown category is NotFound.
func (c *Catalog) ListQuestions(ctx context.Context, f QuestionFilter) ([]models.Question, error) {
	q := QuestionQuery{FeaturedOnly: f.FeaturedOnly}
	if f.Term != nil {
		term, err := searchTerm(*f.Term)
		if err != nil {
			return nil, err
		}
		q.Term = term
	}
	if f.Limit < 0 {
		return nil, invalid("limit must not be negative")
	}
	if f.CategorySlug != "" {
		cat, err := c.GetCategoryBySlug(ctx, f.CategorySlug)
		if err != nil {
			return nil, err
		}
		q.CategoryID = &cat.ID
	}
	return c.list(ctx, "list questions", q, f.Limit)
}

func searchTerm(term string) (string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return "", invalid("search term is empty")
	}
	if utf8.RuneCountInString(term) > maxSearchTerm {
		return "", invalid("search term is longer than %d characters", maxSearchTerm)
	}
	return term, nil
}

func (c *Catalog) list(ctx context.Context, op string, q QuestionQuery, limit int) ([]models.Question, error) {
	limit, err := clampLimit(limit)
	if err != nil {
		return nil, err
	}
	q.Limit = limit
	qs, err := c.questions.ListQuestions(ctx, q)
	if err != nil {
		return nil, storageErr(op, err)
	}
	return published(qs, limit), nil
}

// AdminQuestionBySlug returns a question regardless of its publish state.
// It is not exposed on public routes.
func (c *Catalog) AdminQuestionBySlug(ctx context.Context, slug string) (*models.Question, error) {
	if slug == "" {
		return nil, invalid("question slug is empty")
	}
	q, err := c.questions.FindQuestionBySlug(ctx, slug)
	if err != nil {
		return nil, storageErr("admin get question", err)
	}
	if q == nil {
		return nil, notFound("question", slug)
	}
	return q, nil
}

// RecordFeedback counts a "was this helpful?" vote on a published question.
func (c *Catalog) RecordFeedback(ctx context.Context, slug string, helpful bool) error {
	if slug == "" {
		return invalid("question slug is empty")
	}
	q, err := c.questions.FindQuestionBySlug(ctx, slug)
	if err != nil {
		return storageErr("record feedback", err)
	}
	if q == nil || !q.IsPublished {
		return notFound("question", slug)
	}
	if err := c.questions.RecordFeedback(ctx, q.ID, helpful); err != nil {
		return storageErr("record feedback", err)
	}
	return nil
}

// UpsertCategories inserts or replaces categories keyed by slug. The batch
// is validated as a whole and written in one transaction.
func (c *Catalog) UpsertCategories(ctx context.Context, rows []models.CategoryInput) (models.UpsertResult, error) {
	if len(rows) == 0 {
		return models.UpsertResult{}, nil
	}

	rows, err := prepareCategories(rows)
	if err != nil {
		metrics.UpsertRows.WithLabelValues("category", "rejected").Add(float64(len(rows)))
		return models.UpsertResult{}, err
	}

	res, err := c.categories.UpsertCategories(ctx, rows)
	if err != nil {
		metrics.UpsertRows.WithLabelValues("category", "rejected").Add(float64(len(rows)))
		return models.UpsertResult{}, storageErr("upsert categories", err)
	}

	metrics.UpsertRows.WithLabelValues("category", "inserted").Add(float64(res.Inserted))
	metrics.UpsertRows.WithLabelValues("category", "updated").Add(float64(res.Updated))
	slog.Info("categories upserted", "inserted", res.Inserted, "updated", res.Updated)
	return res, nil
}

// UpsertQuestions inserts or replaces questions keyed by slug. Category
// references are resolved once for the batch and every row must resolve
// before anything is written; the write itself is one transaction.
func (c *Catalog) UpsertQuestions(ctx context.Context, rows []models.QuestionInput) (models.UpsertResult, error) {
	if len(rows) == 0 {
		return models.UpsertResult{}, nil
	}

	rows, err := prepareQuestions(rows)
	if err != nil {
		metrics.UpsertRows.WithLabelValues("question", "rejected").Add(float64(len(rows)))
		return models.UpsertResult{}, err
	}

	index, err := c.categories.CategoryIndex(ctx)
	if err != nil {
		return models.UpsertResult{}, storageErr("resolve categories", err)
	}
	resolved, err := resolveQuestions(rows, index)
	if err != nil {
		metrics.UpsertRows.WithLabelValues("question", "rejected").Add(float64(len(rows)))
		return models.UpsertResult{}, err
	}

	res, err := c.questions.UpsertQuestions(ctx, resolved)
	if err != nil {
		metrics.UpsertRows.WithLabelValues("question", "rejected").Add(float64(len(rows)))
		return models.UpsertResult{}, storageErr("upsert questions", err)
	}

	metrics.UpsertRows.WithLabelValues("question", "inserted").Add(float64(res.Inserted))
	metrics.UpsertRows.WithLabelValues("question", "updated").Add(float64(res.Updated))
	slog.Info("questions upserted", "inserted", res.Inserted, "updated", res.Updated)
	return res, nil
}

// CheckCategories validates a category batch without writing it.
func CheckCategories(rows []models.CategoryInput) error {
	_, err := prepareCategories(rows)
	return err
}

// CheckQuestions validates a question batch without writing it or
// resolving its category references.
func CheckQuestions(rows []models.QuestionInput) error {
	_, err := prepareQuestions(rows)
	return err
}

// prepareCategories returns a normalized copy of rows, or a ValidationError
// covering every invalid row.
func prepareCategories(rows []models.CategoryInput) ([]models.CategoryInput, error) {
	rows = slices.Clone(rows)
	errs := batchErrors{}
	slugs := make([]string, len(rows))
	for i := range rows {
		normalizeCategory(&rows[i])
		errs.add(i, validateCategory(&rows[i]))
		slugs[i] = rows[i].Slug
	}
	duplicateSlugs(slugs, errs)
	if len(errs) > 0 {
		return rows, &ValidationError{Entity: "categories", Errors: validation.Errors(errs)}
	}
	return rows, nil
}

// prepareQuestions returns a normalized copy of rows, or a ValidationError
// covering every invalid row.
func prepareQuestions(rows []models.QuestionInput) ([]models.QuestionInput, error) {
	rows = slices.Clone(rows)
	errs := batchErrors{}
	slugs := make([]string, len(rows))
	for i := range rows {
		normalizeQuestion(&rows[i])
		errs.add(i, validateQuestion(&rows[i]))
		slugs[i] = rows[i].Slug
	}
	duplicateSlugs(slugs, errs)
	if len(errs) > 0 {
		return rows, &ValidationError{Entity: "questions", Errors: validation.Errors(errs)}
	}
	return rows, nil
}

// resolveQuestions maps every row to its category ID, failing with a
// ReferenceError that lists every row that does not resolve.
func resolveQuestions(rows []models.QuestionInput, index map[string]uuid.UUID) ([]models.QuestionRow, error) {
	known := make(map[uuid.UUID]struct{}, len(index))
	for _, id := range index {
		known[id] = struct{}{}
	}

	out := make([]models.QuestionRow, 0, len(rows))
	var missing []MissingReference
	for i, in := range rows {
		var (
			id uuid.UUID
			ok bool
		)
		switch {
		case in.CategorySlug != "":
			id, ok = index[in.CategorySlug]
			if ok && in.CategoryID != nil && *in.CategoryID != id {
				ok = false
			}
		case in.CategoryID != nil:
			id = *in.CategoryID
			_, ok = known[id]
		}
		if !ok {
			m := MissingReference{Row: i, Slug: in.Slug, CategorySlug: in.CategorySlug}
			if in.CategoryID != nil {
				m.CategoryID = in.CategoryID.String()
			}
			missing = append(missing, m)
			continue
		}

		out = append(out, models.QuestionRow{
			Slug:        in.Slug,
			Question:    in.Question,
			Answer:      in.Answer,
			CategoryID:  id,
			ModuleCode:  in.ModuleCode,
			Tags:        in.Tags,
			Views:       in.Views,
			HelpfulYes:  in.HelpfulYes,
			HelpfulNo:   in.HelpfulNo,
			IsPublished: in.Published(),
			IsFeatured:  in.IsFeatured,
		})
	}
	if len(missing) > 0 {
		return nil, &ReferenceError{Missing: missing}
	}
	return out, nil
}

// clampLimit applies the default and maximum listing sizes.
func clampLimit(limit int) (int, error) {
	switch {
	case limit < 0:
		return 0, invalid("limit must not be negative")
	case limit == 0:
		return DefaultLimit, nil
	case limit > MaxLimit:
		return MaxLimit, nil
	}
	return limit, nil
}

// published drops anything unpublished, applies popularity order and trims
// to limit. The store already filters and orders; this keeps the contract
// independent of the backend.
func published(qs []models.Question, limit int) []models.Question {
	out := make([]models.Question, 0, len(qs))
	for _, q := range qs {
		if q.IsPublished {
			out = append(out, q)
		}
	}
	return ranking.Top(out, limit)
}
