// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/cpp41419/fns50322-answers/internal/models"
)

// QuestionQuery filters a published-question listing. Zero fields do not
// filter. Term is matched as a literal, case-insensitive substring of the
// question or answer, or exactly against a tag.
type QuestionQuery struct {
	CategoryID   *uuid.UUID
	FeaturedOnly bool
	Term         string
	ExcludeSlug  string
	Limit        int // 0 means no limit
}

// CategoryStore is the storage the catalog needs for categories. Single-row
// lookups return (nil, nil) when nothing matches.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	// CategoryIndex maps every category slug to its ID.
	CategoryIndex(ctx context.Context) (map[string]uuid.UUID, error)
	// UpsertCategories writes the whole batch in one transaction.
	UpsertCategories(ctx context.Context, rows []models.CategoryInput) (models.UpsertResult, error)
}

// QuestionStore is the storage the catalog needs for questions.
type QuestionStore interface {
	// ListQuestions returns published questions ordered by views desc, slug asc.
	ListQuestions(ctx context.Context, q QuestionQuery) ([]models.Question, error)
	// FindQuestionBySlug returns the row whatever its publish state.
	FindQuestionBySlug(ctx context.Context, slug string) (*models.Question, error)
	// RecordFeedback atomically bumps helpful_yes or helpful_no.
	RecordFeedback(ctx context.Context, id uuid.UUID, helpful bool) error
	// UpsertQuestions writes the whole batch in one transaction.
	UpsertQuestions(ctx context.Context, rows []models.QuestionRow) (models.UpsertResult, error)
}

// ViewRecorder receives one call per successful single-question read. It
// must not block the caller.
type ViewRecorder interface {
	Record(id uuid.UUID)
}
