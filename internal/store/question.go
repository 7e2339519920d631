// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/cpp41419/fns50322-answers/internal/catalog"
	"github.com/cpp41419/fns50322-answers/internal/models"
)

// QuestionStore manages questions in the database.
type QuestionStore struct {
	db *sql.DB
}

// NewQuestionStore returns a new QuestionStore.
func NewQuestionStore(db *sql.DB) *QuestionStore {
	return &QuestionStore{db: db}
}

// questionSelect reads a question with its category summary.
const questionSelect = `
	SELECT q.id, q.slug, q.question, q.answer, q.category_id, q.module_code, q.tags,
	       q.views, q.helpful_yes, q.helpful_no, q.is_published, q.is_featured,
	       q.created_at, q.updated_at,
	       c.id, c.slug, c.title`

const questionFrom = `
	FROM questions q
	JOIN categories c ON c.id = q.category_id`

// scanQuestion scans a questionSelect row. types decodes the text[] tags
// column and must not be shared across goroutines. extra receives any
// trailing columns the caller selected.
func scanQuestion(scanner interface{ Scan(...any) error }, types *pgtype.Map, extra ...any) (*models.Question, error) {
	var q models.Question
	dest := []any{
		&q.ID, &q.Slug, &q.Question, &q.Answer, &q.CategoryID, &q.ModuleCode,
		types.SQLScanner(&q.Tags),
		&q.Views, &q.HelpfulYes, &q.HelpfulNo, &q.IsPublished, &q.IsFeatured,
		&q.CreatedAt, &q.UpdatedAt,
		&q.Category.ID, &q.Category.Slug, &q.Category.Title,
	}
	if err := scanner.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if q.Tags == nil {
		q.Tags = []string{}
	}
	return &q, nil
}

// likeEscaper makes a search term match literally inside ILIKE.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildListQuery renders the SQL and arguments for a published-question
// listing.
func buildListQuery(f catalog.QuestionQuery) (string, []any) {
	var (
		b    strings.Builder
		args []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	b.WriteString(questionSelect)
	b.WriteString(questionFrom)
	b.WriteString("\n\tWHERE q.is_published")
	if f.CategoryID != nil {
		b.WriteString(" AND q.category_id = " + arg(*f.CategoryID))
	}
	if f.FeaturedOnly {
		b.WriteString(" AND q.is_featured")
	}
	if f.ExcludeSlug != "" {
		b.WriteString(" AND q.slug <> " + arg(f.ExcludeSlug))
	}
	if f.Term != "" {
		pattern := arg("%" + likeEscaper.Replace(f.Term) + "%")
		tag := arg(f.Term)
		fmt.Fprintf(&b, ` AND (q.question ILIKE %[1]s ESCAPE '\' OR q.answer ILIKE %[1]s ESCAPE '\'`+
			` OR EXISTS (SELECT 1 FROM unnest(q.tags) AS t(tag) WHERE lower(t.tag) = lower(%[2]s)))`, pattern, tag)
	}
	b.WriteString("\n\tORDER BY q.views DESC, q.slug ASC")
	if f.Limit > 0 {
		b.WriteString(" LIMIT " + arg(f.Limit))
	}
	return b.String(), args
}

// ListQuestions returns published questions matching f, most viewed first.
func (s *QuestionStore) ListQuestions(ctx context.Context, f catalog.QuestionQuery) ([]models.Question, error) {
	query, args := buildListQuery(f)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	types := pgtype.NewMap()
	items := []models.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows, types)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		items = append(items, *q)
	}
	return items, rows.Err()
}

// FindQuestionBySlug retrieves a question by slug whatever its publish
// state, with the category description filled in. Returns nil if not found.
func (s *QuestionStore) FindQuestionBySlug(ctx context.Context, slug string) (*models.Question, error) {
	row := s.db.QueryRowContext(ctx, questionSelect+`, c.description`+questionFrom+`
	WHERE q.slug = $1`, slug)

	var description string
	q, err := scanQuestion(row, pgtype.NewMap(), &description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find question by slug: %w", err)
	}
	q.Category.Description = description
	return q, nil
}

// IncrementViews adds one view in a single atomic statement.
func (s *QuestionStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `UPDATE questions SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// RecordFeedback adds one helpful or unhelpful vote.
func (s *QuestionStore) RecordFeedback(ctx context.Context, id uuid.UUID, helpful bool) error {
	query := `UPDATE questions SET helpful_no = helpful_no + 1 WHERE id = $1`
	if helpful {
		query = `UPDATE questions SET helpful_yes = helpful_yes + 1 WHERE id = $1`
	}
	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("record feedback: %w", err)
	}
	return nil
}

// UpsertQuestions inserts or replaces questions keyed by slug in a single
// transaction. Counters never move backwards: each becomes the larger of
// the stored and incoming value.
func (s *QuestionStore) UpsertQuestions(ctx context.Context, items []models.QuestionRow) (models.UpsertResult, error) {
	var res models.UpsertResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO questions (slug, question, answer, category_id, module_code, tags,
		                       views, helpful_yes, helpful_no, is_published, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (slug) DO UPDATE SET
			question = EXCLUDED.question,
			answer = EXCLUDED.answer,
			category_id = EXCLUDED.category_id,
			module_code = EXCLUDED.module_code,
			tags = EXCLUDED.tags,
			views = GREATEST(questions.views, EXCLUDED.views),
			helpful_yes = GREATEST(questions.helpful_yes, EXCLUDED.helpful_yes),
			helpful_no = GREATEST(questions.helpful_no, EXCLUDED.helpful_no),
			is_published = EXCLUDED.is_published,
			is_featured = EXCLUDED.is_featured,
			updated_at = NOW()
		RETURNING (xmax = 0) AS inserted`)
	if err != nil {
		return res, fmt.Errorf("prepare upsert questions: %w", err)
	}
	defer stmt.Close()

	for _, q := range items {
		tags := q.Tags
		if tags == nil {
			tags = []string{}
		}
		var inserted bool
		err := stmt.QueryRowContext(ctx,
			q.Slug, q.Question, q.Answer, q.CategoryID, q.ModuleCode, tags,
			q.Views, q.HelpfulYes, q.HelpfulNo, q.IsPublished, q.IsFeatured,
		).Scan(&inserted)
		if err != nil {
			return models.UpsertResult{}, classify("upsert question "+q.Slug, err)
		}
		if inserted {
			res.Inserted++
		} else {
			res.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return models.UpsertResult{}, fmt.Errorf("commit upsert questions: %w", err)
	}
	return res, nil
}
