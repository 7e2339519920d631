// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/cpp41419/fns50322-answers/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// categorySelect reads every column plus the published question count.
const categorySelect = `
	SELECT c.id, c.slug, c.title, c.description, c.icon, c.color, c.module_code,
	       c.sort_order, c.created_at, c.updated_at,
	       COUNT(q.id) AS question_count
	FROM categories c
	LEFT JOIN questions q ON q.category_id = c.id AND q.is_published`

// scanCategory scans a categorySelect row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Slug, &c.Title, &c.Description, &c.Icon, &c.Color, &c.ModuleCode,
		&c.SortOrder, &c.CreatedAt, &c.UpdatedAt, &c.QuestionCount,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories returns all categories ordered by sort_order, then slug.
func (s *CategoryStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, categorySelect+`
		GROUP BY c.id
		ORDER BY c.sort_order, c.slug`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindCategoryBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, categorySelect+`
		WHERE c.slug = $1
		GROUP BY c.id`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// CategoryIndex maps every category slug to its ID.
func (s *CategoryStore) CategoryIndex(ctx context.Context) (map[string]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT slug, id FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("category index: %w", err)
	}
	defer rows.Close()

	idx := make(map[string]uuid.UUID)
	for rows.Next() {
		var (
			slug string
			id   uuid.UUID
		)
		if err := rows.Scan(&slug, &id); err != nil {
			return nil, fmt.Errorf("scan category index: %w", err)
		}
		idx[slug] = id
	}
	return idx, rows.Err()
}

// UpsertCategories inserts or replaces categories keyed by slug in a single
// transaction. created_at is kept on replace.
func (s *CategoryStore) UpsertCategories(ctx context.Context, items []models.CategoryInput) (models.UpsertResult, error) {
	var res models.UpsertResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO categories (slug, title, description, icon, color, module_code, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			icon = EXCLUDED.icon,
			color = EXCLUDED.color,
			module_code = EXCLUDED.module_code,
			sort_order = EXCLUDED.sort_order,
			updated_at = NOW()
		RETURNING (xmax = 0) AS inserted`)
	if err != nil {
		return res, fmt.Errorf("prepare upsert categories: %w", err)
	}
	defer stmt.Close()

	for _, c := range items {
		var inserted bool
		err := stmt.QueryRowContext(ctx,
			c.Slug, c.Title, c.Description, c.Icon, c.Color, c.ModuleCode, c.SortOrder,
		).Scan(&inserted)
		if err != nil {
			return models.UpsertResult{}, classify("upsert category "+c.Slug, err)
		}
		if inserted {
			res.Inserted++
		} else {
			res.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return models.UpsertResult{}, fmt.Errorf("commit upsert categories: %w", err)
	}
	return res, nil
}
