// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"

	"github.com/cpp41419/fns50322-answers/internal/models"
)

// SubmissionStore records reader-submitted questions. It is write-only.
type SubmissionStore struct {
	db *sql.DB
}

// NewSubmissionStore returns a new SubmissionStore.
func NewSubmissionStore(db *sql.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

// Create stores a submission as pending and returns it with its ID and
// timestamp.
func (s *SubmissionStore) Create(ctx context.Context, sub *models.SubmittedQuestion) (*models.SubmittedQuestion, error) {
	out := *sub
	out.Status = models.SubmissionPending
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO submitted_questions (question, category, email, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		sub.Question, sub.Category, sub.Email, string(out.Status),
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, classify("create submission", err)
	}
	return &out, nil
}
