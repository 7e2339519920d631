// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// upsert_log.go records administrative upsert batches in the database for
// audit and debugging purposes. Each entry captures which entity was
// written, how many rows were inserted and updated, and where the batch
// came from.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cpp41419/fns50322-answers/internal/models"
)

// UpsertLogStore handles upsert audit log operations.
type UpsertLogStore struct {
	db *sql.DB
}

// NewUpsertLogStore creates a new UpsertLogStore.
func NewUpsertLogStore(db *sql.DB) *UpsertLogStore {
	return &UpsertLogStore{db: db}
}

// Log records an applied upsert batch. Failures are logged, not returned.
func (s *UpsertLogStore) Log(ctx context.Context, entityType string, res models.UpsertResult, source string) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO upsert_log (entity_type, inserted, updated, source)
		VALUES ($1, $2, $3, $4)
	`, entityType, res.Inserted, res.Updated, source)
	if err != nil {
		slog.Warn("failed to log upsert batch",
			"entity_type", entityType,
			"inserted", res.Inserted,
			"updated", res.Updated,
			"source", source,
			"error", err,
		)
		return
	}
	slog.Debug("upsert batch logged",
		"entity_type", entityType,
		"inserted", res.Inserted,
		"updated", res.Updated,
		"source", source,
	)
}

// RecentEntries returns the most recent upsert batches, newest first.
func (s *UpsertLogStore) RecentEntries(ctx context.Context, limit int) ([]UpsertLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entity_type, inserted, updated, source, applied_at
		FROM upsert_log
		ORDER BY applied_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query upsert log: %w", err)
	}
	defer rows.Close()

	entries := []UpsertLogEntry{}
	for rows.Next() {
		var e UpsertLogEntry
		if err := rows.Scan(&e.ID, &e.EntityType, &e.Inserted, &e.Updated, &e.Source, &e.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan upsert log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpsertLogEntry represents a single applied upsert batch.
type UpsertLogEntry struct {
	ID         int64     `json:"id"`
	EntityType string    `json:"entity_type"`
	Inserted   int       `json:"inserted"`
	Updated    int       `json:"updated"`
	Source     string    `json:"source"`
	AppliedAt  time.Time `json:"applied_at"`
}
