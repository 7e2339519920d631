// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the catalog records stored in PostgreSQL and the
// shapes exchanged between the store, the catalog and the HTTP boundary.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups questions under a topic. Icon and Color are display
// tokens passed through untouched.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	ModuleCode  *string   `json:"module_code"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Virtual field populated by store methods: published questions only.
	QuestionCount int `json:"question_count"`
}

// CategoryRef is the short category summary embedded in question listings.
type CategoryRef struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
}

// CategoryInput is one row of an administrative category upsert batch.
type CategoryInput struct {
	Slug        string  `json:"slug" yaml:"slug"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Icon        string  `json:"icon" yaml:"icon"`
	Color       string  `json:"color" yaml:"color"`
	ModuleCode  *string `json:"module_code" yaml:"module_code"`
	SortOrder   int     `json:"sort_order" yaml:"sort_order"`
}

// UpsertResult reports how many rows of a batch were inserted versus
// replaced in place.
type UpsertResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
}

// Total returns the number of rows written.
func (r UpsertResult) Total() int {
	return r.Inserted + r.Updated
}
