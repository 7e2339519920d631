// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Question is a single published-or-draft answer article. Views and the
// helpful counters only ever grow.
type Question struct {
	ID          uuid.UUID   `json:"id"`
	Slug        string      `json:"slug"`
	Question    string      `json:"question"`
	Answer      string      `json:"answer"`
	CategoryID  uuid.UUID   `json:"category_id"`
	ModuleCode  *string     `json:"module_code"`
	Tags        []string    `json:"tags"`
	Views       int64       `json:"views"`
	HelpfulYes  int64       `json:"helpful_yes"`
	HelpfulNo   int64       `json:"helpful_no"`
	IsPublished bool        `json:"is_published"`
	IsFeatured  bool        `json:"is_featured"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Category    CategoryRef `json:"category"`
}

// HasTag reports whether tag is present, compared case-insensitively.
func (q *Question) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// RelatedQuestion is the compact form of a question shown beside another.
type RelatedQuestion struct {
	Slug         string `json:"slug"`
	Question     string `json:"question"`
	CategorySlug string `json:"category_slug"`
}

// QuestionDetail is a question resolved for a single-question page.
type QuestionDetail struct {
	Question
	Related []RelatedQuestion `json:"related_questions"`
}

// QuestionInput is one row of an administrative question upsert batch.
// The owning category is named either by slug (seed files) or by ID.
type QuestionInput struct {
	Slug         string     `json:"slug" yaml:"slug"`
	Question     string     `json:"question" yaml:"question"`
	Answer       string     `json:"answer" yaml:"answer"`
	CategorySlug string     `json:"category_slug" yaml:"category_slug"`
	CategoryID   *uuid.UUID `json:"category_id" yaml:"category_id"`
	ModuleCode   *string    `json:"module_code" yaml:"module_code"`
	Tags         []string   `json:"tags" yaml:"tags"`
	Views        int64      `json:"views" yaml:"views"`
	HelpfulYes   int64      `json:"helpful_yes" yaml:"helpful_yes"`
	HelpfulNo    int64      `json:"helpful_no" yaml:"helpful_no"`
	IsPublished  *bool      `json:"is_published" yaml:"is_published"`
	IsFeatured   bool       `json:"is_featured" yaml:"is_featured"`
}

// Published returns the effective publish flag. Rows default to published,
// matching the column default.
func (in *QuestionInput) Published() bool {
	return in.IsPublished == nil || *in.IsPublished
}

// QuestionRow is a validated question ready to be written, with its
// category already resolved to an ID.
type QuestionRow struct {
	Slug        string
	Question    string
	Answer      string
	CategoryID  uuid.UUID
	ModuleCode  *string
	Tags        []string
	Views       int64
	HelpfulYes  int64
	HelpfulNo   int64
	IsPublished bool
	IsFeatured  bool
}
