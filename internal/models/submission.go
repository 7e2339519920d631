// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus is the review state of a reader-submitted question.
type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionReviewed  SubmissionStatus = "reviewed"
	SubmissionPublished SubmissionStatus = "published"
	SubmissionRejected  SubmissionStatus = "rejected"
)

// SubmittedQuestion is a question sent in by a reader. It is written once
// from the public site and reviewed by hand; Category is only a hint.
type SubmittedQuestion struct {
	ID        uuid.UUID        `json:"id"`
	Question  string           `json:"question"`
	Category  *string          `json:"category,omitempty"`
	Email     *string          `json:"email,omitempty"`
	Status    SubmissionStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}
