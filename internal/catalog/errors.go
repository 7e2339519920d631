// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// The error taxonomy seen by callers. Match with errors.Is.
var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrReferentialViolation = errors.New("referential violation")
	ErrStorageUnavailable   = errors.New("storage unavailable")
)

// StorageError wraps a failure of the backing store. It matches
// ErrStorageUnavailable and unwraps to the underlying cause.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, ErrStorageUnavailable, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is reports a match against ErrStorageUnavailable.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

// storageErr classifies an error returned by a store call. Taxonomy errors
// the store already produced pass through unchanged.
func storageErr(op string, err error) error {
	if errors.Is(err, ErrReferentialViolation) || errors.Is(err, ErrInvalidArgument) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// notFound builds an ErrNotFound naming what was looked up.
func notFound(kind, slug string) error {
	return fmt.Errorf("%s %q: %w", kind, slug, ErrNotFound)
}

// invalid builds an ErrInvalidArgument with a message.
func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// ValidationError reports field validation failures. For upsert batches
// Errors is keyed by row index, each value holding that row's field errors.
// It matches ErrInvalidArgument.
type ValidationError struct {
	Entity string
	Errors validation.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrInvalidArgument, e.Entity, e.Errors.Error())
}

// Is reports a match against ErrInvalidArgument.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// MissingReference is a question row whose category does not resolve.
type MissingReference struct {
	Row          int    `json:"row"`
	Slug         string `json:"slug"`
	CategorySlug string `json:"category_slug,omitempty"`
	CategoryID   string `json:"category_id,omitempty"`
}

// ReferenceError lists every unresolved category reference in a batch. It
// matches ErrReferentialViolation.
type ReferenceError struct {
	Missing []MissingReference
}

func (e *ReferenceError) Error() string {
	parts := make([]string, 0, len(e.Missing))
	for _, m := range e.Missing {
		ref := m.CategorySlug
		if ref == "" {
			ref = m.CategoryID
		}
		parts = append(parts, fmt.Sprintf("row %d (%s) -> %s", m.Row, m.Slug, ref))
	}
	return fmt.Sprintf("%v: unknown categories: %s", ErrReferentialViolation, strings.Join(parts, ", "))
}

// Is reports a match against ErrReferentialViolation.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrReferentialViolation
}
