// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation, canonicalization and
// validation for category and question identifiers.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, space or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace matches runs of spaces, tabs and newlines.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)

	// Pattern is the shape every stored slug must have.
	Pattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// MaxLen is the longest slug the catalog stores.
const MaxLen = 200

// Generate creates a URL-friendly slug of at most MaxLen bytes from the
// given string.
// Example: "What is FNS50322 & why?" → "what-is-fns50322-why"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return Truncate(strings.Trim(result, "-"), MaxLen)
}

// Truncate shortens a slug to at most n bytes, cutting at the last hyphen
// that fits so no word is split. A single word longer than n is cut at n.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if s[n] == '-' {
		return s[:n]
	}
	cut := s[:n]
	if i := strings.LastIndexByte(cut, '-'); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, "-")
}

// Normalize canonicalizes a slug supplied by an author: surrounding space
// is trimmed and letters are lower-cased. It does not repair invalid
// characters; use Valid to check the result.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Valid reports whether s is a canonical slug.
func Valid(s string) bool {
	return Pattern.MatchString(s)
}
