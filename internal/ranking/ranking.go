// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ranking holds the pure ordering and selection rules applied to
// catalog query results: popularity order, related questions and search
// matching. Nothing here touches storage.
package ranking

import (
	"cmp"
	"slices"
	"strings"

	"github.com/cpp41419/fns50322-answers/internal/models"
)

// MaxRelated is how many related questions a detail page shows.
const MaxRelated = 3

// Compare orders questions by views descending, then slug ascending.
// Slugs are unique, so this is a total order.
func Compare(a, b models.Question) int {
	if c := cmp.Compare(b.Views, a.Views); c != 0 {
		return c
	}
	return strings.Compare(a.Slug, b.Slug)
}

// SortByPopularity sorts qs in place by Compare.
func SortByPopularity(qs []models.Question) {
	slices.SortFunc(qs, Compare)
}

// Top returns the first limit questions of qs in popularity order.
// A limit of zero or less means no limit.
func Top(qs []models.Question, limit int) []models.Question {
	SortByPopularity(qs)
	if limit > 0 && len(qs) > limit {
		qs = qs[:limit]
	}
	return qs
}

// Related picks up to MaxRelated published questions from candidates that
// share q's category, excluding q itself, in popularity order. It never
// fails; an empty result is valid.
func Related(q models.Question, candidates []models.Question) []models.RelatedQuestion {
	picked := make([]models.Question, 0, len(candidates))
	for _, c := range candidates {
		if c.Slug == q.Slug || c.ID == q.ID {
			continue
		}
		if c.CategoryID != q.CategoryID || !c.IsPublished {
			continue
		}
		picked = append(picked, c)
	}
	picked = Top(picked, MaxRelated)

	related := make([]models.RelatedQuestion, 0, len(picked))
	for _, c := range picked {
		categorySlug := c.Category.Slug
		if categorySlug == "" {
			categorySlug = q.Category.Slug
		}
		related = append(related, models.RelatedQuestion{
			Slug:         c.Slug,
			Question:     c.Question,
			CategorySlug: categorySlug,
		})
	}
	return related
}

// Matches reports whether term occurs case-insensitively in the question
// title or answer body, or equals one of its tags. It is the in-process
// form of the predicate the SQL store evaluates with ILIKE.
func Matches(q models.Question, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return false
	}
	needle := strings.ToLower(term)
	if strings.Contains(strings.ToLower(q.Question), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(q.Answer), needle) {
		return true
	}
	return q.HasTag(term)
}
