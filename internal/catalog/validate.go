// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/cpp41419/fns50322-answers/internal/models"
	"github.com/cpp41419/fns50322-answers/internal/slug"
)

// Field limits for administrative rows.
const (
	maxSlugLen        = slug.MaxLen
	maxTitleLen       = 300
	maxDescriptionLen = 1_000
	maxAnswerLen      = 100_000
	maxTokenLen       = 100
	maxTagLen         = 64
	maxTags           = 20
)

// Column defaults for the display tokens.
const (
	DefaultIcon  = "BookOpen"
	DefaultColor = "bg-slate-50 text-slate-600"
)

// normalizeCategory canonicalizes a category row in place.
func normalizeCategory(in *models.CategoryInput) {
	in.Slug = slug.Normalize(in.Slug)
	if in.Slug == "" {
		in.Slug = slug.Generate(in.Title)
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Icon == "" {
		in.Icon = DefaultIcon
	}
	if in.Color == "" {
		in.Color = DefaultColor
	}
	in.ModuleCode = trimOptional(in.ModuleCode)
}

// normalizeQuestion canonicalizes a question row in place.
func normalizeQuestion(in *models.QuestionInput) {
	in.Slug = slug.Normalize(in.Slug)
	if in.Slug == "" {
		in.Slug = slug.Generate(in.Question)
	}
	in.Question = strings.TrimSpace(in.Question)
	in.CategorySlug = slug.Normalize(in.CategorySlug)
	in.ModuleCode = trimOptional(in.ModuleCode)
	in.Tags = normalizeTags(in.Tags)
}

// normalizeTags trims tags and drops empties and case-insensitive repeats,
// keeping first spellings.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func slugRules() []validation.Rule {
	return []validation.Rule{
		validation.Required.Error("slug_required"),
		validation.Length(1, maxSlugLen).Error("slug_too_long"),
		validation.Match(slug.Pattern).Error("invalid_slug_format"),
	}
}

// validateCategory checks a normalized category row.
func validateCategory(in *models.CategoryInput) error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Slug, slugRules()...),
		validation.Field(&in.Title,
			validation.Required.Error("title_required"),
			validation.RuneLength(1, maxTitleLen).Error("title_too_long"),
		),
		validation.Field(&in.Description,
			validation.RuneLength(0, maxDescriptionLen).Error("description_too_long"),
		),
		validation.Field(&in.Icon, validation.RuneLength(0, maxTokenLen).Error("icon_too_long")),
		validation.Field(&in.Color, validation.RuneLength(0, maxTokenLen).Error("color_too_long")),
		validation.Field(&in.ModuleCode, validation.RuneLength(0, maxTokenLen).Error("module_code_too_long")),
	)
}

// validateQuestion checks a normalized question row.
func validateQuestion(in *models.QuestionInput) error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Slug, slugRules()...),
		validation.Field(&in.Question,
			validation.Required.Error("question_required"),
			validation.RuneLength(1, maxTitleLen).Error("question_too_long"),
		),
		validation.Field(&in.Answer,
			validation.Required.Error("answer_required"),
			validation.RuneLength(1, maxAnswerLen).Error("answer_too_long"),
		),
		validation.Field(&in.CategorySlug,
			validation.Required.When(in.CategoryID == nil).Error("category_required"),
			validation.Match(slug.Pattern).Error("invalid_category_slug"),
		),
		validation.Field(&in.ModuleCode, validation.RuneLength(0, maxTokenLen).Error("module_code_too_long")),
		validation.Field(&in.Tags,
			validation.Length(0, maxTags).Error("too_many_tags"),
			validation.Each(validation.RuneLength(1, maxTagLen).Error("tag_too_long")),
		),
		validation.Field(&in.Views, validation.Min(int64(0)).Error("views_negative")),
		validation.Field(&in.HelpfulYes, validation.Min(int64(0)).Error("helpful_yes_negative")),
		validation.Field(&in.HelpfulNo, validation.Min(int64(0)).Error("helpful_no_negative")),
	)
}

// batchErrors collects per-row errors keyed by row index.
type batchErrors validation.Errors

func (b batchErrors) add(row int, err error) {
	if err != nil {
		b[strconv.Itoa(row)] = err
	}
}

// duplicateSlugs flags rows whose slug already appeared earlier in the batch.
func duplicateSlugs(slugs []string, errs batchErrors) {
	first := make(map[string]int, len(slugs))
	for i, s := range slugs {
		if s == "" {
			continue
		}
		if j, ok := first[s]; ok {
			errs.add(i, validation.Errors{
				"slug": validation.NewError("duplicate_slug", "duplicate of row "+strconv.Itoa(j)),
			})
			continue
		}
		first[s] = i
	}
}

// Submission limits.
const (
	minSubmissionLen = 10
	maxSubmissionLen = 500
)

// submission mirrors the fields of a reader submission for validation.
type submission struct {
	Question string `json:"question"`
	Category string `json:"category"`
	Email    string `json:"email"`
}

// ValidateSubmission checks a reader-submitted question. Inputs are
// expected to be trimmed.
func ValidateSubmission(question, category, email string) error {
	s := submission{Question: question, Category: category, Email: email}
	err := validation.ValidateStruct(&s,
		validation.Field(&s.Question,
			validation.Required.Error("question_required"),
			validation.RuneLength(minSubmissionLen, maxSubmissionLen).Error("question_length"),
		),
		validation.Field(&s.Category, validation.RuneLength(0, maxTitleLen).Error("category_too_long")),
		validation.Field(&s.Email, is.EmailFormat.Error("invalid_email_format")),
	)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validation.Errors); ok {
		return &ValidationError{Entity: "submission", Errors: errs}
	}
	return invalid("submission: %v", err)
}
