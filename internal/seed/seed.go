// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package seed reads administrative seed files. A seed file is YAML with a
// list of categories and a list of questions; questions reference their
// category by slug and may carry their answer as Markdown.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cpp41419/fns50322-answers/internal/catalog"
	"github.com/cpp41419/fns50322-answers/internal/markdown"
	"github.com/cpp41419/fns50322-answers/internal/models"
	"github.com/cpp41419/fns50322-answers/internal/slug"
)

// File is the decoded form of a seed file.
type File struct {
	Categories []models.CategoryInput `yaml:"categories"`
	Questions  []Question             `yaml:"questions"`
}

// Question is a question row as written in a seed file.
type Question struct {
	models.QuestionInput `yaml:",inline"`

	// AnswerMarkdown replaces Answer when set.
	AnswerMarkdown string `yaml:"answer_markdown"`
}

// Load reads and parses a seed file from disk.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a seed file. Unknown keys are rejected so a misspelt field
// does not silently drop data.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &file, nil
		}
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}
	return &file, nil
}

// QuestionInputs converts the file's questions to catalog rows, rendering
// Markdown answers to HTML.
func (f *File) QuestionInputs() ([]models.QuestionInput, error) {
	out := make([]models.QuestionInput, 0, len(f.Questions))
	for i, q := range f.Questions {
		in := q.QuestionInput
		if q.AnswerMarkdown != "" {
			if strings.TrimSpace(in.Answer) != "" {
				return nil, fmt.Errorf("question %d (%s): set answer or answer_markdown, not both", i, q.Slug)
			}
			html, err := markdown.ToHTML(q.AnswerMarkdown)
			if err != nil {
				return nil, fmt.Errorf("question %d (%s): %w", i, q.Slug, err)
			}
			in.Answer = html
		}
		out = append(out, in)
	}
	return out, nil
}

// Check validates the whole file offline. It returns the question
// category slugs that the file itself does not define; those must already
// exist in the database for an apply to succeed.
func (f *File) Check() (external []string, err error) {
	if err := catalog.CheckCategories(f.Categories); err != nil {
		return nil, err
	}
	questions, err := f.QuestionInputs()
	if err != nil {
		return nil, err
	}
	if err := catalog.CheckQuestions(questions); err != nil {
		return nil, err
	}

	defined := make(map[string]bool, len(f.Categories))
	for _, c := range f.Categories {
		s := slug.Normalize(c.Slug)
		if s == "" {
			s = slug.Generate(c.Title)
		}
		defined[s] = true
	}
	seen := map[string]bool{}
	for _, q := range questions {
		s := slug.Normalize(q.CategorySlug)
		if s == "" || defined[s] || seen[s] {
			continue
		}
		seen[s] = true
		external = append(external, s)
	}
	return external, nil
}

// Upserter is the write side of the catalog.
type Upserter interface {
	UpsertCategories(ctx context.Context, rows []models.CategoryInput) (models.UpsertResult, error)
	UpsertQuestions(ctx context.Context, rows []models.QuestionInput) (models.UpsertResult, error)
}

// Result reports what an Apply wrote.
type Result struct {
	Categories models.UpsertResult
	Questions  models.UpsertResult
}

// Apply upserts the file's categories and then its questions. Each batch
// is all-or-nothing; if the questions fail the categories stay written.
func Apply(ctx context.Context, u Upserter, f *File) (Result, error) {
	var res Result

	questions, err := f.QuestionInputs()
	if err != nil {
		return res, err
	}

	if len(f.Categories) > 0 {
		res.Categories, err = u.UpsertCategories(ctx, f.Categories)
		if err != nil {
			return res, fmt.Errorf("categories: %w", err)
		}
	}
	if len(questions) > 0 {
		res.Questions, err = u.UpsertQuestions(ctx, questions)
		if err != nil {
			return res, fmt.Errorf("questions: %w", err)
		}
	}
	return res, nil
}
