// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cpp41419/fns50322-answers/internal/models"
	"github.com/cpp41419/fns50322-answers/internal/ranking"
)

// memStore is an in-memory CategoryStore, QuestionStore and
// views.Incrementer with the same contract as the Postgres store.
type memStore struct {
	mu         sync.Mutex
	categories map[string]*models.Category // by slug
	questions  map[string]*models.Question // by slug

	failList     error // returned by ListQuestions when set
	failRelated  error // returned by ListQuestions when ExcludeSlug is set
	failIncrease error
	afterFind    func()
	increments   int
}

func newMemStore() *memStore {
	return &memStore{
		categories: map[string]*models.Category{},
		questions:  map[string]*models.Question{},
	}
}

func (m *memStore) categoryByID(id uuid.UUID) *models.Category {
	for _, c := range m.categories {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (m *memStore) publishedCount(id uuid.UUID) int {
	n := 0
	for _, q := range m.questions {
		if q.CategoryID == id && q.IsPublished {
			n++
		}
	}
	return n
}

func (m *memStore) ListCategories(_ context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Category, 0, len(m.categories))
	for _, c := range m.categories {
		cc := *c
		cc.QuestionCount = m.publishedCount(c.ID)
		out = append(out, cc)
	}
	return out, nil
}

func (m *memStore) FindCategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[slug]
	if !ok {
		return nil, nil
	}
	cc := *c
	cc.QuestionCount = m.publishedCount(c.ID)
	return &cc, nil
}

func (m *memStore) CategoryIndex(_ context.Context) (map[string]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := make(map[string]uuid.UUID, len(m.categories))
	for s, c := range m.categories {
		idx[s] = c.ID
	}
	return idx, nil
}

func (m *memStore) UpsertCategories(_ context.Context, rows []models.CategoryInput) (models.UpsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res models.UpsertResult
	now := time.Now()
	for _, in := range rows {
		c, ok := m.categories[in.Slug]
		if !ok {
			c = &models.Category{ID: uuid.New(), Slug: in.Slug, CreatedAt: now}
			m.categories[in.Slug] = c
			res.Inserted++
		} else {
			res.Updated++
		}
		c.Title = in.Title
		c.Description = in.Description
		c.Icon = in.Icon
		c.Color = in.Color
		c.ModuleCode = in.ModuleCode
		c.SortOrder = in.SortOrder
		c.UpdatedAt = now
	}
	return res, nil
}

func (m *memStore) ListQuestions(_ context.Context, q QuestionQuery) ([]models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	if q.ExcludeSlug != "" && m.failRelated != nil {
		return nil, m.failRelated
	}
	var out []models.Question
	for _, row := range m.questions {
		if !row.IsPublished {
			continue
		}
		if q.CategoryID != nil && row.CategoryID != *q.CategoryID {
			continue
		}
		if q.FeaturedOnly && !row.IsFeatured {
			continue
		}
		if q.ExcludeSlug != "" && row.Slug == q.ExcludeSlug {
			continue
		}
		if q.Term != "" && !ranking.Matches(*row, q.Term) {
			continue
		}
		out = append(out, m.withCategory(*row))
	}
	return ranking.Top(out, q.Limit), nil
}

func (m *memStore) withCategory(q models.Question) models.Question {
	q.Tags = slices.Clone(q.Tags)
	if c := m.categoryByID(q.CategoryID); c != nil {
		q.Category = models.CategoryRef{ID: c.ID, Slug: c.Slug, Title: c.Title}
	}
	return q
}

func (m *memStore) FindQuestionBySlug(_ context.Context, slug string) (*models.Question, error) {
	m.mu.Lock()
	row, ok := m.questions[slug]
	var q models.Question
	if ok {
		q = m.withCategory(*row)
	}
	after := m.afterFind
	m.mu.Unlock()
	if after != nil {
		after()
	}
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (m *memStore) RecordFeedback(_ context.Context, id uuid.UUID, helpful bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.questions {
		if q.ID == id {
			if helpful {
				q.HelpfulYes++
			} else {
				q.HelpfulNo++
			}
			return nil
		}
	}
	return nil
}

func (m *memStore) UpsertQuestions(_ context.Context, rows []models.QuestionRow) (models.UpsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, in := range rows {
		if m.categoryByID(in.CategoryID) == nil {
			return models.UpsertResult{}, errors.New("foreign key violation")
		}
	}
	var res models.UpsertResult
	now := time.Now()
	for _, in := range rows {
		q, ok := m.questions[in.Slug]
		if !ok {
			q = &models.Question{ID: uuid.New(), Slug: in.Slug, CreatedAt: now}
			m.questions[in.Slug] = q
			res.Inserted++
		} else {
			res.Updated++
		}
		q.Question = in.Question
		q.Answer = in.Answer
		q.CategoryID = in.CategoryID
		q.ModuleCode = in.ModuleCode
		q.Tags = slices.Clone(in.Tags)
		q.Views = max(q.Views, in.Views)
		q.HelpfulYes = max(q.HelpfulYes, in.HelpfulYes)
		q.HelpfulNo = max(q.HelpfulNo, in.HelpfulNo)
		q.IsPublished = in.IsPublished
		q.IsFeatured = in.IsFeatured
		q.UpdatedAt = now
	}
	return res, nil
}

func (m *memStore) IncrementViews(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failIncrease != nil {
		return m.failIncrease
	}
	for _, q := range m.questions {
		if q.ID == id {
			q.Views++
			m.increments++
			return nil
		}
	}
	return nil
}

func (m *memStore) views(slug string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.questions[slug]; ok {
		return q.Views
	}
	return -1
}

func (m *memStore) incrementCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.increments
}

// recorder is a ViewRecorder that remembers the IDs it was given.
type recorder struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (r *recorder) Record(id uuid.UUID) {
	r.mu.Lock()
	r.ids = append(r.ids, id)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}
