// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides the stub catalog and request helpers shared by
// the handler tests.
package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/cpp41419/fns50322-answers/internal/cache"
	"github.com/cpp41419/fns50322-answers/internal/catalog"
	"github.com/cpp41419/fns50322-answers/internal/models"
	"github.com/cpp41419/fns50322-answers/internal/store"
)

// call records one invocation on the stub.
type call struct {
	method string
	arg    string
	limit  int
}

// stubCatalog implements Reader and Writer with canned results.
type stubCatalog struct {
	mu    sync.Mutex
	calls []call

	categories []models.Category
	category   *models.Category
	questions  []models.Question
	detail     *models.QuestionDetail
	question   *models.Question
	result     models.UpsertResult
	err        error

	gotCategoryRows []models.CategoryInput
	gotQuestionRows []models.QuestionInput
	gotHelpful      *bool
	gotFilter       catalog.QuestionFilter
}

func (s *stubCatalog) record(method, arg string, limit int) {
	s.mu.Lock()
	s.calls = append(s.calls, call{method: method, arg: arg, limit: limit})
	s.mu.Unlock()
}

func (s *stubCatalog) callCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.method == method {
			n++
		}
	}
	return n
}

func (s *stubCatalog) lastCall() call {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return call{}
	}
	return s.calls[len(s.calls)-1]
}

func (s *stubCatalog) ListCategories(ctx context.Context) ([]models.Category, error) {
	s.record("ListCategories", "", 0)
	return s.categories, s.err
}

func (s *stubCatalog) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	s.record("GetCategoryBySlug", slug, 0)
	return s.category, s.err
}

func (s *stubCatalog) CategoryQuestions(ctx context.Context, slug string, limit int) (*models.Category, []models.Question, error) {
	s.record("CategoryQuestions", slug, limit)
	return s.category, s.questions, s.err
}

func (s *stubCatalog) GetQuestionBySlug(ctx context.Context, slug string) (*models.QuestionDetail, error) {
	s.record("GetQuestionBySlug", slug, 0)
	return s.detail, s.err
}

func (s *stubCatalog) ListQuestions(ctx context.Context, f catalog.QuestionFilter) ([]models.Question, error) {
	s.record("ListQuestions", f.CategorySlug, f.Limit)
	s.gotFilter = f
	return s.questions, s.err
}

func (s *stubCatalog) Search(ctx context.Context, term string, limit int) ([]models.Question, error) {
	s.record("Search", term, limit)
	return s.questions, s.err
}

func (s *stubCatalog) RecordFeedback(ctx context.Context, slug string, helpful bool) error {
	s.record("RecordFeedback", slug, 0)
	s.gotHelpful = &helpful
	return s.err
}

func (s *stubCatalog) UpsertCategories(ctx context.Context, rows []models.CategoryInput) (models.UpsertResult, error) {
	s.record("UpsertCategories", "", len(rows))
	s.gotCategoryRows = rows
	return s.result, s.err
}

func (s *stubCatalog) UpsertQuestions(ctx context.Context, rows []models.QuestionInput) (models.UpsertResult, error) {
	s.record("UpsertQuestions", "", len(rows))
	s.gotQuestionRows = rows
	return s.result, s.err
}

func (s *stubCatalog) AdminQuestionBySlug(ctx context.Context, slug string) (*models.Question, error) {
	s.record("AdminQuestionBySlug", slug, 0)
	return s.question, s.err
}

// stubSubmissions captures created submissions.
type stubSubmissions struct {
	got *models.SubmittedQuestion
	err error
}

func (s *stubSubmissions) Create(ctx context.Context, sub *models.SubmittedQuestion) (*models.SubmittedQuestion, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.got = sub
	out := *sub
	out.ID = uuid.New()
	out.Status = models.SubmissionPending
	return &out, nil
}

// stubUpsertLog records Log calls.
type stubUpsertLog struct {
	entities []string
	sources  []string
	limit    int
	entries  []store.UpsertLogEntry
	err      error
}

func (s *stubUpsertLog) Log(ctx context.Context, entityType string, res models.UpsertResult, source string) {
	s.entities = append(s.entities, entityType)
	s.sources = append(s.sources, source)
}

func (s *stubUpsertLog) RecentEntries(ctx context.Context, limit int) ([]store.UpsertLogEntry, error) {
	s.limit = limit
	return s.entries, s.err
}

// testResponseCache returns a response cache backed by miniredis.
func testResponseCache(t *testing.T) (*cache.ResponseCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewResponseCache(client, 0), mr
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// do runs handler against a request with an optional JSON body.
func do(handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler(rr, r)
	return rr
}

func jsonRequest(method, target, body string) *http.Request {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decode unmarshals a recorder body into a generic map.
func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return out
}

func sampleQuestions() []models.Question {
	return []models.Question{
		{Slug: "what-is-fns50322", Question: "What is FNS50322?", Views: 120, Tags: []string{}},
		{Slug: "vet-student-loans", Question: "Can I use VET Student Loans?", Views: 45, Tags: []string{"Loan"}},
	}
}
