package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"server/internal/adapter/repo"
	"server/internal/domain/brief"
	"server/internal/engine"
	"server/internal/infra"
)

type stubRunner struct {
	brief *brief.CreativeBrief
	err   error
	last  *brief.NormalizedRequest
}

func (s *stubRunner) Run(_ context.Context, req *brief.NormalizedRequest) (*brief.CreativeBrief, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	b := *s.brief
	b.Request = *req
	return &b, nil
}

type stubStore struct {
	saved  *brief.CreativeBrief
	stored *repo.StoredBrief
	getErr error
	events []string
}

func (s *stubStore) Save(_ context.Context, b *brief.CreativeBrief) { s.saved = b }

func (s *stubStore) Get(_ context.Context, id string) (*repo.StoredBrief, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.stored, nil
}

func (s *stubStore) RecordUsage(_ context.Context, _, _, eventType string, _ bool, _ int64, _ any) {
	s.events = append(s.events, eventType)
}

func newTestApp(runner BriefRunner, store BriefStore) *App {
	return NewApp(&infra.Config{}, zerolog.Nop(), runner, store)
}

func sampleBrief() *brief.CreativeBrief {
	return &brief.CreativeBrief{
		ID:        "brief_fixture",
		Version:   brief.SchemaVersion,
		CreatedAt: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
		Assets: []brief.EnrichedAsset{{
			RawAsset:     brief.RawAsset{ID: "ast_vid01", Type: brief.MediaVideo},
			QualityScore: 0.8,
			Role:         brief.RolePrimaryFootage,
			Analysis:     brief.AssetInsight{RecommendedEdits: []string{"adjust-color-grading"}},
		}},
		Metrics: brief.Metrics{Confidence: 0.8, RawConfidence: 0.8, Feasibility: 0.9, CompletionStatus: "complete"},
	}
}

func TestBriefCreateModern(t *testing.T) {
	runner := &stubRunner{brief: sampleBrief()}
	store := &stubStore{}
	app := newTestApp(runner, store)

	body := `{"userId": "u_1", "prompt": "cut a teaser", "intent": "video"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/briefs", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.BriefCreate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got brief.CreativeBrief
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != "brief_fixture" {
		t.Fatalf("brief id = %q", got.ID)
	}
	if runner.last == nil || runner.last.UserID != "u_1" {
		t.Fatalf("normalized request = %+v", runner.last)
	}
	if store.saved == nil {
		t.Fatalf("brief not handed to the store")
	}
	if len(store.events) != 1 || store.events[0] != "BRIEF_CREATED" {
		t.Fatalf("usage events = %v", store.events)
	}
}

func TestBriefCreateLegacyEnvelope(t *testing.T) {
	runner := &stubRunner{brief: sampleBrief()}
	app := newTestApp(runner, &stubStore{})

	body := `{"query": "remix my footage"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/briefs", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.BriefCreate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Success bool                 `json:"success"`
		Query   string               `json:"query"`
		Brief   *brief.CreativeBrief `json:"brief"`
		Version string               `json:"version"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !envelope.Success || envelope.Query != "remix my footage" {
		t.Fatalf("envelope = %+v", envelope)
	}
	if envelope.Brief == nil || envelope.Brief.ID != "brief_fixture" {
		t.Fatalf("envelope brief = %+v", envelope.Brief)
	}
}

func TestBriefCreateValidationFailure(t *testing.T) {
	app := newTestApp(&stubRunner{brief: sampleBrief()}, &stubStore{})

	req := httptest.NewRequest(http.MethodPost, "/v1/briefs", strings.NewReader(`{"prompt": ""}`))
	rec := httptest.NewRecorder()
	app.BriefCreate(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error != "validation_failed" {
		t.Fatalf("error kind = %q", body.Error)
	}
	if _, ok := body.Details["userId"]; !ok {
		t.Fatalf("details = %v", body.Details)
	}
	if _, ok := body.Details["prompt"]; !ok {
		t.Fatalf("details = %v", body.Details)
	}
}

func TestBriefCreateAnalysisFailure(t *testing.T) {
	runner := &stubRunner{err: &engine.AnalysisError{Stage: "query_analysis", Message: "unreachable"}}
	app := newTestApp(runner, &stubStore{})

	req := httptest.NewRequest(http.MethodPost, "/v1/briefs", strings.NewReader(`{"userId": "u", "prompt": "p"}`))
	rec := httptest.NewRecorder()
	app.BriefCreate(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "analysis_failed") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestBriefCreateInternalFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("boom")}
	app := newTestApp(runner, &stubStore{})

	req := httptest.NewRequest(http.MethodPost, "/v1/briefs", strings.NewReader(`{"userId": "u", "prompt": "p"}`))
	rec := httptest.NewRecorder()
	app.BriefCreate(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestBriefGet(t *testing.T) {
	payload, _ := json.Marshal(sampleBrief())
	store := &stubStore{stored: &repo.StoredBrief{
		ID:      "brief_fixture",
		UserID:  "u_1",
		Payload: payload,
		Status:  "COMPLETE",
	}}
	app := newTestApp(&stubRunner{brief: sampleBrief()}, store)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/briefs/brief_fixture", nil), "id", "brief_fixture")
	rec := httptest.NewRecorder()
	app.BriefGet(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		ID    string               `json:"id"`
		Brief *brief.CreativeBrief `json:"brief"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != "brief_fixture" || body.Brief == nil || body.Brief.ID != "brief_fixture" {
		t.Fatalf("body = %+v", body)
	}
}

func TestBriefGetNotFound(t *testing.T) {
	store := &stubStore{getErr: repo.ErrBriefNotFound}
	app := newTestApp(&stubRunner{brief: sampleBrief()}, store)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/briefs/missing", nil), "id", "missing")
	rec := httptest.NewRecorder()
	app.BriefGet(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestBriefExport(t *testing.T) {
	payload, _ := json.Marshal(sampleBrief())
	store := &stubStore{stored: &repo.StoredBrief{ID: "brief_fixture", Payload: payload}}
	app := newTestApp(&stubRunner{brief: sampleBrief()}, store)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/briefs/brief_fixture/export", nil), "id", "brief_fixture")
	rec := httptest.NewRecorder()
	app.BriefExport(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("Content-Type = %q", ct)
	}
	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if !names["brief.json"] || !names["edits/ast_vid01.json"] {
		t.Fatalf("archive entries = %v", names)
	}
}
