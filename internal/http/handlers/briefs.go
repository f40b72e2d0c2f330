package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/adapter/repo"
	"server/internal/domain/brief"
	"server/internal/engine"
	"server/internal/middleware"
	"server/pkg/zip"
)

// maxBriefBody caps the accepted request size; asset payloads travel by URL,
// not inline, so 1 MiB of JSON is generous.
const maxBriefBody = 1 << 20

const eventBriefCreated = "BRIEF_CREATED"

// BriefCreate ingests a creative request in either wire shape, runs the
// pipeline and returns the assembled brief. Persistence happens after the
// brief exists and never affects the response.
func (a *App) BriefCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBriefBody))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read request body")
		return
	}
	req, err := engine.Normalize(body)
	if err != nil {
		var ve *engine.ValidationError
		if errors.As(err, &ve) {
			a.errorWithDetails(w, http.StatusUnprocessableEntity, "validation_failed", "invalid request", ve.Fields)
			return
		}
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.Locale = middleware.LocaleFromContext(r.Context())

	started := time.Now()
	b, err := a.Engine.Run(r.Context(), req)
	if err != nil {
		var ae *engine.AnalysisError
		if errors.As(err, &ae) {
			a.error(w, http.StatusBadGateway, "analysis_failed", ae.Error())
			return
		}
		a.Logger.Error().Err(err).Msg("brief pipeline failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to build brief")
		return
	}

	if a.Briefs != nil {
		a.Briefs.Save(r.Context(), b)
		a.Briefs.RecordUsage(r.Context(), b.Request.UserID, b.ID, eventBriefCreated, true,
			time.Since(started).Milliseconds(), map[string]any{
				"source": b.Request.Source,
				"assets": len(b.Assets),
			})
	}

	a.json(w, http.StatusOK, engine.AssembleResponse(b))
}

// BriefGet returns a persisted brief payload by id.
func (a *App) BriefGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id required")
		return
	}
	stored, err := a.Briefs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrBriefNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "brief not found")
			return
		}
		a.Logger.Error().Err(err).Str("brief_id", id).Msg("brief lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load brief")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"id":         stored.ID,
		"user_id":    stored.UserID,
		"status":     stored.Status,
		"created_at": stored.CreatedAt,
		"brief":      json.RawMessage(stored.Payload),
	})
}

// BriefExport streams a zip archive holding the brief document plus one edit
// plan per asset.
func (a *App) BriefExport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id required")
		return
	}
	stored, err := a.Briefs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrBriefNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "brief not found")
			return
		}
		a.Logger.Error().Err(err).Str("brief_id", id).Msg("brief lookup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load brief")
		return
	}
	var doc brief.CreativeBrief
	if err := json.Unmarshal(stored.Payload, &doc); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "stored brief is unreadable")
		return
	}
	entries := []zip.Entry{{Filename: "brief.json", Data: stored.Payload}}
	for _, asset := range doc.Assets {
		entries = append(entries, zip.JSONEntry(fmt.Sprintf("edits/%s.json", asset.ID), map[string]any{
			"asset_id":          asset.ID,
			"type":              asset.Type,
			"role":              asset.Role,
			"quality_score":     asset.QualityScore,
			"recommended_edits": asset.Analysis.RecommendedEdits,
		}))
	}
	archive := zip.Archive(entries)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.zip", id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}
