package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"server/internal/adapter/repo"
	"server/internal/domain/brief"
	"server/internal/infra"
)

// BriefRunner executes the brief pipeline for one normalized request.
type BriefRunner interface {
	Run(ctx context.Context, req *brief.NormalizedRequest) (*brief.CreativeBrief, error)
}

// BriefStore persists and fetches briefs. Saves are fire-and-forget.
type BriefStore interface {
	Save(ctx context.Context, b *brief.CreativeBrief)
	Get(ctx context.Context, id string) (*repo.StoredBrief, error)
	RecordUsage(ctx context.Context, userID, briefID, eventType string, success bool, latencyMS int64, properties any)
}

// App is the handler container holding every request-scoped dependency.
type App struct {
	Config *infra.Config
	Logger infra.Logger
	Engine BriefRunner
	Briefs BriefStore
}

func NewApp(cfg *infra.Config, logger infra.Logger, engine BriefRunner, briefs BriefStore) *App {
	return &App{Config: cfg, Logger: logger, Engine: engine, Briefs: briefs}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, errorBody{Error: kind, Message: message})
}

func (a *App) errorWithDetails(w http.ResponseWriter, code int, kind, message string, details map[string]string) {
	a.json(w, code, errorBody{Error: kind, Message: message, Details: details})
}
