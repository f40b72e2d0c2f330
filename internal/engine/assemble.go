package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"server/internal/domain/brief"
)

// assemble folds the accumulated stage results into the final brief. The
// brief is immutable after this point.
func (e *Engine) assemble(state *runState, runID string, start time.Time) *brief.CreativeBrief {
	assets := enrichAssets(state)
	constraints := state.constraints()
	conflicts := detectConflicts(assets, constraints)
	options := rankOptions(state)
	pipeline := buildPipeline(state, assets, conflicts)
	metrics := e.score(state, pipeline)

	roles := make(map[string]brief.AssetRole, len(assets))
	for _, a := range assets {
		roles[a.ID] = a.Role
	}

	req := *state.req
	req.Intent = state.intent()

	return &brief.CreativeBrief{
		ID:        "brief_" + uuid.NewString(),
		Version:   brief.SchemaVersion,
		CreatedAt: e.now(),
		Request:   req,
		Assets:    assets,
		Global: brief.GlobalAnalysis{
			Goal:        e.goal(state),
			Constraints: constraints,
			AssetRoles:  roles,
			Conflicts:   conflicts,
			Challenges:  e.challenges(state),
		},
		CreativeOptions: options,
		Pipeline:        pipeline,
		Metrics:         metrics,
		Warnings:        state.warnings,
		ProcessingMS:    e.now().Sub(start).Milliseconds(),
	}
}

// goal prefers the summarizer's phrasing, then the query analyzer's, then a
// rule-based sentence.
func (e *Engine) goal(state *runState) string {
	if state.summary != nil && state.summary.Goal != "" {
		return state.summary.Goal
	}
	if state.query != nil && state.query.Goal != "" {
		return state.query.Goal
	}
	return fmt.Sprintf("Produce %s content from the user's request", state.intent())
}

func (e *Engine) challenges(state *runState) []string {
	var out []string
	if state.synth != nil {
		out = append(out, state.synth.Challenges...)
	}
	if state.query != nil {
		out = append(out, state.query.Gaps...)
	}
	return out
}

// legacyEnvelope wraps the brief for callers of the query-based schema.
type legacyEnvelope struct {
	Success      bool                 `json:"success"`
	Query        string               `json:"query"`
	Intent       brief.MediaKind      `json:"intent,omitempty"`
	Brief        *brief.CreativeBrief `json:"brief"`
	ProcessingMS int64                `json:"processing_time_ms"`
	Version      string               `json:"version"`
}

// AssembleResponse wraps the identical internal brief in the envelope
// matching the request's provenance. There is no divergent logic beyond the
// envelope shape.
func AssembleResponse(b *brief.CreativeBrief) any {
	if b.Request.Source == brief.SourceLegacy {
		return legacyEnvelope{
			Success:      true,
			Query:        b.Request.Prompt,
			Intent:       b.Request.Intent,
			Brief:        b,
			ProcessingMS: b.ProcessingMS,
			Version:      b.Version,
		}
	}
	return b
}
