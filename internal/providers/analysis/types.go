package analysis

import (
	"context"
	"encoding/json"

	"server/internal/domain/brief"
)

// Outcome is the tagged result of one collaborator call. A failed stage
// carries a message instead of a value so downstream code cannot silently
// dereference an absent payload.
type Outcome[T any] struct {
	OK    bool
	Value *T
	Err   string
}

// Ok wraps a successful stage payload.
func Ok[T any](v *T) Outcome[T] {
	return Outcome[T]{OK: v != nil, Value: v}
}

// Fail records a stage failure with a human-readable reason.
func Fail[T any](msg string) Outcome[T] {
	return Outcome[T]{Err: msg}
}

// Constraints are the output constraints the query analyzer extracted or
// confirmed from the prompt.
type Constraints struct {
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	AspectRatio     string `json:"aspect_ratio,omitempty"`
	ImageCount      int    `json:"image_count,omitempty"`
	Platform        string `json:"platform,omitempty"`
}

// QueryResult is the stage-1 payload: normalized intent and constraints
// derived from the free-text prompt.
type QueryResult struct {
	Intent            brief.MediaKind `json:"intent"`
	Goal              string          `json:"goal,omitempty"`
	Constraints       Constraints     `json:"constraints"`
	StyleModifiers    []string        `json:"modifiers,omitempty"`
	Gaps              []string        `json:"gaps,omitempty"`
	CreativeReframing string          `json:"creative_reframing,omitempty"`
}

// AssetAnalysis is one asset's opaque analysis record. Every field is
// optional; absence of the whole record for an asset is a valid state.
type AssetAnalysis struct {
	AssetID         string          `json:"asset_id"`
	Width           int             `json:"width,omitempty"`
	Height          int             `json:"height,omitempty"`
	DurationSeconds float64         `json:"duration_seconds,omitempty"`
	FPS             float64         `json:"fps,omitempty"`
	BitrateKbps     int             `json:"bitrate_kbps,omitempty"`
	QualityScore    *float64        `json:"quality_score,omitempty"`
	Caption         string          `json:"caption,omitempty"`
	Style           string          `json:"style,omitempty"`
	Mood            string          `json:"mood,omitempty"`
	Transcript      string          `json:"transcript,omitempty"`
	Objects         []string        `json:"objects,omitempty"`
	Raw             json.RawMessage `json:"raw,omitempty"`
}

// AssetResult is the stage-2 payload covering every analyzed asset.
type AssetResult struct {
	Analyses []AssetAnalysis `json:"asset_analyses"`
	Summary  string          `json:"summary,omitempty"`
}

// ByAssetID indexes the analyses for constant-time per-asset lookup.
// Missing entries stay missing; callers must tolerate nil.
func (r *AssetResult) ByAssetID() map[string]*AssetAnalysis {
	if r == nil {
		return nil
	}
	out := make(map[string]*AssetAnalysis, len(r.Analyses))
	for i := range r.Analyses {
		out[r.Analyses[i].AssetID] = &r.Analyses[i]
	}
	return out
}

// Alternative is one alternative creative interpretation surfaced by the
// synthesis or summarization stage.
type Alternative struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Confidence  float64  `json:"confidence,omitempty"`
	Reasons     []string `json:"reasons,omitempty"`
}

// Synthesis is the stage-3 payload merging query and asset understanding.
type Synthesis struct {
	Alternatives       []Alternative `json:"alternative_interpretations,omitempty"`
	StyleFusion        string        `json:"style_fusion,omitempty"`
	NarrativeStructure string        `json:"narrative_structure,omitempty"`
	Challenges         []string      `json:"challenges,omitempty"`
}

// Summary is the stage-4 payload: the final cross-stage summarization.
type Summary struct {
	Goal              string        `json:"goal,omitempty"`
	Alternatives      []Alternative `json:"alternative_interpretations,omitempty"`
	OverallConfidence float64       `json:"overall_confidence,omitempty"`
	CompletionStatus  string        `json:"completion_status,omitempty"`
}

// QueryRequest is the stage-1 call input.
type QueryRequest struct {
	Prompt  string               `json:"prompt"`
	Options brief.RequestOptions `json:"options"`
	Intent  brief.MediaKind      `json:"intent,omitempty"`
	Locale  string               `json:"locale,omitempty"`
}

// AssetRequest is the stage-2 call input. The collaborator analyzes the
// assets in parallel on its side; callers await the combined result.
type AssetRequest struct {
	Prompt string           `json:"prompt"`
	Assets []brief.RawAsset `json:"assets"`
}

// SynthesisRequest is the stage-3 call input.
type SynthesisRequest struct {
	Query  *QueryResult `json:"query_result"`
	Assets *AssetResult `json:"asset_result"`
}

// SummaryRequest is the stage-4 call input.
type SummaryRequest struct {
	Query     *QueryResult         `json:"query_result"`
	Assets    *AssetResult         `json:"asset_result,omitempty"`
	Synthesis *Synthesis           `json:"synthesis_result,omitempty"`
	Timings   map[string]int64     `json:"stage_timings_ms,omitempty"`
	Options   brief.RequestOptions `json:"options"`
}

// QueryAnalyzer extracts intent and constraints from the raw prompt.
type QueryAnalyzer interface {
	AnalyzeQuery(ctx context.Context, req QueryRequest) Outcome[QueryResult]
}

// AssetAnalyzer produces per-asset metadata and captions.
type AssetAnalyzer interface {
	AnalyzeAssets(ctx context.Context, req AssetRequest) Outcome[AssetResult]
}

// Synthesizer merges the query and asset results into cross-stage findings.
type Synthesizer interface {
	Synthesize(ctx context.Context, req SynthesisRequest) Outcome[Synthesis]
}

// Summarizer produces the final summarization over all prior stages.
type Summarizer interface {
	Summarize(ctx context.Context, req SummaryRequest) Outcome[Summary]
}
