package brief

import (
	"time"
)

// MediaKind identifies the media type of an asset or of the requested output.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
	MediaMixed MediaKind = "mixed"
)

// KnownMediaKind reports whether k is one of the accepted asset media kinds.
func KnownMediaKind(k MediaKind) bool {
	switch k {
	case MediaImage, MediaVideo, MediaAudio:
		return true
	}
	return false
}

// AssetRole is the semantic function an asset plays in the eventual production.
type AssetRole string

const (
	RolePrimaryFootage AssetRole = "primary footage"
	RoleVoiceover      AssetRole = "voiceover narration"
	RoleStyleReference AssetRole = "style reference"
	RoleSupporting     AssetRole = "supporting content"
)

// Workload buckets the estimated effort of a creative option.
type Workload string

const (
	WorkloadLow    Workload = "low"
	WorkloadMedium Workload = "medium"
	WorkloadHigh   Workload = "high"
)

const (
	// SchemaVersion is persisted on every brief document.
	SchemaVersion = "1.0"
	// SourceModern marks requests that arrived in the prompt-based schema.
	SourceModern = "modern"
	// SourceLegacy marks requests that arrived in the query-based schema.
	SourceLegacy = "legacy"
)

// RequestOptions carries the declared output constraints of a request.
type RequestOptions struct {
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	AspectRatio     string `json:"aspect_ratio,omitempty"`
	ImageCount      int    `json:"image_count,omitempty"`
	Platform        string `json:"platform,omitempty"`
}

// RawAsset is an uploaded asset after normalization. The ID is assigned by
// the engine from the media kind plus a 1-based per-kind ordinal and is
// stable within one run.
type RawAsset struct {
	ID              string    `json:"id"`
	URL             string    `json:"url"`
	Type            MediaKind `json:"type"`
	Filename        string    `json:"filename,omitempty"`
	UserDescription string    `json:"user_description,omitempty"`
}

// NormalizedRequest is the canonical internal request both accepted wire
// shapes map onto.
type NormalizedRequest struct {
	UserID  string         `json:"user_id"`
	Prompt  string         `json:"prompt"`
	Intent  MediaKind      `json:"intent,omitempty"`
	Options RequestOptions `json:"options"`
	Assets  []RawAsset     `json:"assets"`
	Source  string         `json:"source"`
	Locale  string         `json:"locale,omitempty"`
}

// AssetMeta holds the observable technical properties of an asset.
type AssetMeta struct {
	Resolution      string  `json:"resolution,omitempty"`
	Width           int     `json:"width,omitempty"`
	Height          int     `json:"height,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	FPS             float64 `json:"fps,omitempty"`
	BitrateKbps     int     `json:"bitrate_kbps,omitempty"`
}

// AssetInsight carries the semantic fields derived from per-asset analysis
// plus the deterministic edit recommendations.
type AssetInsight struct {
	Caption          string   `json:"caption,omitempty"`
	Style            string   `json:"style,omitempty"`
	Mood             string   `json:"mood,omitempty"`
	Transcript       string   `json:"transcript,omitempty"`
	Objects          []string `json:"objects,omitempty"`
	RecommendedEdits []string `json:"recommended_edits,omitempty"`
}

// EnrichedAsset is a RawAsset folded together with its analysis output.
// QualityScore is normalized to [0,1] and defaults to 0.5 when unknown.
type EnrichedAsset struct {
	RawAsset
	Meta         AssetMeta    `json:"meta"`
	Analysis     AssetInsight `json:"analysis"`
	QualityScore float64      `json:"quality_score"`
	Role         AssetRole    `json:"role"`
}

// Conflict pairs a detected constraint mismatch with an actionable
// resolution. Conflicts are additive findings, never hard failures.
type Conflict struct {
	Issue      string `json:"issue"`
	Resolution string `json:"resolution"`
}

// CreativeOption is one ranked alternative direction for the production.
type CreativeOption struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Short             string   `json:"short"`
	Reasons           []string `json:"reasons"`
	EstimatedWorkload Workload `json:"estimated_workload"`
	Confidence        float64  `json:"confidence,omitempty"`
}

// PipelineRecommendation describes the suggested production pipeline.
type PipelineRecommendation struct {
	Preprocessing      []string             `json:"preprocessing"`
	GenerationModels   map[MediaKind]string `json:"generation_models"`
	Integration        string               `json:"integration"`
	EstimatedTime      string               `json:"estimated_time,omitempty"`
	SuccessProbability float64              `json:"success_probability"`
}

// GlobalAnalysis is the cross-asset understanding section of the brief.
type GlobalAnalysis struct {
	Goal        string               `json:"goal"`
	Constraints RequestOptions       `json:"constraints"`
	AssetRoles  map[string]AssetRole `json:"asset_roles"`
	Conflicts   []Conflict           `json:"conflicts"`
	Challenges  []string             `json:"challenges,omitempty"`
}

// Metrics carries the confidence and feasibility scores of a brief.
// RawConfidence is the pre-boost value kept for diagnostics.
type Metrics struct {
	Confidence       float64 `json:"confidence"`
	RawConfidence    float64 `json:"raw_confidence"`
	Feasibility      float64 `json:"feasibility"`
	CompletionStatus string  `json:"completion_status"`
}

// CreativeBrief is the final artifact returned to the caller. It is created
// once per request and never mutated after assembly.
type CreativeBrief struct {
	ID              string                 `json:"id"`
	Version         string                 `json:"version"`
	CreatedAt       time.Time              `json:"created_at"`
	Request         NormalizedRequest      `json:"request"`
	Assets          []EnrichedAsset        `json:"assets"`
	Global          GlobalAnalysis         `json:"global_understanding"`
	CreativeOptions []CreativeOption       `json:"creative_options"`
	Pipeline        PipelineRecommendation `json:"pipeline_recommendation"`
	Metrics         Metrics                `json:"metrics"`
	Warnings        []string               `json:"warnings,omitempty"`
	ProcessingMS    int64                  `json:"processing_time_ms"`
}
