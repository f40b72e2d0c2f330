package engine

import (
	"fmt"

	"server/internal/domain/brief"
	"server/internal/providers/analysis"
)

const (
	editEnhanceQuality  = "enhance-quality"
	editUpscale         = "upscale"
	editStyleTransfer   = "style-transfer"
	editEnhanceContrast = "enhance-contrast"
	editColorGrading    = "adjust-color-grading"
	editNormalizeVolume = "normalize-volume"
	editSyncWithVideo   = "sync-with-video"

	// rawQualityDefault is the 0-10 score assumed when analysis reports none.
	rawQualityDefault = 5.0
	// hdWidth is the threshold below which upscaling is recommended.
	hdWidth = 1920
	// lowQualityThreshold is the raw 0-10 score below which enhancement is recommended.
	lowQualityThreshold = 6.0
)

// enrichAssets folds each asset's analysis record (possibly absent) into an
// enriched asset: observable metadata, derived semantic fields, recommended
// edits and the assigned role. Assets keep their input order.
func enrichAssets(state *runState) []brief.EnrichedAsset {
	analyses := state.assets.ByAssetID()
	target := state.constraints().DurationSeconds
	intent := state.intent()
	modifiers := state.styleModifiers()

	out := make([]brief.EnrichedAsset, 0, len(state.req.Assets))
	for _, raw := range state.req.Assets {
		an := analyses[raw.ID]
		enriched := brief.EnrichedAsset{
			RawAsset:     raw,
			QualityScore: 0.5,
			Meta:         assetMeta(an),
		}
		if an != nil {
			enriched.QualityScore = normalizeQuality(an.QualityScore)
			enriched.Analysis = brief.AssetInsight{
				Caption:          an.Caption,
				Style:            an.Style,
				Mood:             an.Mood,
				Transcript:       an.Transcript,
				Objects:          an.Objects,
				RecommendedEdits: recommendEdits(raw, an, modifiers, target),
			}
		}
		enriched.Role = assignRole(raw, enriched.Analysis.RecommendedEdits, intent)
		out = append(out, enriched)
	}
	return out
}

func assetMeta(an *analysis.AssetAnalysis) brief.AssetMeta {
	if an == nil {
		return brief.AssetMeta{}
	}
	meta := brief.AssetMeta{
		Width:           an.Width,
		Height:          an.Height,
		DurationSeconds: an.DurationSeconds,
		FPS:             an.FPS,
		BitrateKbps:     an.BitrateKbps,
	}
	if an.Width > 0 && an.Height > 0 {
		meta.Resolution = fmt.Sprintf("%dx%d", an.Width, an.Height)
	}
	return meta
}

// normalizeQuality maps the collaborator's 0-10 score onto [0,1], defaulting
// to 0.5 when the score is absent.
func normalizeQuality(raw *float64) float64 {
	score := rawQualityDefault
	if raw != nil {
		score = *raw
	}
	normalized := score / 10
	if normalized < 0 {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}

// recommendEdits applies the fixed per-type rule set. Rule order is
// load-bearing: the returned list is consumed verbatim by role assignment
// and by the export payload.
func recommendEdits(a brief.RawAsset, an *analysis.AssetAnalysis, styleModifiers []string, targetDuration int) []string {
	var edits []string
	quality := rawQualityDefault
	if an.QualityScore != nil {
		quality = *an.QualityScore
	}
	if quality < lowQualityThreshold {
		edits = append(edits, editEnhanceQuality)
	}
	switch a.Type {
	case brief.MediaImage:
		if an.Width > 0 && an.Width < hdWidth {
			edits = append(edits, editUpscale)
		}
		if len(styleModifiers) > 0 {
			edits = append(edits, editStyleTransfer)
		}
		edits = append(edits, editEnhanceContrast)
	case brief.MediaVideo:
		if targetDuration > 0 && an.DurationSeconds > float64(targetDuration) {
			edits = append(edits, fmt.Sprintf("trim-to-%ds", targetDuration))
		}
		if an.Width > 0 && an.Width < hdWidth {
			edits = append(edits, editUpscale)
		}
		edits = append(edits, editColorGrading)
	case brief.MediaAudio:
		edits = append(edits, editNormalizeVolume)
		if an.Transcript != "" {
			edits = append(edits, editSyncWithVideo)
		}
	}
	return edits
}
