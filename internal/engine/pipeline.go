package engine

import (
	"fmt"
	"strings"

	"server/internal/domain/brief"
)

const (
	stepValidate       = "validate and prepare assets"
	stepEnhanceQuality = "enhance asset quality"
	stepUpscale        = "upscale to HD/4K"
	stepNormalizeAudio = "normalize audio levels"

	integrationDefault   = "Sequence generated and source assets on a single timeline, then composite transitions and overlays"
	integrationVoiceover = "Align cuts to the voiceover narration timing, then composite transitions and overlays"

	imageModelDefault = "gemini-2.5-flash-image"
	imageModelStyled  = "qwen-image-plus"
	videoModelDefault = "veo-2"
	audioModelDefault = "gemini-2.5-flash-tts"
)

// stylePresetSteps maps known style modifiers onto named preprocessing steps.
var stylePresetSteps = map[string]string{
	"cinematic": "apply cinematic color grading",
	"vintage":   "apply vintage film color grading",
	"noir":      "apply high-contrast noir grading",
	"vibrant":   "apply vibrant saturation grading",
}

// buildPipeline derives the production pipeline recommendation from the
// asset mix and constraints.
func buildPipeline(state *runState, assets []brief.EnrichedAsset, conflicts []brief.Conflict) brief.PipelineRecommendation {
	var steps []string
	seen := map[string]struct{}{}
	add := func(step string) {
		if _, ok := seen[step]; ok {
			return
		}
		seen[step] = struct{}{}
		steps = append(steps, step)
	}

	hasAudio := false
	hasTranscript := false
	for _, a := range assets {
		if a.QualityScore < 0.7 {
			add(stepEnhanceQuality)
		}
		if a.Meta.Width > 0 && a.Meta.Width < hdWidth {
			add(stepUpscale)
		}
		if a.Type == brief.MediaAudio {
			hasAudio = true
			if a.Analysis.Transcript != "" {
				hasTranscript = true
			}
		}
	}
	if hasAudio {
		add(stepNormalizeAudio)
	}
	styled := false
	for _, modifier := range state.styleModifiers() {
		styled = true
		if step, ok := stylePresetSteps[strings.ToLower(modifier)]; ok {
			add(step)
		}
	}
	if len(steps) == 0 {
		steps = []string{stepValidate}
	}

	imageModel := imageModelDefault
	if styled {
		imageModel = imageModelStyled
	}
	integration := integrationDefault
	if hasTranscript {
		integration = integrationVoiceover
	}

	return brief.PipelineRecommendation{
		Preprocessing: steps,
		GenerationModels: map[brief.MediaKind]string{
			brief.MediaImage: imageModel,
			brief.MediaVideo: videoModelDefault,
			brief.MediaAudio: audioModelDefault,
		},
		Integration:        integration,
		EstimatedTime:      estimateTime(state.intent(), len(assets)),
		SuccessProbability: successProbability(len(conflicts)),
	}
}

// estimateTime is a coarse wall-clock hint for the caller's UI.
func estimateTime(intent brief.MediaKind, assetCount int) string {
	base := 2
	if intent == brief.MediaVideo || intent == brief.MediaMixed {
		base = 5
	}
	total := base + assetCount
	return fmt.Sprintf("%d-%d minutes", total, total*2)
}

// successProbability starts optimistic and discounts each detected conflict,
// never dropping below 0.5.
func successProbability(conflictCount int) float64 {
	p := 0.9 - 0.05*float64(conflictCount)
	if p < 0.5 {
		return 0.5
	}
	return p
}
