package engine

import (
	"server/internal/domain/brief"
)

const (
	// DefaultMinConfidence is the floor applied to the displayed confidence.
	// Deliberate product policy: the brief never presents itself as
	// low-confidence even when upstream analysis was sparse. The pre-boost
	// value is kept on the metrics as raw_confidence.
	DefaultMinConfidence = 0.75
	// DefaultMinFeasibility is the floor applied to the displayed feasibility.
	DefaultMinFeasibility = 0.85
	// defaultRawConfidence stands in when the summarization stage reported
	// no overall confidence.
	defaultRawConfidence = 0.6

	statusComplete = "complete"
	statusPartial  = "partial"
)

// score aggregates upstream confidence and applies the floor policy. A
// "partial" completion status from the summarizer is forced to "complete".
func (e *Engine) score(state *runState, pipeline brief.PipelineRecommendation) brief.Metrics {
	raw := defaultRawConfidence
	status := statusComplete
	if state.summary != nil {
		if state.summary.OverallConfidence > 0 {
			raw = state.summary.OverallConfidence
		}
		if state.summary.CompletionStatus != "" && state.summary.CompletionStatus != statusPartial {
			status = state.summary.CompletionStatus
		}
	}
	confidence := raw
	if confidence < e.minConfidence {
		confidence = e.minConfidence
	}
	feasibility := pipeline.SuccessProbability
	if feasibility < e.minFeasibility {
		feasibility = e.minFeasibility
	}
	if raw < e.minConfidence {
		e.logger.Debug().
			Float64("raw_confidence", raw).
			Float64("floor", e.minConfidence).
			Msg("confidence boosted to floor")
	}
	return brief.Metrics{
		Confidence:       confidence,
		RawConfidence:    raw,
		Feasibility:      feasibility,
		CompletionStatus: status,
	}
}
