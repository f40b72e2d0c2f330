package engine

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"server/internal/domain/brief"
	"server/internal/providers/analysis"
)

const minCreativeOptions = 2

// rankOptions merges AI-suggested alternatives with rule-based fallbacks.
// Source order is fixed: (a) alternative interpretations from synthesis and
// summarization, (b) style-fusion and narrative-structure hints, (c)
// deterministic fallbacks until the minimum count holds. IDs are unique
// within one brief.
func rankOptions(state *runState) []brief.CreativeOption {
	var options []brief.CreativeOption
	seen := map[string]struct{}{}

	var alternatives []analysis.Alternative
	if state.synth != nil {
		alternatives = append(alternatives, state.synth.Alternatives...)
	}
	if state.summary != nil {
		alternatives = append(alternatives, state.summary.Alternatives...)
	}
	for _, alt := range alternatives {
		title := strings.TrimSpace(alt.Title)
		if title == "" {
			continue
		}
		key := strings.ToLower(title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		options = append(options, brief.CreativeOption{
			ID:                alternativeID(len(options)),
			Title:             title,
			Short:             alt.Description,
			Reasons:           alt.Reasons,
			EstimatedWorkload: workloadFromConfidence(alt.Confidence),
			Confidence:        alt.Confidence,
		})
	}

	if state.synth != nil {
		if hint := strings.TrimSpace(state.synth.StyleFusion); hint != "" {
			options = append(options, brief.CreativeOption{
				ID:                "opt_style_1",
				Title:             "Style Fusion Direction",
				Short:             hint,
				Reasons:           []string{"Blends the detected asset styles into one coherent look"},
				EstimatedWorkload: brief.WorkloadMedium,
			})
		}
		if hint := strings.TrimSpace(state.synth.NarrativeStructure); hint != "" {
			options = append(options, brief.CreativeOption{
				ID:                "opt_narrative_1",
				Title:             "Narrative Structure Direction",
				Short:             hint,
				Reasons:           []string{"Orders the material around the suggested narrative arc"},
				EstimatedWorkload: brief.WorkloadMedium,
			})
		}
	}

	for _, fallback := range fallbackOptions(state.intent()) {
		if len(options) >= minCreativeOptions {
			break
		}
		options = append(options, fallback)
	}
	return options
}

func alternativeID(index int) string {
	if index < 26 {
		return fmt.Sprintf("opt_%c", 'A'+index)
	}
	return fmt.Sprintf("opt_%d", index+1)
}

// workloadFromConfidence buckets an alternative's confidence: confident
// interpretations need little rework, uncertain ones need a lot.
func workloadFromConfidence(confidence float64) brief.Workload {
	switch {
	case confidence > 0.8:
		return brief.WorkloadLow
	case confidence > 0.6:
		return brief.WorkloadMedium
	default:
		return brief.WorkloadHigh
	}
}

// fallbackOptions returns the deterministic options appended when fewer than
// two alternatives were derivable upstream.
func fallbackOptions(intent brief.MediaKind) []brief.CreativeOption {
	subject := string(intent)
	if subject == "" || intent == brief.MediaMixed {
		subject = "media"
	}
	c := cases.Title(language.Und)
	return []brief.CreativeOption{
		{
			ID:                "opt_standard",
			Title:             "Standard Production",
			Short:             fmt.Sprintf("Execute the request as a straightforward %s production", subject),
			Reasons:           []string{"Meets the stated constraints with minimal intervention"},
			EstimatedWorkload: brief.WorkloadLow,
		},
		{
			ID:                "opt_polished",
			Title:             c.String(fmt.Sprintf("polished %s edit", subject)),
			Short:             "Add one refinement pass for color, pacing and audio balance",
			Reasons:           []string{"Improves perceived quality at modest extra effort"},
			EstimatedWorkload: brief.WorkloadMedium,
		},
	}
}
