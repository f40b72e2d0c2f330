package engine

import (
	"fmt"
	"math"

	"server/internal/domain/brief"
)

const (
	resolutionTrim      = "Trim or cut scenes"
	resolutionExtend    = "Loop or extend footage"
	resolutionLetterbox = "Crop or add letterboxing"

	// aspectTolerance is a fixed design constant, not user-configurable.
	aspectTolerance = 0.1

	defaultAspectTarget = 16.0 / 9.0
)

// aspectTargets maps declared aspect-ratio strings onto numeric targets.
// Unknown non-empty strings fall back to the 16:9 target.
var aspectTargets = map[string]float64{
	"16:9": 1.778,
	"1:1":  1,
	"9:16": 0.5625,
}

// detectConflicts compares the declared constraints against observed asset
// properties. Both checks are additive and independent: an asset may appear
// in zero, one or both. Duration conflicts come before aspect conflicts, and
// within a type assets keep their input order.
func detectConflicts(assets []brief.EnrichedAsset, constraints brief.RequestOptions) []brief.Conflict {
	var conflicts []brief.Conflict

	if target := constraints.DurationSeconds; target > 0 {
		for _, a := range assets {
			if a.Type != brief.MediaVideo || a.Meta.DurationSeconds <= 0 {
				continue
			}
			observed := a.Meta.DurationSeconds
			if observed == float64(target) {
				continue
			}
			resolution := resolutionExtend
			if observed > float64(target) {
				resolution = resolutionTrim
			}
			conflicts = append(conflicts, brief.Conflict{
				Issue: fmt.Sprintf("Video asset %s runs %gs but the target duration is %ds",
					a.ID, observed, target),
				Resolution: resolution,
			})
		}
	}

	if declared := constraints.AspectRatio; declared != "" {
		target, ok := aspectTargets[declared]
		if !ok {
			target = defaultAspectTarget
		}
		for _, a := range assets {
			if a.Meta.Width <= 0 || a.Meta.Height <= 0 {
				continue
			}
			ratio := float64(a.Meta.Width) / float64(a.Meta.Height)
			if math.Abs(ratio-target) <= aspectTolerance {
				continue
			}
			conflicts = append(conflicts, brief.Conflict{
				Issue: fmt.Sprintf("Asset %s has aspect ratio %.3f (%s) but the target is %s (%.3f)",
					a.ID, ratio, a.Meta.Resolution, declared, target),
				Resolution: resolutionLetterbox,
			})
		}
	}

	return conflicts
}
