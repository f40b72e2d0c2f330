package engine

import (
	"strings"

	"server/internal/domain/brief"
)

// assignRole resolves the semantic role of an asset. The decision order is
// load-bearing and first-match-wins: a sync-with-video edit marks narration
// before the output-type match is even considered, and the output-type match
// outranks description hints.
func assignRole(a brief.RawAsset, edits []string, primary brief.MediaKind) brief.AssetRole {
	for _, edit := range edits {
		if edit == editSyncWithVideo {
			return brief.RoleVoiceover
		}
	}
	if a.Type == primary {
		return brief.RolePrimaryFootage
	}
	desc := strings.ToLower(a.UserDescription)
	if strings.Contains(desc, "reference") || strings.Contains(desc, "style") {
		return brief.RoleStyleReference
	}
	return brief.RoleSupporting
}
