package engine

import (
	"reflect"
	"testing"

	"server/internal/domain/brief"
	"server/internal/providers/analysis"
)

func f64(v float64) *float64 { return &v }

func TestNormalizeQuality(t *testing.T) {
	tests := []struct {
		name string
		raw  *float64
		want float64
	}{
		{"absent defaults to midpoint", nil, 0.5},
		{"score scales", f64(8), 0.8},
		{"negative clamps to zero", f64(-2), 0},
		{"overflow clamps to one", f64(14), 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeQuality(tc.raw); got != tc.want {
				t.Fatalf("normalizeQuality = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRecommendEdits(t *testing.T) {
	tests := []struct {
		name      string
		asset     brief.RawAsset
		analysis  *analysis.AssetAnalysis
		modifiers []string
		target    int
		want      []string
	}{
		{
			name:      "image quality 5 width 1280 with modifiers",
			asset:     brief.RawAsset{ID: "ast_img01", Type: brief.MediaImage},
			analysis:  &analysis.AssetAnalysis{QualityScore: f64(5), Width: 1280, Height: 720},
			modifiers: []string{"cinematic"},
			want:      []string{"enhance-quality", "upscale", "style-transfer", "enhance-contrast"},
		},
		{
			name:     "sharp hd image",
			asset:    brief.RawAsset{ID: "ast_img01", Type: brief.MediaImage},
			analysis: &analysis.AssetAnalysis{QualityScore: f64(9), Width: 3840, Height: 2160},
			want:     []string{"enhance-contrast"},
		},
		{
			name:     "video over target duration",
			asset:    brief.RawAsset{ID: "ast_vid01", Type: brief.MediaVideo},
			analysis: &analysis.AssetAnalysis{QualityScore: f64(7), Width: 1920, Height: 1080, DurationSeconds: 45},
			target:   30,
			want:     []string{"trim-to-30s", "adjust-color-grading"},
		},
		{
			name:     "low-res video no target",
			asset:    brief.RawAsset{ID: "ast_vid01", Type: brief.MediaVideo},
			analysis: &analysis.AssetAnalysis{QualityScore: f64(6), Width: 1280, Height: 720, DurationSeconds: 20},
			want:     []string{"upscale", "adjust-color-grading"},
		},
		{
			name:     "audio without transcript",
			asset:    brief.RawAsset{ID: "ast_aud01", Type: brief.MediaAudio},
			analysis: &analysis.AssetAnalysis{QualityScore: f64(8)},
			want:     []string{"normalize-volume"},
		},
		{
			name:     "audio with transcript syncs",
			asset:    brief.RawAsset{ID: "ast_aud01", Type: brief.MediaAudio},
			analysis: &analysis.AssetAnalysis{QualityScore: f64(8), Transcript: "welcome to the show"},
			want:     []string{"normalize-volume", "sync-with-video"},
		},
		{
			name:     "missing score assumes midpoint below threshold",
			asset:    brief.RawAsset{ID: "ast_aud01", Type: brief.MediaAudio},
			analysis: &analysis.AssetAnalysis{},
			want:     []string{"enhance-quality", "normalize-volume"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := recommendEdits(tc.asset, tc.analysis, tc.modifiers, tc.target)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("recommendEdits = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEnrichAssetsWithoutAnalysis(t *testing.T) {
	state := &runState{
		req: &brief.NormalizedRequest{
			Intent: brief.MediaVideo,
			Assets: []brief.RawAsset{
				{ID: "ast_vid01", Type: brief.MediaVideo, URL: "https://x/clip.mp4"},
			},
		},
	}

	out := enrichAssets(state)
	if len(out) != 1 {
		t.Fatalf("got %d assets, want 1", len(out))
	}
	a := out[0]
	if a.QualityScore != 0.5 {
		t.Fatalf("QualityScore = %v, want 0.5", a.QualityScore)
	}
	if len(a.Analysis.RecommendedEdits) != 0 {
		t.Fatalf("expected no edits without analysis, got %v", a.Analysis.RecommendedEdits)
	}
	if a.Meta != (brief.AssetMeta{}) {
		t.Fatalf("expected empty meta, got %+v", a.Meta)
	}
	if a.Role != brief.RolePrimaryFootage {
		t.Fatalf("Role = %q, want primary footage", a.Role)
	}
}

func TestEnrichAssetsKeepsInputOrder(t *testing.T) {
	state := &runState{
		req: &brief.NormalizedRequest{
			Intent: brief.MediaVideo,
			Assets: []brief.RawAsset{
				{ID: "ast_img01", Type: brief.MediaImage},
				{ID: "ast_vid01", Type: brief.MediaVideo},
				{ID: "ast_aud01", Type: brief.MediaAudio},
			},
		},
		assets: &analysis.AssetResult{Analyses: []analysis.AssetAnalysis{
			{AssetID: "ast_aud01", QualityScore: f64(8), Transcript: "narration"},
			{AssetID: "ast_img01", QualityScore: f64(9), Width: 1920, Height: 1080},
		}},
	}

	out := enrichAssets(state)
	ids := []string{out[0].ID, out[1].ID, out[2].ID}
	want := []string{"ast_img01", "ast_vid01", "ast_aud01"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("order = %v, want %v", ids, want)
	}
	if out[0].Meta.Resolution != "1920x1080" {
		t.Fatalf("Resolution = %q, want 1920x1080", out[0].Meta.Resolution)
	}
	// The video has no analysis record; the audio carries a transcript and
	// becomes the narration track.
	if out[1].QualityScore != 0.5 {
		t.Fatalf("unanalyzed asset quality = %v, want 0.5", out[1].QualityScore)
	}
	if out[2].Role != brief.RoleVoiceover {
		t.Fatalf("audio role = %q, want voiceover narration", out[2].Role)
	}
}
