package engine

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"server/internal/domain/brief"
)

type modernAsset struct {
	URL             string `json:"url"`
	Type            string `json:"type"`
	Filename        string `json:"filename"`
	UserDescription string `json:"userDescription"`
}

type modernRequest struct {
	UserID  string `json:"userId"`
	Prompt  string `json:"prompt"`
	Intent  string `json:"intent"`
	Options struct {
		DurationSeconds int    `json:"durationSeconds"`
		AspectRatio     string `json:"aspectRatio"`
		ImageCount      int    `json:"imageCount"`
		Platform        string `json:"platform"`
	} `json:"options"`
	Assets []modernAsset `json:"assets"`
}

type legacyAsset struct {
	URL       string         `json:"url"`
	MediaType string         `json:"mediaType"`
	Metadata  map[string]any `json:"metadata"`
}

type legacyRequest struct {
	Query              string        `json:"query"`
	Assets             []legacyAsset `json:"assets"`
	Intent             string        `json:"intent"`
	OutputImages       int           `json:"outputImages"`
	OutputVideoSeconds int           `json:"outputVideoSeconds"`
	Preferences        struct {
		AspectRatio    string `json:"aspect_ratio"`
		PlatformTarget string `json:"platform_target"`
	} `json:"preferences"`
	BudgetCredits int `json:"budget_credits"`
}

type shapeProbe struct {
	Query  *string `json:"query"`
	Prompt *string `json:"prompt"`
}

// Normalize maps a raw JSON body in either accepted wire shape onto the
// canonical internal request. Shape detection keys off the presence of a
// legacy "query" field; everything else is the modern prompt schema.
func Normalize(body []byte) (*brief.NormalizedRequest, error) {
	var probe shapeProbe
	if err := json.Unmarshal(body, &probe); err != nil {
		ve := newValidationError()
		ve.Fields["body"] = "invalid JSON payload"
		return nil, ve
	}
	if probe.Query != nil {
		return normalizeLegacy(body)
	}
	return normalizeModern(body)
}

func normalizeModern(body []byte) (*brief.NormalizedRequest, error) {
	var raw modernRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		ve := newValidationError()
		ve.Fields["body"] = "invalid JSON payload"
		return nil, ve
	}
	ve := newValidationError()
	if strings.TrimSpace(raw.UserID) == "" {
		ve.Fields["userId"] = "userId is required"
	}
	if strings.TrimSpace(raw.Prompt) == "" {
		ve.Fields["prompt"] = "prompt is required"
	}
	intent, ok := normalizeIntent(raw.Intent)
	if !ok {
		ve.Fields["intent"] = fmt.Sprintf("unsupported intent %q", raw.Intent)
	}
	req := &brief.NormalizedRequest{
		UserID: strings.TrimSpace(raw.UserID),
		Prompt: strings.TrimSpace(raw.Prompt),
		Intent: intent,
		Options: brief.RequestOptions{
			DurationSeconds: raw.Options.DurationSeconds,
			AspectRatio:     strings.TrimSpace(raw.Options.AspectRatio),
			ImageCount:      raw.Options.ImageCount,
			Platform:        strings.TrimSpace(raw.Options.Platform),
		},
		Assets: []brief.RawAsset{},
		Source: brief.SourceModern,
	}
	counters := map[brief.MediaKind]int{}
	for i, a := range raw.Assets {
		kind := brief.MediaKind(strings.ToLower(strings.TrimSpace(a.Type)))
		if !brief.KnownMediaKind(kind) {
			ve.Fields[fmt.Sprintf("assets[%d].type", i)] = fmt.Sprintf("unsupported media type %q", a.Type)
			continue
		}
		if strings.TrimSpace(a.URL) == "" {
			ve.Fields[fmt.Sprintf("assets[%d].url", i)] = "url is required"
			continue
		}
		counters[kind]++
		req.Assets = append(req.Assets, brief.RawAsset{
			ID:              assetID(kind, counters[kind]),
			URL:             strings.TrimSpace(a.URL),
			Type:            kind,
			Filename:        strings.TrimSpace(a.Filename),
			UserDescription: strings.TrimSpace(a.UserDescription),
		})
	}
	if len(ve.Fields) > 0 {
		return nil, ve
	}
	return req, nil
}

func normalizeLegacy(body []byte) (*brief.NormalizedRequest, error) {
	var raw legacyRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		ve := newValidationError()
		ve.Fields["body"] = "invalid JSON payload"
		return nil, ve
	}
	ve := newValidationError()
	if strings.TrimSpace(raw.Query) == "" {
		ve.Fields["query"] = "query is required"
	}
	intent, ok := normalizeIntent(raw.Intent)
	if !ok {
		ve.Fields["intent"] = fmt.Sprintf("unsupported intent %q", raw.Intent)
	}
	req := &brief.NormalizedRequest{
		Prompt: strings.TrimSpace(raw.Query),
		Intent: intent,
		Options: brief.RequestOptions{
			DurationSeconds: raw.OutputVideoSeconds,
			AspectRatio:     strings.TrimSpace(raw.Preferences.AspectRatio),
			ImageCount:      raw.OutputImages,
			Platform:        strings.TrimSpace(raw.Preferences.PlatformTarget),
		},
		Assets: []brief.RawAsset{},
		Source: brief.SourceLegacy,
	}
	counters := map[brief.MediaKind]int{}
	for i, a := range raw.Assets {
		kind := brief.MediaKind(strings.ToLower(strings.TrimSpace(a.MediaType)))
		if !brief.KnownMediaKind(kind) {
			ve.Fields[fmt.Sprintf("assets[%d].mediaType", i)] = fmt.Sprintf("unsupported media type %q", a.MediaType)
			continue
		}
		if strings.TrimSpace(a.URL) == "" {
			ve.Fields[fmt.Sprintf("assets[%d].url", i)] = "url is required"
			continue
		}
		counters[kind]++
		req.Assets = append(req.Assets, brief.RawAsset{
			ID:              assetID(kind, counters[kind]),
			URL:             strings.TrimSpace(a.URL),
			Type:            kind,
			Filename:        legacyFilename(a),
			UserDescription: legacyDescription(a),
		})
	}
	if len(ve.Fields) > 0 {
		return nil, ve
	}
	return req, nil
}

// normalizeIntent maps wire intent values onto canonical media kinds. The
// legacy value "mix" folds into "mixed"; an empty intent stays empty and is
// resolved later from the query-analysis stage.
func normalizeIntent(raw string) (brief.MediaKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", true
	case "image":
		return brief.MediaImage, true
	case "video":
		return brief.MediaVideo, true
	case "audio":
		return brief.MediaAudio, true
	case "mix", "mixed":
		return brief.MediaMixed, true
	}
	return "", false
}

func assetID(kind brief.MediaKind, ordinal int) string {
	tag := "ast"
	switch kind {
	case brief.MediaImage:
		tag = "img"
	case brief.MediaVideo:
		tag = "vid"
	case brief.MediaAudio:
		tag = "aud"
	}
	return fmt.Sprintf("ast_%s%02d", tag, ordinal)
}

// legacyFilename prefers an explicit metadata filename and falls back to the
// last URL path segment.
func legacyFilename(a legacyAsset) string {
	if v, ok := a.Metadata["filename"].(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return lastPathSegment(a.URL)
}

func legacyDescription(a legacyAsset) string {
	if v, ok := a.Metadata["description"].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func lastPathSegment(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	path := rawURL
	if err == nil && parsed.Path != "" {
		path = parsed.Path
	}
	path = strings.TrimRight(path, "/")
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		path = path[idx+1:]
	}
	return path
}
