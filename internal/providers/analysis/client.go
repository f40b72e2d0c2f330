package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 30 * time.Second

	queryPath     = "/analyze/query"
	assetPath     = "/analyze/assets"
	synthesisPath = "/analyze/synthesis"
	summaryPath   = "/analyze/summary"
)

// Options controls how the analysis client is configured.
type Options struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client talks to the external analysis service. Every stage is one JSON
// POST; the service answers {success, result, error} and the client maps
// transport or contract failures onto a failed Outcome instead of an error,
// since the orchestrator treats stage failures as data.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

// NewClient validates the options and builds a client.
func NewClient(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("analysis: base url is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  opts.APIKey,
		client:  client,
		logger:  logger,
	}, nil
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Result  *T     `json:"result"`
	Error   string `json:"error,omitempty"`
}

// AnalyzeQuery implements QueryAnalyzer.
func (c *Client) AnalyzeQuery(ctx context.Context, req QueryRequest) Outcome[QueryResult] {
	return post[QueryRequest, QueryResult](ctx, c, queryPath, req)
}

// AnalyzeAssets implements AssetAnalyzer.
func (c *Client) AnalyzeAssets(ctx context.Context, req AssetRequest) Outcome[AssetResult] {
	return post[AssetRequest, AssetResult](ctx, c, assetPath, req)
}

// Synthesize implements Synthesizer.
func (c *Client) Synthesize(ctx context.Context, req SynthesisRequest) Outcome[Synthesis] {
	return post[SynthesisRequest, Synthesis](ctx, c, synthesisPath, req)
}

// Summarize implements Summarizer.
func (c *Client) Summarize(ctx context.Context, req SummaryRequest) Outcome[Summary] {
	return post[SummaryRequest, Summary](ctx, c, summaryPath, req)
}

func post[Req any, Res any](ctx context.Context, c *Client, path string, payload Req) Outcome[Res] {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return Fail[Res](fmt.Sprintf("encode request: %v", err))
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return Fail[Res](fmt.Sprintf("build request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("analysis call failed")
		return Fail[Res](fmt.Sprintf("call %s: %v", path, err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("analysis call rejected")
		return Fail[Res](fmt.Sprintf("call %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body))))
	}
	var out envelope[Res]
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Fail[Res](fmt.Sprintf("decode %s response: %v", path, err))
	}
	if !out.Success || out.Result == nil {
		msg := out.Error
		if msg == "" {
			msg = "analysis service returned no usable result"
		}
		return Fail[Res](msg)
	}
	return Ok(out.Result)
}

var (
	_ QueryAnalyzer = (*Client)(nil)
	_ AssetAnalyzer = (*Client)(nil)
	_ Synthesizer   = (*Client)(nil)
	_ Summarizer    = (*Client)(nil)
)
