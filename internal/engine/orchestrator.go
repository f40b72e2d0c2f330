package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain/brief"
	"server/internal/providers/analysis"
)

const (
	stageQuery     = "query_analysis"
	stageAssets    = "asset_analysis"
	stageSynthesis = "synthesis"
	stageSummary   = "summarization"
)

// Options configures an Engine.
type Options struct {
	Query          analysis.QueryAnalyzer
	Assets         analysis.AssetAnalyzer
	Synthesizer    analysis.Synthesizer
	Summarizer     analysis.Summarizer
	Logger         zerolog.Logger
	MinConfidence  float64
	MinFeasibility float64
	Now            func() time.Time
}

// Engine runs the four-stage brief pipeline. Stages execute strictly in
// sequence; only the query stage is fatal, every later stage degrades the
// brief's richness instead of its availability.
type Engine struct {
	query          analysis.QueryAnalyzer
	assets         analysis.AssetAnalyzer
	synthesizer    analysis.Synthesizer
	summarizer     analysis.Summarizer
	logger         zerolog.Logger
	minConfidence  float64
	minFeasibility float64
	now            func() time.Time
}

// New builds an Engine, filling unset score floors with the defaults.
func New(opts Options) *Engine {
	e := &Engine{
		query:          opts.Query,
		assets:         opts.Assets,
		synthesizer:    opts.Synthesizer,
		summarizer:     opts.Summarizer,
		logger:         opts.Logger,
		minConfidence:  opts.MinConfidence,
		minFeasibility: opts.MinFeasibility,
		now:            opts.Now,
	}
	if e.minConfidence <= 0 {
		e.minConfidence = DefaultMinConfidence
	}
	if e.minFeasibility <= 0 {
		e.minFeasibility = DefaultMinFeasibility
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// runState is the immutable accumulation the stages fold into. Later stages
// only read it; a missing field selects the rule-based fallback downstream.
type runState struct {
	req      *brief.NormalizedRequest
	query    *analysis.QueryResult
	assets   *analysis.AssetResult
	synth    *analysis.Synthesis
	summary  *analysis.Summary
	timings  map[string]int64
	warnings []string
}

// intent resolves the effective primary output kind: the declared intent
// wins, then the analyzed intent, then mixed.
func (s *runState) intent() brief.MediaKind {
	if s.req.Intent != "" {
		return s.req.Intent
	}
	if s.query != nil && s.query.Intent != "" {
		return s.query.Intent
	}
	return brief.MediaMixed
}

// constraints merges the declared options with gaps filled from stage 1.
// Declared values always take precedence over analyzed ones.
func (s *runState) constraints() brief.RequestOptions {
	out := s.req.Options
	if s.query == nil {
		return out
	}
	if out.DurationSeconds == 0 {
		out.DurationSeconds = s.query.Constraints.DurationSeconds
	}
	if out.AspectRatio == "" {
		out.AspectRatio = s.query.Constraints.AspectRatio
	}
	if out.ImageCount == 0 {
		out.ImageCount = s.query.Constraints.ImageCount
	}
	if out.Platform == "" {
		out.Platform = s.query.Constraints.Platform
	}
	return out
}

func (s *runState) styleModifiers() []string {
	if s.query == nil {
		return nil
	}
	return s.query.StyleModifiers
}

// Run executes the pipeline for one normalized request and assembles the
// brief. It returns *AnalysisError when the query stage fails; any other
// stage failure is folded into the brief as degraded richness.
func (e *Engine) Run(ctx context.Context, req *brief.NormalizedRequest) (*brief.CreativeBrief, error) {
	runID := uuid.NewString()
	start := e.now()
	state := &runState{req: req, timings: map[string]int64{}}

	q := e.runQueryStage(ctx, runID, state)
	if !q.OK {
		return nil, &AnalysisError{Stage: stageQuery, Message: q.Err}
	}
	state.query = q.Value

	if len(req.Assets) > 0 {
		a := e.runAssetStage(ctx, runID, state)
		if a.OK && len(a.Value.Analyses) > 0 {
			state.assets = a.Value
		} else {
			state.warnings = append(state.warnings, "asset analysis unavailable, using default asset metadata")
		}
	}

	if state.assets != nil {
		s := e.runSynthesisStage(ctx, runID, state)
		if s.OK {
			state.synth = s.Value
		} else {
			state.warnings = append(state.warnings, "synthesis unavailable, using rule-based creative options")
		}
	}

	if state.synth != nil {
		m := e.runSummaryStage(ctx, runID, state)
		if m.OK {
			state.summary = m.Value
		}
	}

	b := e.assemble(state, runID, start)
	e.logger.Info().
		Str("run_id", runID).
		Str("brief_id", b.ID).
		Int("assets", len(b.Assets)).
		Int("conflicts", len(b.Global.Conflicts)).
		Int64("elapsed_ms", b.ProcessingMS).
		Msg("brief assembled")
	return b, nil
}

func (e *Engine) runQueryStage(ctx context.Context, runID string, state *runState) analysis.Outcome[analysis.QueryResult] {
	began := e.now()
	out := analysis.Fail[analysis.QueryResult]("query analyzer not configured")
	if e.query != nil {
		out = e.query.AnalyzeQuery(ctx, analysis.QueryRequest{
			Prompt:  state.req.Prompt,
			Options: state.req.Options,
			Intent:  state.req.Intent,
			Locale:  state.req.Locale,
		})
	}
	e.logStage(runID, stageQuery, began, out.OK, out.Err)
	state.timings[stageQuery] = e.now().Sub(began).Milliseconds()
	return out
}

func (e *Engine) runAssetStage(ctx context.Context, runID string, state *runState) analysis.Outcome[analysis.AssetResult] {
	began := e.now()
	out := analysis.Fail[analysis.AssetResult]("asset analyzer not configured")
	if e.assets != nil {
		out = e.assets.AnalyzeAssets(ctx, analysis.AssetRequest{
			Prompt: state.req.Prompt,
			Assets: state.req.Assets,
		})
	}
	e.logStage(runID, stageAssets, began, out.OK, out.Err)
	state.timings[stageAssets] = e.now().Sub(began).Milliseconds()
	return out
}

func (e *Engine) runSynthesisStage(ctx context.Context, runID string, state *runState) analysis.Outcome[analysis.Synthesis] {
	began := e.now()
	out := analysis.Fail[analysis.Synthesis]("synthesizer not configured")
	if e.synthesizer != nil {
		out = e.synthesizer.Synthesize(ctx, analysis.SynthesisRequest{
			Query:  state.query,
			Assets: state.assets,
		})
	}
	e.logStage(runID, stageSynthesis, began, out.OK, out.Err)
	state.timings[stageSynthesis] = e.now().Sub(began).Milliseconds()
	return out
}

func (e *Engine) runSummaryStage(ctx context.Context, runID string, state *runState) analysis.Outcome[analysis.Summary] {
	began := e.now()
	out := analysis.Fail[analysis.Summary]("summarizer not configured")
	if e.summarizer != nil {
		out = e.summarizer.Summarize(ctx, analysis.SummaryRequest{
			Query:     state.query,
			Assets:    state.assets,
			Synthesis: state.synth,
			Timings:   state.timings,
			Options:   state.req.Options,
		})
	}
	e.logStage(runID, stageSummary, began, out.OK, out.Err)
	state.timings[stageSummary] = e.now().Sub(began).Milliseconds()
	return out
}

func (e *Engine) logStage(runID, stage string, began time.Time, ok bool, errMsg string) {
	evt := e.logger.Info()
	if !ok {
		evt = e.logger.Warn()
	}
	evt.Str("run_id", runID).
		Str("stage", stage).
		Bool("ok", ok).
		Dur("elapsed", e.now().Sub(began))
	if errMsg != "" {
		evt = evt.Str("reason", errMsg)
	}
	evt.Msg("stage finished")
}
