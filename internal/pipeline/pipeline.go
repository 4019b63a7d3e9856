// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline coordinates the research run: facet analysis, keyword
// expansion, source fan-out, relevance filtering, ranking, and synthesis.
// Run returns a complete Brief for every non-empty topic; degraded
// quality is visible in the brief's content, never as an error.
// See docs/ARCHITECTURE § Pipeline Interface.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/brief-engine/internal/analyze"
	"github.com/pdiddy/brief-engine/internal/fanout"
	"github.com/pdiddy/brief-engine/internal/gateway"
	"github.com/pdiddy/brief-engine/internal/rank"
	"github.com/pdiddy/brief-engine/internal/relevance"
	"github.com/pdiddy/brief-engine/internal/synthesis"
	"github.com/pdiddy/brief-engine/pkg/types"
)

// Options tunes a single research run.
type Options struct {
	// IncludeAcademic enables the academic-corpus fan-out.
	IncludeAcademic bool
}

// Pipeline holds the collaborators for research runs. Construct with New
// for production use or assemble directly in tests.
type Pipeline struct {
	Gen          gateway.Generator
	Encyclopedia fanout.Source
	Academic     fanout.Source
	Config       types.PipelineConfig

	// Now returns the processing time; overridable in tests. Nil uses time.Now.
	Now func() time.Time
}

// New builds a pipeline with the real gateway and source adapters.
func New(cfg types.PipelineConfig, client *http.Client) *Pipeline {
	if client == nil {
		client = &http.Client{Timeout: cfg.Dispatch.Timeout}
	}
	return &Pipeline{
		Gen: &gateway.ClaudeGateway{
			APIKey: cfg.Gateway.APIKey,
			Model:  cfg.Gateway.Model,
			Client: client,
		},
		Encyclopedia: &fanout.WikipediaSource{Client: client},
		Academic:     &fanout.OpenAlexSource{Client: client},
		Config:       normalize(cfg),
	}
}

// Run executes the full research flow for a topic. Only an empty topic is
// an error; every other degradation (gateway failures, soft per-call
// failures, zero evidence) still produces a complete Brief.
func (p *Pipeline) Run(ctx context.Context, topic string, opts Options, w io.Writer) (*types.Brief, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, fmt.Errorf("topic is empty: provide a project topic to research")
	}

	cfg := normalize(p.Config)
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	fmt.Fprintf(w, "analyzing topic %q\n", topic)
	facets := analyze.Facets(ctx, p.Gen, topic, cfg.Gateway, w)

	fmt.Fprintln(w, "expanding keywords")
	keywords := analyze.Keywords(ctx, p.Gen, topic, facets, cfg.Gateway, w)

	fmt.Fprintln(w, "querying knowledge sources")
	out := fanout.Dispatch(ctx, keywords, p.Encyclopedia, p.Academic, opts.IncludeAcademic, cfg.Dispatch, w)

	encScored, acadScored := scoreAndFilter(out.Candidates, topic, cfg.Relevance)

	encResults, encBest := rank.Encyclopedia(encScored)
	acadResults, acadBest := rank.Academic(acadScored, now(), cfg.Synthesis.RecentYears)

	encSet := types.SourceResultSet{
		Source:            "wikipedia",
		Success:           len(encResults) > 0,
		Results:           encResults,
		Best:              encBest,
		SearchesAttempted: out.Attempts["wikipedia"],
		Errors:            out.Errors["wikipedia"],
	}
	acadSet := types.SourceResultSet{
		Source:            "openalex",
		Success:           len(acadResults) > 0,
		Results:           acadResults,
		Best:              acadBest,
		SearchesAttempted: out.Attempts["openalex"],
		Errors:            out.Errors["openalex"],
	}

	fmt.Fprintf(w, "retained %d encyclopedia and %d academic results\n", len(encResults), len(acadResults))

	stats := synthesis.Stats(encSet, acadSet, cfg.Synthesis, now())
	narrative := synthesis.Narrate(ctx, p.Gen, topic, facets, stats, cfg.Gateway, w)

	return &types.Brief{
		Topic:       topic,
		Facets:      facets,
		Keywords:    keywords,
		Sources:     []types.SourceResultSet{encSet, acadSet},
		Stats:       stats,
		Narrative:   narrative,
		GeneratedAt: now(),
	}, nil
}

// scoreAndFilter applies the relevance policy to raw candidates and
// partitions the survivors by source. This is a single-threaded reduction
// over the gathered set; concurrency ended with the fan-out.
func scoreAndFilter(candidates []types.Candidate, topic string, cfg types.RelevanceConfig) (enc, acad []types.ScoredCandidate) {
	for _, c := range candidates {
		// Not-found encyclopedia lookups carry no scorable content.
		if c.Page != nil && !c.Page.Found {
			continue
		}
		if len(c.Papers) == 0 && c.Page == nil {
			continue
		}
		if !relevance.IsRelevant(c, topic, c.Keyword, cfg) {
			continue
		}
		sc := types.ScoredCandidate{
			Candidate: c,
			Score:     relevance.Score(c, topic, c.Keyword, cfg),
		}
		switch c.Source {
		case "wikipedia":
			enc = append(enc, sc)
		case "openalex":
			acad = append(acad, sc)
		}
	}
	return enc, acad
}

// normalize fills zero-valued policy sections with their defaults.
func normalize(cfg types.PipelineConfig) types.PipelineConfig {
	if cfg.Relevance == (types.RelevanceConfig{}) {
		cfg.Relevance = types.DefaultRelevance()
	}
	if cfg.Synthesis == (types.SynthesisConfig{}) {
		cfg.Synthesis = types.DefaultSynthesis()
	}
	if cfg.Dispatch.EncyclopediaTerms == 0 && cfg.Dispatch.AcademicTerms == 0 {
		def := types.DefaultDispatch()
		def.OpenAlexEmail = cfg.Dispatch.OpenAlexEmail
		if cfg.Dispatch.UserAgent != "" {
			def.UserAgent = cfg.Dispatch.UserAgent
		}
		cfg.Dispatch = def
	}
	return cfg
}
