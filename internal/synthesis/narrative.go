// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/template"

	"github.com/pdiddy/brief-engine/internal/gateway"
	"github.com/pdiddy/brief-engine/pkg/types"
)

// narrativePromptTmpl embeds the deterministic statistics and requests a
// structured strategic analysis as JSON.
var narrativePromptTmpl = template.Must(template.New("narrative").Parse(`You are a market and technology strategist. Write a strategic analysis for the following project based on the research evidence below.

Topic: {{.Topic}}
Core service: {{.Facets.CoreService}}
Platform: {{.Facets.Platform}}
Genre: {{.Facets.Genre}}
Target users: {{.Facets.TargetUsers}}

Evidence statistics:
- Academic papers analyzed: {{.Stats.Market.TotalPapers}}
- Market size estimate: {{.Stats.Market.Size}}, competition: {{.Stats.Market.Competition}}, trend: {{.Stats.Market.Trend}}
- Encyclopedia coverage found: {{.Stats.Market.EncyclopediaFound}}
- Top concepts: {{range .Stats.PaperTrends.TopConcepts}}{{.Name}} ({{.Count}}); {{end}}
- Top authors: {{range .Stats.PaperTrends.TopAuthors}}{{.Name}} ({{.Count}}); {{end}}
- Competitor/tooling mentions: {{range .Stats.Competitors}}{{.Name}} ({{.Count}}); {{end}}

Respond with a JSON object containing exactly these fields:
- "summary": 2-4 sentence research summary
- "market_insights": array of 2-4 market insight strings
- "technology_insights": array of 2-4 technology insight strings
- "competition_notes": array of 1-3 competition observations
- "opportunities": array of 2-4 opportunity strings
- "risks": array of 2-4 risk strings
- "complexity": one of "low", "medium", "high"
- "time_to_market": a coarse estimate like "3-6 months"
- "resources": a coarse team estimate like "2-3 engineers"
- "strategy": one paragraph of strategic recommendation

Do not include any text outside the JSON object.
`))

// Narrate produces the structured narrative for the brief. The generative
// path is attempted only when evidence exists; on any failure the
// deterministic evidence-based fallback is substituted, and with no
// evidence at all the distinct low-confidence basic analysis is used.
// Narrate always returns a complete Narrative.
func Narrate(ctx context.Context, gen gateway.Generator, topic string, facets types.TopicFacets, stats types.Statistics, cfg types.GatewayConfig, w io.Writer) types.Narrative {
	if !hasEvidence(stats) {
		return BasicNarrative(topic, facets)
	}

	n, err := generateNarrative(ctx, gen, topic, facets, stats, cfg)
	if err != nil {
		fmt.Fprintf(w, "warning: narrative generation failed, using fallback: %v\n", err)
		return FallbackNarrative(topic, facets, stats)
	}
	return n
}

// hasEvidence reports whether any source contributed usable evidence.
func hasEvidence(stats types.Statistics) bool {
	return stats.Market.TotalPapers > 0 || stats.Market.EncyclopediaFound
}

func generateNarrative(ctx context.Context, gen gateway.Generator, topic string, facets types.TopicFacets, stats types.Statistics, cfg types.GatewayConfig) (types.Narrative, error) {
	var buf bytes.Buffer
	data := struct {
		Topic  string
		Facets types.TopicFacets
		Stats  types.Statistics
	}{Topic: topic, Facets: facets, Stats: stats}
	if err := narrativePromptTmpl.Execute(&buf, data); err != nil {
		return types.Narrative{}, fmt.Errorf("rendering narrative prompt: %w", err)
	}

	text, err := gateway.CallWithRetry(ctx, gen, buf.String(), gateway.GenOptions{Temperature: 0.5}, cfg.MaxRetries)
	if err != nil {
		return types.Narrative{}, fmt.Errorf("narrative generation: %w", err)
	}

	raw, err := gateway.ExtractJSON(text)
	if err != nil {
		return types.Narrative{}, fmt.Errorf("narrative response: %w", err)
	}

	var n types.Narrative
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return types.Narrative{}, fmt.Errorf("parsing narrative response: %w", err)
	}

	if n.Summary == "" || n.Strategy == "" {
		return types.Narrative{}, fmt.Errorf("narrative response missing summary or strategy")
	}
	if n.Complexity == "" {
		n.Complexity = "medium"
	}
	n.Confidence = "normal"
	return n, nil
}

// FallbackNarrative is the deterministic evidence-based narrative used
// when the gateway call fails or returns malformed data. It references
// the topic and the computed statistics but contains no generated text.
func FallbackNarrative(topic string, facets types.TopicFacets, stats types.Statistics) types.Narrative {
	market := stats.Market

	n := types.Narrative{
		Summary: fmt.Sprintf(
			"Research on %q surfaced %d academic papers; the market appears %s with %s competition and a %s trend.",
			topic, market.TotalPapers, market.Size, market.Competition, market.Trend),
		MarketInsights: []string{
			fmt.Sprintf("Market size classified as %s from %d papers of evidence.", market.Size, market.TotalPapers),
			fmt.Sprintf("Research activity trend: %s.", market.Trend),
		},
		TechnologyInsights: []string{
			fmt.Sprintf("Core service area: %s on %s.", facets.CoreService, facets.Platform),
		},
		CompetitionNotes: []string{
			fmt.Sprintf("Competition level estimated %s.", market.Competition),
		},
		Opportunities: []string{
			fmt.Sprintf("Differentiate within the %s genre for %s.", facets.Genre, facets.TargetUsers),
		},
		Risks: []string{
			"Automated narrative generation was unavailable; estimates derive from evidence statistics only.",
		},
		Complexity:   "medium",
		TimeToMarket: "3-6 months",
		Resources:    "2-4 engineers",
		Strategy: fmt.Sprintf(
			"Validate %s against the strongest retained sources before committing; treat this fallback analysis as a starting point.",
			facets.CoreService),
		Confidence: "fallback",
	}

	for _, c := range stats.Competitors {
		n.CompetitionNotes = append(n.CompetitionNotes,
			fmt.Sprintf("%q appears in %d retained papers.", c.Name, c.Count))
		if len(n.CompetitionNotes) == 3 {
			break
		}
	}
	return n
}

// BasicNarrative is the low-confidence analysis used when both sources
// returned no evidence at all.
func BasicNarrative(topic string, facets types.TopicFacets) types.Narrative {
	return types.Narrative{
		Summary: fmt.Sprintf(
			"No external evidence was found for %q; this basic analysis relies on the topic facets alone.", topic),
		MarketInsights: []string{
			"Market size: unknown — no academic or encyclopedia evidence retrieved.",
		},
		TechnologyInsights: []string{
			fmt.Sprintf("Planned platform: %s.", facets.Platform),
		},
		CompetitionNotes: []string{
			"Competition could not be assessed from available sources.",
		},
		Opportunities: []string{
			fmt.Sprintf("Absence of coverage may indicate an unexplored niche for %s.", facets.CoreService),
		},
		Risks: []string{
			"Absence of evidence may equally indicate low demand; validate with primary research.",
		},
		Complexity:   "medium",
		TimeToMarket: "unknown",
		Resources:    "unknown",
		Strategy: fmt.Sprintf(
			"Run user interviews and a landscape scan for %s before investing; automated research found nothing to build on.",
			facets.CoreService),
		Confidence: "basic",
	}
}
