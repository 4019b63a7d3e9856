// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/pdiddy/brief-engine/internal/gateway"
	"github.com/pdiddy/brief-engine/pkg/types"
)

func academicSet(papers ...types.Paper) types.SourceResultSet {
	return types.SourceResultSet{
		Source:  "openalex",
		Success: len(papers) > 0,
		Results: []types.ScoredCandidate{
			{Candidate: types.Candidate{Source: "openalex", Papers: papers}, Score: 50},
		},
	}
}

func encyclopediaSet(found bool) types.SourceResultSet {
	set := types.SourceResultSet{Source: "wikipedia", Success: found}
	if found {
		set.Results = []types.ScoredCandidate{
			{Candidate: types.Candidate{
				Source: "wikipedia",
				Page:   &types.WikiPage{Found: true, Title: "Videotelephony", Summary: "..."},
			}, Score: 60},
		}
	}
	return set
}

func paperBatch(n, year, citations int) []types.Paper {
	papers := make([]types.Paper, n)
	for i := range papers {
		papers[i] = types.Paper{
			ID:            fmt.Sprintf("W%d-%d", year, i),
			Title:         "WebRTC video conferencing study",
			Abstract:      "Uses webrtc and machine learning.",
			Authors:       []string{"Ada Example"},
			Year:          year,
			CitationCount: citations,
			Concepts:      []string{"WebRTC", "Videoconferencing"},
		}
	}
	return papers
}

func now() time.Time { return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) }

// --- Stats ---

func TestStats_PaperTrends(t *testing.T) {
	papers := append(paperBatch(3, 2025, 10), paperBatch(2, 2020, 40)...)
	stats := Stats(encyclopediaSet(true), academicSet(papers...), types.DefaultSynthesis(), now())

	pt := stats.PaperTrends
	if pt.YearCounts[2025] != 3 || pt.YearCounts[2020] != 2 {
		t.Errorf("YearCounts = %v", pt.YearCounts)
	}
	if len(pt.TopAuthors) != 1 || pt.TopAuthors[0].Count != 5 {
		t.Errorf("TopAuthors = %v", pt.TopAuthors)
	}
	if len(pt.TopConcepts) != 2 {
		t.Errorf("TopConcepts = %v", pt.TopConcepts)
	}

	ys := pt.CitationsByYear[2020]
	if ys.Papers != 2 || ys.TotalCitations != 80 || ys.AvgCitations != 40 || ys.MaxCitations != 40 {
		t.Errorf("CitationsByYear[2020] = %+v", ys)
	}
}

func TestStats_MarketClassification(t *testing.T) {
	cfg := types.DefaultSynthesis()
	tests := []struct {
		name            string
		papers          []types.Paper
		wantSize        string
		wantCompetition string
	}{
		{"no evidence", nil, "unknown", "unknown"},
		{"niche", paperBatch(5, 2025, 1), "niche", "low"},
		{"medium", paperBatch(20, 2025, 1), "medium", "medium"},
		{"large", paperBatch(60, 2025, 1), "large", "high"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := Stats(encyclopediaSet(false), academicSet(tt.papers...), cfg, now())
			if stats.Market.Size != tt.wantSize {
				t.Errorf("Size = %q, want %q", stats.Market.Size, tt.wantSize)
			}
			if stats.Market.Competition != tt.wantCompetition {
				t.Errorf("Competition = %q, want %q", stats.Market.Competition, tt.wantCompetition)
			}
		})
	}
}

func TestStats_TrendClassification(t *testing.T) {
	cfg := types.DefaultSynthesis()

	growing := append(paperBatch(6, 2025, 1), paperBatch(4, 2015, 1)...)
	stats := Stats(encyclopediaSet(false), academicSet(growing...), cfg, now())
	if stats.Market.Trend != "growing" {
		t.Errorf("Trend = %q, want growing", stats.Market.Trend)
	}

	declining := append(paperBatch(1, 2025, 1), paperBatch(19, 2010, 1)...)
	stats = Stats(encyclopediaSet(false), academicSet(declining...), cfg, now())
	if stats.Market.Trend != "declining" {
		t.Errorf("Trend = %q, want declining", stats.Market.Trend)
	}

	stable := append(paperBatch(3, 2025, 1), paperBatch(7, 2015, 1)...)
	stats = Stats(encyclopediaSet(false), academicSet(stable...), cfg, now())
	if stats.Market.Trend != "stable" {
		t.Errorf("Trend = %q, want stable", stats.Market.Trend)
	}
}

func TestStats_EncyclopediaFoundFlag(t *testing.T) {
	stats := Stats(encyclopediaSet(true), academicSet(), types.DefaultSynthesis(), now())
	if !stats.Market.EncyclopediaFound {
		t.Error("EncyclopediaFound = false, want true")
	}

	stats = Stats(encyclopediaSet(false), academicSet(), types.DefaultSynthesis(), now())
	if stats.Market.EncyclopediaFound {
		t.Error("EncyclopediaFound = true, want false")
	}
}

func TestStats_CompetitorLandscape(t *testing.T) {
	stats := Stats(encyclopediaSet(false), academicSet(paperBatch(4, 2025, 1)...), types.DefaultSynthesis(), now())

	found := map[string]int{}
	for _, c := range stats.Competitors {
		found[c.Name] = c.Count
	}
	if found["webrtc"] != 4 {
		t.Errorf("webrtc count = %d, want 4", found["webrtc"])
	}
	if found["machine learning"] != 4 {
		t.Errorf("machine learning count = %d, want 4", found["machine learning"])
	}
	if _, ok := found["blockchain"]; ok {
		t.Error("unmatched vocabulary term should be omitted")
	}
}

// --- Narrative ---

type canned struct {
	text string
	err  error
}

func (c canned) Generate(_ context.Context, _ string, _ gateway.GenOptions) (string, error) {
	return c.text, c.err
}

func facets() types.TopicFacets {
	return types.TopicFacets{
		CoreService:  "실시간 영상 통화",
		Platform:     "웹/모바일 앱",
		Genre:        "커뮤니케이션",
		MainFeatures: []string{"1:1 영상통화"},
		TargetUsers:  "원격 근무자",
	}
}

func gatewayCfg() types.GatewayConfig { return types.GatewayConfig{MaxRetries: 1} }

func TestNarrate_ParsesStructuredResponse(t *testing.T) {
	gen := canned{text: `{
		"summary": "The video conferencing market is active.",
		"market_insights": ["growing demand"],
		"technology_insights": ["webrtc is dominant"],
		"competition_notes": ["crowded field"],
		"opportunities": ["niche workflows"],
		"risks": ["incumbent pressure"],
		"complexity": "high",
		"time_to_market": "6-9 months",
		"resources": "3-5 engineers",
		"strategy": "Focus on a vertical."
	}`}

	stats := Stats(encyclopediaSet(true), academicSet(paperBatch(20, 2025, 5)...), types.DefaultSynthesis(), now())
	n := Narrate(context.Background(), gen, "실시간 화상채팅 서비스", facets(), stats, gatewayCfg(), io.Discard)

	if n.Confidence != "normal" {
		t.Errorf("Confidence = %q, want normal", n.Confidence)
	}
	if n.Summary == "" || n.Strategy == "" || n.Complexity != "high" {
		t.Errorf("narrative = %+v", n)
	}
}

func TestNarrate_MalformedResponseFallsBack(t *testing.T) {
	gen := canned{text: "I had trouble producing JSON."}

	stats := Stats(encyclopediaSet(true), academicSet(paperBatch(20, 2025, 5)...), types.DefaultSynthesis(), now())
	n := Narrate(context.Background(), gen, "실시간 화상채팅 서비스", facets(), stats, gatewayCfg(), io.Discard)

	if n.Confidence != "fallback" {
		t.Errorf("Confidence = %q, want fallback", n.Confidence)
	}
	if n.Summary == "" || n.Strategy == "" {
		t.Error("fallback narrative must be complete")
	}
}

func TestNarrate_GatewayErrorFallsBack(t *testing.T) {
	gen := canned{err: fmt.Errorf("unavailable")}

	stats := Stats(encyclopediaSet(true), academicSet(paperBatch(5, 2025, 5)...), types.DefaultSynthesis(), now())
	n := Narrate(context.Background(), gen, "topic", facets(), stats, gatewayCfg(), io.Discard)

	if n.Confidence != "fallback" {
		t.Errorf("Confidence = %q, want fallback", n.Confidence)
	}
}

func TestNarrate_NoEvidenceUsesBasicAnalysis(t *testing.T) {
	// The gateway must not be called at all without evidence.
	gen := canned{err: fmt.Errorf("should not be called")}

	stats := Stats(encyclopediaSet(false), academicSet(), types.DefaultSynthesis(), now())
	n := Narrate(context.Background(), gen, "완전히 새로운 주제", facets(), stats, gatewayCfg(), io.Discard)

	if n.Confidence != "basic" {
		t.Errorf("Confidence = %q, want basic", n.Confidence)
	}
	if stats.Market.Size != "unknown" {
		t.Errorf("Market.Size = %q, want unknown", stats.Market.Size)
	}
	if n.Summary == "" || n.Strategy == "" {
		t.Error("basic narrative must be complete")
	}
}

func TestNarrate_MissingRequiredFieldFallsBack(t *testing.T) {
	gen := canned{text: `{"summary": "", "strategy": ""}`}

	stats := Stats(encyclopediaSet(true), academicSet(paperBatch(5, 2025, 5)...), types.DefaultSynthesis(), now())
	n := Narrate(context.Background(), gen, "topic", facets(), stats, gatewayCfg(), io.Discard)

	if n.Confidence != "fallback" {
		t.Errorf("Confidence = %q, want fallback", n.Confidence)
	}
}
