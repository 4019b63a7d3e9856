// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesis turns retained evidence into deterministic statistics
// and a structured strategic narrative. The statistics are computed before
// any generative call; the narrative degrades to deterministic fallbacks
// so synthesis always yields a complete result.
// See docs/ARCHITECTURE § Synthesis.
package synthesis

import (
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/brief-engine/pkg/types"
)

// competitorVocabulary is the fixed set of tool/method terms counted in
// paper titles and abstracts for the competitor landscape.
var competitorVocabulary = []string{
	"webrtc",
	"zoom",
	"microsoft teams",
	"open source",
	"machine learning",
	"deep learning",
	"cloud computing",
	"peer-to-peer",
	"encryption",
	"saas",
	"mobile app",
	"recommendation system",
	"blockchain",
	"api",
}

// Stats computes the three deterministic evidence summaries: publication
// trends, the heuristic market classification, and the competitor
// landscape. It operates on the full retained (filtered) result sets, not
// only the best candidates.
func Stats(encyclopedia, academic types.SourceResultSet, cfg types.SynthesisConfig, now time.Time) types.Statistics {
	papers := collectPapers(academic)

	return types.Statistics{
		PaperTrends: paperTrends(papers),
		Market:      marketContext(encyclopedia, papers, cfg, now),
		Competitors: competitorLandscape(papers),
	}
}

// collectPapers flattens the retained academic candidates. The rank stage
// has already removed duplicate papers.
func collectPapers(academic types.SourceResultSet) []types.Paper {
	var papers []types.Paper
	for _, sc := range academic.Results {
		papers = append(papers, sc.Papers...)
	}
	return papers
}

// paperTrends computes the year histogram, top authors, top concepts, and
// per-year citation aggregates.
func paperTrends(papers []types.Paper) types.PaperTrends {
	yearCounts := make(map[int]int)
	authorCounts := make(map[string]int)
	conceptCounts := make(map[string]int)
	citations := make(map[int]types.YearStats)

	for _, p := range papers {
		if p.Year > 0 {
			yearCounts[p.Year]++

			ys := citations[p.Year]
			ys.Papers++
			ys.TotalCitations += p.CitationCount
			if p.CitationCount > ys.MaxCitations {
				ys.MaxCitations = p.CitationCount
			}
			citations[p.Year] = ys
		}
		for _, a := range p.Authors {
			authorCounts[a]++
		}
		for _, c := range p.Concepts {
			conceptCounts[c]++
		}
	}

	for year, ys := range citations {
		ys.AvgCitations = float64(ys.TotalCitations) / float64(ys.Papers)
		citations[year] = ys
	}

	return types.PaperTrends{
		YearCounts:      yearCounts,
		TopAuthors:      topN(authorCounts, 5),
		TopConcepts:     topN(conceptCounts, 10),
		CitationsByYear: citations,
	}
}

// marketContext classifies market size and competition by paper volume
// and the trend by the recent-activity share of total volume.
func marketContext(encyclopedia types.SourceResultSet, papers []types.Paper, cfg types.SynthesisConfig, now time.Time) types.MarketContext {
	total := len(papers)

	mc := types.MarketContext{
		TotalPapers:       total,
		EncyclopediaFound: encyclopediaFound(encyclopedia),
		Trend:             "stable",
	}

	switch {
	case total == 0:
		mc.Size = "unknown"
		mc.Competition = "unknown"
		return mc
	case total > cfg.LargeMarketPapers:
		mc.Size = "large"
		mc.Competition = "high"
	case total > cfg.MediumMarketPapers:
		mc.Size = "medium"
		mc.Competition = "medium"
	default:
		mc.Size = "niche"
		mc.Competition = "low"
	}

	cutoff := now.Year() - cfg.RecentYears
	recent := 0
	for _, p := range papers {
		if p.Year >= cutoff {
			recent++
		}
	}

	share := float64(recent) / float64(total)
	switch {
	case share > cfg.GrowingShare:
		mc.Trend = "growing"
	case share < cfg.DecliningShare:
		mc.Trend = "declining"
	}

	return mc
}

// encyclopediaFound reports whether any retained encyclopedia candidate
// resolved to an actual article.
func encyclopediaFound(set types.SourceResultSet) bool {
	for _, sc := range set.Results {
		if sc.Page != nil && sc.Page.Found {
			return true
		}
	}
	return false
}

// competitorLandscape counts vocabulary-term frequency across paper
// titles and abstracts, omitting unmatched terms.
func competitorLandscape(papers []types.Paper) []types.NameCount {
	counts := make(map[string]int)
	for _, p := range papers {
		text := strings.ToLower(p.Title + " " + p.Abstract)
		for _, term := range competitorVocabulary {
			if strings.Contains(text, term) {
				counts[term]++
			}
		}
	}
	return topN(counts, len(competitorVocabulary))
}

// topN returns the n highest counts, descending, names ascending on ties
// for deterministic output.
func topN(counts map[string]int, n int) []types.NameCount {
	out := make([]types.NameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, types.NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
