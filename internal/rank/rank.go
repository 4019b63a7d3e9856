// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank collapses duplicate candidates per source and selects one
// canonical best result. Both operations are idempotent reductions over
// the filtered candidate set; they run strictly after the concurrent
// gather completes, so no locking is involved.
// See docs/ARCHITECTURE § Ranking.
package rank

import (
	"strings"
	"time"

	"github.com/pdiddy/brief-engine/pkg/types"
)

// Encyclopedia deduplicates encyclopedia candidates by normalized title,
// first-seen wins, and selects the best survivor by relevance score (ties
// broken by first-seen order). Best is nil iff the result set is empty.
func Encyclopedia(scored []types.ScoredCandidate) ([]types.ScoredCandidate, *types.ScoredCandidate) {
	seen := make(map[string]bool, len(scored))
	var results []types.ScoredCandidate

	for _, sc := range scored {
		key := strings.ToLower(strings.TrimSpace(sc.Title()))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		results = append(results, sc)
	}

	return results, bestByScore(results)
}

// Academic deduplicates paper records across academic candidates by paper
// identifier, falling back to DOI, then title (first-seen wins), and
// selects the best candidate by composite quality: 0.7 × paper count +
// 0.3 × recent paper count, where recent means published within
// recentYears of now. Best is nil iff the result set is empty.
func Academic(scored []types.ScoredCandidate, now time.Time, recentYears int) ([]types.ScoredCandidate, *types.ScoredCandidate) {
	if recentYears <= 0 {
		recentYears = 3
	}
	cutoff := now.Year() - recentYears

	seen := make(map[string]bool)
	var results []types.ScoredCandidate

	for _, sc := range scored {
		var unique []types.Paper
		for _, p := range sc.Papers {
			key := paperKey(p)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			unique = append(unique, p)
		}
		if len(unique) == 0 {
			continue
		}
		dedup := sc
		dedup.Papers = unique
		results = append(results, dedup)
	}

	var best *types.ScoredCandidate
	bestQuality := -1.0
	for i := range results {
		q := CompositeQuality(results[i].Candidate, cutoff)
		if q > bestQuality {
			bestQuality = q
			best = &results[i]
		}
	}

	return results, best
}

// CompositeQuality weighs paper volume against recency: 0.7 × total
// papers + 0.3 × papers published in or after cutoffYear.
func CompositeQuality(c types.Candidate, cutoffYear int) float64 {
	recent := 0
	for _, p := range c.Papers {
		if p.Year >= cutoffYear {
			recent++
		}
	}
	return 0.7*float64(len(c.Papers)) + 0.3*float64(recent)
}

// paperKey returns the dedup key for a paper: identifier, then DOI, then
// normalized title.
func paperKey(p types.Paper) string {
	if p.ID != "" {
		return "id:" + p.ID
	}
	if p.DOI != "" {
		return "doi:" + strings.ToLower(p.DOI)
	}
	if t := strings.ToLower(strings.TrimSpace(p.Title)); t != "" {
		return "title:" + t
	}
	return ""
}

// bestByScore returns the candidate with the maximum relevance score,
// first-seen on ties, nil for an empty set.
func bestByScore(results []types.ScoredCandidate) *types.ScoredCandidate {
	var best *types.ScoredCandidate
	for i := range results {
		if best == nil || results[i].Score > best.Score {
			best = &results[i]
		}
	}
	return best
}
