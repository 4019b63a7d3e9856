// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the brief-engine pipeline.
// See docs/ARCHITECTURE § Pipeline Interface, § Data Structures.
package types

import "time"

// TopicFacets is the structured decomposition of a free-text topic.
// Produced once per research run and never mutated afterward. When the
// gateway cannot produce usable facets the pipeline substitutes a
// degraded record built from the raw topic.
type TopicFacets struct {
	// CoreService names the essential service the topic describes.
	CoreService string `json:"core_service" yaml:"core_service"`

	// Platform is the delivery platform (e.g. "web service", "mobile app").
	Platform string `json:"platform" yaml:"platform"`

	// Genre is the product category (e.g. "communication", "productivity").
	Genre string `json:"genre" yaml:"genre"`

	// MainFeatures lists the principal features, at least one entry.
	MainFeatures []string `json:"main_features" yaml:"main_features"`

	// TargetUsers describes the intended audience.
	TargetUsers string `json:"target_users" yaml:"target_users"`
}

// KeywordSet holds search terms grouped by semantic dimension. Each
// group is independently truncated by the dispatcher before fan-out.
type KeywordSet struct {
	English   []string `json:"english" yaml:"english"`
	Korean    []string `json:"korean" yaml:"korean"`
	Related   []string `json:"related" yaml:"related"`
	Synonyms  []string `json:"synonyms" yaml:"synonyms"`
	Technical []string `json:"technical" yaml:"technical"`
	Industry  []string `json:"industry" yaml:"industry"`
}

// Paper is one academic work as returned by the academic-corpus adapter.
type Paper struct {
	// ID is the source's canonical work identifier.
	ID string `json:"id" yaml:"id"`

	// DOI is the bare DOI without the resolver prefix, if known.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Title is the work title.
	Title string `json:"title" yaml:"title"`

	// Abstract is the reconstructed abstract text, possibly empty.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Authors lists author display names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year, zero if unknown.
	Year int `json:"year" yaml:"year"`

	// CitationCount is the citation total reported by the source.
	CitationCount int `json:"citation_count" yaml:"citation_count"`

	// Concepts lists topical concept labels attached by the source.
	Concepts []string `json:"concepts,omitempty" yaml:"concepts,omitempty"`
}

// WikiPage is one encyclopedia entry as returned by the encyclopedia adapter.
type WikiPage struct {
	// Found reports whether the lookup resolved to an article.
	Found bool `json:"found" yaml:"found"`

	// Title is the resolved article title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Summary is the article extract.
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`

	// Related lists related topic titles, when the source provides them.
	Related []string `json:"related,omitempty" yaml:"related,omitempty"`
}

// Candidate is one raw result from one knowledge-source adapter for one
// keyword. It is transient: candidates live only for the fan-out round
// that produced them.
type Candidate struct {
	// Source identifies the adapter that produced this candidate
	// (e.g. "wikipedia", "openalex").
	Source string `json:"source" yaml:"source"`

	// Keyword is the query term that produced this candidate.
	Keyword string `json:"keyword" yaml:"keyword"`

	// Language hints at the query language ("en", "ko").
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// Page is the encyclopedia payload; nil for academic candidates.
	Page *WikiPage `json:"page,omitempty" yaml:"page,omitempty"`

	// Papers is the academic payload; empty for encyclopedia candidates.
	Papers []Paper `json:"papers,omitempty" yaml:"papers,omitempty"`
}

// Title returns the candidate's display title: the page title for
// encyclopedia candidates, the first paper title otherwise.
func (c Candidate) Title() string {
	if c.Page != nil {
		return c.Page.Title
	}
	if len(c.Papers) > 0 {
		return c.Papers[0].Title
	}
	return ""
}

// Summary returns the candidate's body text used for scoring: the page
// summary for encyclopedia candidates, concatenated abstracts otherwise.
func (c Candidate) Summary() string {
	if c.Page != nil {
		return c.Page.Summary
	}
	var b []byte
	for _, p := range c.Papers {
		if p.Abstract == "" {
			continue
		}
		if len(b) > 0 {
			b = append(b, ' ')
		}
		b = append(b, p.Abstract...)
	}
	return string(b)
}

// ScoredCandidate is a Candidate with its relevance score attached.
// The score is a pure function of (candidate, topic, keyword).
type ScoredCandidate struct {
	Candidate `yaml:",inline"`

	// Score is the relevance score in [0,100].
	Score int `json:"score" yaml:"score"`
}

// SourceResultSet is the per-source outcome of one fan-out round.
// Best is nil exactly when Results is empty after filtering.
type SourceResultSet struct {
	// Source identifies the knowledge source.
	Source string `json:"source" yaml:"source"`

	// Success reports whether the source yielded any relevant result.
	Success bool `json:"success" yaml:"success"`

	// Results holds the filtered, deduplicated candidates.
	Results []ScoredCandidate `json:"results" yaml:"results"`

	// Best is the selected representative candidate, nil when Results is empty.
	Best *ScoredCandidate `json:"best,omitempty" yaml:"best,omitempty"`

	// SearchesAttempted counts adapter calls issued for this source.
	SearchesAttempted int `json:"searches_attempted" yaml:"searches_attempted"`

	// Errors records soft per-call failures for diagnostics.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// YearStats aggregates citation figures for one publication year.
type YearStats struct {
	Papers         int     `json:"papers" yaml:"papers"`
	TotalCitations int     `json:"total_citations" yaml:"total_citations"`
	AvgCitations   float64 `json:"avg_citations" yaml:"avg_citations"`
	MaxCitations   int     `json:"max_citations" yaml:"max_citations"`
}

// NameCount pairs a label with its mention count.
type NameCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// PaperTrends summarizes publication activity across retained papers.
type PaperTrends struct {
	// YearCounts maps publication year to paper count.
	YearCounts map[int]int `json:"year_counts" yaml:"year_counts"`

	// TopAuthors lists the five most-mentioned authors, descending.
	TopAuthors []NameCount `json:"top_authors" yaml:"top_authors"`

	// TopConcepts lists the ten most-mentioned concepts, descending.
	TopConcepts []NameCount `json:"top_concepts" yaml:"top_concepts"`

	// CitationsByYear maps publication year to citation aggregates.
	CitationsByYear map[int]YearStats `json:"citations_by_year" yaml:"citations_by_year"`
}

// MarketContext is a heuristic classification of the topic's market.
type MarketContext struct {
	// Size is "niche", "medium", "large", or "unknown".
	Size string `json:"size" yaml:"size"`

	// Competition is "low", "medium", "high", or "unknown".
	Competition string `json:"competition" yaml:"competition"`

	// Trend is "growing", "stable", or "declining".
	Trend string `json:"trend" yaml:"trend"`

	// TotalPapers is the paper volume the classification is based on.
	TotalPapers int `json:"total_papers" yaml:"total_papers"`

	// EncyclopediaFound reports whether the encyclopedia source found any entry.
	EncyclopediaFound bool `json:"encyclopedia_found" yaml:"encyclopedia_found"`
}

// Statistics holds the deterministic pre-synthesis evidence summaries.
type Statistics struct {
	PaperTrends PaperTrends `json:"paper_trends" yaml:"paper_trends"`

	Market MarketContext `json:"market" yaml:"market"`

	// Competitors maps tool/method vocabulary terms to their frequency
	// in retained paper titles and abstracts.
	Competitors []NameCount `json:"competitors" yaml:"competitors"`
}

// Narrative is the structured strategic analysis produced by synthesis.
// Confidence distinguishes the evidence-based path ("normal"), the
// deterministic fallback ("fallback"), and the no-evidence path ("basic").
type Narrative struct {
	Summary            string   `json:"summary" yaml:"summary"`
	MarketInsights     []string `json:"market_insights" yaml:"market_insights"`
	TechnologyInsights []string `json:"technology_insights" yaml:"technology_insights"`
	CompetitionNotes   []string `json:"competition_notes" yaml:"competition_notes"`
	Opportunities      []string `json:"opportunities" yaml:"opportunities"`
	Risks              []string `json:"risks" yaml:"risks"`

	// Complexity is "low", "medium", or "high".
	Complexity string `json:"complexity" yaml:"complexity"`

	// TimeToMarket is a coarse estimate (e.g. "3-6 months").
	TimeToMarket string `json:"time_to_market" yaml:"time_to_market"`

	// Resources is a coarse team-size/skill estimate.
	Resources string `json:"resources" yaml:"resources"`

	// Strategy is the overall recommendation.
	Strategy string `json:"strategy" yaml:"strategy"`

	// Confidence is "normal", "fallback", or "basic".
	Confidence string `json:"confidence" yaml:"confidence"`
}

// Brief is the final aggregated research output. It is immutable once
// returned; the store serializes it as-is.
type Brief struct {
	// ID is a stable identifier assigned when the brief is saved.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Topic is the raw topic string the run was started with.
	Topic string `json:"topic" yaml:"topic"`

	Facets   TopicFacets `json:"facets" yaml:"facets"`
	Keywords KeywordSet  `json:"keywords" yaml:"keywords"`

	// Sources holds one result set per knowledge source.
	Sources []SourceResultSet `json:"sources" yaml:"sources"`

	Stats     Statistics `json:"stats" yaml:"stats"`
	Narrative Narrative  `json:"narrative" yaml:"narrative"`

	// GeneratedAt is the completion time of the run.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// SourceSet returns the result set for the named source, nil if absent.
func (b *Brief) SourceSet(name string) *SourceResultSet {
	for i := range b.Sources {
		if b.Sources[i].Source == name {
			return &b.Sources[i]
		}
	}
	return nil
}
