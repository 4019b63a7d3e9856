package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "brief-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// GatewayConfig holds settings for the text-generation gateway.
type GatewayConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// DispatchConfig holds settings for the source fan-out stage.
type DispatchConfig struct {
	HTTPConfig `yaml:",inline"`

	// EncyclopediaTerms caps the number of encyclopedia queries per round (default 10).
	EncyclopediaTerms int `json:"encyclopedia_terms" yaml:"encyclopedia_terms"`

	// AcademicTerms caps the number of academic-corpus queries per round (default 11).
	AcademicTerms int `json:"academic_terms" yaml:"academic_terms"`

	// PapersPerQuery is the per-query result limit for the academic corpus (default 10).
	PapersPerQuery int `json:"papers_per_query" yaml:"papers_per_query"`

	// CallTimeout bounds each adapter call; a slow call becomes a soft
	// failure instead of stalling the round (default 15s).
	CallTimeout time.Duration `json:"call_timeout" yaml:"call_timeout"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`
}

// RelevanceConfig holds the scoring weights and filter thresholds.
// The weights are heuristic policy, not physics; defaults reproduce the
// 40/25/15/10/10 split with a minimum passing score of 30.
type RelevanceConfig struct {
	// TopicOverlapWeight is the maximum contribution of topic-word overlap.
	TopicOverlapWeight int `json:"topic_overlap_weight" yaml:"topic_overlap_weight"`

	// KeywordTitleWeight is the maximum contribution of keyword tokens in the title.
	KeywordTitleWeight int `json:"keyword_title_weight" yaml:"keyword_title_weight"`

	// KeywordSummaryWeight is the maximum contribution of keyword tokens in the summary.
	KeywordSummaryWeight int `json:"keyword_summary_weight" yaml:"keyword_summary_weight"`

	// DomainTermWeight is the maximum contribution of domain vocabulary matches.
	DomainTermWeight int `json:"domain_term_weight" yaml:"domain_term_weight"`

	// QualityWeight is the maximum contribution of the content-length bonus.
	QualityWeight int `json:"quality_weight" yaml:"quality_weight"`

	// MinScore is the filter threshold; candidates below it are discarded.
	MinScore int `json:"min_score" yaml:"min_score"`
}

// SynthesisConfig holds the market classification thresholds.
type SynthesisConfig struct {
	// LargeMarketPapers is the paper count above which the market is
	// classified large with high competition (default 50).
	LargeMarketPapers int `json:"large_market_papers" yaml:"large_market_papers"`

	// MediumMarketPapers is the paper count above which the market is
	// classified medium (default 15).
	MediumMarketPapers int `json:"medium_market_papers" yaml:"medium_market_papers"`

	// GrowingShare is the recent-activity share above which the trend is
	// "growing" (default 0.4).
	GrowingShare float64 `json:"growing_share" yaml:"growing_share"`

	// DecliningShare is the recent-activity share below which the trend
	// is "declining" (default 0.1).
	DecliningShare float64 `json:"declining_share" yaml:"declining_share"`

	// RecentYears defines the recency window in years (default 3).
	RecentYears int `json:"recent_years" yaml:"recent_years"`
}

// StoreConfig holds settings for the local brief store.
type StoreConfig struct {
	// Dir is the base directory for the store database (default "briefs").
	Dir string `json:"dir" yaml:"dir"`

	// MaxList is the default maximum number of briefs listed (default 20).
	MaxList int `json:"max_list" yaml:"max_list"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Gateway   GatewayConfig   `json:"gateway" yaml:"gateway"`
	Dispatch  DispatchConfig  `json:"dispatch" yaml:"dispatch"`
	Relevance RelevanceConfig `json:"relevance" yaml:"relevance"`
	Synthesis SynthesisConfig `json:"synthesis" yaml:"synthesis"`
	Store     StoreConfig     `json:"store" yaml:"store"`
}

// DefaultRelevance returns the standard scoring policy.
func DefaultRelevance() RelevanceConfig {
	return RelevanceConfig{
		TopicOverlapWeight:   40,
		KeywordTitleWeight:   25,
		KeywordSummaryWeight: 15,
		DomainTermWeight:     10,
		QualityWeight:        10,
		MinScore:             30,
	}
}

// DefaultSynthesis returns the standard market classification thresholds.
func DefaultSynthesis() SynthesisConfig {
	return SynthesisConfig{
		LargeMarketPapers:  50,
		MediumMarketPapers: 15,
		GrowingShare:       0.4,
		DecliningShare:     0.1,
		RecentYears:        3,
	}
}

// DefaultDispatch returns the standard fan-out bounds.
func DefaultDispatch() DispatchConfig {
	return DispatchConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "brief-engine/0.1",
		},
		EncyclopediaTerms: 10,
		AcademicTerms:     11,
		PapersPerQuery:    10,
		CallTimeout:       15 * time.Second,
	}
}
