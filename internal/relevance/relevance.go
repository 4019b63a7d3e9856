// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance scores candidates against the original topic and the
// keyword that produced them, and filters off-topic results. Both
// operations are pure: the same inputs always produce the same outputs.
// See docs/ARCHITECTURE § Relevance.
package relevance

import (
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/brief-engine/pkg/types"
)

// blocklist marks candidates from off-topic categories, mostly
// entertainment and media, in both scripts. A single match rejects the
// candidate regardless of its score.
var blocklist = []string{
	"album",
	"movie",
	"film)",
	"song",
	"single by",
	"actor",
	"actress",
	"singer",
	"band)",
	"discography",
	"fictional character",
	"tv series",
	"television series",
	"episode",
	"novel",
	"manga",
	"앨범",
	"영화",
	"노래",
	"배우",
	"가수",
	"드라마",
	"소설",
	"만화",
	"등장인물",
}

// domainTerms is the relevance-signal vocabulary. Each match contributes
// two points, capped by the domain weight.
var domainTerms = []string{
	"technology",
	"platform",
	"service",
	"system",
	"solution",
	"collaboration",
	"software",
	"application",
	"기술",
	"플랫폼",
	"서비스",
	"시스템",
	"솔루션",
	"협업",
}

// Score computes the relevance of a candidate to the topic in [0,100] as a
// weighted sum of five independent signals: topic-word overlap, keyword
// presence in the title, keyword presence in the summary, domain
// vocabulary hits, and a content-length bonus.
func Score(c types.Candidate, topic, keyword string, cfg types.RelevanceConfig) int {
	title := strings.ToLower(c.Title())
	summary := strings.ToLower(c.Summary())
	body := title + " " + summary

	score := topicOverlap(topic, body, cfg.TopicOverlapWeight)
	score += keywordHits(keyword, title, cfg.KeywordTitleWeight)
	score += keywordHits(keyword, summary, cfg.KeywordSummaryWeight)
	score += domainHits(body, cfg.DomainTermWeight)
	score += qualityBonus(summary, cfg.QualityWeight)

	if score > 100 {
		score = 100
	}
	return score
}

// IsRelevant reports whether a candidate passes the blocklist and the
// minimum-score threshold. Any blocklisted term in the title or summary
// short-circuits to false before scoring.
func IsRelevant(c types.Candidate, topic, keyword string, cfg types.RelevanceConfig) bool {
	text := strings.ToLower(c.Title() + " " + c.Summary())
	for _, term := range blocklist {
		if strings.Contains(text, term) {
			return false
		}
	}
	return Score(c, topic, keyword, cfg) >= cfg.MinScore
}

// topicOverlap awards the fraction of topic words (longer than one rune)
// present in the candidate text, scaled to weight.
func topicOverlap(topic, body string, weight int) int {
	words := tokens(topic, 2)
	if len(words) == 0 {
		return 0
	}
	matched := 0
	for _, w := range words {
		if strings.Contains(body, w) {
			matched++
		}
	}
	return matched * weight / len(words)
}

// keywordHits awards weight/tokenCount for each keyword token (longer
// than two runes) present in the text.
func keywordHits(keyword, text string, weight int) int {
	toks := tokens(keyword, 3)
	if len(toks) == 0 {
		return 0
	}
	score := 0
	for _, tok := range toks {
		if strings.Contains(text, tok) {
			score += weight / len(toks)
		}
	}
	return score
}

// domainHits awards two points per matched vocabulary term, capped at weight.
func domainHits(body string, weight int) int {
	score := 0
	for _, term := range domainTerms {
		if strings.Contains(body, term) {
			score += 2
			if score >= weight {
				return weight
			}
		}
	}
	return score
}

// qualityBonus rewards longer summaries: 10 above 500 characters, 5 above
// 200, 2 above 50, scaled so the top tier equals weight.
func qualityBonus(summary string, weight int) int {
	n := len(summary)
	switch {
	case n > 500:
		return weight
	case n > 200:
		return weight / 2
	case n > 50:
		return weight / 5
	default:
		return 0
	}
}

// tokens lowercases and splits s on whitespace, keeping tokens of at
// least minRunes runes.
func tokens(s string, minRunes int) []string {
	var out []string
	for _, f := range strings.Fields(strings.ToLower(s)) {
		if utf8.RuneCountInString(f) >= minRunes {
			out = append(out, f)
		}
	}
	return out
}
