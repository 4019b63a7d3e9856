// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"
	"unicode"

	"github.com/pdiddy/brief-engine/internal/gateway"
	"github.com/pdiddy/brief-engine/pkg/types"
)

// keywordsPromptTmpl requests six keyword groups tied to the facets. The
// prompt explicitly forbids standalone generic terms; a response that
// ignores this fails validation and triggers the deterministic fallback.
var keywordsPromptTmpl = template.Must(template.New("keywords").Parse(`You are a market research assistant. Generate search keywords for researching the following project.

Topic: {{.Topic}}
Core service: {{.Facets.CoreService}}
Platform: {{.Facets.Platform}}
Genre: {{.Facets.Genre}}
Main features: {{range .Facets.MainFeatures}}{{.}}; {{end}}
Target users: {{.Facets.TargetUsers}}

Respond with a JSON object containing these fields, each an array of strings:
- "english": 3-5 specific English search terms for the core service (e.g. "video conferencing", not just "video")
- "korean": 3-5 Korean search terms
- "related": 3-5 related-domain terms
- "synonyms": 2-4 synonym phrases
- "technical": 2-4 technical/implementation terms
- "industry": 2-4 industry/market terms

Every term must be specific to the core service, platform, and genre above.
Overly generic single words such as "AI", "app", "web", "service", or
"platform" on their own are forbidden. Do not include any text outside
the JSON object.
`))

// genericTerms are standalone terms too broad to query a knowledge source
// with. An english group consisting only of these fails validation.
var genericTerms = map[string]bool{
	"ai":          true,
	"app":         true,
	"apps":        true,
	"web":         true,
	"it":          true,
	"tech":        true,
	"software":    true,
	"service":     true,
	"services":    true,
	"platform":    true,
	"system":      true,
	"technology":  true,
	"online":      true,
	"digital":     true,
	"application": true,
}

// errInvalidKeywords marks a gateway response that parsed but failed the
// shape or specificity checks. Keywords recovers it with the fallback set.
type errInvalidKeywords struct {
	reason string
}

func (e errInvalidKeywords) Error() string {
	return "invalid keyword set: " + e.reason
}

// Keywords expands a topic and its facets into six keyword groups via one
// gateway call. A transport failure, parse failure, or validation failure
// yields the deterministic fallback set; a malformed KeywordSet never
// escapes to the dispatcher.
func Keywords(ctx context.Context, gen gateway.Generator, topic string, facets types.TopicFacets, cfg types.GatewayConfig, w io.Writer) types.KeywordSet {
	set, err := expandKeywords(ctx, gen, topic, facets, cfg)
	if err != nil {
		fmt.Fprintf(w, "warning: keyword expansion failed, using fallback set: %v\n", err)
		return FallbackKeywords(topic)
	}
	return set
}

// expandKeywords performs the gateway call and two-tier validation.
func expandKeywords(ctx context.Context, gen gateway.Generator, topic string, facets types.TopicFacets, cfg types.GatewayConfig) (types.KeywordSet, error) {
	var buf bytes.Buffer
	data := struct {
		Topic  string
		Facets types.TopicFacets
	}{Topic: topic, Facets: facets}
	if err := keywordsPromptTmpl.Execute(&buf, data); err != nil {
		return types.KeywordSet{}, fmt.Errorf("rendering keyword prompt: %w", err)
	}

	text, err := gateway.CallWithRetry(ctx, gen, buf.String(), gateway.GenOptions{Temperature: 0.4}, cfg.MaxRetries)
	if err != nil {
		return types.KeywordSet{}, fmt.Errorf("keyword generation: %w", err)
	}

	raw, err := gateway.ExtractJSON(text)
	if err != nil {
		return types.KeywordSet{}, fmt.Errorf("keyword response: %w", err)
	}

	var set types.KeywordSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return types.KeywordSet{}, fmt.Errorf("parsing keyword response: %w", err)
	}

	set = types.KeywordSet{
		English:   trimAll(set.English),
		Korean:    trimAll(set.Korean),
		Related:   trimAll(set.Related),
		Synonyms:  trimAll(set.Synonyms),
		Technical: trimAll(set.Technical),
		Industry:  trimAll(set.Industry),
	}

	if err := validateKeywords(set); err != nil {
		return types.KeywordSet{}, err
	}
	return set, nil
}

// validateKeywords enforces the minimum shape: non-empty english, korean,
// and related groups, with at least one specific english term.
func validateKeywords(set types.KeywordSet) error {
	if len(set.English) == 0 {
		return errInvalidKeywords{reason: "empty english group"}
	}
	if len(set.Korean) == 0 {
		return errInvalidKeywords{reason: "empty korean group"}
	}
	if len(set.Related) == 0 {
		return errInvalidKeywords{reason: "empty related group"}
	}

	for _, term := range set.English {
		if !genericTerms[strings.ToLower(strings.TrimSpace(term))] {
			return nil
		}
	}
	return errInvalidKeywords{reason: "english group contains only generic terms"}
}

// fallbackGeneric terms supplement the stripped topic when the gateway
// cannot produce a keyword set.
var fallbackGeneric = struct {
	related, synonyms, technical, industry []string
}{
	related:   []string{"online service", "digital platform"},
	synonyms:  []string{"web application"},
	technical: []string{"software architecture", "web technology"},
	industry:  []string{"market analysis", "industry trends"},
}

// FallbackKeywords builds the deterministic keyword set used when the
// gateway call fails or returns an invalid set. The english group is the
// topic stripped to its Latin characters; the korean group keeps the raw
// topic so Hangul topics still query the encyclopedia in Korean.
func FallbackKeywords(topic string) types.KeywordSet {
	latin := stripNonLatin(topic)
	english := []string{}
	if latin != "" {
		english = append(english, latin)
	}
	english = append(english, "web service", "online platform")

	return types.KeywordSet{
		English:   english,
		Korean:    []string{topic},
		Related:   fallbackGeneric.related,
		Synonyms:  fallbackGeneric.synonyms,
		Technical: fallbackGeneric.technical,
		Industry:  fallbackGeneric.industry,
	}
}

// stripNonLatin keeps Latin letters, digits, and spaces, collapsing runs
// of whitespace.
func stripNonLatin(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
