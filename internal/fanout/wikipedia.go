// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fanout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode"

	"github.com/pdiddy/brief-engine/pkg/types"
)

// wikipediaAPIBase overrides the per-language Wikipedia REST host when
// non-empty. Tests point it at an httptest server.
var wikipediaAPIBase = ""

// WikipediaSource queries the Wikipedia REST summary endpoint.
type WikipediaSource struct {
	Client *http.Client
}

// Name returns the source identifier.
func (s *WikipediaSource) Name() string { return "wikipedia" }

// Lookup fetches the article summary for a keyword. The query language
// follows the script of the keyword: Hangul terms go to ko.wikipedia,
// everything else to en.wikipedia. A 404 is a successful not-found
// result, not an error.
func (s *WikipediaSource) Lookup(ctx context.Context, keyword string, cfg types.DispatchConfig) (types.Candidate, error) {
	lang := languageFor(keyword)
	base := wikipediaAPIBase
	if base == "" {
		base = fmt.Sprintf("https://%s.wikipedia.org/api/rest_v1", lang)
	}

	reqURL := base + "/page/summary/" + url.PathEscape(strings.ReplaceAll(keyword, " ", "_"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.Candidate{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return types.Candidate{}, fmt.Errorf("Wikipedia API request: %w", err)
	}
	defer resp.Body.Close()

	candidate := types.Candidate{
		Source:   s.Name(),
		Keyword:  keyword,
		Language: lang,
	}

	if resp.StatusCode == http.StatusNotFound {
		candidate.Page = &types.WikiPage{Found: false}
		return candidate, nil
	}
	if resp.StatusCode != http.StatusOK {
		return types.Candidate{}, fmt.Errorf("Wikipedia API returned HTTP %d", resp.StatusCode)
	}

	var ws wikiSummary
	if err := json.NewDecoder(resp.Body).Decode(&ws); err != nil {
		return types.Candidate{}, fmt.Errorf("parsing Wikipedia response: %w", err)
	}

	// Disambiguation pages have no usable summary; report not-found so
	// the filter never sees them.
	if ws.Type == "disambiguation" {
		candidate.Page = &types.WikiPage{Found: false}
		return candidate, nil
	}

	candidate.Page = &types.WikiPage{
		Found:   ws.Title != "",
		Title:   ws.Title,
		Summary: ws.Extract,
	}
	return candidate, nil
}

// languageFor returns "ko" for keywords containing Hangul, "en" otherwise.
func languageFor(keyword string) string {
	for _, r := range keyword {
		if unicode.Is(unicode.Hangul, r) {
			return "ko"
		}
	}
	return "en"
}

// wikiSummary is the subset of the REST page summary payload we consume.
type wikiSummary struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Extract string `json:"extract"`
}
