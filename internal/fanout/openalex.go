// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fanout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/pdiddy/brief-engine/internal/httputil"
	"github.com/pdiddy/brief-engine/pkg/types"
)

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

// OpenAlexSource queries the OpenAlex API. OpenAlex rate-limits
// aggressively, so lookups go through the 429 retry helper.
type OpenAlexSource struct {
	Client *http.Client
}

// Name returns the source identifier.
func (s *OpenAlexSource) Name() string { return "openalex" }

// Lookup searches OpenAlex works for a keyword and returns one candidate
// carrying the matched papers.
func (s *OpenAlexSource) Lookup(ctx context.Context, keyword string, cfg types.DispatchConfig) (types.Candidate, error) {
	perPage := cfg.PapersPerQuery
	if perPage <= 0 {
		perPage = 10
	}

	params := url.Values{
		"search":   {keyword},
		"per_page": {fmt.Sprintf("%d", perPage)},
		"page":     {"1"},
	}
	if cfg.OpenAlexEmail != "" {
		params.Set("mailto", cfg.OpenAlexEmail)
	}

	reqURL := openAlexSearchBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return types.Candidate{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.Client, req, 0)
	if err != nil {
		return types.Candidate{}, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.Candidate{}, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return types.Candidate{}, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	candidate := types.Candidate{
		Source:   s.Name(),
		Keyword:  keyword,
		Language: "en",
	}

	for _, work := range oar.Results {
		p := types.Paper{
			ID:            strings.TrimPrefix(work.ID, "https://openalex.org/"),
			Title:         work.Title,
			Abstract:      reconstructAbstract(work.AbstractInvertedIndex),
			Year:          work.PublicationYear,
			CitationCount: work.CitedByCount,
		}
		// Strip the resolver prefix to get the bare DOI.
		if work.DOI != "" {
			p.DOI = strings.TrimPrefix(work.DOI, "https://doi.org/")
		}
		for _, authorship := range work.Authorships {
			if authorship.Author.DisplayName != "" {
				p.Authors = append(p.Authors, authorship.Author.DisplayName)
			}
		}
		for _, c := range work.Concepts {
			if c.DisplayName != "" {
				p.Concepts = append(p.Concepts, c.DisplayName)
			}
		}
		candidate.Papers = append(candidate.Papers, p)
	}

	return candidate, nil
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to a list of positions
// where that word appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].pos < pairs[j].pos
	})

	words := make([]string, len(pairs))
	for i, p := range pairs {
		words[i] = p.word
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationYear       int                  `json:"publication_year"`
	CitedByCount          int                  `json:"cited_by_count"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	Concepts              []openAlexConcept    `json:"concepts"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexConcept struct {
	DisplayName string  `json:"display_name"`
	Score       float64 `json:"score"`
}
