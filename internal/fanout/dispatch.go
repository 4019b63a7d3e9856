// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fanout issues one query per keyword against the knowledge-source
// adapters, concurrently, and gathers partial successes. A failed or slow
// call never cancels or delays another; per-call errors are recorded as
// soft failures and the round always completes.
// See docs/ARCHITECTURE § Fan-Out.
package fanout

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pdiddy/brief-engine/pkg/types"
)

// Source looks up a single keyword against one knowledge source. Each
// adapter (Wikipedia, OpenAlex) implements this interface.
type Source interface {
	Name() string
	Lookup(ctx context.Context, keyword string, cfg types.DispatchConfig) (types.Candidate, error)
}

// Output holds the gathered candidates and per-source bookkeeping from
// one fan-out round.
type Output struct {
	// Candidates are the successful results, in no particular order.
	Candidates []types.Candidate

	// Attempts counts adapter calls issued per source name.
	Attempts map[string]int

	// Errors records soft per-call failures per source name.
	Errors map[string][]string
}

// callResult is one settled adapter call.
type callResult struct {
	source    string
	keyword   string
	candidate types.Candidate
	err       error
}

// Dispatch builds bounded query lists from the keyword set and issues one
// adapter call per (source, keyword) pair concurrently. All calls run to
// completion independently; the flattened successes are returned after
// every call settles. Dispatch never fails on a per-call error.
func Dispatch(ctx context.Context, set types.KeywordSet, encyclopedia, academic Source, includeAcademic bool, cfg types.DispatchConfig, w io.Writer) Output {
	type job struct {
		source  Source
		keyword string
	}

	var jobs []job
	for _, kw := range EncyclopediaTerms(set, cfg.EncyclopediaTerms) {
		jobs = append(jobs, job{source: encyclopedia, keyword: kw})
	}
	if includeAcademic {
		for _, kw := range AcademicTerms(set, cfg.AcademicTerms) {
			jobs = append(jobs, job{source: academic, keyword: kw})
		}
	}

	out := Output{
		Attempts: make(map[string]int),
		Errors:   make(map[string][]string),
	}
	if len(jobs) == 0 {
		return out
	}

	ch := make(chan callResult, len(jobs))
	var wg sync.WaitGroup

	for _, j := range jobs {
		out.Attempts[j.source.Name()]++
		wg.Add(1)
		go func(j job) {
			defer wg.Done()

			callCtx := ctx
			if cfg.CallTimeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, cfg.CallTimeout)
				defer cancel()
			}

			c, err := j.source.Lookup(callCtx, j.keyword, cfg)
			ch <- callResult{source: j.source.Name(), keyword: j.keyword, candidate: c, err: err}
		}(j)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	// Aggregation runs single-threaded after each call settles; no result
	// slot is shared between goroutines.
	for r := range ch {
		if r.err != nil {
			msg := fmt.Sprintf("%s %q: %v", r.source, r.keyword, r.err)
			out.Errors[r.source] = append(out.Errors[r.source], msg)
			fmt.Fprintf(w, "warning: lookup failed: %s\n", msg)
			continue
		}
		out.Candidates = append(out.Candidates, r.candidate)
	}

	return out
}

// EncyclopediaTerms picks up to max keywords for the encyclopedia source,
// mixing the english, related, synonym, and technical groups.
func EncyclopediaTerms(set types.KeywordSet, max int) []string {
	if max <= 0 {
		max = 10
	}
	var terms []string
	terms = append(terms, take(set.English, 4)...)
	terms = append(terms, take(set.Related, 2)...)
	terms = append(terms, take(set.Synonyms, 2)...)
	terms = append(terms, take(set.Technical, 2)...)
	return capTerms(terms, max)
}

// AcademicTerms picks up to max keywords for the academic corpus, mixing
// the english, related, technical, and industry groups.
func AcademicTerms(set types.KeywordSet, max int) []string {
	if max <= 0 {
		max = 11
	}
	var terms []string
	terms = append(terms, take(set.English, 4)...)
	terms = append(terms, take(set.Related, 3)...)
	terms = append(terms, take(set.Technical, 2)...)
	terms = append(terms, take(set.Industry, 2)...)
	return capTerms(terms, max)
}

func take(ss []string, n int) []string {
	if len(ss) < n {
		n = len(ss)
	}
	return ss[:n]
}

// capTerms removes duplicate terms (case-insensitive) and truncates to max.
func capTerms(terms []string, max int) []string {
	seen := make(map[string]bool, len(terms))
	var out []string
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
		if len(out) == max {
			break
		}
	}
	return out
}
