// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze decomposes a free-text topic into structured facets and
// expands it into keyword groups through the text-generation gateway.
// Both operations degrade deterministically: a gateway failure yields a
// usable fallback value, never an error.
package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/pdiddy/brief-engine/internal/gateway"
	"github.com/pdiddy/brief-engine/pkg/types"
)

// facetsPromptTmpl constrains the gateway to a five-field JSON response.
var facetsPromptTmpl = template.Must(template.New("facets").Parse(`You are a product analyst. Decompose the following project topic into structured facets.

Topic: {{.Topic}}

Respond with a JSON object containing exactly these fields:
- "core_service": the essential service in one short phrase, in the topic's language
- "platform": the delivery platform (e.g. "web service", "mobile app", "web/mobile app")
- "genre": the product category (e.g. "communication", "productivity", "commerce")
- "main_features": an array of 3-5 principal feature phrases
- "target_users": the intended audience in one short phrase

Do not include any text outside the JSON object.
`))

// facetsResponse is the expected gateway payload shape.
type facetsResponse struct {
	CoreService  string   `json:"core_service"`
	Platform     string   `json:"platform"`
	Genre        string   `json:"genre"`
	MainFeatures []string `json:"main_features"`
	TargetUsers  string   `json:"target_users"`
}

// Facets turns a raw topic into a TopicFacets record via one gateway call.
// Any transport or parse failure yields the degraded record built from the
// raw topic; the caller always receives usable facets.
func Facets(ctx context.Context, gen gateway.Generator, topic string, cfg types.GatewayConfig, w io.Writer) types.TopicFacets {
	var buf bytes.Buffer
	if err := facetsPromptTmpl.Execute(&buf, struct{ Topic string }{Topic: topic}); err != nil {
		fmt.Fprintf(w, "warning: facet prompt render failed: %v\n", err)
		return degradedFacets(topic)
	}

	text, err := gateway.CallWithRetry(ctx, gen, buf.String(), gateway.GenOptions{Temperature: 0.2}, cfg.MaxRetries)
	if err != nil {
		fmt.Fprintf(w, "warning: facet analysis failed, using degraded facets: %v\n", err)
		return degradedFacets(topic)
	}

	raw, err := gateway.ExtractJSON(text)
	if err != nil {
		fmt.Fprintf(w, "warning: facet response unparsable, using degraded facets: %v\n", err)
		return degradedFacets(topic)
	}

	var fr facetsResponse
	if err := json.Unmarshal([]byte(raw), &fr); err != nil {
		fmt.Fprintf(w, "warning: facet response malformed, using degraded facets: %v\n", err)
		return degradedFacets(topic)
	}

	facets := types.TopicFacets{
		CoreService:  strings.TrimSpace(fr.CoreService),
		Platform:     strings.TrimSpace(fr.Platform),
		Genre:        strings.TrimSpace(fr.Genre),
		MainFeatures: trimAll(fr.MainFeatures),
		TargetUsers:  strings.TrimSpace(fr.TargetUsers),
	}

	// Fill any field the gateway left blank from the degraded record.
	deg := degradedFacets(topic)
	if facets.CoreService == "" {
		facets.CoreService = deg.CoreService
	}
	if facets.Platform == "" {
		facets.Platform = deg.Platform
	}
	if facets.Genre == "" {
		facets.Genre = deg.Genre
	}
	if len(facets.MainFeatures) == 0 {
		facets.MainFeatures = deg.MainFeatures
	}
	if facets.TargetUsers == "" {
		facets.TargetUsers = deg.TargetUsers
	}
	return facets
}

// degradedFacets is the deterministic fallback when the gateway cannot
// produce usable facets.
func degradedFacets(topic string) types.TopicFacets {
	return types.TopicFacets{
		CoreService:  topic,
		Platform:     "web service",
		Genre:        "general",
		MainFeatures: []string{topic},
		TargetUsers:  "general users",
	}
}

func trimAll(ss []string) []string {
	var out []string
	for _, s := range ss {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
