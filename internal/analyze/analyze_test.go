// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/pdiddy/brief-engine/internal/gateway"
	"github.com/pdiddy/brief-engine/pkg/types"
)

// canned returns a generator that always answers with the given text.
type canned struct {
	text string
	err  error
}

func (c canned) Generate(_ context.Context, _ string, _ gateway.GenOptions) (string, error) {
	return c.text, c.err
}

func testGatewayCfg() types.GatewayConfig {
	return types.GatewayConfig{Model: "test-model", MaxRetries: 1}
}

// --- Facets ---

func TestFacets_ParsesGatewayResponse(t *testing.T) {
	gen := canned{text: `{
		"core_service": "실시간 영상 통화",
		"platform": "웹/모바일 앱",
		"genre": "커뮤니케이션",
		"main_features": ["1:1 영상통화", "그룹 화상회의", "화면 공유"],
		"target_users": "원격 근무자 및 일반 사용자"
	}`}

	f := Facets(context.Background(), gen, "실시간 화상채팅 서비스", testGatewayCfg(), io.Discard)

	if f.CoreService != "실시간 영상 통화" {
		t.Errorf("CoreService = %q", f.CoreService)
	}
	if f.Platform != "웹/모바일 앱" {
		t.Errorf("Platform = %q", f.Platform)
	}
	if len(f.MainFeatures) != 3 {
		t.Errorf("MainFeatures = %v", f.MainFeatures)
	}
}

func TestFacets_GatewayErrorDegrades(t *testing.T) {
	gen := canned{err: fmt.Errorf("connection refused")}

	f := Facets(context.Background(), gen, "AI 협업 도구", testGatewayCfg(), io.Discard)

	if f.CoreService != "AI 협업 도구" {
		t.Errorf("CoreService = %q, want raw topic", f.CoreService)
	}
	if f.Platform != "web service" || f.Genre != "general" {
		t.Errorf("degraded platform/genre = %q/%q", f.Platform, f.Genre)
	}
	if len(f.MainFeatures) != 1 || f.MainFeatures[0] != "AI 협업 도구" {
		t.Errorf("MainFeatures = %v", f.MainFeatures)
	}
	if f.TargetUsers != "general users" {
		t.Errorf("TargetUsers = %q", f.TargetUsers)
	}
}

func TestFacets_UnparsableResponseDegrades(t *testing.T) {
	gen := canned{text: "I'm sorry, I can't produce JSON today."}

	f := Facets(context.Background(), gen, "my topic", testGatewayCfg(), io.Discard)

	if f.CoreService != "my topic" {
		t.Errorf("CoreService = %q, want raw topic", f.CoreService)
	}
}

func TestFacets_BlankFieldsFilledFromFallback(t *testing.T) {
	gen := canned{text: `{"core_service": "team chat", "platform": "", "genre": "", "main_features": [], "target_users": ""}`}

	f := Facets(context.Background(), gen, "team chat app", testGatewayCfg(), io.Discard)

	if f.CoreService != "team chat" {
		t.Errorf("CoreService = %q", f.CoreService)
	}
	if f.Platform != "web service" {
		t.Errorf("Platform = %q, want fallback", f.Platform)
	}
	if len(f.MainFeatures) == 0 {
		t.Error("MainFeatures should be filled from fallback")
	}
}

// --- Keywords ---

func videoChatFacets() types.TopicFacets {
	return types.TopicFacets{
		CoreService:  "실시간 영상 통화",
		Platform:     "웹/모바일 앱",
		Genre:        "커뮤니케이션",
		MainFeatures: []string{"1:1 영상통화", "그룹 화상회의", "화면 공유"},
		TargetUsers:  "원격 근무자 및 일반 사용자",
	}
}

func TestKeywords_AcceptsSpecificTerms(t *testing.T) {
	gen := canned{text: `{
		"english": ["video conferencing", "video call platform"],
		"korean": ["화상회의", "영상통화"],
		"related": ["remote work", "webrtc"],
		"synonyms": ["video chat"],
		"technical": ["webrtc", "media server"],
		"industry": ["unified communications"]
	}`}

	set := Keywords(context.Background(), gen, "실시간 화상채팅 서비스", videoChatFacets(), testGatewayCfg(), io.Discard)

	found := false
	for _, term := range set.English {
		if term == "video conferencing" || term == "video call platform" {
			found = true
		}
	}
	if !found {
		t.Errorf("english group %v missing specific video-call terms", set.English)
	}
}

func TestKeywords_GenericOnlyEnglishFailsValidation(t *testing.T) {
	gen := canned{text: `{
		"english": ["AI"],
		"korean": ["화상회의"],
		"related": ["remote work"],
		"synonyms": [],
		"technical": [],
		"industry": []
	}`}

	set := Keywords(context.Background(), gen, "실시간 화상채팅 서비스", videoChatFacets(), testGatewayCfg(), io.Discard)

	// The generic-only response must be replaced by the fallback set.
	for _, term := range set.English {
		if strings.EqualFold(term, "AI") {
			t.Errorf("generic-only gateway set leaked through: %v", set.English)
		}
	}
	if len(set.Korean) == 0 || len(set.Related) == 0 {
		t.Error("fallback set must populate korean and related groups")
	}
}

func TestKeywords_MissingGroupFailsValidation(t *testing.T) {
	gen := canned{text: `{
		"english": ["video conferencing"],
		"korean": [],
		"related": ["remote work"]
	}`}

	set := Keywords(context.Background(), gen, "video chat service", videoChatFacets(), testGatewayCfg(), io.Discard)

	if len(set.Korean) == 0 {
		t.Error("fallback korean group must be non-empty")
	}
	if set.Korean[0] != "video chat service" {
		t.Errorf("fallback korean group = %v, want raw topic", set.Korean)
	}
}

func TestKeywords_GatewayFailureUsesFallback(t *testing.T) {
	gen := canned{err: fmt.Errorf("timeout")}

	set := Keywords(context.Background(), gen, "실시간 AI 협업 tool 서비스", videoChatFacets(), testGatewayCfg(), io.Discard)

	if len(set.English) == 0 {
		t.Fatal("fallback english group empty")
	}
	if set.English[0] != "AI tool" {
		t.Errorf("stripped topic = %q, want %q", set.English[0], "AI tool")
	}
}

func TestFallbackKeywords_HangulOnlyTopic(t *testing.T) {
	set := FallbackKeywords("실시간 화상채팅")

	// No Latin characters to keep: english group falls back to generics.
	if set.English[0] != "web service" {
		t.Errorf("English = %v", set.English)
	}
	if set.Korean[0] != "실시간 화상채팅" {
		t.Errorf("Korean = %v", set.Korean)
	}
}

func TestStripNonLatin(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"실시간 video chat 서비스", "video chat"},
		{"all ascii words", "all ascii words"},
		{"한글만", ""},
		{"a  b\tc", "a b c"},
	}
	for _, tt := range tests {
		if got := stripNonLatin(tt.in); got != tt.want {
			t.Errorf("stripNonLatin(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateKeywords(t *testing.T) {
	valid := types.KeywordSet{
		English: []string{"video conferencing"},
		Korean:  []string{"화상회의"},
		Related: []string{"remote work"},
	}
	if err := validateKeywords(valid); err != nil {
		t.Errorf("validateKeywords(valid) = %v", err)
	}

	genericOnly := valid
	genericOnly.English = []string{"AI", "app", "platform"}
	if err := validateKeywords(genericOnly); err == nil {
		t.Error("generic-only english group should fail validation")
	}
}
