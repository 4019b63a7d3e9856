// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func init() {
	backoffBase = time.Millisecond
}

func TestClaudeGateway_Generate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing x-api-key header")
		}
		var req claudeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(claudeResponse{
			Content: []claudeContent{{Type: "text", Text: `{"ok": true}`}},
		})
	}))
	defer ts.Close()

	orig := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = orig }()

	g := &ClaudeGateway{APIKey: "test-key", Model: "test-model", Client: ts.Client()}
	text, err := g.Generate(context.Background(), "hello", GenOptions{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != `{"ok": true}` {
		t.Errorf("text = %q", text)
	}
}

func TestClaudeGateway_NonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	orig := claudeAPIURL
	claudeAPIURL = ts.URL
	defer func() { claudeAPIURL = orig }()

	g := &ClaudeGateway{APIKey: "k", Model: "m", Client: ts.Client()}
	if _, err := g.Generate(context.Background(), "hello", GenOptions{}); err == nil {
		t.Fatal("expected error for HTTP 503")
	}
}

// flakyGen fails n times before succeeding.
type flakyGen struct {
	failures int32
	calls    int32
}

func (f *flakyGen) Generate(_ context.Context, _ string, _ GenOptions) (string, error) {
	n := atomic.AddInt32(&f.calls, 1)
	if n <= atomic.LoadInt32(&f.failures) {
		return "", fmt.Errorf("transient failure %d", n)
	}
	return "ok", nil
}

func TestCallWithRetry_EventualSuccess(t *testing.T) {
	g := &flakyGen{failures: 2}
	text, err := CallWithRetry(context.Background(), g, "p", GenOptions{}, 3)
	if err != nil {
		t.Fatalf("CallWithRetry: %v", err)
	}
	if text != "ok" {
		t.Errorf("text = %q", text)
	}
	if g.calls != 3 {
		t.Errorf("calls = %d, want 3", g.calls)
	}
}

func TestCallWithRetry_Exhausted(t *testing.T) {
	g := &flakyGen{failures: 100}
	_, err := CallWithRetry(context.Background(), g, "p", GenOptions{}, 2)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if g.calls != 3 {
		t.Errorf("calls = %d, want 3", g.calls)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`, false},
		{"code fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`, false},
		{"leading prose", "Here is the result:\n{\"a\": 1}", `{"a": 1}`, false},
		{"trailing prose", "{\"a\": 1}\nLet me know if you need more.", `{"a": 1}`, false},
		{"array", `[1, 2, 3]`, `[1, 2, 3]`, false},
		{"no json", "sorry, I cannot help with that", "", true},
		{"truncated", `{"a": 1`, "", true},
		{"invalid", `{a: 1}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractJSON(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
