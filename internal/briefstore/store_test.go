// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package briefstore

import (
	"context"
	"testing"
	"time"

	"github.com/pdiddy/brief-engine/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{Dir: t.TempDir(), MaxList: 20})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleBrief(topic string, generatedAt time.Time) *types.Brief {
	return &types.Brief{
		Topic:       topic,
		GeneratedAt: generatedAt,
		Narrative:   types.Narrative{Summary: "summary of " + topic, Confidence: "normal"},
		Stats: types.Statistics{
			Market: types.MarketContext{TotalPapers: 42, Size: "medium"},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	brief := sampleBrief("video conferencing", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	id, err := s.Save(ctx, brief)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(id) != 12 {
		t.Errorf("expected 12-character id, got %q", id)
	}

	loaded, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if loaded.ID != id {
		t.Errorf("stored ID = %q, want %q", loaded.ID, id)
	}
	if loaded.Topic != brief.Topic {
		t.Errorf("topic = %q, want %q", loaded.Topic, brief.Topic)
	}
	if loaded.Narrative.Confidence != "normal" {
		t.Errorf("confidence = %q, want normal", loaded.Narrative.Confidence)
	}
	if loaded.Stats.Market.TotalPapers != 42 {
		t.Errorf("total papers = %d, want 42", loaded.Stats.Market.TotalPapers)
	}
}

func TestSaveIsIdempotentForSameTopicAndTime(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	id1, err := s.Save(ctx, sampleBrief("remote work tools", at))
	if err != nil {
		t.Fatalf("first Save: %v", err)
	}
	id2, err := s.Save(ctx, sampleBrief("remote work tools", at))
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if id1 != id2 {
		t.Errorf("ids differ for identical brief: %q vs %q", id1, id2)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected a single row after duplicate save, got %d", len(list))
	}
}

func TestGetUnknownID(t *testing.T) {
	s := testStore(t)
	if _, err := s.Get(context.Background(), "nope"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestListNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	topics := []string{"first topic", "second topic", "third topic"}
	for i, topic := range topics {
		if _, err := s.Save(ctx, sampleBrief(topic, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Save %q: %v", topic, err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(list))
	}
	if list[0].Topic != "third topic" || list[2].Topic != "first topic" {
		t.Errorf("unexpected ordering: %q, %q, %q", list[0].Topic, list[1].Topic, list[2].Topic)
	}
}

func TestListRespectsMaxList(t *testing.T) {
	s, err := NewStore(types.StoreConfig{Dir: t.TempDir(), MaxList: 2})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		brief := sampleBrief("topic", base.Add(time.Duration(i)*time.Minute))
		brief.Topic = brief.Topic + string(rune('a'+i))
		if _, err := s.Save(ctx, brief); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 summaries with MaxList=2, got %d", len(list))
	}
}
