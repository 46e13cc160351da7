package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/cognicore/phrasal/pkg/phrasal/store"
)

func TestSaveAndGetRun(t *testing.T) {
	s := New()
	defer s.Close()
	ctx := context.Background()

	run := store.Run{
		ID:        "run-1",
		CreatedAt: time.Now(),
		MinCount:  5,
		Threshold: 10.0,
		Delimiter: "_",
	}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("Run should be found")
	}
	if got.MinCount != 5 || got.Delimiter != "_" {
		t.Errorf("Unexpected run: %+v", got)
	}

	_, ok, err = s.GetRun(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("Missing run should not be found")
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Now()
	for i, id := range []string{"old", "mid", "new"} {
		err := s.SaveRun(ctx, store.Run{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
		if err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(runs))
	}
	if runs[0].ID != "new" || runs[2].ID != "old" {
		t.Errorf("Runs should be newest first, got %v", []string{runs[0].ID, runs[1].ID, runs[2].ID})
	}
}

func TestUpsertAndGetPhrases(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.SaveRun(ctx, store.Run{ID: "r", CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}

	phrases := []store.Phrase{
		{A: "new", B: "york", Joined: "new_york", Score: 6.0, Count: 5},
		{A: "york", B: "times", Joined: "york_times", Score: 3.3, Count: 3},
	}
	for _, p := range phrases {
		if err := s.UpsertPhrase(ctx, "r", p); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.GetPhrases(ctx, "r", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 phrases, got %d", len(got))
	}
	if got[0].Joined != "new_york" {
		t.Errorf("Phrases should be ordered by descending score, got %q first", got[0].Joined)
	}

	// Upsert replaces, not duplicates.
	update := store.Phrase{A: "new", B: "york", Joined: "new_york", Score: 8.0, Count: 7}
	if err := s.UpsertPhrase(ctx, "r", update); err != nil {
		t.Fatal(err)
	}
	got, err = s.GetPhrases(ctx, "r", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("Upsert should not duplicate, got %d phrases", len(got))
	}
	if got[0].Count != 7 {
		t.Errorf("Upsert should update counts, got %d", got[0].Count)
	}
}

func TestGetPhrasesLimit(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i, joined := range []string{"a_b", "c_d", "e_f"} {
		err := s.UpsertPhrase(ctx, "r", store.Phrase{Joined: joined, Score: float64(i)})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.GetPhrases(ctx, "r", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("Limit should cap results, got %d", len(got))
	}
}

func TestIDGenProducesDistinctSortableIDs(t *testing.T) {
	gen := store.NewIDGen()
	now := time.Now()

	a := gen.NewID(now)
	b := gen.NewID(now)
	if a == b {
		t.Error("IDs should be distinct")
	}
	if !(a < b) {
		t.Error("IDs from the same generator should be monotonic")
	}
}
