package counter

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cognicore/phrasal/pkg/phrasal/internalerr"
)

func TestSketchConfigValidation(t *testing.T) {
	cases := []struct {
		name           string
		delta, epsilon float64
	}{
		{"zero delta", 0, 0.1},
		{"delta of one", 1, 0.1},
		{"negative delta", -0.5, 0.1},
		{"zero epsilon", 0.1, 0},
		{"epsilon of one", 0.1, 1},
		{"epsilon above one", 0.1, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSketch(tc.delta, tc.epsilon, 1)
			if err == nil {
				t.Fatalf("NewSketch(%v, %v) should fail", tc.delta, tc.epsilon)
			}
			if !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSketchDimensions(t *testing.T) {
	s, err := NewSketch(0.01, 0.001, 1)
	if err != nil {
		t.Fatal(err)
	}

	// w = ceil(2/epsilon), d = ceil(ln(1/delta))
	if s.Width() != 2000 {
		t.Errorf("Expected width 2000, got %d", s.Width())
	}
	if s.Depth() != 5 {
		t.Errorf("Expected depth 5, got %d", s.Depth())
	}
}

func TestSketchNeverUnderestimates(t *testing.T) {
	// A deliberately tiny sketch so collisions are certain.
	s, err := NewSketch(0.4, 0.5, 42)
	if err != nil {
		t.Fatal(err)
	}

	truth := make(map[string]int64)
	for i := 0; i < 200; i++ {
		key := fmt.Sprintf("token-%d", i%37)
		amount := int64(1 + i%3)
		s.Increment(key, amount)
		truth[key] += amount
	}

	for key, want := range truth {
		got := s.Get(key)
		if got < want {
			t.Errorf("Key %q: estimate %d below true count %d", key, got, want)
		}
		if got < 0 {
			t.Errorf("Key %q: negative estimate %d", key, got)
		}
	}
}

func TestSketchUnseenKeyEstimateNonNegative(t *testing.T) {
	s, err := NewSketch(0.1, 0.01, 7)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Get("never-seen"); got < 0 {
		t.Errorf("Unseen key estimate should be >= 0, got %d", got)
	}
}

func TestSketchWiderIsTighter(t *testing.T) {
	// The same workload through a cramped sketch and a roomy one: the
	// total overestimate of the roomy sketch must not exceed the
	// cramped one's.
	narrow, err := NewSketch(0.4, 0.5, 3) // 1x4
	if err != nil {
		t.Fatal(err)
	}
	wide, err := NewSketch(0.001, 0.001, 3) // 7x2000
	if err != nil {
		t.Fatal(err)
	}

	keys := make([]string, 200)
	for i := range keys {
		keys[i] = fmt.Sprintf("token-%d", i)
		narrow.Increment(keys[i], 1)
		wide.Increment(keys[i], 1)
	}

	var narrowTotal, wideTotal int64
	for _, key := range keys {
		narrowTotal += narrow.Get(key)
		wideTotal += wide.Get(key)
	}
	if wideTotal > narrowTotal {
		t.Errorf("Wider sketch overestimates more: wide total %d, narrow total %d",
			wideTotal, narrowTotal)
	}
	if wideTotal < 200 {
		t.Errorf("Wide sketch underestimates: total %d below true 200", wideTotal)
	}
}

func TestSketchLenAndContains(t *testing.T) {
	s, err := NewSketch(0.1, 0.1, 1)
	if err != nil {
		t.Fatal(err)
	}

	s.Increment("a", 1)
	s.Increment("b", 1)

	// The sketch cannot enumerate keys; Len is a fixed sentinel.
	if s.Len() != 0 {
		t.Errorf("Sketch Len should be 0, got %d", s.Len())
	}
	if !s.Contains("a") || !s.Contains("never-seen") {
		t.Error("Sketch should treat every key as present")
	}
}

func TestSketchMergeAddsCounts(t *testing.T) {
	s, err := NewSketch(0.1, 0.01, 9)
	if err != nil {
		t.Fatal(err)
	}
	other := s.EmptyClone()

	s.Increment("new", 3)
	other.Increment("new", 4)
	other.Increment("york", 2)

	if err := s.Merge(other); err != nil {
		t.Fatalf("Merge of compatible sketches failed: %v", err)
	}

	if got := s.Get("new"); got < 7 {
		t.Errorf("Merged estimate for 'new' should be >= 7, got %d", got)
	}
	if got := s.Get("york"); got < 2 {
		t.Errorf("Merged estimate for 'york' should be >= 2, got %d", got)
	}
}

func TestSketchMergeRejectsDifferentSeeds(t *testing.T) {
	a, err := NewSketch(0.1, 0.1, 1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSketch(0.1, 0.1, 2)
	if err != nil {
		t.Fatal(err)
	}

	err = a.Merge(b)
	if err == nil {
		t.Fatal("Merging sketches with different hash coefficients should fail")
	}
	if !errors.Is(err, internalerr.ErrIncompatibleSketch) {
		t.Errorf("Expected ErrIncompatibleSketch, got %v", err)
	}
}

func TestSketchMergeRejectsDifferentDimensions(t *testing.T) {
	a, err := NewSketch(0.1, 0.1, 1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSketch(0.1, 0.01, 1)
	if err != nil {
		t.Fatal(err)
	}

	if err := a.Merge(b); !errors.Is(err, internalerr.ErrIncompatibleSketch) {
		t.Errorf("Expected ErrIncompatibleSketch, got %v", err)
	}
}

func TestSketchMergeRejectsExact(t *testing.T) {
	s, err := NewSketch(0.1, 0.1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Merge(NewExact()); err == nil {
		t.Error("Merging an exact counter into a sketch should fail")
	}
}

func TestSketchEmptyCloneIsZeroedAndCompatible(t *testing.T) {
	s, err := NewSketch(0.1, 0.05, 11)
	if err != nil {
		t.Fatal(err)
	}
	s.Increment("a", 5)

	clone := s.EmptyClone()
	if got := clone.Get("a"); got != 0 {
		t.Errorf("Clone should start empty, got estimate %d", got)
	}
	if err := s.Merge(clone); err != nil {
		t.Errorf("Clone should be merge-compatible: %v", err)
	}
}

func TestSketchPreservesRelativeRanking(t *testing.T) {
	// Fed the same stream, a generously sized sketch must rank a
	// genuinely frequent key above a genuinely rare one.
	s, err := NewSketch(0.01, 0.001, 5)
	if err != nil {
		t.Fatal(err)
	}
	exact := NewExact()

	for i := 0; i < 100; i++ {
		s.Increment("frequent", 1)
		exact.Increment("frequent", 1)
		if i%10 == 0 {
			s.Increment("rare", 1)
			exact.Increment("rare", 1)
		}
	}

	if exact.Get("frequent") <= exact.Get("rare") {
		t.Fatal("Test workload is broken")
	}
	if s.Get("frequent") < s.Get("rare") {
		t.Errorf("Sketch ranks 'rare' (%d) above 'frequent' (%d)",
			s.Get("rare"), s.Get("frequent"))
	}
}
