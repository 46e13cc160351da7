// Package memstore is an in-memory implementation of store.Store for tests.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cognicore/phrasal/pkg/phrasal/store"
)

// Store keeps runs and phrases in maps, guarded by a mutex.
type Store struct {
	mu      sync.RWMutex
	runs    map[string]store.Run
	phrases map[string]map[string]store.Phrase // run id → joined → phrase
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		runs:    make(map[string]store.Run),
		phrases: make(map[string]map[string]store.Phrase),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun inserts or updates a run.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		return nil
	}
	s.runs[r.ID] = r
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	return r, ok, nil
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]store.Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})
	return runs, nil
}

// UpsertPhrase inserts or updates a phrase within a run.
func (s *Store) UpsertPhrase(ctx context.Context, runID string, p store.Phrase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if runID == "" || p.Joined == "" {
		return nil
	}
	if s.phrases[runID] == nil {
		s.phrases[runID] = make(map[string]store.Phrase)
	}
	s.phrases[runID][p.Joined] = p
	return nil
}

// GetPhrases returns a run's phrases ordered by descending score.
func (s *Store) GetPhrases(ctx context.Context, runID string, limit int) ([]store.Phrase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	phrases := make([]store.Phrase, 0, len(s.phrases[runID]))
	for _, p := range s.phrases[runID] {
		phrases = append(phrases, p)
	}
	sort.Slice(phrases, func(i, j int) bool {
		return phrases[i].Score > phrases[j].Score
	})
	if len(phrases) > limit {
		phrases = phrases[:limit]
	}
	return phrases, nil
}
