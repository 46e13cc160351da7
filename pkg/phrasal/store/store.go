// Package store persists discovered phrases. A Run groups the phrases
// exported from one trained model; the model's counters themselves are
// never persisted.
package store

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// Store is the interface for persisting and querying exported phrases.
type Store interface {
	Close() error

	// Runs
	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	ListRuns(ctx context.Context) ([]Run, error)

	// Phrases
	UpsertPhrase(ctx context.Context, runID string, p Phrase) error
	GetPhrases(ctx context.Context, runID string, limit int) ([]Phrase, error)
}

// Run records one phrase-export pass and its model configuration.
type Run struct {
	ID          string
	CreatedAt   time.Time
	MinCount    int64
	Threshold   float64
	Delimiter   string
	Approximate bool
}

// Phrase is a persisted collocation.
type Phrase struct {
	A      string
	B      string
	Joined string
	Score  float64
	Count  int64
}

// IDGen generates ULID run identifiers.
type IDGen struct {
	entropy *ulid.MonotonicEntropy
}

// NewIDGen creates a ULID generator with monotonic entropy.
func NewIDGen() *IDGen {
	return &IDGen{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// NewID returns a fresh ULID for the given timestamp.
func (g *IDGen) NewID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), g.entropy).String()
}
