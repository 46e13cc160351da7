// Package vocab collects unigram and bigram counts from a sentence stream
// into a Counter, bounding memory with periodic pruning in exact mode.
package vocab

import (
	"errors"
	"io"

	"github.com/cognicore/phrasal/pkg/phrasal/corpus"
	"github.com/cognicore/phrasal/pkg/phrasal/counter"
)

// progressEvery is the sentence cadence of the Progress hook.
const progressEvery = 10000

// pruner is the optional capability of counters that can drop low-count
// keys. Only the exact counter implements it; the sketch's memory is fixed.
type pruner interface {
	Prune(threshold int64) int
}

// Options configures a learning pass.
type Options struct {
	// MaxVocabSize triggers pruning once the counter tracks more distinct
	// keys than this. Only effective for prunable counters.
	MaxVocabSize int

	// Delimiter joins two adjacent tokens into a bigram key.
	Delimiter string

	// NewCounter produces the counter the pass accumulates into. For
	// sketches this should return an empty clone of the model's sketch so
	// the result stays mergeable.
	NewCounter func() counter.Counter

	// Progress, if set, is invoked every 10000 sentences with the number
	// of sentences and words processed so far and the tracked key count.
	// Observability stays the caller's concern; the learner never logs.
	Progress func(sentences, words, keys int)
}

// Learn streams sentences from src, counting each left unigram and each
// joined bigram once per adjacent pair, plus the sentence's final token.
// After any sentence that pushes the tracked key count past MaxVocabSize it
// prunes keys with count <= minReduce and raises minReduce by one.
// It returns the final minReduce and the populated counter. Errors from src
// propagate unmodified.
func Learn(src corpus.Source, opts Options) (int64, counter.Counter, error) {
	c := opts.NewCounter()
	minReduce := int64(1)
	sentences, words := 0, 0

	for {
		sentence, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, nil, err
		}

		if opts.Progress != nil && sentences%progressEvery == 0 {
			opts.Progress(sentences, words, c.Len())
		}

		norm := make([]string, len(sentence))
		for i, tok := range sentence {
			norm[i] = corpus.Normalize(tok)
		}

		for i := 0; i+1 < len(norm); i++ {
			c.Increment(norm[i], 1)
			c.Increment(norm[i]+opts.Delimiter+norm[i+1], 1)
			words++
		}
		// The final token is never the left element of a pair.
		if len(norm) > 0 {
			c.Increment(norm[len(norm)-1], 1)
		}
		sentences++

		if c.Len() > opts.MaxVocabSize {
			if p, ok := c.(pruner); ok {
				p.Prune(minReduce)
			}
			minReduce++
		}
	}

	return minReduce, c, nil
}
