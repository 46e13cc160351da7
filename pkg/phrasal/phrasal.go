// Package phrasal detects collocations (frequently co-occurring adjacent
// token pairs) in a stream of sentences and merges them into single
// compound tokens, e.g. ["new", "york"] → ["new_york"]. Feeding a model's
// output through a second model discovers longer phrases.
//
// It is a preprocessing stage for vector and embedding pipelines:
// tokenization of raw text and corpus iteration are collaborator concerns,
// represented by the corpus.Source interface.
package phrasal

import (
	"fmt"

	"github.com/cognicore/phrasal/pkg/phrasal/corpus"
	"github.com/cognicore/phrasal/pkg/phrasal/counter"
	"github.com/cognicore/phrasal/pkg/phrasal/internalerr"
	"github.com/cognicore/phrasal/pkg/phrasal/vocab"
)

// Defaults mirror the common training setup.
const (
	DefaultMinCount     = 5
	DefaultThreshold    = 10.0
	DefaultMaxVocabSize = 40_000_000
	DefaultDelimiter    = "_"
	DefaultDelta        = 1e-2
	DefaultEpsilon      = 5e-8
)

// Options configures a Phrases model. The configuration is immutable after
// construction.
type Options struct {
	// MinCount discounts the joined-pair count in the score; pairs seen
	// fewer times never qualify. Must be at least 1.
	MinCount int64

	// Threshold is the score a pair must exceed to be merged. Must be
	// positive; higher means fewer phrases.
	Threshold float64

	// MaxVocabSize bounds the number of distinct keys tracked before
	// pruning. Exact mode only; the sketch's memory is already fixed.
	MaxVocabSize int

	// Delimiter joins the tokens of a merged pair. Tokens must not
	// contain it; that contract is the caller's, not validated here.
	Delimiter string

	// Approximate selects the count-min sketch counter instead of exact
	// counting, trading accuracy for a guaranteed memory ceiling.
	Approximate bool

	// Delta and Epsilon size the sketch (approximate mode only); both
	// must be strictly in (0, 1).
	Delta   float64
	Epsilon float64

	// SketchSeed drives the sketch's hash coefficients. Models that
	// never merge sketches across instances can leave it zero.
	SketchSeed uint64

	// Progress, if set, is forwarded to the vocabulary learner.
	Progress func(sentences, words, keys int)
}

// DefaultOptions returns exact-mode options with the package defaults.
func DefaultOptions() Options {
	return Options{
		MinCount:     DefaultMinCount,
		Threshold:    DefaultThreshold,
		MaxVocabSize: DefaultMaxVocabSize,
		Delimiter:    DefaultDelimiter,
		Delta:        DefaultDelta,
		Epsilon:      DefaultEpsilon,
	}
}

// Phrases is a collocation model: a Counter of unigram/bigram frequencies
// accumulated over one or more learning passes, plus the scoring and merge
// logic that rewrites sentences.
//
// All mutation happens inside AddVocab; callers must serialize concurrent
// AddVocab calls on the same model. Score and Transform are read-only and
// may run concurrently with each other, but not with AddVocab.
type Phrases struct {
	minCount     int64
	threshold    float64
	maxVocabSize int
	delimiter    string
	approximate  bool
	progress     func(sentences, words, keys int)

	minReduce int64
	vocab     counter.Counter
	sketch    *counter.Sketch // set in approximate mode, aliases vocab
}

// New creates an empty Phrases model, failing fast on invalid configuration.
func New(opts Options) (*Phrases, error) {
	if opts.MinCount <= 0 {
		return nil, fmt.Errorf("%w: min_count must be at least 1, got %d",
			internalerr.ErrInvalidConfig, opts.MinCount)
	}
	if opts.Threshold <= 0 {
		return nil, fmt.Errorf("%w: threshold must be positive, got %v",
			internalerr.ErrInvalidConfig, opts.Threshold)
	}

	p := &Phrases{
		minCount:     opts.MinCount,
		threshold:    opts.Threshold,
		maxVocabSize: opts.MaxVocabSize,
		delimiter:    opts.Delimiter,
		approximate:  opts.Approximate,
		progress:     opts.Progress,
		minReduce:    1,
	}

	if opts.Approximate {
		sketch, err := counter.NewSketch(opts.Delta, opts.Epsilon, opts.SketchSeed)
		if err != nil {
			return nil, err
		}
		p.sketch = sketch
		p.vocab = sketch
	} else {
		p.vocab = counter.NewExact()
	}
	return p, nil
}

// String gives a short description of the model state.
func (p *Phrases) String() string {
	return fmt.Sprintf("Phrases<%d vocab, min_count=%d, threshold=%v, max_vocab_size=%d>",
		p.vocab.Len(), p.minCount, p.threshold, p.maxVocabSize)
}

// AddVocab merges counts collected from src into the model.
//
// The pass counts into a fresh, separate counter rather than directly into
// the accumulated one: new sentences get a fair chance to collect
// sufficient counts before being pruned against the much larger
// pre-existing vocabulary. Exact mode then merges key-by-key and re-prunes
// if over capacity; approximate mode adds the sketch tables coordinate-wise.
func (p *Phrases) AddVocab(src corpus.Source) error {
	newCounter := func() counter.Counter { return counter.NewExact() }
	if p.approximate {
		newCounter = func() counter.Counter { return p.sketch.EmptyClone() }
	}

	minReduce, learned, err := vocab.Learn(src, vocab.Options{
		MaxVocabSize: p.maxVocabSize,
		Delimiter:    p.delimiter,
		NewCounter:   newCounter,
		Progress:     p.progress,
	})
	if err != nil {
		return err
	}

	if p.approximate {
		return p.vocab.Merge(learned)
	}

	if minReduce > p.minReduce {
		p.minReduce = minReduce
	}
	if err := p.vocab.Merge(learned); err != nil {
		return err
	}
	if exact, ok := p.vocab.(*counter.Exact); ok && exact.Len() > p.maxVocabSize {
		exact.Prune(p.minReduce)
		p.minReduce++
	}
	return nil
}

// Score computes the collocation significance of the adjacent pair (a, b):
//
//	(count(a_b) - min_count) / count(a) / count(b) * threshold * N
//
// where N is the tracked vocabulary size. Zero counts for either unigram
// yield 0 rather than a division error.
//
// In approximate mode N is the sketch's 0 sentinel, so the absolute value
// degenerates; compare pairs through their counts instead. This is a known
// artifact of approximate counting, kept as-is.
func (p *Phrases) Score(a, b string) float64 {
	a, b = corpus.Normalize(a), corpus.Normalize(b)
	pa := float64(p.vocab.Get(a))
	pb := float64(p.vocab.Get(b))
	if pa <= 0 || pb <= 0 {
		return 0
	}
	pab := float64(p.vocab.Get(a + p.delimiter + b))
	return (pab - float64(p.minCount)) / pa / pb * p.threshold * float64(p.vocab.Len())
}

// Transform rewrites one sentence, merging qualifying adjacent pairs into
// single delimiter-joined tokens. The pass is greedy, left to right and
// non-overlapping: a token consumed by a merge cannot start another merge
// in the same pass. Sentences with no qualifying pair come back unchanged;
// empty sentences yield empty output.
func (p *Phrases) Transform(sentence []string) []string {
	s := make([]string, len(sentence))
	for i, tok := range sentence {
		s[i] = corpus.Normalize(tok)
	}

	out := make([]string, 0, len(s))
	lastBigram := false
	for i := 0; i+1 < len(s); i++ {
		a, b := s[i], s[i+1]
		if !lastBigram && p.vocab.Contains(a) && p.vocab.Contains(b) {
			joined := a + p.delimiter + b
			if p.vocab.Contains(joined) && p.Score(a, b) > p.threshold {
				out = append(out, joined)
				lastBigram = true
				continue
			}
		}
		if !lastBigram {
			out = append(out, a)
		}
		lastBigram = false
	}

	// The final token was never the left element of a pair; emit it unless
	// the last merge consumed it or, in exact mode, it is unknown.
	if len(s) > 0 && !lastBigram {
		if last := s[len(s)-1]; p.vocab.Contains(last) {
			out = append(out, last)
		}
	}
	return out
}

// transformSource lazily applies a model to every sentence pulled from an
// underlying source.
type transformSource struct {
	p   *Phrases
	src corpus.Source
}

func (t *transformSource) Next() ([]string, error) {
	sentence, err := t.src.Next()
	if err != nil {
		return nil, err
	}
	return t.p.Transform(sentence), nil
}

// TransformSource returns a lazy source of transformed sentences, one per
// input sentence, pulled on demand. The result is unbounded if src is and
// restartable exactly when src is; the model keeps no position state
// between sentences. Errors from src propagate unmodified.
func (p *Phrases) TransformSource(src corpus.Source) corpus.Source {
	return &transformSource{p: p, src: src}
}
