package phrasal

import (
	"errors"
	"io"
	"sort"

	"github.com/cognicore/phrasal/pkg/phrasal/corpus"
)

// ScoredPhrase is a detected collocation with its score and joined count.
type ScoredPhrase struct {
	A      string
	B      string
	Joined string
	Score  float64
	Count  int64
}

// ExportPhrases scans src and returns every distinct adjacent pair whose
// score exceeds the threshold, ordered by descending score. Unlike
// Transform it considers every adjacent pair, with no non-overlap rule:
// the output enumerates what the model would merge, it does not rewrite.
func (p *Phrases) ExportPhrases(src corpus.Source) ([]ScoredPhrase, error) {
	seen := make(map[string]struct{})
	var phrases []ScoredPhrase

	for {
		sentence, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		for i := 0; i+1 < len(sentence); i++ {
			a, b := corpus.Normalize(sentence[i]), corpus.Normalize(sentence[i+1])
			joined := a + p.delimiter + b
			if _, dup := seen[joined]; dup {
				continue
			}
			if !p.vocab.Contains(a) || !p.vocab.Contains(b) || !p.vocab.Contains(joined) {
				continue
			}
			score := p.Score(a, b)
			if score <= p.threshold {
				continue
			}
			seen[joined] = struct{}{}
			phrases = append(phrases, ScoredPhrase{
				A:      a,
				B:      b,
				Joined: joined,
				Score:  score,
				Count:  p.vocab.Get(joined),
			})
		}
	}

	sort.Slice(phrases, func(i, j int) bool {
		return phrases[i].Score > phrases[j].Score
	})
	return phrases, nil
}
