// Package corpus provides pull-based sentence sources for training and
// transformation. A sentence is a finite slice of tokens; a Source yields
// sentences one at a time and may be unbounded.
package corpus

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Source is a pull-based stream of sentences. Next returns io.EOF when the
// stream is exhausted; any other error comes from the underlying reader and
// is propagated unmodified.
type Source interface {
	Next() ([]string, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func() ([]string, error)

// Next implements Source.
func (f SourceFunc) Next() ([]string, error) { return f() }

// SliceSource is an in-memory Source over a fixed set of sentences.
// It is restartable via Reset.
type SliceSource struct {
	sentences [][]string
	pos       int
}

// NewSliceSource creates a Source over the given sentences.
func NewSliceSource(sentences [][]string) *SliceSource {
	return &SliceSource{sentences: sentences}
}

// Next returns the next sentence, or io.EOF when exhausted.
func (s *SliceSource) Next() ([]string, error) {
	if s.pos >= len(s.sentences) {
		return nil, io.EOF
	}
	sentence := s.sentences[s.pos]
	s.pos++
	return sentence, nil
}

// Reset rewinds the source to the first sentence.
func (s *SliceSource) Reset() {
	s.pos = 0
}

// Normalize coerces a token to canonical UTF-8, replacing invalid byte
// sequences with U+FFFD. Tokens are compared and counted in this form.
func Normalize(token string) string {
	if utf8.ValidString(token) {
		return token
	}
	return strings.ToValidUTF8(token, "�")
}
