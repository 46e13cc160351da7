package corpus

import (
	"bufio"
	"io"
	"strings"
)

// maxLineBytes bounds a single corpus line; lines beyond this fail with
// bufio.ErrTooLong rather than silently truncating.
const maxLineBytes = 1024 * 1024

// LineSource reads one sentence per line from an io.Reader, splitting tokens
// on whitespace. Empty lines yield empty sentences.
type LineSource struct {
	scanner *bufio.Scanner
}

// NewLineSource creates a LineSource over r.
func NewLineSource(r io.Reader) *LineSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, maxLineBytes), maxLineBytes)
	return &LineSource{scanner: scanner}
}

// Next returns the tokens of the next line, or io.EOF at end of input.
// Scanner errors are returned as-is.
func (l *LineSource) Next() ([]string, error) {
	if !l.scanner.Scan() {
		if err := l.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	return strings.Fields(l.scanner.Text()), nil
}
