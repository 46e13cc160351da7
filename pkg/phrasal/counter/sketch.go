package counter

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/bits"
	"math/rand/v2"

	"github.com/cognicore/phrasal/pkg/phrasal/internalerr"
)

// mersenne61 is the shared modulus for the pairwise-independent hash family.
const mersenne61 = (1 << 61) - 1

// hashFunc is one member of the family h(x) = ((a*x + b) mod P) mod w.
// Coefficients are plain values (not closures) so that two sketches can be
// checked for merge compatibility.
type hashFunc struct {
	a, b uint64
}

func (h hashFunc) col(x uint64, width int) int {
	v := add61(mul61(h.a, x), h.b)
	return int(v % uint64(width))
}

// mul61 computes (a*b) mod 2^61-1 for a, b < 2^61.
// Uses 2^64 mod (2^61-1) = 8 to fold the 128-bit product.
func mul61(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	v := (lo & mersenne61) + (lo >> 61) + hi<<3
	v = (v & mersenne61) + (v >> 61)
	if v >= mersenne61 {
		v -= mersenne61
	}
	return v
}

func add61(a, b uint64) uint64 {
	s := a + b
	if s >= mersenne61 {
		s -= mersenne61
	}
	return s
}

// digest hashes key into the domain of the hash family.
func digest(key string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return h.Sum64() % mersenne61
}

// Sketch is a count-min sketch Counter with conservative updates. Memory is
// fixed at depth x width cells regardless of vocabulary size; estimates may
// exceed the true count through hash collisions but never fall below it.
// Entries are never deleted; collisions are the only form of decay.
type Sketch struct {
	width int
	depth int
	table [][]int64
	hash  []hashFunc
}

// NewSketch builds a sketch from failure probability delta and error bound
// epsilon, both strictly in (0,1): width = ceil(2/epsilon) and
// depth = ceil(ln(1/delta)). The seed drives the per-instance hash
// coefficients; two independently seeded sketches are not mergeable.
func NewSketch(delta, epsilon float64, seed uint64) (*Sketch, error) {
	if delta <= 0 || delta >= 1 {
		return nil, fmt.Errorf("%w: delta must be in (0,1), got %v", internalerr.ErrInvalidConfig, delta)
	}
	if epsilon <= 0 || epsilon >= 1 {
		return nil, fmt.Errorf("%w: epsilon must be in (0,1), got %v", internalerr.ErrInvalidConfig, epsilon)
	}

	width := int(math.Ceil(2 / epsilon))
	depth := int(math.Ceil(math.Log(1 / delta)))
	if depth < 1 {
		depth = 1
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	s := &Sketch{
		width: width,
		depth: depth,
		table: make([][]int64, depth),
		hash:  make([]hashFunc, depth),
	}
	for row := 0; row < depth; row++ {
		s.table[row] = make([]int64, width)
		s.hash[row] = hashFunc{
			a: rng.Uint64N(mersenne61),
			b: rng.Uint64N(mersenne61),
		}
	}
	return s, nil
}

// EmptyClone returns a zeroed sketch sharing the receiver's dimensions and
// hash coefficients, so counts collected into it can later be merged back.
func (s *Sketch) EmptyClone() *Sketch {
	clone := &Sketch{
		width: s.width,
		depth: s.depth,
		table: make([][]int64, s.depth),
		hash:  make([]hashFunc, s.depth),
	}
	copy(clone.hash, s.hash)
	for row := range clone.table {
		clone.table[row] = make([]int64, s.width)
	}
	return clone
}

// Increment applies a conservative update for key: every addressed cell is
// raised to max(cell, amount + current estimate). Compared to a plain
// additive update this bounds overestimation growth, at the cost of being
// non-reversible.
func (s *Sketch) Increment(key string, amount int64) {
	x := digest(key)
	chat := s.estimate(x)
	for row := 0; row < s.depth; row++ {
		col := s.hash[row].col(x, s.width)
		if next := amount + chat; next > s.table[row][col] {
			s.table[row][col] = next
		}
	}
}

// Get returns the minimum cell over all rows addressed by key: an
// upper-bound estimate of the true count, never negative.
func (s *Sketch) Get(key string) int64 {
	return s.estimate(digest(key))
}

func (s *Sketch) estimate(x uint64) int64 {
	min := int64(math.MaxInt64)
	for row := 0; row < s.depth; row++ {
		col := s.hash[row].col(x, s.width)
		if v := s.table[row][col]; v < min {
			min = v
		}
	}
	return min
}

// Len reports 0: the sketch cannot enumerate its keys.
func (s *Sketch) Len() int {
	return 0
}

// Contains always reports true; the sketch defers filtering to the score.
func (s *Sketch) Contains(key string) bool {
	return true
}

// Merge adds other's table into the receiver's, coordinate-wise, exploiting
// the sketch's linearity. Both sketches must have identical dimensions and
// hash coefficients or the addition is meaningless; a mismatch returns
// internalerr.ErrIncompatibleSketch.
func (s *Sketch) Merge(other Counter) error {
	o, ok := other.(*Sketch)
	if !ok {
		return fmt.Errorf("merge: expected *Sketch, got %T", other)
	}
	if o.width != s.width || o.depth != s.depth {
		return fmt.Errorf("%w: dimensions %dx%d vs %dx%d",
			internalerr.ErrIncompatibleSketch, s.depth, s.width, o.depth, o.width)
	}
	for row := range s.hash {
		if s.hash[row] != o.hash[row] {
			return fmt.Errorf("%w: hash coefficients differ at row %d",
				internalerr.ErrIncompatibleSketch, row)
		}
	}
	for row := range s.table {
		for col := range s.table[row] {
			s.table[row][col] += o.table[row][col]
		}
	}
	return nil
}

// Width returns the table width (columns per row).
func (s *Sketch) Width() int { return s.width }

// Depth returns the number of rows / hash functions.
func (s *Sketch) Depth() int { return s.depth }
