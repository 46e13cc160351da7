package counter

import "fmt"

// Exact is a map-backed Counter holding true counts for every key seen.
// Memory grows with the vocabulary; callers bound it by pruning.
type Exact struct {
	counts map[string]int64
}

// NewExact creates an empty exact counter.
func NewExact() *Exact {
	return &Exact{counts: make(map[string]int64)}
}

// Increment adds amount to the count for key.
func (e *Exact) Increment(key string, amount int64) {
	e.counts[key] += amount
}

// Get returns the exact count for key, 0 if absent.
func (e *Exact) Get(key string) int64 {
	return e.counts[key]
}

// Len returns the number of distinct keys.
func (e *Exact) Len() int {
	return len(e.counts)
}

// Contains reports whether key has a tracked count.
func (e *Exact) Contains(key string) bool {
	_, ok := e.counts[key]
	return ok
}

// Merge adds every count from other into the receiver. The result equals
// counting over the concatenation of the two input streams.
func (e *Exact) Merge(other Counter) error {
	o, ok := other.(*Exact)
	if !ok {
		return fmt.Errorf("merge: expected *Exact, got %T", other)
	}
	for key, count := range o.counts {
		e.counts[key] += count
	}
	return nil
}

// Each calls fn for every tracked key and its count.
func (e *Exact) Each(fn func(key string, count int64)) {
	for key, count := range e.counts {
		fn(key, count)
	}
}

// Prune removes every key with count <= threshold.
func (e *Exact) Prune(threshold int64) int {
	removed := 0
	for key, count := range e.counts {
		if count <= threshold {
			delete(e.counts, key)
			removed++
		}
	}
	return removed
}
