// Package counter provides the frequency-counting layer for collocation
// detection: an exact map-backed counter and a probabilistic count-min
// sketch with a bounded memory footprint. Both variants are exposed through
// the Counter interface; the variant is chosen once at model construction
// and never switched at runtime.
package counter

// Counter maps opaque string keys to non-negative counts. A key is either a
// single token or two tokens joined by the model delimiter; the counter does
// not distinguish the two.
type Counter interface {
	// Increment adds amount to the count for key, creating it if absent.
	Increment(key string, amount int64)

	// Get returns the count for key. The exact counter returns the true
	// count (0 if absent); the sketch returns an upper-bound estimate
	// that is never below the true count and never negative.
	Get(key string) int64

	// Len reports the number of distinct keys tracked. The sketch cannot
	// enumerate keys and reports 0.
	Len() int

	// Contains reports whether key is tracked. The sketch treats every
	// key as present; filtering is deferred to the score.
	Contains(key string) bool

	// Merge folds other into the receiver. Both counters must be of the
	// same kind; sketches must additionally share dimensions and hash
	// coefficients.
	Merge(other Counter) error
}
