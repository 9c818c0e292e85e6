// Package bloomfilter provides the probabilistic set-membership structure
// associated with every on-disk segment: a fixed-size bit array screened by
// k independent hashes, with zero false negatives and tunable false
// positives.
package bloomfilter

import (
	"github.com/bits-and-blooms/bloom/v3"
)

const (
	// DefaultSize is the default bit-array width.
	DefaultSize uint = 1000
	// DefaultHashCount is the default number of hash functions k.
	DefaultHashCount uint = 3
)

// Filter wraps a bits-and-blooms Bloom filter sized by explicit bit count
// and hash count, rather than by a target false-positive rate, so that the
// defaults in the data model (size=1000, hash_count=3) map directly onto
// constructor arguments.
type Filter struct {
	bits *bloom.BloomFilter
}

// New constructs a Filter with the given bit-array size and hash count.
// A zero size or hash count falls back to the package defaults.
func New(size, hashCount uint) *Filter {
	if size == 0 {
		size = DefaultSize
	}
	if hashCount == 0 {
		hashCount = DefaultHashCount
	}
	return &Filter{bits: bloom.New(size, hashCount)}
}

// Add sets every bit derived from key's k hashes. Never returns false
// negatives for subsequent Contains calls on the same key.
func (f *Filter) Add(key []byte) {
	f.bits.Add(key)
}

// Contains reports whether every bit derived from key's k hashes is set.
// A true result may be a false positive; a false result is never a false
// negative for a key previously passed to Add.
func (f *Filter) Contains(key []byte) bool {
	return f.bits.Test(key)
}
