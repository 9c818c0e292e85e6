// Package storeoptions provides the functional-options configuration
// surface for the store facade, segment manager, and segment writer: memory
// threshold, database path, sparse-index stride, Bloom filter sizing, and
// an injectable logger, in the shape of ignite's pkg/options
// (Options struct + Option funcs + defaults.go).
package storeoptions

import (
	"strings"

	"go.uber.org/zap"
)

// Options holds every configurable parameter of the store.
type Options struct {
	// MemoryThreshold is the number of inserts tier 1 accepts before
	// every subsequent insert routes to tier 2, and the size at which
	// tier 2 flushes to a new segment.
	MemoryThreshold int

	// DatabasePath is the segment directory.
	DatabasePath string

	// SparseInterval is the record-index stride used when writing
	// segments.
	SparseInterval int

	// SegmentFileExt names segment files on disk, appended to the F{id}
	// stem.
	SegmentFileExt string

	// BloomSize is the bit-array width of each segment's Bloom filter.
	BloomSize uint

	// BloomHashCount is the number of hash functions each segment's
	// Bloom filter uses.
	BloomHashCount uint

	// Logger receives structured logs for flush, compaction, and
	// swallowed per-segment failures. Defaults to a no-op logger.
	Logger *zap.SugaredLogger
}

// Option mutates an Options value under construction.
type Option func(*Options)

// WithDefaultOptions resets every field to the package defaults. Useful as
// the first option in a call to New so later options only need to name
// what they override.
func WithDefaultOptions() Option {
	return func(o *Options) {
		*o = NewDefaultOptions()
	}
}

// WithMemoryThreshold sets the tier-1/tier-2 flush threshold T. Values less
// than 1 are ignored.
func WithMemoryThreshold(threshold int) Option {
	return func(o *Options) {
		if threshold > 0 {
			o.MemoryThreshold = threshold
		}
	}
}

// WithDatabasePath sets the segment directory.
func WithDatabasePath(path string) Option {
	return func(o *Options) {
		path = strings.TrimSpace(path)
		if path != "" {
			o.DatabasePath = path
		}
	}
}

// WithSparseInterval sets the sparse-index stride. Values less than 1 are
// ignored.
func WithSparseInterval(interval int) Option {
	return func(o *Options) {
		if interval > 0 {
			o.SparseInterval = interval
		}
	}
}

// WithSegmentFileExt sets the segment filename extension, including the
// leading dot.
func WithSegmentFileExt(ext string) Option {
	return func(o *Options) {
		ext = strings.TrimSpace(ext)
		if ext != "" {
			o.SegmentFileExt = ext
		}
	}
}

// WithBloomSize sets the Bloom filter bit-array width. A zero size is
// ignored.
func WithBloomSize(size uint) Option {
	return func(o *Options) {
		if size > 0 {
			o.BloomSize = size
		}
	}
}

// WithBloomHashCount sets the Bloom filter hash count k. A zero count is
// ignored.
func WithBloomHashCount(count uint) Option {
	return func(o *Options) {
		if count > 0 {
			o.BloomHashCount = count
		}
	}
}

// WithLogger sets the structured logger used throughout the store. A nil
// logger is ignored.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// New builds an Options value from the package defaults plus any overrides,
// applied in order.
func New(opts ...Option) *Options {
	o := NewDefaultOptions()
	o.Logger = zap.NewNop().Sugar()

	for _, opt := range opts {
		opt(&o)
	}

	return &o
}
