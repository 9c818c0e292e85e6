package storeoptions

import "github.com/flashkv/flashkv/bloomfilter"

const (
	// DefaultMemoryThreshold is the number of inserts tier 1 accepts
	// before every subsequent insert routes to tier 2.
	DefaultMemoryThreshold = 5

	// DefaultDatabasePath is the segment directory used when none is
	// configured.
	DefaultDatabasePath = "data_store_db"

	// DefaultSparseInterval is the record-index stride: a sparse-index
	// entry is emitted every DefaultSparseInterval records written.
	DefaultSparseInterval = 3

	// DefaultSegmentFileExt names segment files on disk: F{id}DefaultSegmentFileExt.
	DefaultSegmentFileExt = ".sst"
)

// defaultOptions holds the package-level defaults applied before any
// functional option runs.
var defaultOptions = Options{
	MemoryThreshold: DefaultMemoryThreshold,
	DatabasePath:    DefaultDatabasePath,
	SparseInterval:  DefaultSparseInterval,
	SegmentFileExt:  DefaultSegmentFileExt,
	BloomSize:       bloomfilter.DefaultSize,
	BloomHashCount:  bloomfilter.DefaultHashCount,
}

// NewDefaultOptions returns a copy of the default configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
