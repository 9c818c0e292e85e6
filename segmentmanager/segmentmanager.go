// Package segmentmanager owns the segment directory, the monotonic
// file-numbering counter, and the parallel vector of per-segment Bloom
// filters. It implements flush (write a new segment) and lookup (scan
// segments screened by their Bloom filter).
//
// The directory bookkeeping - validate-or-create the directory, number
// files sequentially, keep per-segment state in a slice indexed by id - is
// adapted from the teacher's segmentmanager/disk.go, generalized from log
// rotation by size to immutable compressed segment files.
package segmentmanager

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/flashkv/flashkv/avltree"
	"github.com/flashkv/flashkv/bloomfilter"
	"github.com/flashkv/flashkv/kverrors"
	"github.com/flashkv/flashkv/segment"
	"github.com/flashkv/flashkv/storeoptions"
)

// Manager owns every on-disk segment belonging to one store instance. It is
// not safe for concurrent use by multiple store instances over the same
// directory: the segment directory is exclusively owned by one store.
type Manager[V any] struct {
	mu             sync.Mutex
	dir            string
	ext            string
	sparseInterval int
	bloomSize      uint
	bloomHashCount uint
	fileCounter    int
	blooms         []*bloomfilter.Filter
	log            *zap.SugaredLogger
}

// New creates a Manager rooted at opts.DatabasePath, creating the directory
// if necessary. It never loads pre-existing segments:
// segment metadata persistence across restarts is an out-of-scope variant,
// so every New starts file numbering at 0. If the directory already holds
// segment files under opts.SegmentFileExt, New logs a warning that they
// will be shadowed rather than silently ignoring them.
func New[V any](opts *storeoptions.Options) (*Manager[V], error) {
	if err := os.MkdirAll(opts.DatabasePath, 0o755); err != nil {
		return nil, kverrors.New(kverrors.CodeDirectoryUnwritable, "failed to create segment directory", err).
			WithPath(opts.DatabasePath)
	}

	m := &Manager[V]{
		dir:            opts.DatabasePath,
		ext:            opts.SegmentFileExt,
		sparseInterval: opts.SparseInterval,
		bloomSize:      opts.BloomSize,
		bloomHashCount: opts.BloomHashCount,
		log:            opts.Logger,
	}

	if entries, err := os.ReadDir(opts.DatabasePath); err == nil {
		for _, e := range entries {
			if !e.IsDir() && filepath.Ext(e.Name()) == opts.SegmentFileExt {
				m.log.Warnw(
					"segment directory already contains segment files; starting numbering at 0 regardless",
					"dir", opts.DatabasePath, "existing", e.Name(),
				)
				break
			}
		}
	}

	return m, nil
}

func (m *Manager[V]) pathFor(id int) string {
	return filepath.Join(m.dir, fmt.Sprintf("F%d%s", id, m.ext))
}

// Flush writes sortedPairs as a new segment and appends a fresh Bloom
// filter covering it. An empty input is a no-op that does not advance the
// file counter; the caller (the store facade, draining tier 2) is
// responsible for clearing the drained buffer either way.
func (m *Manager[V]) Flush(sortedPairs []avltree.Record[V]) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(sortedPairs) == 0 {
		m.log.Warnw("flush called with no records, skipping", "dir", m.dir)
		return nil
	}

	bloom := bloomfilter.New(m.bloomSize, m.bloomHashCount)
	path := m.pathFor(m.fileCounter)

	if err := segment.Dump(path, sortedPairs, m.sparseInterval, bloom, m.log); err != nil {
		return fmt.Errorf("segmentmanager: flush segment %d: %w", m.fileCounter, err)
	}

	m.blooms = append(m.blooms, bloom)
	m.log.Infow("flushed segment", "id", m.fileCounter, "records", len(sortedPairs), "path", path)
	m.fileCounter++

	return nil
}

// Lookup scans segments newest-to-oldest, screening each with its Bloom
// filter before paying for a disk read. Both a missing segment file and
// an unreadable/corrupt one are logged and swallowed: a broken segment is
// treated as "does not contain the key", and the scan continues with the
// next (older) segment.
func (m *Manager[V]) Lookup(key string) (value V, found bool) {
	m.mu.Lock()
	fileCounter := m.fileCounter
	blooms := m.blooms
	m.mu.Unlock()

	for i := fileCounter - 1; i >= 0; i-- {
		if !blooms[i].Contains([]byte(key)) {
			continue
		}

		path := m.pathFor(i)
		v, ok, err := segment.Lookup[V](path, key)
		if err != nil {
			if kverrors.Is(err, kverrors.CodeSegmentMissing) {
				m.log.Warnw("segment file missing during lookup, skipping", "id", i, "path", path, "error", err)
			} else {
				m.log.Warnw("segment unreadable during lookup, skipping", "id", i, "path", path, "error", err)
			}
			continue
		}
		if ok {
			return v, true
		}
	}

	return value, false
}

// SegmentCount returns the number of live segments, i.e. the current file
// counter.
func (m *Manager[V]) SegmentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fileCounter
}

// SegmentPath returns the path of segment id, for callers (the compactor)
// that need to read segments directly.
func (m *Manager[V]) SegmentPath(id int) string {
	return m.pathFor(id)
}

// DeleteSegment removes segment id's file from disk. A missing file is not
// an error: it gets the same "continue" policy as an unreadable one.
func (m *Manager[V]) DeleteSegment(id int) error {
	path := m.pathFor(id)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("segmentmanager: delete segment %d: %w", id, err)
	}
	return nil
}

// Reset clears the manager's state back to empty, as compaction requires:
// file numbering restarts at 0 and every Bloom filter is dropped alongside
// its segment.
func (m *Manager[V]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fileCounter = 0
	m.blooms = nil
}
