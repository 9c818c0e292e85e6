// Package store implements the facade that orchestrates the two in-memory
// tiers and the segment manager: insert, get, and compact. It is the only
// package a driver program needs to import.
package store

import (
	"sync"

	"go.uber.org/zap"

	"github.com/flashkv/flashkv/avltree"
	"github.com/flashkv/flashkv/compactor"
	"github.com/flashkv/flashkv/segmentmanager"
	"github.com/flashkv/flashkv/stage"
	"github.com/flashkv/flashkv/storeoptions"
)

// Store orchestrates tier 1 (an AVL tree), tier 2 (an unordered staging
// buffer), and a segment manager, in the shape of the original
// KV_Store.py facade: the first memoryThreshold inserts land in tier 1,
// every insert after that lands in tier 2, and tier 2 flushes to a new
// segment once it reaches memoryThreshold entries.
type Store[V any] struct {
	mu sync.Mutex

	tier1           *avltree.Tree[V]
	tier2           *stage.Buffer[V]
	segments        *segmentmanager.Manager[V]
	memoryThreshold int
	itemCount       int
	log             *zap.SugaredLogger
}

// New constructs a Store, creating its segment directory if necessary.
func New[V any](opts ...storeoptions.Option) (*Store[V], error) {
	o := storeoptions.New(opts...)

	mgr, err := segmentmanager.New[V](o)
	if err != nil {
		return nil, err
	}

	return &Store[V]{
		tier1:           avltree.New[V](),
		tier2:           stage.New[V](),
		segments:        mgr,
		memoryThreshold: o.MemoryThreshold,
		log:             o.Logger,
	}, nil
}

// Insert routes key/value into tier 1 while the store has accepted fewer
// than memoryThreshold inserts overall, and into tier 2 afterward. Once
// tier 2 reaches memoryThreshold entries it is flushed to a new segment.
// itemCount counts insert calls, not distinct keys, matching spec
// semantics: reinserting an existing key still advances the threshold.
func (s *Store[V]) Insert(key string, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.itemCount < s.memoryThreshold {
		s.tier1.Insert(key, value)
	} else {
		if s.itemCount == s.memoryThreshold {
			s.log.Warnw("memory threshold reached, routing inserts to tier2 staging buffer", "memoryThreshold", s.memoryThreshold)
		}
		s.tier2.Insert(key, value)
		if s.tier2.Size() >= s.memoryThreshold {
			if err := s.flushLocked(); err != nil {
				return err
			}
		}
	}

	s.itemCount++
	return nil
}

func (s *Store[V]) flushLocked() error {
	sortedPairs := s.tier2.DrainSorted()
	if err := s.segments.Flush(sortedPairs); err != nil {
		return err
	}
	s.tier2.Clear()
	return nil
}

// Get looks up key in tier 1, then tier 2, then the segment manager, in
// that order. Because tier 1 is only ever populated during the first
// memoryThreshold inserts, a key that first landed in tier 1 and was
// later reinserted through tier 2 or a segment still resolves to its
// tier-1 value: this is the freshness caveat the facade's ordering
// policy creates, not a bug.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for rec := range s.tier1.InOrder() {
		if rec.Key == key {
			s.log.Debugw("served from tier1", "key", key)
			return rec.Value, true
		}
	}

	if v, ok := s.tier2.Get(key); ok {
		s.log.Debugw("served from tier2", "key", key)
		return v, true
	}

	v, found := s.segments.Lookup(key)
	if found {
		s.log.Debugw("served from segment", "key", key)
	}
	return v, found
}

// Compact folds every existing segment into a single new segment 0,
// leaving tier 1 and tier 2 untouched.
func (s *Store[V]) Compact() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return compactor.Compact(s.segments, s.log)
}

// ItemCount returns the number of insert calls the store has accepted,
// not the number of distinct keys.
func (s *Store[V]) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemCount
}
