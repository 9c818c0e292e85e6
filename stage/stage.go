// Package stage provides the unordered staging buffer used as tier 2 of the
// store: a plain key-indexed map whose drain emits sorted pairs for the
// segment writer.
package stage

import (
	"sort"

	"github.com/flashkv/flashkv/avltree"
)

// Buffer is an unordered key/value map. Duplicate inserts overwrite;
// insertion order carries no meaning.
type Buffer[V any] struct {
	data map[string]V
}

// New returns an empty staging buffer.
func New[V any]() *Buffer[V] {
	return &Buffer[V]{data: make(map[string]V)}
}

// Insert stores value under key, overwriting any existing value.
func (b *Buffer[V]) Insert(key string, value V) {
	b.data[key] = value
}

// Contains reports whether key is present.
func (b *Buffer[V]) Contains(key string) bool {
	_, ok := b.data[key]
	return ok
}

// Get returns the value stored under key, if any.
func (b *Buffer[V]) Get(key string) (V, bool) {
	v, ok := b.data[key]
	return v, ok
}

// Size returns the number of distinct keys currently buffered.
func (b *Buffer[V]) Size() int {
	return len(b.data)
}

// DrainSorted returns every (key, value) pair in ascending key order. It
// does not clear the buffer; callers that intend to flush should follow up
// with Clear.
func (b *Buffer[V]) DrainSorted() []avltree.Record[V] {
	out := make([]avltree.Record[V], 0, len(b.data))
	for k, v := range b.data {
		out = append(out, avltree.Record[V]{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Clear empties the buffer.
func (b *Buffer[V]) Clear() {
	b.data = make(map[string]V)
}
