package segmentmanager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/flashkv/flashkv/avltree"
	"github.com/flashkv/flashkv/storeoptions"
)

func setupManager[V any](t *testing.T, opts ...storeoptions.Option) *Manager[V] {
	t.Helper()

	dir := t.TempDir()
	allOpts := append([]storeoptions.Option{storeoptions.WithDatabasePath(dir)}, opts...)

	m, err := New[V](storeoptions.New(allOpts...))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")

	m, err := New[int](storeoptions.New(storeoptions.WithDatabasePath(dir)))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected directory to exist: %v", err)
	}
	if m.SegmentCount() != 0 {
		t.Fatalf("expected 0 segments, got %d", m.SegmentCount())
	}
}

func TestFlushEmptyIsNoOp(t *testing.T) {
	m := setupManager[int](t)

	if err := m.Flush(nil); err != nil {
		t.Fatal(err)
	}
	if m.SegmentCount() != 0 {
		t.Fatalf("expected 0 segments after empty flush, got %d", m.SegmentCount())
	}
}

func TestFlushCreatesSegmentAndIsLookupable(t *testing.T) {
	m := setupManager[int](t, storeoptions.WithSparseInterval(3))

	pairs := []avltree.Record[int]{
		{Key: "key1", Value: 1},
		{Key: "key2", Value: 2},
		{Key: "key3", Value: 3},
	}

	if err := m.Flush(pairs); err != nil {
		t.Fatal(err)
	}
	if m.SegmentCount() != 1 {
		t.Fatalf("expected 1 segment, got %d", m.SegmentCount())
	}

	v, found := m.Lookup("key2")
	if !found || v != 2 {
		t.Fatalf("expected (2, true), got (%d, %v)", v, found)
	}

	_, found = m.Lookup("absent")
	if found {
		t.Fatal("expected absent key to not be found")
	}
}

func TestLookupPrefersNewestSegment(t *testing.T) {
	m := setupManager[int](t)

	if err := m.Flush([]avltree.Record[int]{{Key: "key1", Value: 1}}); err != nil {
		t.Fatal(err)
	}
	if err := m.Flush([]avltree.Record[int]{{Key: "key1", Value: 99}}); err != nil {
		t.Fatal(err)
	}

	v, found := m.Lookup("key1")
	if !found || v != 99 {
		t.Fatalf("expected the newest segment's value 99, got (%d, %v)", v, found)
	}
}

func TestDeleteSegmentOfMissingFileIsNotAnError(t *testing.T) {
	m := setupManager[int](t)

	if err := m.DeleteSegment(42); err != nil {
		t.Fatalf("expected deleting a missing segment to be a no-op, got %v", err)
	}
}

func TestResetClearsState(t *testing.T) {
	m := setupManager[int](t)

	if err := m.Flush([]avltree.Record[int]{{Key: "key1", Value: 1}}); err != nil {
		t.Fatal(err)
	}

	m.Reset()

	if m.SegmentCount() != 0 {
		t.Fatalf("expected 0 segments after reset, got %d", m.SegmentCount())
	}

	_, found := m.Lookup("key1")
	if found {
		t.Fatal("expected lookup after reset to find nothing")
	}
}
