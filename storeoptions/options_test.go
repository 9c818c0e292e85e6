package storeoptions

import "testing"

func TestNewAppliesDefaults(t *testing.T) {
	o := New()

	if o.MemoryThreshold != DefaultMemoryThreshold {
		t.Fatalf("expected %d, got %d", DefaultMemoryThreshold, o.MemoryThreshold)
	}
	if o.DatabasePath != DefaultDatabasePath {
		t.Fatalf("expected %s, got %s", DefaultDatabasePath, o.DatabasePath)
	}
	if o.SparseInterval != DefaultSparseInterval {
		t.Fatalf("expected %d, got %d", DefaultSparseInterval, o.SparseInterval)
	}
	if o.Logger == nil {
		t.Fatal("expected a non-nil default logger")
	}
}

func TestWithOptionsOverrideDefaults(t *testing.T) {
	o := New(
		WithMemoryThreshold(100),
		WithDatabasePath("/tmp/mydb"),
		WithSparseInterval(10),
		WithBloomSize(2000),
		WithBloomHashCount(5),
	)

	if o.MemoryThreshold != 100 {
		t.Fatalf("expected 100, got %d", o.MemoryThreshold)
	}
	if o.DatabasePath != "/tmp/mydb" {
		t.Fatalf("expected /tmp/mydb, got %s", o.DatabasePath)
	}
	if o.SparseInterval != 10 {
		t.Fatalf("expected 10, got %d", o.SparseInterval)
	}
	if o.BloomSize != 2000 {
		t.Fatalf("expected 2000, got %d", o.BloomSize)
	}
	if o.BloomHashCount != 5 {
		t.Fatalf("expected 5, got %d", o.BloomHashCount)
	}
}

func TestInvalidOverridesAreIgnored(t *testing.T) {
	o := New(
		WithMemoryThreshold(0),
		WithDatabasePath("   "),
		WithSparseInterval(-1),
		WithBloomSize(0),
	)

	if o.MemoryThreshold != DefaultMemoryThreshold {
		t.Fatalf("expected default threshold to survive, got %d", o.MemoryThreshold)
	}
	if o.DatabasePath != DefaultDatabasePath {
		t.Fatalf("expected default path to survive, got %s", o.DatabasePath)
	}
	if o.SparseInterval != DefaultSparseInterval {
		t.Fatalf("expected default interval to survive, got %d", o.SparseInterval)
	}
	if o.BloomSize != bloomDefaultSizeForTest() {
		t.Fatalf("expected default bloom size to survive, got %d", o.BloomSize)
	}
}

func bloomDefaultSizeForTest() uint {
	return NewDefaultOptions().BloomSize
}
