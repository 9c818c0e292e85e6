package avltree

import "testing"

func collect[V any](tr *Tree[V]) []Record[V] {
	var out []Record[V]
	for r := range tr.InOrder() {
		out = append(out, r)
	}
	return out
}

func TestEmptyTree(t *testing.T) {
	tr := New[int]()

	if tr.Len() != 0 {
		t.Fatalf("expected size 0, got %d", tr.Len())
	}

	if got := collect(tr); len(got) != 0 {
		t.Fatalf("expected no records, got %v", got)
	}
}

func TestInsertAndInOrder(t *testing.T) {
	tr := New[int]()

	tr.Insert("b", 2)
	tr.Insert("a", 1)
	tr.Insert("c", 3)

	got := collect(tr)
	want := []string{"a", "b", "c"}

	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(got))
	}

	for i, k := range want {
		if got[i].Key != k {
			t.Fatalf("position %d: expected key %s, got %s", i, k, got[i].Key)
		}
	}
}

func TestDuplicateKeyUpdatesInPlace(t *testing.T) {
	tr := New[string]()

	tr.Insert("k", "one")
	tr.Insert("k", "uno")

	if tr.Len() != 1 {
		t.Fatalf("expected size 1, got %d", tr.Len())
	}

	got := collect(tr)
	if len(got) != 1 || got[0].Value != "uno" {
		t.Fatalf("update failed, got %v", got)
	}
}

func TestSequentialInsertStaysBalanced(t *testing.T) {
	tr := New[int]()

	keys := []string{
		"key00", "key01", "key02", "key03", "key04",
		"key05", "key06", "key07", "key08", "key09",
		"key10", "key11", "key12", "key13", "key14",
	}

	for i, k := range keys {
		tr.Insert(k, i)

		for _, r := range collect(tr) {
			bf, ok := tr.BalanceFactor(r.Key)
			if !ok {
				t.Fatalf("key %s unexpectedly absent after insert", r.Key)
			}
			if bf < -1 || bf > 1 {
				t.Fatalf("balance factor out of range for %s: %d", r.Key, bf)
			}
		}
	}

	got := collect(tr)
	for i := 1; i < len(got); i++ {
		if got[i-1].Key >= got[i].Key {
			t.Fatalf("in-order traversal not strictly ascending at %d: %s >= %s", i, got[i-1].Key, got[i].Key)
		}
	}
}

func TestLexicographicOrderOfNumericSuffixes(t *testing.T) {
	tr := New[int]()
	tr.Insert("key10", 10)
	tr.Insert("key2", 2)

	got := collect(tr)
	if got[0].Key != "key10" || got[1].Key != "key2" {
		t.Fatalf("expected byte-lexicographic order key10 < key2, got %v", got)
	}
}
