package art

import "testing"

func TestByteAtAndPrefixAbove(t *testing.T) {
	key := uint64(0x1122334455667788)
	if got := byteAt(key, 56); got != 0x11 {
		t.Fatalf("byteAt(level 56) = %#x, want 0x11", got)
	}
	if got := byteAt(key, 0); got != 0x88 {
		t.Fatalf("byteAt(level 0) = %#x, want 0x88", got)
	}
	if got := prefixAbove(key, 56); got != 0 {
		t.Fatalf("prefixAbove(level 56) = %#x, want 0", got)
	}
	if got := prefixAbove(key, 0); got != key&^0xFF {
		t.Fatalf("prefixAbove(level 0) = %#x, want %#x", got, key&^0xFF)
	}
}

func TestDivergingLevel(t *testing.T) {
	a := uint64(0x0102030405060708)
	b := uint64(0x0102030405060709)
	if lvl := divergingLevel(a, b); lvl != 0 {
		t.Fatalf("divergingLevel (last byte differs) = %d, want 0", lvl)
	}
	c := uint64(0xFF02030405060708)
	if lvl := divergingLevel(a, c); lvl != 56 {
		t.Fatalf("divergingLevel (first byte differs) = %d, want 56", lvl)
	}
}

func TestNode4GrowsToNode16OnFifthChild(t *testing.T) {
	tr := New[int]()
	// Five keys sharing a common prefix above level 0 but distinct
	// bytes at level 0 force one node4 to grow into a node16.
	base := uint64(0x100)
	for i := 0; i < 5; i++ {
		tr.Put(base+uint64(i), i)
	}
	switch tr.root.(type) {
	case *node16[int]:
	default:
		t.Fatalf("root = %T, want *node16[int] after a 5th sibling", tr.root)
	}
}

func TestNode4UnwrapsOnSingleChild(t *testing.T) {
	tr := New[int]()
	tr.Put(0x100, 0)
	tr.Put(0x101, 1)
	// root is now a node4 with two leaf children sharing prefix 0x1.
	if _, ok := tr.root.(*node4[int]); !ok {
		t.Fatalf("root = %T, want *node4[int] before unwrap", tr.root)
	}
	tr.Remove(0x100)
	if _, ok := tr.root.(*leaf[int]); !ok {
		t.Fatalf("root = %T, want *leaf[int] after unwrapping a single-child node4", tr.root)
	}
	if v, ok := tr.Get(0x101); !ok || v != 1 {
		t.Fatalf("Get(0x101) = %v, %v; want 1, true", v, ok)
	}
}

func TestLeafForEachRespectsLimit(t *testing.T) {
	l := &leaf[int]{key: 7, value: 42}
	count, more := l.forEach(0, func(uint64, int) bool { return true })
	if count != 0 || more {
		t.Fatalf("forEach(limit=0) = %d, %v; want 0, false", count, more)
	}
	count, more = l.forEach(1, func(uint64, int) bool { return true })
	if count != 1 || more {
		t.Fatalf("forEach(limit=1) = %d, %v; want 1, false (budget exhausted)", count, more)
	}
	count, more = l.forEach(5, func(uint64, int) bool { return true })
	if count != 1 || !more {
		t.Fatalf("forEach(limit=5) = %d, %v; want 1, true (budget remains)", count, more)
	}
}
