package art

// splitForMismatch implements spec.md §4.1's "path compression
// (branch-on-insert)": called when an incoming key's prefix disagrees
// with an existing node's established prefix above its dispatch level.
// It synthesizes a new Node4 parent at the highest diverging byte
// position, with the existing node and a fresh leaf for (key, value)
// as its only two children, and returns that parent as the
// replacement the caller must propagate upward.
func splitForMismatch[V any](t *Tree[V], existing node[V], existingLevel level, existingPrefix uint64, key uint64, value V) node[V] {
	keyPrefix := prefixAbove(key, existingLevel)
	splitAt := divergingLevel(existingPrefix, keyPrefix)
	parent := newNode4[V](t, splitAt, prefixAbove(key, splitAt))
	parent.addChildUnchecked(byteAt(existingPrefix, splitAt), existing)
	parent.addChildUnchecked(byteAt(key, splitAt), &leaf[V]{key: key, value: value})
	return parent
}

// minimum returns the smallest key reachable under n (or from n
// itself if n is a leaf). Used by ordered queries when a ceiling
// search needs to descend into "the first non-empty slot, reset to
// its extreme leaf" (spec.md §4.1 step 3).
//
// This walks structurally via forEach rather than re-entering n's own
// ceiling(0): ceiling/floor start with a prefix guard that compares
// n's fixed prefix against the query key, and for an internal node
// with a non-zero prefix, ceiling(0)/floor(^uint64(0)) reproduces the
// exact same comparison that led here in the first place, recursing
// into itself forever.
func minimum[V any](n node[V]) (uint64, V, bool) {
	var k uint64
	var v V
	var found bool
	n.forEach(1, func(key uint64, value V) bool {
		k, v, found = key, value, true
		return false
	})
	return k, v, found
}

// maximum returns the largest key reachable under n. Mirror of
// minimum for floor searches; see minimum for why this doesn't call
// n.floor directly.
func maximum[V any](n node[V]) (uint64, V, bool) {
	var k uint64
	var v V
	var found bool
	n.forEachDesc(1, func(key uint64, value V) bool {
		k, v, found = key, value, true
		return false
	})
	return k, v, found
}
