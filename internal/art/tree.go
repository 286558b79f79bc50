// Package art implements an adaptive radix tree keyed by uint64,
// fanning out on one byte of the key per level (levels 56 down to 0
// in steps of 8). Each internal node picks its own representation —
// Node4, Node16, Node48, or Node256 — based on how many children it
// actually holds, growing and shrinking that representation as
// children are added and removed. Path compression means a node only
// exists at a level where two keys actually diverge.
//
// Tree, its Config, and the pool Stats it reports are the package's
// exported types; node kinds, the object pool, and the
// ordered-traversal helpers are all internal to how a Tree does its
// job.
package art

// Tree is an adaptive radix tree mapping uint64 keys to values of
// type V. The zero value is not usable; construct with New or
// NewWithConfig.
type Tree[V any] struct {
	root   node[V]
	pool   *pool[V]
	config Config
	size   int
}

// New returns an empty tree using DefaultConfig.
func New[V any]() *Tree[V] {
	return NewWithConfig[V](DefaultConfig())
}

// NewWithConfig returns an empty tree tuned by cfg.
func NewWithConfig[V any](cfg Config) *Tree[V] {
	return &Tree[V]{
		pool:   newPool[V](cfg.PoolCapacity),
		config: cfg,
	}
}

// Len reports the number of distinct keys stored.
func (t *Tree[V]) Len() int { return t.size }

// Put inserts or overwrites the value for key, reporting whether key
// already existed.
func (t *Tree[V]) Put(key uint64, value V) (existed bool) {
	if t.root == nil {
		t.root = &leaf[V]{key: key, value: value}
		t.size++
		return false
	}
	replacement, existed := t.root.insert(t, key, value)
	t.root = replacement
	if !existed {
		t.size++
	}
	return existed
}

// Get returns the value stored for key, if any.
func (t *Tree[V]) Get(key uint64) (V, bool) {
	var zero V
	if t.root == nil {
		return zero, false
	}
	return t.root.get(key)
}

// Remove deletes key, reporting whether it was present.
func (t *Tree[V]) Remove(key uint64) bool {
	if t.root == nil {
		return false
	}
	replacement, removed := t.root.remove(t, key)
	t.root = replacement
	if removed {
		t.size--
	}
	return removed
}

// Ceiling returns the smallest stored key >= key.
func (t *Tree[V]) Ceiling(key uint64) (uint64, V, bool) {
	var zero V
	if t.root == nil {
		return 0, zero, false
	}
	return t.root.ceiling(key)
}

// Floor returns the largest stored key <= key.
func (t *Tree[V]) Floor(key uint64) (uint64, V, bool) {
	var zero V
	if t.root == nil {
		return 0, zero, false
	}
	return t.root.floor(key)
}

// Min returns the smallest stored key.
func (t *Tree[V]) Min() (uint64, V, bool) {
	var zero V
	if t.root == nil {
		return 0, zero, false
	}
	return minimum[V](t.root)
}

// Max returns the largest stored key.
func (t *Tree[V]) Max() (uint64, V, bool) {
	var zero V
	if t.root == nil {
		return 0, zero, false
	}
	return maximum[V](t.root)
}

// ForEach visits stored entries in ascending key order, stopping after
// limit entries (limit <= 0 means unbounded) or as soon as visit
// returns false. It returns the number of entries visited.
func (t *Tree[V]) ForEach(limit int, visit func(uint64, V) bool) int {
	if t.root == nil {
		return 0
	}
	if limit <= 0 {
		limit = t.size
		if limit == 0 {
			limit = 1
		}
	}
	count, _ := t.root.forEach(limit, visit)
	return count
}

// ForEachDesc visits stored entries in descending key order, with the
// same limit/early-stop semantics as ForEach.
func (t *Tree[V]) ForEachDesc(limit int, visit func(uint64, V) bool) int {
	if t.root == nil {
		return 0
	}
	if limit <= 0 {
		limit = t.size
		if limit == 0 {
			limit = 1
		}
	}
	count, _ := t.root.forEachDesc(limit, visit)
	return count
}

// Stats reports object-pool occupancy and hit/miss counters.
func (t *Tree[V]) Stats() Stats {
	return t.pool.stats()
}
