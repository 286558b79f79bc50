// Package book implements the single-symbol matching core: a
// price-indexed order book backed by two adaptive radix trees (one
// per side) plus an id index, with a best-order cache and a FIFO
// match loop over Command.
package book

import "github.com/openalpha/clobmatch/internal/art"

// OrderBook is the matching engine for one symbol. The zero value is
// not usable; construct with New.
type OrderBook struct {
	Symbol string

	asks *art.Tree[*OrderBucket]
	bids *art.Tree[*OrderBucket]
	ids  *art.Tree[*Order]

	bestAsk *Order
	bestBid *Order
}

// New constructs an empty OrderBook for symbol.
func New(symbol string, opts ...Option) *OrderBook {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &OrderBook{
		Symbol: symbol,
		asks:   art.NewWithConfig[*OrderBucket](cfg.artConfig),
		bids:   art.NewWithConfig[*OrderBucket](cfg.artConfig),
		ids:    art.NewWithConfig[*Order](cfg.artConfig),
	}
}

// sideTree returns the ART tree that owns buckets for s.
func (b *OrderBook) sideTree(s Side) *art.Tree[*OrderBucket] {
	if s == SideAsk {
		return b.asks
	}
	return b.bids
}

// bestCache returns a pointer to the cached best order for s.
func (b *OrderBook) bestCache(s Side) **Order {
	if s == SideAsk {
		return &b.bestAsk
	}
	return &b.bestBid
}

// BestAsk returns the cached best (lowest-priced) resting ask order,
// or nil if the ask side is empty.
func (b *OrderBook) BestAsk() *Order { return b.bestAsk }

// BestBid returns the cached best (highest-priced) resting bid order,
// or nil if the bid side is empty.
func (b *OrderBook) BestBid() *Order { return b.bestBid }

// Size reports the number of resting buckets on side s.
func (b *OrderBook) Size(s Side) int { return b.sideTree(s).Len() }

// BucketAt returns the resting bucket at price on side s, if any.
func (b *OrderBook) BucketAt(s Side, price uint64) (*OrderBucket, bool) {
	return b.sideTree(s).Get(price)
}

// OrderByID looks up a resting order by id.
func (b *OrderBook) OrderByID(id uint64) (*Order, bool) {
	return b.ids.Get(id)
}

// ForEachBucket visits up to limit buckets on side s in price order —
// ascending for ASK, descending for BID — matching the side's natural
// best-to-worst order. limit <= 0 means unbounded.
func (b *OrderBook) ForEachBucket(s Side, limit int, visit func(price uint64, bucket *OrderBucket) bool) int {
	tree := b.sideTree(s)
	wrap := func(k uint64, v *OrderBucket) bool { return visit(k, v) }
	if s == SideAsk {
		return tree.ForEach(limit, wrap)
	}
	return tree.ForEachDesc(limit, wrap)
}

// canMatch reports whether an incoming command of side s at price
// crosses a resting order at restingPrice.
func canMatch(s Side, price, restingPrice uint64) bool {
	if s == SideAsk {
		return restingPrice >= price
	}
	return restingPrice <= price
}

// NewOrder applies one command to the book: match phase, then rest-or-
// drop. It has no return value — callers observe effects via the
// accessors above.
func (b *OrderBook) NewOrder(cmd Command) {
	remaining := cmd.Size
	var filled uint64

	for remaining > 0 {
		opposite := cmd.Side.Opposite()
		best := *b.bestCache(opposite)
		if best == nil || !canMatch(cmd.Side, cmd.Price, best.Price) {
			break
		}
		if best.Available() == 0 {
			b.removeOrder(best)
			continue
		}

		m := best.Available()
		if remaining < m {
			m = remaining
		}
		best.Filled += m
		best.parent.totalVolume -= m
		remaining -= m
		filled += m

		if best.Available() == 0 {
			b.removeOrder(best)
		}
	}

	if filled == cmd.Size {
		return
	}
	if _, exists := b.ids.Get(cmd.OrderID); exists {
		return
	}

	order := NewOrder(cmd.OrderID, cmd.Price, cmd.Size, cmd.Side, cmd.UID, cmd.Timestamp, filled)
	bucket := b.bucketFor(cmd.Side, cmd.Price)
	bucket.put(order)
	b.ids.Put(order.ID, order)
	b.maybeImproveBest(cmd.Side, order)
}

// bucketFor returns the resting bucket at price on side s, creating
// (and indexing) one if it doesn't yet exist.
func (b *OrderBook) bucketFor(s Side, price uint64) *OrderBucket {
	tree := b.sideTree(s)
	if existing, ok := tree.Get(price); ok {
		return existing
	}
	bucket := newOrderBucket(price)
	tree.Put(price, bucket)
	return bucket
}

// maybeImproveBest installs order as the cached best for s if the
// cache is empty or order's price strictly improves on it.
func (b *OrderBook) maybeImproveBest(s Side, order *Order) {
	cache := b.bestCache(s)
	if *cache == nil {
		*cache = order
		return
	}
	current := (*cache).Price
	if (s == SideAsk && order.Price < current) || (s == SideBid && order.Price > current) {
		*cache = order
	}
}

// removeOrder fully removes a resting order: from the id index, from
// its bucket's linked list, from the side's ART if the bucket is now
// empty, and refreshes the best-order cache if it was the cached
// order.
func (b *OrderBook) removeOrder(o *Order) {
	b.ids.Remove(o.ID)

	bucket := o.parent
	side := o.Side
	wasCached := *b.bestCache(side) == o

	bucket.removeLink(o)
	if bucket.IsEmpty() {
		b.sideTree(side).Remove(bucket.Price)
	}

	if wasCached {
		b.refreshBest(side)
	}
}

// refreshBest recomputes the cached best order for s via a 1-limited
// traversal of the side's tree in best-to-worst order.
func (b *OrderBook) refreshBest(s Side) {
	var found *Order
	b.ForEachBucket(s, 1, func(_ uint64, bucket *OrderBucket) bool {
		found = bucket.Head()
		return false
	})
	*b.bestCache(s) = found
}

// Stats reports ART pool occupancy, useful for CLI introspection and
// tests.
func (b *OrderBook) Stats() (asks, bids, ids art.Stats) {
	return b.asks.Stats(), b.bids.Stats(), b.ids.Stats()
}
