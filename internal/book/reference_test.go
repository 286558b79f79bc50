package book

import (
	"math/rand"
	"testing"

	"github.com/google/btree"
)

// priceItem orders resting buckets by price for the reference model;
// bid buckets use the same ascending ordering and are walked best-first
// with Descend.
type priceItem struct {
	price  uint64
	bucket *OrderBucket
}

func (p priceItem) Less(than btree.Item) bool {
	return p.price < than.(priceItem).price
}

// referenceBook re-implements the matching protocol from first
// principles against a google/btree price index instead of the ART,
// used purely as a differential oracle in tests below.
type referenceBook struct {
	asks *btree.BTree
	bids *btree.BTree
	ids  map[uint64]*Order

	bestAsk *Order
	bestBid *Order
}

func newReferenceBook() *referenceBook {
	return &referenceBook{
		asks: btree.New(8),
		bids: btree.New(8),
		ids:  make(map[uint64]*Order),
	}
}

func (r *referenceBook) tree(s Side) *btree.BTree {
	if s == SideAsk {
		return r.asks
	}
	return r.bids
}

func (r *referenceBook) bestCache(s Side) **Order {
	if s == SideAsk {
		return &r.bestAsk
	}
	return &r.bestBid
}

func (r *referenceBook) bucketAt(s Side, price uint64) (*OrderBucket, bool) {
	item := r.tree(s).Get(priceItem{price: price})
	if item == nil {
		return nil, false
	}
	return item.(priceItem).bucket, true
}

func (r *referenceBook) bucketFor(s Side, price uint64) *OrderBucket {
	if existing, ok := r.bucketAt(s, price); ok {
		return existing
	}
	bucket := newOrderBucket(price)
	r.tree(s).ReplaceOrInsert(priceItem{price: price, bucket: bucket})
	return bucket
}

func (r *referenceBook) refreshBest(s Side) {
	var found *Order
	if s == SideAsk {
		r.tree(s).Ascend(func(item btree.Item) bool {
			found = item.(priceItem).bucket.Head()
			return false
		})
	} else {
		r.tree(s).Descend(func(item btree.Item) bool {
			found = item.(priceItem).bucket.Head()
			return false
		})
	}
	*r.bestCache(s) = found
}

func (r *referenceBook) removeOrder(o *Order) {
	delete(r.ids, o.ID)
	bucket := o.parent
	side := o.Side
	wasCached := *r.bestCache(side) == o

	bucket.removeLink(o)
	if bucket.IsEmpty() {
		r.tree(side).Delete(priceItem{price: bucket.Price})
	}
	if wasCached {
		r.refreshBest(side)
	}
}

func (r *referenceBook) maybeImproveBest(s Side, order *Order) {
	cache := r.bestCache(s)
	if *cache == nil {
		*cache = order
		return
	}
	current := (*cache).Price
	if (s == SideAsk && order.Price < current) || (s == SideBid && order.Price > current) {
		*cache = order
	}
}

func (r *referenceBook) newOrder(cmd Command) {
	remaining := cmd.Size
	var filled uint64
	for remaining > 0 {
		opposite := cmd.Side.Opposite()
		best := *r.bestCache(opposite)
		if best == nil || !canMatch(cmd.Side, cmd.Price, best.Price) {
			break
		}
		if best.Available() == 0 {
			r.removeOrder(best)
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
			r.removeOrder(best)
		}
	}

	if filled == cmd.Size {
		return
	}
	if _, exists := r.ids[cmd.OrderID]; exists {
		return
	}
	order := NewOrder(cmd.OrderID, cmd.Price, cmd.Size, cmd.Side, cmd.UID, cmd.Timestamp, filled)
	bucket := r.bucketFor(cmd.Side, cmd.Price)
	bucket.put(order)
	r.ids[order.ID] = order
	r.maybeImproveBest(cmd.Side, order)
}

func randomCommands(n int, seed int64) []Command {
	rng := rand.New(rand.NewSource(seed))
	cmds := make([]Command, n)
	for i := 0; i < n; i++ {
		side := SideAsk
		if rng.Intn(2) == 0 {
			side = SideBid
		}
		cmds[i] = Command{
			OrderID: uint64(rng.Intn(n/2 + 1)) + 1, // force occasional duplicate ids
			Price:   uint64(95 + rng.Intn(10)),
			Size:    uint64(1 + rng.Intn(8)),
			Side:    side,
			UID:     uint64(i),
		}
	}
	return cmds
}

// TestARTBookMatchesReferenceModel runs randomized command streams
// through both the ART-backed OrderBook and a btree-backed reference
// model built from the same protocol description, and checks they
// agree on each side's depth and on the best ask and best bid (id,
// price, available) after each command.
func TestARTBookMatchesReferenceModel(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		cmds := randomCommands(200, seed)
		b := New("BTC-PERP")
		ref := newReferenceBook()

		for i, cmd := range cmds {
			b.NewOrder(cmd)
			ref.newOrder(cmd)

			if got, want := b.Size(SideAsk), ref.asks.Len(); got != want {
				t.Fatalf("seed=%d cmd=%d: ask depth = %d, want %d", seed, i, got, want)
			}
			if got, want := b.Size(SideBid), ref.bids.Len(); got != want {
				t.Fatalf("seed=%d cmd=%d: bid depth = %d, want %d", seed, i, got, want)
			}
			if !sameOrder(b.BestAsk(), ref.bestAsk) {
				t.Fatalf("seed=%d cmd=%d: best ask = %+v, want %+v", seed, i, b.BestAsk(), ref.bestAsk)
			}
			if !sameOrder(b.BestBid(), ref.bestBid) {
				t.Fatalf("seed=%d cmd=%d: best bid = %+v, want %+v", seed, i, b.BestBid(), ref.bestBid)
			}
		}
	}
}

func sameOrder(a, b *Order) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.Price == b.Price && a.Available() == b.Available()
}
