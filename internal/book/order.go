package book

// Order is one resting order, doubly-linked within its OrderBucket.
// Prev/Next/Parent are structural and only meaningful while the order
// is resting; OrderBucket.removeLink nils them out on the way out.
type Order struct {
	ID        uint64
	Price     uint64
	Size      uint64
	Filled    uint64
	Side      Side
	UID       uint64
	Timestamp int64

	prev, next *Order
	parent     *OrderBucket
}

// NewOrder constructs a resting order with filled pre-set to any
// quantity already consumed during the match phase of NewOrder.
func NewOrder(id, price, size uint64, side Side, uid uint64, timestamp int64, filled uint64) *Order {
	return &Order{
		ID:        id,
		Price:     price,
		Size:      size,
		Filled:    filled,
		Side:      side,
		UID:       uid,
		Timestamp: timestamp,
	}
}

// Available is the unfilled residual. Invariant: a resting order
// always has Available() > 0; once it reaches 0 the order is removed
// before control returns to the caller.
func (o *Order) Available() uint64 {
	return o.Size - o.Filled
}
