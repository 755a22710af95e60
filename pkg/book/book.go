// Package book implements a continuous double-auction limit order book with
// price-time priority. The book is deliberately lock-free: it is owned by a
// single writer (see pkg/engine) and performs no synchronization of its own.
package book

import (
	"container/heap"
	"math"
	"sort"
)

// location routes a cancel to the level holding the order.
type location struct {
	side  Side
	price float64
}

// priceLevel is a FIFO of order ids resting at one price. qty caches the
// aggregate unfilled quantity so depth snapshots don't walk the queue.
type priceLevel struct {
	price float64
	queue []uint64
	qty   int64
}

// Book holds both sides of the market for a single instrument.
//
// Layout: an arena of order records keyed by id, a level map plus a price
// heap per side (O(1) best peek, O(log n) level insertion), and an order
// index for O(1) cancellation routing. A price is in a heap iff its level
// exists, and a level always holds at least one order.
type Book struct {
	orders map[uint64]*Order

	bids map[float64]*priceLevel
	asks map[float64]*priceLevel

	bidHeap maxPriceHeap
	askHeap minPriceHeap

	index map[uint64]location

	seq uint64

	// best prices, refreshed after every mutating operation
	bestBid, bestAsk       float64
	hasBestBid, hasBestAsk bool
}

func New() *Book {
	return &Book{
		orders: make(map[uint64]*Order),
		bids:   make(map[float64]*priceLevel),
		asks:   make(map[float64]*priceLevel),
		index:  make(map[uint64]location),
	}
}

// Add validates an incoming limit order, matches it against the opposite side
// while it crosses, and rests any remainder. It returns one Trade per match,
// in execution order. Rejected orders leave the book untouched.
func (b *Book) Add(side Side, price float64, qty int64, id uint64) ([]Trade, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return nil, ErrInvalidPrice
	}
	if _, resting := b.index[id]; resting {
		return nil, ErrDuplicateOrderID
	}

	b.seq++
	taker := &Order{ID: id, Side: side, Price: price, Qty: qty, Seq: b.seq}

	var trades []Trade

	if side == Buy {
		for taker.Qty > 0 && b.askHeap.Len() > 0 && b.askHeap.Peek() <= taker.Price {
			askP := b.askHeap.Peek()
			level := b.asks[askP]
			maker := b.orders[level.queue[0]]

			match := min(taker.Qty, maker.Qty)
			taker.Qty -= match
			maker.Qty -= match
			level.qty -= match
			trades = append(trades, Trade{TakerID: taker.ID, MakerID: maker.ID, Price: askP, Qty: match})

			if maker.Qty == 0 {
				level.queue = level.queue[1:]
				delete(b.index, maker.ID)
				delete(b.orders, maker.ID)
				if len(level.queue) == 0 {
					delete(b.asks, askP)
					removeAskPrice(&b.askHeap, askP)
				}
			}
		}
	} else {
		for taker.Qty > 0 && b.bidHeap.Len() > 0 && b.bidHeap.Peek() >= taker.Price {
			bidP := b.bidHeap.Peek()
			level := b.bids[bidP]
			maker := b.orders[level.queue[0]]

			match := min(taker.Qty, maker.Qty)
			taker.Qty -= match
			maker.Qty -= match
			level.qty -= match
			trades = append(trades, Trade{TakerID: taker.ID, MakerID: maker.ID, Price: bidP, Qty: match})

			if maker.Qty == 0 {
				level.queue = level.queue[1:]
				delete(b.index, maker.ID)
				delete(b.orders, maker.ID)
				if len(level.queue) == 0 {
					delete(b.bids, bidP)
					removeBidPrice(&b.bidHeap, bidP)
				}
			}
		}
	}

	// Fully filled takers never touch the resting side.
	if taker.Qty > 0 {
		b.rest(taker)
	}
	b.refreshBest()
	return trades, nil
}

// rest appends the order to the tail of its own-side level, creating the
// level (and registering its price in the heap) on first use.
func (b *Book) rest(o *Order) {
	levels := b.bids
	if o.Side == Sell {
		levels = b.asks
	}
	level := levels[o.Price]
	if level == nil {
		level = &priceLevel{price: o.Price}
		levels[o.Price] = level
		if o.Side == Buy {
			heap.Push(&b.bidHeap, o.Price)
		} else {
			heap.Push(&b.askHeap, o.Price)
		}
	}
	level.queue = append(level.queue, o.ID)
	level.qty += o.Qty

	b.orders[o.ID] = o
	b.index[o.ID] = location{side: o.Side, price: o.Price}
}

// Cancel removes a resting order, preserving the relative FIFO order of the
// rest of its level. Cancelling an unknown id is a no-op ErrOrderNotFound.
func (b *Book) Cancel(id uint64) error {
	loc, ok := b.index[id]
	if !ok {
		return ErrOrderNotFound
	}

	levels := b.bids
	if loc.side == Sell {
		levels = b.asks
	}
	level := levels[loc.price]
	for i, oid := range level.queue {
		if oid == id {
			level.queue = append(level.queue[:i], level.queue[i+1:]...)
			break
		}
	}
	level.qty -= b.orders[id].Qty
	if len(level.queue) == 0 {
		delete(levels, loc.price)
		if loc.side == Buy {
			removeBidPrice(&b.bidHeap, loc.price)
		} else {
			removeAskPrice(&b.askHeap, loc.price)
		}
	}

	delete(b.index, id)
	delete(b.orders, id)
	b.refreshBest()
	return nil
}

func (b *Book) refreshBest() {
	b.hasBestBid = b.bidHeap.Len() > 0
	if b.hasBestBid {
		b.bestBid = b.bidHeap.Peek()
	} else {
		b.bestBid = 0
	}
	b.hasBestAsk = b.askHeap.Len() > 0
	if b.hasBestAsk {
		b.bestAsk = b.askHeap.Peek()
	} else {
		b.bestAsk = 0
	}
}

// BestBid returns the highest resting buy price. ok is false when the bid
// side is empty; the price carries no meaning in that case.
func (b *Book) BestBid() (price float64, ok bool) { return b.bestBid, b.hasBestBid }

// BestAsk returns the lowest resting sell price.
func (b *Book) BestAsk() (price float64, ok bool) { return b.bestAsk, b.hasBestAsk }

// Depth returns both sides as (price, aggregate qty) pairs ordered best to
// worst: bids high to low, asks low to high. Diagnostic only.
func (b *Book) Depth() (bids, asks []Level) {
	for _, level := range b.bids {
		bids = append(bids, Level{Price: level.price, Qty: level.qty})
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].Price > bids[j].Price })

	for _, level := range b.asks {
		asks = append(asks, Level{Price: level.price, Qty: level.qty})
	}
	sort.Slice(asks, func(i, j int) bool { return asks[i].Price < asks[j].Price })
	return bids, asks
}

// Resting returns the number of orders currently on the book.
func (b *Book) Resting() int { return len(b.index) }

// RestingQty reports the unfilled quantity of a resting order.
func (b *Book) RestingQty(id uint64) (int64, bool) {
	o, ok := b.orders[id]
	if !ok {
		return 0, false
	}
	return o.Qty, true
}

// removeBidPrice drops an emptied price from the bid heap. O(n) scan, but
// only runs when a whole level disappears.
func removeBidPrice(h *maxPriceHeap, price float64) {
	for i := 0; i < h.Len(); i++ {
		if (*h)[i] == price {
			heap.Remove(h, i)
			return
		}
	}
}

func removeAskPrice(h *minPriceHeap, price float64) {
	for i := 0; i < h.Len(); i++ {
		if (*h)[i] == price {
			heap.Remove(h, i)
			return
		}
	}
}
