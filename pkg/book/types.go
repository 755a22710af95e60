package book

import "errors"

// Side is the direction of an order.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Order is a resting limit order. Qty is the unfilled remainder; Seq is the
// arrival counter that defines time priority within a price level.
type Order struct {
	ID    uint64
	Side  Side
	Price float64
	Qty   int64
	Seq   uint64
}

// Trade is one match between an incoming taker and a resting maker.
// Price is always the maker's price.
type Trade struct {
	TakerID uint64
	MakerID uint64
	Price   float64
	Qty     int64
}

// Level is one rung of a depth snapshot: a price and the aggregate
// quantity resting at it.
type Level struct {
	Price float64
	Qty   int64
}

// Rejection reasons. All are local and recoverable: the request is refused
// and the book is left exactly as it was.
var (
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrInvalidPrice     = errors.New("price must be positive")
	ErrDuplicateOrderID = errors.New("order id already resting")
	ErrOrderNotFound    = errors.New("order not found")
)
