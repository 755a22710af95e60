package marketdata

import "time"

// Tick is one observed trade print: a symbol, its price, and the traded
// volume at a point in time.
type Tick struct {
	Time   time.Time `json:"ts"`
	Symbol string    `json:"symbol"`
	Price  float64   `json:"price"`
	Volume int64     `json:"volume"`
}

// Valid reports whether the tick is well-formed enough to feed statistics.
func (t Tick) Valid() bool {
	return t.Symbol != "" && t.Price > 0 && t.Volume > 0
}
