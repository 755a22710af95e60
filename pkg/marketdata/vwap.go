package marketdata

import (
	"errors"

	"github.com/shopspring/decimal"
)

// DefaultVWAPWindow is the number of ticks a VWAP spans when none is given.
const DefaultVWAPWindow = 100

var (
	ErrInvalidWindow = errors.New("vwap: window size must be positive")
	ErrInvalidVolume = errors.New("vwap: volume must be positive")
)

type vwapSample struct {
	price  decimal.Decimal
	volume int64
}

// VWAP maintains a volume-weighted average price over the last N ticks.
// Running sums are kept in decimals so the money math stays exact; eviction
// subtracts the departing tick's contribution instead of rescanning.
//
// Not safe for concurrent use; Processor provides the synchronized variant.
type VWAP struct {
	window     int
	ticks      []vwapSample
	totalValue decimal.Decimal
	totalVol   int64
}

// NewVWAP returns a VWAP over the last window ticks.
func NewVWAP(window int) (*VWAP, error) {
	if window <= 0 {
		return nil, ErrInvalidWindow
	}
	return &VWAP{window: window}, nil
}

// Add records a tick, evicting the oldest once the window is full.
func (v *VWAP) Add(price decimal.Decimal, volume int64) error {
	if volume <= 0 {
		return ErrInvalidVolume
	}
	if len(v.ticks) >= v.window {
		victim := v.ticks[0]
		v.ticks = v.ticks[1:]
		v.totalValue = v.totalValue.Sub(victim.price.Mul(decimal.NewFromInt(victim.volume)))
		v.totalVol -= victim.volume
	}
	v.ticks = append(v.ticks, vwapSample{price: price, volume: volume})
	v.totalValue = v.totalValue.Add(price.Mul(decimal.NewFromInt(volume)))
	v.totalVol += volume
	return nil
}

// Value returns the current VWAP, or zero when no volume has been seen.
func (v *VWAP) Value() decimal.Decimal {
	if v.totalVol == 0 {
		return decimal.Zero
	}
	return v.totalValue.Div(decimal.NewFromInt(v.totalVol))
}

// Count returns the number of ticks in the window.
func (v *VWAP) Count() int { return len(v.ticks) }

// TotalVolume returns the summed volume across the window.
func (v *VWAP) TotalVolume() int64 { return v.totalVol }

// Reset discards all state.
func (v *VWAP) Reset() {
	v.ticks = nil
	v.totalValue = decimal.Zero
	v.totalVol = 0
}
