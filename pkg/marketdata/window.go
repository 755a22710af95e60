// Package marketdata holds the statistical collaborators fed by trade prints:
// a sliding time window with moving average and anomaly detection, a
// count-window VWAP, and a queue-fed background tick processor. None of this
// participates in matching.
package marketdata

import (
	"math"
	"time"
)

const (
	// DefaultWindow is the span of the sliding statistics window.
	DefaultWindow = time.Minute
	// anomalyMinSamples is the minimum window population before the
	// 3-sigma test is meaningful.
	anomalyMinSamples = 20
)

// Window keeps, per symbol, the ticks observed within a sliding time span
// anchored to the newest tick's timestamp (not wall time, so replays behave
// identically to live feeds).
//
// Not safe for concurrent use; wrap it in a single consumer.
type Window struct {
	span  time.Duration
	ticks map[string][]Tick // oldest first
}

// NewWindow returns a window over the given span; span <= 0 selects
// DefaultWindow.
func NewWindow(span time.Duration) *Window {
	if span <= 0 {
		span = DefaultWindow
	}
	return &Window{span: span, ticks: make(map[string][]Tick)}
}

// Observe records a tick and evicts everything older than the span relative
// to it.
func (w *Window) Observe(t Tick) {
	ticks := append(w.ticks[t.Symbol], t)
	cut := 0
	for cut < len(ticks) && t.Time.Sub(ticks[cut].Time) > w.span {
		cut++
	}
	w.ticks[t.Symbol] = ticks[cut:]
}

// MovingAverage returns the mean price over the window. ok is false when no
// ticks are present for the symbol.
func (w *Window) MovingAverage(symbol string) (avg float64, ok bool) {
	ticks := w.ticks[symbol]
	if len(ticks) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, t := range ticks {
		sum += t.Price
	}
	return sum / float64(len(ticks)), true
}

// Anomalous reports whether price sits above mean + 3 standard deviations of
// the windowed prices. It stays false until at least anomalyMinSamples ticks
// are in the window.
func (w *Window) Anomalous(symbol string, price float64) bool {
	ticks := w.ticks[symbol]
	if len(ticks) < anomalyMinSamples {
		return false
	}
	mean, _ := w.MovingAverage(symbol)
	variance := 0.0
	for _, t := range ticks {
		d := t.Price - mean
		variance += d * d
	}
	variance /= float64(len(ticks))
	stddev := math.Sqrt(variance)
	return price > mean+3*stddev
}

// Count returns the number of windowed ticks for a symbol.
func (w *Window) Count(symbol string) int { return len(w.ticks[symbol]) }
