package marketdata

import (
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/uhyunpark/limitbook/pkg/queue"
)

// vwapAccum is the cumulative (unwindowed) per-symbol VWAP state the
// background processor maintains.
type vwapAccum struct {
	totalValue decimal.Decimal
	totalVol   int64
}

// Processor consumes ticks from a bounded queue on its own goroutine and
// keeps a cumulative VWAP per symbol. Reads are served behind an RWMutex so
// they never block ingestion for long.
type Processor struct {
	in  *queue.Queue[Tick]
	log *zap.Logger

	mu       sync.RWMutex
	bySymbol map[string]*vwapAccum

	processed atomic.Int64
	dropped   atomic.Int64

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// NewProcessor builds a processor with the given ingestion capacity.
// A nil logger disables logging.
func NewProcessor(capacity int, log *zap.Logger) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{
		in:       queue.New[Tick](capacity),
		log:      log,
		bySymbol: make(map[string]*vwapAccum),
		done:     make(chan struct{}),
	}
}

// Start launches the consumer loop. Subsequent calls are no-ops.
func (p *Processor) Start() {
	p.startOnce.Do(func() {
		go p.loop()
	})
}

// Submit enqueues a tick, blocking while the queue is full.
func (p *Processor) Submit(t Tick) error { return p.in.Push(t) }

// Offer enqueues a tick without blocking; queue.ErrFull when saturated.
func (p *Processor) Offer(t Tick) error { return p.in.TryPush(t) }

// Stop closes ingestion and waits for the loop to drain everything already
// accepted. Safe to call more than once.
func (p *Processor) Stop() {
	p.stopOnce.Do(func() {
		p.in.Close()
	})
	<-p.done
}

// VWAP returns the cumulative volume-weighted average price for a symbol.
func (p *Processor) VWAP(symbol string) (decimal.Decimal, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	acc, ok := p.bySymbol[symbol]
	if !ok || acc.totalVol == 0 {
		return decimal.Zero, false
	}
	return acc.totalValue.Div(decimal.NewFromInt(acc.totalVol)), true
}

// Processed returns how many valid ticks have been applied.
func (p *Processor) Processed() int64 { return p.processed.Load() }

// Dropped returns how many malformed ticks were discarded.
func (p *Processor) Dropped() int64 { return p.dropped.Load() }

func (p *Processor) loop() {
	defer close(p.done)
	for {
		t, err := p.in.Pop()
		if err != nil {
			// Closed and drained; the queue contract guarantees nothing
			// accepted is left behind.
			p.log.Info("tick processor stopped",
				zap.Int64("processed", p.processed.Load()),
				zap.Int64("dropped", p.dropped.Load()))
			return
		}
		if !t.Valid() {
			p.dropped.Add(1)
			p.log.Warn("discarding malformed tick",
				zap.String("symbol", t.Symbol),
				zap.Float64("price", t.Price),
				zap.Int64("volume", t.Volume))
			continue
		}
		p.apply(t)
		p.processed.Add(1)
	}
}

func (p *Processor) apply(t Tick) {
	p.mu.Lock()
	defer p.mu.Unlock()
	acc, ok := p.bySymbol[t.Symbol]
	if !ok {
		acc = &vwapAccum{}
		p.bySymbol[t.Symbol] = acc
	}
	value := decimal.NewFromFloat(t.Price).Mul(decimal.NewFromInt(t.Volume))
	acc.totalValue = acc.totalValue.Add(value)
	acc.totalVol += t.Volume
}
