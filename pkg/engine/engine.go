// Package engine wraps a book.Book in its single logical writer: one
// goroutine consumes submit/cancel/depth requests from a bounded queue
// strictly in enqueue order, so the book itself needs no locks and the FIFO
// and no-cross invariants hold by construction. Top-of-book reads are served
// lock-free from an atomically published snapshot.
package engine

import (
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/uhyunpark/limitbook/pkg/book"
	"github.com/uhyunpark/limitbook/pkg/journal"
	"github.com/uhyunpark/limitbook/pkg/queue"
)

var (
	// ErrClosed is returned once the engine has stopped accepting requests.
	ErrClosed = errors.New("engine closed")
	// ErrQueueFull is returned by the fail-fast submit paths when the
	// ingestion queue is saturated.
	ErrQueueFull = errors.New("engine request queue full")
)

type reqKind int

const (
	reqSubmit reqKind = iota
	reqCancel
	reqDepth
)

type request struct {
	kind  reqKind
	side  book.Side
	price float64
	qty   int64
	id    uint64
	resp  chan response
}

type response struct {
	trades []book.Trade
	bids   []book.Level
	asks   []book.Level
	err    error
}

// Quote is the atomically published top of book.
type Quote struct {
	Bid    float64
	HasBid bool
	Ask    float64
	HasAsk bool
}

// Config carries the engine's collaborators. Zero values are usable:
// a default queue capacity, a nop logger, no journal, unregistered metrics.
type Config struct {
	QueueCapacity int
	Logger        *zap.Logger
	Journal       *journal.Journal // optional trade audit log
	Metrics       *Metrics         // optional; built unregistered when nil
}

const defaultQueueCapacity = 1024

// Engine owns one Book. All mutation goes through the request queue; reads
// of the quote never block behind it.
type Engine struct {
	bk      *book.Book
	reqs    *queue.Queue[request]
	quote   atomic.Pointer[Quote]
	log     *zap.Logger
	jnl     *journal.Journal
	metrics *Metrics

	closeOnce sync.Once
	done      chan struct{}
}

// New builds an engine and starts its writer loop.
func New(cfg Config) *Engine {
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = defaultQueueCapacity
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics(nil)
	}
	e := &Engine{
		bk:      book.New(),
		reqs:    queue.New[request](cfg.QueueCapacity),
		log:     cfg.Logger,
		jnl:     cfg.Journal,
		metrics: cfg.Metrics,
	}
	e.done = make(chan struct{})
	e.quote.Store(&Quote{})
	go e.run()
	return e
}

// Submit enqueues a limit order and waits for the result, blocking while the
// ingestion queue is full. The returned trades are in execution order.
func (e *Engine) Submit(side book.Side, price float64, qty int64, id uint64) ([]book.Trade, error) {
	resp := make(chan response, 1)
	req := request{kind: reqSubmit, side: side, price: price, qty: qty, id: id, resp: resp}
	if err := e.reqs.Push(req); err != nil {
		return nil, ErrClosed
	}
	r := <-resp
	return r.trades, r.err
}

// TrySubmit is the fail-fast variant: ErrQueueFull when the queue is
// saturated instead of blocking.
func (e *Engine) TrySubmit(side book.Side, price float64, qty int64, id uint64) ([]book.Trade, error) {
	resp := make(chan response, 1)
	req := request{kind: reqSubmit, side: side, price: price, qty: qty, id: id, resp: resp}
	switch err := e.reqs.TryPush(req); err {
	case nil:
	case queue.ErrFull:
		return nil, ErrQueueFull
	default:
		return nil, ErrClosed
	}
	r := <-resp
	return r.trades, r.err
}

// Cancel removes a resting order by id.
func (e *Engine) Cancel(id uint64) error {
	resp := make(chan response, 1)
	if err := e.reqs.Push(request{kind: reqCancel, id: id, resp: resp}); err != nil {
		return ErrClosed
	}
	return (<-resp).err
}

// Depth returns an ordered (best to worst) per-side snapshot of price levels
// and aggregate quantities, computed by the writer between requests so it is
// always internally consistent.
func (e *Engine) Depth() (bids, asks []book.Level, err error) {
	resp := make(chan response, 1)
	if err := e.reqs.Push(request{kind: reqDepth, resp: resp}); err != nil {
		return nil, nil, ErrClosed
	}
	r := <-resp
	return r.bids, r.asks, r.err
}

// Quote returns the last published top of book. Never blocks and never
// observes a half-applied mutation.
func (e *Engine) Quote() Quote { return *e.quote.Load() }

// Close stops admissions, waits for every already-accepted request to be
// processed and answered, then returns. Safe to call more than once.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.reqs.Close()
	})
	<-e.done
}

func (e *Engine) run() {
	defer close(e.done)
	for {
		req, err := e.reqs.Pop()
		if err != nil {
			// Closed and fully drained.
			e.log.Info("engine stopped", zap.Int("resting_orders", e.bk.Resting()))
			return
		}
		e.metrics.QueueDepth.Set(float64(e.reqs.Len()))
		e.apply(req)
	}
}

func (e *Engine) apply(req request) {
	switch req.kind {
	case reqSubmit:
		trades, err := e.bk.Add(req.side, req.price, req.qty, req.id)
		if err != nil {
			e.metrics.OrdersRejected.Inc()
			e.log.Debug("order rejected",
				zap.Uint64("id", req.id),
				zap.Stringer("side", req.side),
				zap.Float64("price", req.price),
				zap.Int64("qty", req.qty),
				zap.Error(err))
		} else {
			e.metrics.OrdersAccepted.Inc()
			e.metrics.Trades.Add(float64(len(trades)))
			for _, tr := range trades {
				e.metrics.TradedQty.Add(float64(tr.Qty))
				if e.jnl != nil {
					if jerr := e.jnl.AppendTrade(tr); jerr != nil {
						e.log.Error("journal append failed", zap.Error(jerr))
					}
				}
			}
			e.publishQuote()
		}
		req.resp <- response{trades: trades, err: err}

	case reqCancel:
		err := e.bk.Cancel(req.id)
		if err == nil {
			e.metrics.OrdersCancelled.Inc()
			e.publishQuote()
		}
		req.resp <- response{err: err}

	case reqDepth:
		bids, asks := e.bk.Depth()
		req.resp <- response{bids: bids, asks: asks}
	}
}

func (e *Engine) publishQuote() {
	q := &Quote{}
	q.Bid, q.HasBid = e.bk.BestBid()
	q.Ask, q.HasAsk = e.bk.BestAsk()
	e.quote.Store(q)
}
