package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/uhyunpark/limitbook/params"
	"github.com/uhyunpark/limitbook/pkg/book"
	"github.com/uhyunpark/limitbook/pkg/engine"
	"github.com/uhyunpark/limitbook/pkg/journal"
	"github.com/uhyunpark/limitbook/pkg/marketdata"
	"github.com/uhyunpark/limitbook/pkg/util"
)

const symbol = "LMB-USD"

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("")

	// Setup logging (write to both console and file)
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "data/node.log"
	}
	level := zapcore.InfoLevel
	if os.Getenv("VERBOSE") == "true" {
		level = zapcore.DebugLevel
	}
	logger, err := util.NewLoggerWithFile(logFile, level)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("logger initialized", zap.String("log_file", logFile))

	// ---- Journal (optional trade/tick audit log) ----
	var jnl *journal.Journal
	if cfg.Journal.Enabled {
		jnl, err = journal.Open(cfg.Journal.Path)
		if err != nil {
			logger.Fatal("journal open failed", zap.Error(err))
		}
		defer jnl.Close()
		logger.Info("journal enabled", zap.String("path", cfg.Journal.Path))
	}

	// ---- Metrics ----
	reg := prometheus.NewRegistry()
	metrics := engine.NewMetrics(reg)

	metricsAddr := os.Getenv("METRICS_ADDR")
	if metricsAddr == "" {
		metricsAddr = ":9090"
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		logger.Info("metrics server starting", zap.String("addr", metricsAddr))
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	// ---- Matching engine ----
	eng := engine.New(engine.Config{
		QueueCapacity: cfg.Engine.QueueCapacity,
		Logger:        logger.Named("engine"),
		Journal:       jnl,
		Metrics:       metrics,
	})

	// ---- Market data processor ----
	proc := marketdata.NewProcessor(cfg.MarketData.TickQueueCapacity, logger.Named("marketdata"))
	proc.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Order flow feeder ----
	// Random limit order flow around a drifting mid; trade prints fan out as
	// ticks into the market data processor (and the journal when enabled).
	ordersPerSec := 200
	logger.Info("node starting",
		zap.Int("queue_capacity", cfg.Engine.QueueCapacity),
		zap.Bool("block_on_full", cfg.Engine.BlockOnFull),
		zap.Int("orders_per_sec", ordersPerSec))

	feederDone := make(chan struct{})
	go func() {
		defer close(feederDone)
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		ticker := time.NewTicker(time.Second / time.Duration(ordersPerSec))
		defer ticker.Stop()

		mid := 100.0
		var nextID uint64
		var live []uint64 // ids that may still be resting

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			// Occasionally cancel something instead of submitting.
			if len(live) > 0 && rng.Intn(10) == 0 {
				victim := live[rng.Intn(len(live))]
				if err := eng.Cancel(victim); err != nil {
					// Already filled or previously cancelled; fine.
					logger.Debug("cancel miss", zap.Uint64("id", victim))
				}
				continue
			}

			mid += rng.Float64() - 0.5
			side := book.Buy
			offset := -rng.Float64() * 2
			if rng.Intn(2) == 1 {
				side = book.Sell
				offset = rng.Float64() * 2
			}
			price := float64(int((mid+offset)*100)) / 100 // 2dp grid
			qty := int64(rng.Intn(50) + 1)

			nextID++
			id := nextID

			var trades []book.Trade
			var err error
			if cfg.Engine.BlockOnFull {
				trades, err = eng.Submit(side, price, qty, id)
			} else {
				trades, err = eng.TrySubmit(side, price, qty, id)
			}
			if err != nil {
				logger.Debug("submit failed", zap.Uint64("id", id), zap.Error(err))
				continue
			}
			live = append(live, id)
			if len(live) > 4096 {
				live = live[len(live)-2048:]
			}

			now := time.Now()
			for _, tr := range trades {
				tick := marketdata.Tick{Time: now, Symbol: symbol, Price: tr.Price, Volume: tr.Qty}
				if err := proc.Offer(tick); err != nil {
					logger.Warn("tick dropped", zap.Error(err))
					continue
				}
				if jnl != nil {
					if err := jnl.AppendTick(tick); err != nil {
						logger.Error("journal tick failed", zap.Error(err))
					}
				}
			}
		}
	}()

	// Progress logging loop
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			q := eng.Quote()
			fields := []zap.Field{
				zap.Int64("ticks_processed", proc.Processed()),
			}
			if bids, asks, err := eng.Depth(); err == nil {
				fields = append(fields,
					zap.Int("bid_levels", len(bids)),
					zap.Int("ask_levels", len(asks)))
			}
			if q.HasBid {
				fields = append(fields, zap.Float64("bid", q.Bid))
			}
			if q.HasAsk {
				fields = append(fields, zap.Float64("ask", q.Ask))
			}
			if vwap, ok := proc.VWAP(symbol); ok {
				fields = append(fields, zap.String("vwap", vwap.StringFixed(4)))
			}
			logger.Info("book status", fields...)
		}
	}

	// Drain in dependency order: stop admissions first, then flush ticks.
	<-feederDone
	eng.Close()
	proc.Stop()

	if vwap, ok := proc.VWAP(symbol); ok {
		logger.Info("final stats",
			zap.String("vwap", vwap.StringFixed(4)),
			zap.Int64("ticks_processed", proc.Processed()),
			zap.Int64("ticks_dropped", proc.Dropped()))
	}
	logger.Info("node stopped")
}
