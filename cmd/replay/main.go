// Command replay reads a recorded journal and rebuilds market statistics
// offline: per-symbol tick counts, windowed VWAP, moving average and anomaly
// flags, plus the trade tape totals.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/limitbook/pkg/book"
	"github.com/uhyunpark/limitbook/pkg/journal"
	"github.com/uhyunpark/limitbook/pkg/marketdata"
)

func main() {
	var (
		path       = flag.String("journal", "data/journal", "journal directory")
		window     = flag.Duration("window", time.Minute, "moving-average window span")
		vwapWindow = flag.Int("vwap-window", 100, "tick count for the windowed VWAP")
	)
	flag.Parse()

	jnl, err := journal.Open(*path)
	if err != nil {
		log.Fatalf("open journal: %v", err)
	}
	defer jnl.Close()

	win := marketdata.NewWindow(*window)
	vwaps := make(map[string]*marketdata.VWAP)
	tickCount := make(map[string]int)

	err = jnl.ReplayTicks(func(t marketdata.Tick) error {
		if !t.Valid() {
			return nil
		}
		win.Observe(t)
		v, ok := vwaps[t.Symbol]
		if !ok {
			v, err = marketdata.NewVWAP(*vwapWindow)
			if err != nil {
				return err
			}
			vwaps[t.Symbol] = v
		}
		if err := v.Add(decimal.NewFromFloat(t.Price), t.Volume); err != nil {
			return err
		}
		tickCount[t.Symbol]++
		return nil
	})
	if err != nil {
		log.Fatalf("replay ticks: %v", err)
	}

	var trades int
	var tradedQty int64
	if err := jnl.ReplayTrades(func(tr book.Trade) error {
		trades++
		tradedQty += tr.Qty
		return nil
	}); err != nil {
		log.Fatalf("replay trades: %v", err)
	}

	symbols := make([]string, 0, len(vwaps))
	for s := range vwaps {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	if len(symbols) == 0 {
		fmt.Println("journal holds no ticks")
		os.Exit(0)
	}

	fmt.Printf("trades: %d (qty %d)\n\n", trades, tradedQty)
	for _, s := range symbols {
		fmt.Printf("%s\n", s)
		fmt.Printf("  ticks:       %d\n", tickCount[s])
		fmt.Printf("  vwap(%d):    %s\n", *vwapWindow, vwaps[s].Value().StringFixed(4))
		if ma, ok := win.MovingAverage(s); ok {
			fmt.Printf("  avg(%s):    %.4f over %d in-window ticks\n", *window, ma, win.Count(s))
		}
	}
}
