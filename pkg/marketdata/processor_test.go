package marketdata

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestProcessorVWAPPerSymbol(t *testing.T) {
	p := NewProcessor(64, nil)
	p.Start()

	now := time.Now()
	ticks := []Tick{
		{Time: now, Symbol: "AAPL", Price: 150.0, Volume: 100},
		{Time: now, Symbol: "AAPL", Price: 151.0, Volume: 200},
		{Time: now, Symbol: "GOOGL", Price: 2800.0, Volume: 50},
		{Time: now, Symbol: "AAPL", Price: 149.0, Volume: 150},
		{Time: now, Symbol: "GOOGL", Price: 2810.0, Volume: 75},
	}
	for _, tk := range ticks {
		require.NoError(t, p.Submit(tk))
	}
	p.Stop() // drains before returning

	require.EqualValues(t, 5, p.Processed())

	vwap, ok := p.VWAP("AAPL")
	require.True(t, ok)
	// (150*100 + 151*200 + 149*150) / 450
	want := decimal.NewFromInt(150*100 + 151*200 + 149*150).Div(decimal.NewFromInt(450))
	require.True(t, vwap.Equal(want), "AAPL vwap = %s, want %s", vwap, want)

	vwap, ok = p.VWAP("GOOGL")
	require.True(t, ok)
	want = decimal.NewFromInt(2800*50 + 2810*75).Div(decimal.NewFromInt(125))
	require.True(t, vwap.Equal(want), "GOOGL vwap = %s, want %s", vwap, want)

	_, ok = p.VWAP("MSFT")
	require.False(t, ok)
}

func TestProcessorDiscardsMalformedTicks(t *testing.T) {
	p := NewProcessor(16, nil)
	p.Start()

	now := time.Now()
	require.NoError(t, p.Submit(Tick{Time: now, Symbol: "", Price: 100, Volume: 10}))
	require.NoError(t, p.Submit(Tick{Time: now, Symbol: "AAPL", Price: 0, Volume: 10}))
	require.NoError(t, p.Submit(Tick{Time: now, Symbol: "AAPL", Price: 100, Volume: -1}))
	require.NoError(t, p.Submit(Tick{Time: now, Symbol: "AAPL", Price: 100, Volume: 10}))
	p.Stop()

	require.EqualValues(t, 1, p.Processed())
	require.EqualValues(t, 3, p.Dropped())
}

func TestProcessorStopDrainsBacklog(t *testing.T) {
	p := NewProcessor(1024, nil)
	now := time.Now()
	// Fill the queue before the consumer even starts.
	for i := 0; i < 1000; i++ {
		require.NoError(t, p.Submit(Tick{Time: now, Symbol: "AAPL", Price: 100, Volume: 1}))
	}
	p.Start()
	p.Stop()

	require.EqualValues(t, 1000, p.Processed(), "accepted ticks were lost on shutdown")

	// Submissions after Stop are refused.
	require.Error(t, p.Submit(Tick{Time: now, Symbol: "AAPL", Price: 100, Volume: 1}))
}
