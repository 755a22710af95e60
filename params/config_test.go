package params

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Engine.QueueCapacity != 1024 {
		t.Errorf("queue capacity = %d, want 1024", cfg.Engine.QueueCapacity)
	}
	if !cfg.Engine.BlockOnFull {
		t.Error("blocking enqueue should be the default")
	}
	if cfg.MarketData.Window != time.Minute {
		t.Errorf("window = %v, want 1m", cfg.MarketData.Window)
	}
	if cfg.Journal.Enabled {
		t.Error("journal should default off")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LIMITBOOK_QUEUE_CAPACITY", "64")
	t.Setenv("LIMITBOOK_BLOCK_ON_FULL", "false")
	t.Setenv("LIMITBOOK_WINDOW_MS", "5000")
	t.Setenv("LIMITBOOK_VWAP_WINDOW", "10")
	t.Setenv("LIMITBOOK_JOURNAL", "true")
	t.Setenv("LIMITBOOK_JOURNAL_PATH", "/tmp/jnl")

	cfg := LoadFromEnv("")
	if cfg.Engine.QueueCapacity != 64 {
		t.Errorf("queue capacity = %d, want 64", cfg.Engine.QueueCapacity)
	}
	if cfg.Engine.BlockOnFull {
		t.Error("BlockOnFull should be overridden to false")
	}
	if cfg.MarketData.Window != 5*time.Second {
		t.Errorf("window = %v, want 5s", cfg.MarketData.Window)
	}
	if cfg.MarketData.VWAPWindow != 10 {
		t.Errorf("vwap window = %d, want 10", cfg.MarketData.VWAPWindow)
	}
	if !cfg.Journal.Enabled || cfg.Journal.Path != "/tmp/jnl" {
		t.Errorf("journal = %+v, want enabled at /tmp/jnl", cfg.Journal)
	}
}

func TestInvalidEnvValuesIgnored(t *testing.T) {
	t.Setenv("LIMITBOOK_QUEUE_CAPACITY", "not-a-number")
	t.Setenv("LIMITBOOK_VWAP_WINDOW", "-3")

	cfg := LoadFromEnv("")
	if cfg.Engine.QueueCapacity != 1024 {
		t.Errorf("bad value should fall back to default, got %d", cfg.Engine.QueueCapacity)
	}
	if cfg.MarketData.VWAPWindow != 100 {
		t.Errorf("negative window should fall back to default, got %d", cfg.MarketData.VWAPWindow)
	}
}
