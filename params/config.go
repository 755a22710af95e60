package params

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Engine struct {
	// QueueCapacity bounds the request queue between producers and the
	// matching loop.
	QueueCapacity int
	// BlockOnFull selects blocking enqueue; false makes producers fail
	// fast with a queue-full error instead.
	BlockOnFull bool
}

type MarketData struct {
	// Window is the span of the sliding tick-statistics window.
	Window time.Duration
	// VWAPWindow is the tick count for the windowed VWAP.
	VWAPWindow int
	// TickQueueCapacity bounds the tick processor's ingestion queue.
	TickQueueCapacity int
}

type Cache struct {
	Capacity int
}

type Journal struct {
	Enabled bool
	Path    string
}

type Config struct {
	Engine     Engine
	MarketData MarketData
	Cache      Cache
	Journal    Journal
}

func Default() Config {
	return Config{
		Engine: Engine{
			QueueCapacity: 1024,
			BlockOnFull:   true,
		},
		MarketData: MarketData{
			Window:            time.Minute,
			VWAPWindow:        100,
			TickQueueCapacity: 4096,
		},
		Cache: Cache{
			Capacity: 256,
		},
		Journal: Journal{
			Enabled: false,
			Path:    "data/journal",
		},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	// Try to load .env file (optional - won't fail if not exists)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	// Override with environment variables
	if v := os.Getenv("LIMITBOOK_QUEUE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Engine.QueueCapacity = n
		}
	}
	if v := os.Getenv("LIMITBOOK_BLOCK_ON_FULL"); v != "" {
		cfg.Engine.BlockOnFull = v == "true"
	}
	if v := os.Getenv("LIMITBOOK_WINDOW_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			cfg.MarketData.Window = time.Duration(ms) * time.Millisecond
		}
	}
	if v := os.Getenv("LIMITBOOK_VWAP_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MarketData.VWAPWindow = n
		}
	}
	if v := os.Getenv("LIMITBOOK_TICK_QUEUE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MarketData.TickQueueCapacity = n
		}
	}
	if v := os.Getenv("LIMITBOOK_CACHE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Cache.Capacity = n
		}
	}
	if v := os.Getenv("LIMITBOOK_JOURNAL"); v != "" {
		cfg.Journal.Enabled = v == "true"
	}
	if v := os.Getenv("LIMITBOOK_JOURNAL_PATH"); v != "" {
		cfg.Journal.Path = v
	}

	return cfg
}
