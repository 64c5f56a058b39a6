package config

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds all daemon configuration.
type Config struct {
	// Server
	Port int
	Host string

	// Database
	MongoURI string

	// Run retention
	RunRetentionDays int

	// Simulation
	Seed             int64
	TickInterval     time.Duration
	SnapshotInterval time.Duration
	HistoryDepth     int
	SendBufferSize   int

	// Cold archive (opt-in: only active when ArchiveDir is set)
	ArchiveDir           string
	ArchiveMaxGB         int
	ArchiveIntervalHours int
	ArchiveAfterHours    int
}

func Load() *Config {
	c := &Config{}

	flag.IntVar(&c.Port, "port", envInt("BAZAAR_PORT", 8200), "HTTP/WebSocket server port")
	flag.StringVar(&c.Host, "host", envStr("BAZAAR_HOST", "0.0.0.0"), "Listen host")

	flag.StringVar(&c.MongoURI, "mongo-uri", envStr("MONGO_URI", "mongodb://localhost:27017/bazaarsim"), "MongoDB connection URI")
	flag.IntVar(&c.RunRetentionDays, "run-retention", envInt("RUN_RETENTION_DAYS", 30), "Simulation run retention in days (0 = keep forever)")

	flag.StringVar(&c.ArchiveDir, "archive-dir", envStr("ARCHIVE_DIR", ""), "Directory for cold run archives (empty = disabled)")
	flag.IntVar(&c.ArchiveMaxGB, "archive-max-gb", envInt("ARCHIVE_MAX_GB", 8), "Total archive size cap in GiB (0 = unlimited)")
	flag.IntVar(&c.ArchiveIntervalHours, "archive-interval", envInt("ARCHIVE_INTERVAL_HOURS", 6), "Hours between archive sweeps")
	flag.IntVar(&c.ArchiveAfterHours, "archive-after", envInt("ARCHIVE_AFTER_HOURS", 24), "Archive runs older than this many hours")

	flag.Int64Var(&c.Seed, "seed", envInt64("BAZAAR_SEED", 0), "PRNG seed (0 = random)")
	flag.IntVar(&c.HistoryDepth, "history-depth", envInt("HISTORY_DEPTH", 512), "Rolling price history samples kept per item")
	flag.IntVar(&c.SendBufferSize, "send-buffer", envInt("SEND_BUFFER", 1024), "Per-client send buffer size")

	flag.Parse()

	c.TickInterval = time.Second
	c.SnapshotInterval = 30 * time.Second

	return c
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}
