package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tallow-games/bazaarsim/internal/api"
	"github.com/tallow-games/bazaarsim/internal/archive"
	"github.com/tallow-games/bazaarsim/internal/config"
	"github.com/tallow-games/bazaarsim/internal/engine"
	"github.com/tallow-games/bazaarsim/internal/live"
	"github.com/tallow-games/bazaarsim/internal/market"
	"github.com/tallow-games/bazaarsim/internal/persist"
	"github.com/tallow-games/bazaarsim/internal/session"
)

func main() {
	cfg := config.Load()

	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("bazaar simulator starting")

	// Context with graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received signal %v, shutting down...", sig)
		cancel()
	}()

	// PRNG
	rng := engine.NewRNG(cfg.Seed)
	log.Printf("PRNG seed: %d", cfg.Seed)

	// Item catalog and live market
	state := market.DefaultState()
	log.Printf("loaded %d items", len(state.Items))

	liveMarket := live.New(state, rng, cfg.HistoryDepth)

	// MongoDB (connects, pings, ensures indexes)
	store, err := persist.NewStore(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer store.Close(context.Background())

	// Persistence snapshotter; try to restore state
	snapshotter := persist.NewSnapshotter(store, liveMarket, rng)
	if _, err := snapshotter.Load(ctx); err != nil {
		log.Printf("warning: failed to load state: %v", err)
	}

	// Session manager over the catalog
	mgr := session.NewManager(liveMarket.Snapshot().Items, cfg.SendBufferSize)

	// Live tick loop
	go tickLoop(ctx, liveMarket, mgr, cfg.TickInterval)
	log.Printf("started tick loop (interval %v)", cfg.TickInterval)

	// Start persister
	go snapshotter.Run(ctx, cfg.SnapshotInterval)
	log.Println("started persistence snapshotter")

	// Start run retention pruner
	go persist.RunRetention(ctx, store, cfg.RunRetentionDays)

	// Start run archiver (opt-in)
	if cfg.ArchiveDir != "" {
		archiver := archive.New(store.DB(), cfg.ArchiveDir, cfg.ArchiveMaxGB, cfg.ArchiveIntervalHours, cfg.ArchiveAfterHours)
		go archiver.Run(ctx)
	}

	// HTTP/WebSocket server
	mux := http.NewServeMux()
	mux.HandleFunc("/feed", session.Handler(mgr))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","clients":%d,"tick":%d}`, mgr.ClientCount(), liveMarket.Tick())
	})

	// REST API
	runStore := persist.NewMongoRunStore(store.DB())
	apiServer := api.NewServer(runStore, runStore, liveMarket, mgr)
	apiServer.Register(mux)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("WebSocket feed listening on ws://%s/feed", addr)
	log.Printf("Health check: http://%s/health", addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}

	log.Println("bazaar simulator stopped")
}

// tickLoop advances the live market at a fixed interval and fans the
// per-item updates out to subscribed clients.
func tickLoop(ctx context.Context, m *live.Market, mgr *session.Manager, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updates := m.Advance()
			mgr.Broadcast(updates)
		}
	}
}
