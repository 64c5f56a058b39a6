package persist

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tallow-games/bazaarsim/internal/engine"
	"github.com/tallow-games/bazaarsim/internal/live"
	"github.com/tallow-games/bazaarsim/internal/market"
)

// Snapshotter manages periodic persistence of the live market state.
type Snapshotter struct {
	store  *Store
	market *live.Market
	rng    *engine.RNG
}

// NewSnapshotter creates a new snapshotter over the live market and its RNG.
func NewSnapshotter(store *Store, m *live.Market, rng *engine.RNG) *Snapshotter {
	return &Snapshotter{store: store, market: m, rng: rng}
}

// Run starts the periodic snapshot loop. Blocks until ctx is cancelled.
func (s *Snapshotter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Final snapshot on shutdown
			log.Println("performing final snapshot...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := s.Save(shutdownCtx); err != nil {
				log.Printf("final snapshot error: %v", err)
			}
			cancel()
			return
		case <-ticker.C:
			if err := s.Save(ctx); err != nil {
				log.Printf("snapshot error: %v", err)
			}
		}
	}
}

// Save persists the full market state to MongoDB in a single transaction.
func (s *Snapshotter) Save(ctx context.Context) error {
	start := time.Now()

	state := s.market.Snapshot()
	tick := s.market.Tick()

	session, err := s.store.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc context.Context) (any, error) {
		db := s.store.db
		now := time.Now()

		// 1. Upsert item state
		for _, it := range state.Items {
			filter := bson.M{"item_id": it.ID}
			update := bson.M{"$set": bson.M{
				"item_id":       it.ID,
				"name":          it.Name,
				"category":      string(it.Category),
				"base_price":    it.BasePrice,
				"current_price": it.CurrentPrice,
				"supply":        it.Supply,
				"demand":        it.Demand,
			}}
			opts := options.UpdateOne().SetUpsert(true)
			if _, err := db.Collection("items").UpdateOne(sc, filter, update, opts); err != nil {
				return nil, fmt.Errorf("upsert item %s: %w", it.ID, err)
			}
		}

		// 2. Upsert PRNG state
		rngState := s.rng.StateBytes()
		if _, err := db.Collection("sim_state").UpdateOne(sc,
			bson.M{"key": "rng_state"},
			bson.M{"$set": bson.M{
				"key":         "rng_state",
				"value_bytes": rngState,
				"updated_at":  now,
			}},
			options.UpdateOne().SetUpsert(true),
		); err != nil {
			return nil, fmt.Errorf("save rng state: %w", err)
		}

		// 3. Upsert tick counter
		if _, err := db.Collection("sim_state").UpdateOne(sc,
			bson.M{"key": "tick_counter"},
			bson.M{"$set": bson.M{
				"key":        "tick_counter",
				"value_int":  int64(tick),
				"updated_at": now,
			}},
			options.UpdateOne().SetUpsert(true),
		); err != nil {
			return nil, fmt.Errorf("save tick counter: %w", err)
		}

		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("snapshot transaction: %w", err)
	}

	log.Printf("snapshot saved in %v", time.Since(start))
	return nil
}

// Load restores market state from MongoDB.
// Returns true if state was found and loaded, false for fresh start.
func (s *Snapshotter) Load(ctx context.Context) (bool, error) {
	db := s.store.db

	count, err := db.Collection("items").CountDocuments(ctx, bson.M{})
	if err != nil {
		return false, fmt.Errorf("check items: %w", err)
	}
	if count == 0 {
		log.Println("no persisted state found, starting fresh")
		return false, nil
	}

	cursor, err := db.Collection("items").Find(ctx, bson.M{})
	if err != nil {
		return false, fmt.Errorf("load items: %w", err)
	}
	defer cursor.Close(ctx)

	// Start from the built-in catalog and overlay persisted values so new
	// items added since the last snapshot keep their defaults.
	state := market.DefaultState()
	restored := 0
	for cursor.Next(ctx) {
		var doc struct {
			ItemID       string  `bson:"item_id"`
			CurrentPrice float64 `bson:"current_price"`
			Supply       float64 `bson:"supply"`
			Demand       float64 `bson:"demand"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return false, fmt.Errorf("decode item: %w", err)
		}
		if it := state.Item(doc.ItemID); it != nil {
			it.CurrentPrice = doc.CurrentPrice
			it.Supply = doc.Supply
			it.Demand = doc.Demand
			restored++
		}
	}
	if err := cursor.Err(); err != nil {
		return false, fmt.Errorf("iterate items: %w", err)
	}

	// Load PRNG state
	var stateDoc struct {
		ValueBytes []byte `bson:"value_bytes"`
	}
	err = db.Collection("sim_state").FindOne(ctx, bson.M{"key": "rng_state"}).Decode(&stateDoc)
	if err == nil && len(stateDoc.ValueBytes) >= 16 {
		s.rng.RestoreStateBytes(stateDoc.ValueBytes)
	}

	// Load tick counter
	var intDoc struct {
		ValueInt int64 `bson:"value_int"`
	}
	tick := uint64(0)
	err = db.Collection("sim_state").FindOne(ctx, bson.M{"key": "tick_counter"}).Decode(&intDoc)
	if err == nil && intDoc.ValueInt > 0 {
		tick = uint64(intDoc.ValueInt)
	}

	s.market.Restore(state, tick)

	log.Printf("restored state: %d items, tick %d", restored, tick)
	return true, nil
}
