package persist

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// RunRetention periodically deletes runs older than the retention period,
// together with their history documents. Blocks until ctx is cancelled.
// Pass retentionDays <= 0 to disable.
func RunRetention(ctx context.Context, store *Store, retentionDays int) {
	if retentionDays <= 0 {
		log.Println("run retention disabled (keep forever)")
		return
	}

	interval := 1 * time.Hour
	log.Printf("run retention: pruning runs older than %d days every %v", retentionDays, interval)

	// Run once immediately on startup, then on the ticker.
	prune(ctx, store, retentionDays)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			prune(ctx, store, retentionDays)
		}
	}
}

func prune(ctx context.Context, store *Store, retentionDays int) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	filter := bson.M{"started_at": bson.M{"$lt": cutoff}}

	cursor, err := store.db.Collection("runs").Find(ctx, filter)
	if err != nil {
		log.Printf("run retention query error: %v", err)
		return
	}
	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			RunID string `bson:"run_id"`
		}
		if err := cursor.Decode(&doc); err == nil {
			ids = append(ids, doc.RunID)
		}
	}
	cursor.Close(ctx)
	if len(ids) == 0 {
		return
	}

	if _, err := store.db.Collection("run_histories").DeleteMany(ctx, bson.M{
		"run_id": bson.M{"$in": ids},
	}); err != nil {
		log.Printf("run retention history prune error: %v", err)
		return
	}

	result, err := store.db.Collection("runs").DeleteMany(ctx, filter)
	if err != nil {
		log.Printf("run retention prune error: %v", err)
		return
	}

	if result.DeletedCount > 0 {
		log.Printf("run retention: pruned %d runs older than %s", result.DeletedCount, cutoff.Format(time.DateOnly))
	}
}
