package persist

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// EnsureIndexes creates idempotent indexes on all collections.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	type idx struct {
		collection string
		model      mongo.IndexModel
	}

	indexes := []idx{
		{
			collection: "items",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "item_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		{
			collection: "sim_state",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "key", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		{
			collection: "runs",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "run_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		{
			collection: "runs",
			model: mongo.IndexModel{
				Keys: bson.D{{Key: "started_at", Value: -1}},
			},
		},
		{
			collection: "run_histories",
			model: mongo.IndexModel{
				Keys: bson.D{
					{Key: "run_id", Value: 1},
					{Key: "item_id", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
		},
	}

	for _, i := range indexes {
		_, err := db.Collection(i.collection).Indexes().CreateOne(ctx, i.model)
		if err != nil {
			return fmt.Errorf("create index on %s: %w", i.collection, err)
		}
	}

	log.Println("MongoDB indexes ensured")
	return nil
}
