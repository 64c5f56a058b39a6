package persist

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultDatabase = "bazaarsim"

// Store wraps the MongoDB client and the simulator's database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// databaseName extracts the database from a connection URI's path,
// falling back to defaultDatabase when the URI names none.
func databaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultDatabase
	}
	if name := strings.TrimPrefix(u.Path, "/"); name != "" {
		return name
	}
	return defaultDatabase
}

// NewStore connects to MongoDB, verifies the connection with a ping, and
// ensures all collection indexes exist.
func NewStore(ctx context.Context, uri string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	dbName := databaseName(uri)
	s := &Store{client: client, db: client.Database(dbName)}

	if err := EnsureIndexes(ctx, s.db); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	log.Printf("connected to MongoDB (db=%s)", dbName)
	return s, nil
}

// Close disconnects from MongoDB, bounded so shutdown cannot hang on a
// dead server.
func (s *Store) Close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	s.client.Disconnect(ctx)
}

// DB returns the underlying mongo.Database.
func (s *Store) DB() *mongo.Database {
	return s.db
}
