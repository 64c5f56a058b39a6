package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tallow-games/bazaarsim/internal/engine"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// Run represents a persisted simulation run document.
type Run struct {
	RunID         string                `json:"runId"               bson:"run_id"`
	PresetID      string                `json:"presetId,omitempty"  bson:"preset_id,omitempty"`
	Seed          int64                 `json:"seed"                bson:"seed"`
	Ticks         int                   `json:"ticks"               bson:"ticks"`
	Modifications []engine.Modification `json:"modifications"       bson:"modifications"`
	Summary       engine.Summary        `json:"summary"             bson:"summary"`
	Events        []engine.Event        `json:"events"              bson:"events"`
	StartedAt     time.Time             `json:"startedAt"           bson:"started_at"`
	FinishedAt    time.Time             `json:"finishedAt"          bson:"finished_at"`
}

// RunFilter controls which runs to return.
type RunFilter struct {
	PresetID string
	Limit    int
	Offset   int
	From     *time.Time
	To       *time.Time
}

// RunStats holds aggregate run statistics.
type RunStats struct {
	TotalRuns  int64      `json:"totalRuns"`
	TotalTicks int64      `json:"totalTicks"`
	LastRunAt  *time.Time `json:"lastRunAt,omitempty"`
}

// RunReader abstracts read-only run queries.
type RunReader interface {
	QueryRuns(ctx context.Context, f RunFilter) ([]Run, error)
	QueryRun(ctx context.Context, runID string) (*Run, error)
	QueryRunHistory(ctx context.Context, runID string) (engine.PriceHistory, error)
	QueryRunStats(ctx context.Context) (RunStats, error)
}

// RunWriter persists completed simulation runs.
type RunWriter interface {
	SaveRun(ctx context.Context, run *Run, history engine.PriceHistory) error
}

// MongoRunStore implements RunReader and RunWriter using a mongo.Database.
type MongoRunStore struct {
	db *mongo.Database
}

// NewMongoRunStore creates a new MongoRunStore.
func NewMongoRunStore(db *mongo.Database) *MongoRunStore {
	return &MongoRunStore{db: db}
}

// SaveRun stores the run document plus one history document per item.
// Assigns a fresh run id when the caller left it empty.
func (r *MongoRunStore) SaveRun(ctx context.Context, run *Run, history engine.PriceHistory) error {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}

	if _, err := r.db.Collection("runs").InsertOne(ctx, run); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil // idempotent — ignore duplicates
		}
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}

	var docs []any
	for itemID, prices := range history {
		docs = append(docs, bson.M{
			"run_id":  run.RunID,
			"item_id": itemID,
			"prices":  prices,
		})
	}
	if len(docs) > 0 {
		if _, err := r.db.Collection("run_histories").InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("insert run histories %s: %w", run.RunID, err)
		}
	}
	return nil
}

// QueryRuns returns runs with optional preset filter, time range and pagination.
func (r *MongoRunStore) QueryRuns(ctx context.Context, f RunFilter) ([]Run, error) {
	if f.Limit <= 0 || f.Limit > 1000 {
		f.Limit = 100
	}

	filter := bson.M{}
	if f.PresetID != "" {
		filter["preset_id"] = f.PresetID
	}
	if f.From != nil || f.To != nil {
		timeFilter := bson.M{}
		if f.From != nil {
			timeFilter["$gte"] = *f.From
		}
		if f.To != nil {
			timeFilter["$lte"] = *f.To
		}
		filter["started_at"] = timeFilter
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(int64(f.Limit)).
		SetSkip(int64(f.Offset))

	cursor, err := r.db.Collection("runs").Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer cursor.Close(ctx)

	runs := []Run{}
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("decode runs: %w", err)
	}
	return runs, nil
}

// QueryRun returns a single run by id.
func (r *MongoRunStore) QueryRun(ctx context.Context, runID string) (*Run, error) {
	var run Run
	err := r.db.Collection("runs").FindOne(ctx, bson.M{"run_id": runID}).Decode(&run)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", runID, err)
	}
	return &run, nil
}

// QueryRunHistory returns the per-item price series recorded for a run.
func (r *MongoRunStore) QueryRunHistory(ctx context.Context, runID string) (engine.PriceHistory, error) {
	cursor, err := r.db.Collection("run_histories").Find(ctx, bson.M{"run_id": runID})
	if err != nil {
		return nil, fmt.Errorf("query run history %s: %w", runID, err)
	}
	defer cursor.Close(ctx)

	history := engine.PriceHistory{}
	for cursor.Next(ctx) {
		var doc struct {
			ItemID string    `bson:"item_id"`
			Prices []float64 `bson:"prices"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode run history: %w", err)
		}
		history[doc.ItemID] = doc.Prices
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate run histories: %w", err)
	}
	return history, nil
}

// QueryRunStats returns aggregate run count, simulated ticks and recency.
func (r *MongoRunStore) QueryRunStats(ctx context.Context) (RunStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_runs", Value: bson.M{"$sum": 1}},
			{Key: "total_ticks", Value: bson.M{"$sum": "$ticks"}},
			{Key: "last_run_at", Value: bson.M{"$max": "$started_at"}},
		}}},
	}

	cursor, err := r.db.Collection("runs").Aggregate(ctx, pipeline)
	if err != nil {
		return RunStats{}, fmt.Errorf("query run stats: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		TotalRuns  int64     `bson:"total_runs"`
		TotalTicks int64     `bson:"total_ticks"`
		LastRunAt  time.Time `bson:"last_run_at"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return RunStats{}, fmt.Errorf("decode run stats: %w", err)
	}

	if len(results) == 0 {
		return RunStats{}, nil
	}
	stats := RunStats{
		TotalRuns:  results[0].TotalRuns,
		TotalTicks: results[0].TotalTicks,
	}
	if !results[0].LastRunAt.IsZero() {
		t := results[0].LastRunAt
		stats.LastRunAt = &t
	}
	return stats, nil
}
