package repository

import (
	"context"

	"MarketLab/internal/domain/models"
)

// NewsSink receives every news record a phenomenon emits. Records are
// immutable once pushed; sinks must not retain a mutable reference.
type NewsSink interface {
	Push(rec models.NewsRecord)
}

// NewsFeed is a queryable, append-only sink (the in-memory implementation
// the API and the tutorial layer read from).
type NewsFeed interface {
	NewsSink
	ByID(id string) (models.NewsRecord, bool)
	Query(day int, newsType string, limit int) []models.NewsRecord
	Len() int
}

// TickRecorder archives daily simulation output. Recording is an observer:
// the simulation never reads it back.
type TickRecorder interface {
	RecordPrices(ctx context.Context, day int, securities []*models.Security) error
	RecordNews(ctx context.Context, recs []models.NewsRecord) error
	Health(ctx context.Context) error
	Close() error
}

// Metrics abstracts the Prometheus recorder so the engine stays testable.
type Metrics interface {
	RecordDayAdvanced()
	RecordPhenomenonTriggered(newsType string)
	RecordNewsEmitted(newsType string)
	RecordLastPrice(symbol string, price float64)
	RecordTickDuration(seconds float64)
	RecordError(kind string)
}

// SnapshotCache holds the latest serialized market snapshot for the API.
type SnapshotCache interface {
	Set(ctx context.Context, key string, value interface{}) error
	Get(ctx context.Context, key string, dest interface{}) error
	Invalidate(ctx context.Context, key string) error
}
