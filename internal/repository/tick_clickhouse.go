package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"MarketLab/internal/domain/models"
	domainrepo "MarketLab/internal/domain/repository"
)

// ClickHouseRecorder archives each simulated day into ClickHouse: one row
// per security in the prices table, one row per record in the news table.
// The simulation never reads these tables back; they exist for offline
// analysis of long runs.
type ClickHouseRecorder struct {
	db         *sql.DB
	priceTable string
	newsTable  string
}

func NewClickHouseRecorder(db *sql.DB, priceTable, newsTable string) domainrepo.TickRecorder {
	return &ClickHouseRecorder{db: db, priceTable: priceTable, newsTable: newsTable}
}

// Schema returns the DDL the recorder expects, for pkg/clickhouse InitSchema.
func Schema(priceTable, newsTable string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			day UInt32,
			symbol LowCardinality(String),
			price Float64,
			base_price Float64,
			sentiment Float64,
			trend Float64,
			short_interest Float64,
			recorded_at DateTime DEFAULT now()
		) ENGINE = MergeTree() ORDER BY (symbol, day)`, priceTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id String,
			day UInt32,
			symbol LowCardinality(String),
			type LowCardinality(String),
			headline String,
			sentiment Float64,
			phase LowCardinality(String),
			probability Float64,
			gold_standard UInt8,
			recorded_at DateTime DEFAULT now()
		) ENGINE = MergeTree() ORDER BY (day, symbol, id)`, newsTable),
	}
}

func (r *ClickHouseRecorder) RecordPrices(ctx context.Context, day int, securities []*models.Security) error {
	if len(securities) == 0 {
		return nil
	}
	values := make([]string, 0, len(securities))
	args := make([]interface{}, 0, len(securities)*7)
	for _, sec := range securities {
		if sec == nil {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			uint32(day),
			sec.Symbol,
			sec.Price,
			sec.BasePrice,
			sec.SentimentOffset,
			sec.Trend,
			sec.ShortInterest,
		)
	}
	if len(values) == 0 {
		return nil
	}
	q := fmt.Sprintf("INSERT INTO %s (day, symbol, price, base_price, sentiment, trend, short_interest) VALUES %s",
		r.priceTable, strings.Join(values, ","))
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

func (r *ClickHouseRecorder) RecordNews(ctx context.Context, recs []models.NewsRecord) error {
	if len(recs) == 0 {
		return nil
	}
	values := make([]string, 0, len(recs))
	args := make([]interface{}, 0, len(recs)*9)
	for _, rec := range recs {
		gold := uint8(0)
		if rec.GoldStandard {
			gold = 1
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			rec.ID,
			uint32(rec.Day),
			rec.Symbol,
			rec.Type,
			rec.Headline,
			rec.Sentiment,
			rec.Phase,
			rec.Probability,
			gold,
		)
	}
	q := fmt.Sprintf("INSERT INTO %s (id, day, symbol, type, headline, sentiment, phase, probability, gold_standard) VALUES %s",
		r.newsTable, strings.Join(values, ","))
	_, err := r.db.ExecContext(ctx, q, args...)
	return err
}

func (r *ClickHouseRecorder) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}

func (r *ClickHouseRecorder) Close() error {
	return nil // connection owned by pkg/clickhouse
}
