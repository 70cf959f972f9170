package middleware

import (
	"testing"

	"MarketLab/internal/domain/models"
	"MarketLab/internal/engine"
	"MarketLab/internal/repository"
)

// countingMetrics discards everything except error counts.
type countingMetrics struct {
	engine.NopMetrics
	errors map[string]int
}

func (m *countingMetrics) RecordError(kind string) {
	if m.errors == nil {
		m.errors = make(map[string]int)
	}
	m.errors[kind]++
}

func valid(day int, symbol string) models.NewsRecord {
	return models.NewsRecord{Day: day, Symbol: symbol, Type: models.NewsFOMO, Headline: "h"}
}

func TestPipelineRejectsInvalidRecords(t *testing.T) {
	feed := repository.NewMemoryFeed()
	m := &countingMetrics{}
	p := NewNewsPipeline(feed, m)

	p.Push(models.NewsRecord{Day: 1, Type: models.NewsFOMO, Headline: "h"})          // no symbol
	p.Push(models.NewsRecord{Day: 1, Symbol: "APEX", Headline: "h"})                 // no type
	p.Push(models.NewsRecord{Day: -2, Symbol: "APEX", Type: models.NewsFOMO, Headline: "h"}) // bad day
	p.Push(models.NewsRecord{Day: 1, Symbol: "APEX", Type: models.NewsFOMO})         // no headline

	if feed.Len() != 0 {
		t.Fatalf("invalid records must not pass, %d did", feed.Len())
	}
	if m.errors["news_validate"] != 4 {
		t.Fatalf("expected 4 validation errors, got %d", m.errors["news_validate"])
	}
}

func TestPipelineThrottlesPerSymbolPerDay(t *testing.T) {
	feed := repository.NewMemoryFeed()
	m := &countingMetrics{}
	p := NewNewsPipeline(feed, m, WithMaxPerDay(3))

	for i := 0; i < 5; i++ {
		p.Push(valid(1, "APEX"))
	}
	p.Push(valid(1, "BLT")) // other symbols unaffected

	if feed.Len() != 4 {
		t.Fatalf("expected 3 APEX + 1 BLT records, got %d", feed.Len())
	}
	if m.errors["news_throttle"] != 2 {
		t.Fatalf("expected 2 throttled records, got %d", m.errors["news_throttle"])
	}
}

func TestPipelineThrottleResetsOnNewDay(t *testing.T) {
	feed := repository.NewMemoryFeed()
	m := &countingMetrics{}
	p := NewNewsPipeline(feed, m, WithMaxPerDay(1))

	p.Push(valid(1, "APEX"))
	p.Push(valid(1, "APEX")) // throttled
	p.Push(valid(2, "APEX")) // fresh day, throttle resets

	if feed.Len() != 2 {
		t.Fatalf("expected 2 records across days, got %d", feed.Len())
	}
}
