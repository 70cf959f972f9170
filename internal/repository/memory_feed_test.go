package repository

import (
	"fmt"
	"testing"

	"MarketLab/internal/domain/models"
)

func pushN(f *MemoryFeed, n, day int, typ string) {
	for i := 0; i < n; i++ {
		f.Push(models.NewsRecord{
			Day: day, Symbol: "APEX", Type: typ,
			Headline: fmt.Sprintf("headline %d", i),
		})
	}
}

func TestMemoryFeedAssignsSequentialIDs(t *testing.T) {
	f := NewMemoryFeed()
	pushN(f, 3, 1, models.NewsFOMO)

	recs := f.Query(-1, "", 0)
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	// newest first
	if recs[0].ID != "news-000003" || recs[2].ID != "news-000001" {
		t.Fatalf("unexpected IDs: %q .. %q", recs[0].ID, recs[2].ID)
	}
}

func TestMemoryFeedKeepsCallerIDs(t *testing.T) {
	f := NewMemoryFeed()
	f.Push(models.NewsRecord{ID: "ext-1", Day: 1, Symbol: "APEX", Type: models.NewsFOMO, Headline: "h"})
	if _, ok := f.ByID("ext-1"); !ok {
		t.Fatal("caller-supplied ID must be preserved")
	}
}

func TestMemoryFeedByID(t *testing.T) {
	f := NewMemoryFeed()
	pushN(f, 1, 4, models.NewsSweep)
	rec, ok := f.ByID("news-000001")
	if !ok {
		t.Fatal("record expected")
	}
	if rec.Day != 4 || rec.Type != models.NewsSweep {
		t.Fatalf("wrong record: %+v", rec)
	}
	if _, ok := f.ByID("news-999999"); ok {
		t.Fatal("unknown ID must miss")
	}
}

func TestMemoryFeedQueryFilters(t *testing.T) {
	f := NewMemoryFeed()
	pushN(f, 2, 1, models.NewsFOMO)
	pushN(f, 3, 2, models.NewsSweep)

	if got := len(f.Query(1, "", 0)); got != 2 {
		t.Fatalf("day filter: got %d", got)
	}
	if got := len(f.Query(-1, models.NewsSweep, 0)); got != 3 {
		t.Fatalf("type filter: got %d", got)
	}
	if got := len(f.Query(2, models.NewsSweep, 2)); got != 2 {
		t.Fatalf("limit: got %d", got)
	}
	if got := len(f.Query(9, "", 0)); got != 0 {
		t.Fatalf("empty day must match nothing, got %d", got)
	}
	if f.Len() != 5 {
		t.Fatalf("len: got %d", f.Len())
	}
}

func TestMemoryFeedClonesOnRead(t *testing.T) {
	f := NewMemoryFeed()
	f.Push(models.NewsRecord{
		Day: 1, Symbol: "APEX", Type: models.NewsFOMO, Headline: "h",
		Payload: map[string]float64{"x": 1},
	})

	rec, _ := f.ByID("news-000001")
	rec.Headline = "mutated"
	rec.Payload["x"] = 99

	again, _ := f.ByID("news-000001")
	if again.Headline != "h" || again.Payload["x"] != 1 {
		t.Fatalf("archive must be immutable, got %+v", again)
	}
}

func TestFanoutSkipsNilSinks(t *testing.T) {
	a := NewMemoryFeed()
	b := NewMemoryFeed()
	fan := NewFanout(a, nil, b)
	fan.Push(models.NewsRecord{Day: 1, Symbol: "APEX", Type: models.NewsFOMO, Headline: "h"})
	if a.Len() != 1 || b.Len() != 1 {
		t.Fatalf("both sinks must receive the record: %d / %d", a.Len(), b.Len())
	}
}
