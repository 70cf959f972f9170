package engine

import (
	"testing"

	"MarketLab/internal/domain/models"
)

func TestNewBookSkipsInvalidSeeds(t *testing.T) {
	b := NewBook([]models.SecuritySeed{
		{Symbol: "APEX", Price: 150},
		{Symbol: "", Price: 40},      // no symbol
		{Symbol: "BLT", Price: 0},    // nonpositive price
		{Symbol: "APEX", Price: 999}, // duplicate
		{Symbol: "CRSP", Price: 38},
	})

	if b.Len() != 2 {
		t.Fatalf("expected 2 seeded securities, got %d", b.Len())
	}
	apex, ok := b.Get("APEX")
	if !ok || apex.Price != 150 {
		t.Fatalf("first APEX seed must win, got %+v", apex)
	}
	if _, ok := b.Get("BLT"); ok {
		t.Fatal("zero-price seed must be dropped")
	}
}

func TestBookProcessingOrderIsStable(t *testing.T) {
	b := NewBook([]models.SecuritySeed{
		{Symbol: "C", Price: 10},
		{Symbol: "A", Price: 10},
		{Symbol: "B", Price: 10},
	})
	want := []string{"C", "A", "B"}
	for i, sec := range b.Securities() {
		if sec.Symbol != want[i] {
			t.Fatalf("position %d: want %s got %s", i, want[i], sec.Symbol)
		}
	}
}

func TestSupportLevelNeedsHistory(t *testing.T) {
	sec := newTestSecurity(100)
	for d := 1; d <= 9; d++ {
		sec.History = append(sec.History, models.PricePoint{Day: d, Price: 100})
	}
	if _, ok := SupportLevel(sec, 20); ok {
		t.Fatal("nine days of history must not yield a support level")
	}

	sec.History = append(sec.History, models.PricePoint{Day: 10, Price: 83})
	low, ok := SupportLevel(sec, 20)
	if !ok {
		t.Fatal("ten days of history must yield a support level")
	}
	if low != 83 {
		t.Fatalf("support must be the window low, got %v", low)
	}
}

func TestSupportLevelWindowed(t *testing.T) {
	sec := newTestSecurity(100)
	// an old low outside the window must not count
	sec.History = append(sec.History, models.PricePoint{Day: 0, Price: 12})
	for d := 1; d <= 20; d++ {
		sec.History = append(sec.History, models.PricePoint{Day: d, Price: float64(90 + d)})
	}
	low, ok := SupportLevel(sec, 20)
	if !ok {
		t.Fatal("expected a support level")
	}
	if low != 91 {
		t.Fatalf("window low should be 91, got %v", low)
	}
}

func TestReturnOver(t *testing.T) {
	sec := newTestSecurity(110)
	for d := 1; d <= 10; d++ {
		sec.History = append(sec.History, models.PricePoint{Day: d, Price: 100})
	}
	if got := ReturnOver(sec, 5); got != 0.1 {
		t.Fatalf("expected 10%% return, got %v", got)
	}
	if got := ReturnOver(sec, 10); got != 0 {
		t.Fatalf("thin history must report zero, got %v", got)
	}
}
