package engine

import (
	"math"
	"testing"

	"MarketLab/internal/domain/models"
)

// flatRand removes randomness: Float64 returns 0.5 so the noise term
// cancels, Intn always picks the lower bound.
type flatRand struct{}

func (flatRand) Float64() float64 { return 0.5 }
func (flatRand) Intn(n int) int   { return 0 }

func newTestSecurity(price float64) *models.Security {
	return models.NewSecurity(models.SecuritySeed{
		Symbol:     "APEX",
		Name:       "Apex Dynamics",
		Price:      price,
		Volatility: 0.02,
	})
}

func TestStepSentimentClampAndDecay(t *testing.T) {
	e := NewPriceEngine(NewContext(WithRand(flatRand{})), 1)
	sec := newTestSecurity(100)
	sec.SentimentOffset = 10 // far above the band

	e.Step(sec, 1)

	want := SentimentMax * 0.98
	if math.Abs(sec.SentimentOffset-want) > 1e-9 {
		t.Fatalf("expected sentiment %v after clamp+decay, got %v", want, sec.SentimentOffset)
	}

	sec.SentimentOffset = -5
	e.Step(sec, 2)
	want = SentimentMin * 0.98
	if math.Abs(sec.SentimentOffset-want) > 1e-9 {
		t.Fatalf("expected sentiment %v after low clamp, got %v", want, sec.SentimentOffset)
	}
}

func TestStepIntegerPrices(t *testing.T) {
	e := NewPriceEngine(NewContext(WithSeed(7)), 1)
	sec := newTestSecurity(153)
	for day := 1; day <= 50; day++ {
		e.Step(sec, day)
		if sec.Price != math.Round(sec.Price) {
			t.Fatalf("day %d: price %v not integral", day, sec.Price)
		}
		if sec.Price < 1 {
			t.Fatalf("day %d: price %v below 1", day, sec.Price)
		}
	}
}

func TestStepPriceBounds(t *testing.T) {
	e := NewPriceEngine(NewContext(WithRand(flatRand{})), 1)

	sec := newTestSecurity(100)
	sec.SentimentOffset = SentimentMax
	for day := 1; day <= 400; day++ {
		sec.SentimentOffset = SentimentMax // hold euphoria at the cap
		e.Step(sec, day)
	}
	if sec.Price > sec.PriceCeiling() {
		t.Fatalf("price %v exceeded ceiling %v", sec.Price, sec.PriceCeiling())
	}

	sec = newTestSecurity(100)
	for day := 1; day <= 400; day++ {
		sec.SentimentOffset = SentimentMin
		e.Step(sec, day)
	}
	if sec.Price < sec.PriceFloor() {
		t.Fatalf("price %v fell below floor %v", sec.Price, sec.PriceFloor())
	}
}

func TestStepConsumesImpulses(t *testing.T) {
	e := NewPriceEngine(NewContext(WithRand(flatRand{})), 1)
	sec := newTestSecurity(100)
	sec.QueueImpulse("dead_cat_bounce", -0.10)

	e.Step(sec, 1)
	if sec.Price > 92 {
		t.Fatalf("impulse not applied, price %v", sec.Price)
	}
	if len(sec.Impulses) != 0 {
		t.Fatalf("impulse queue must be drained, %d left", len(sec.Impulses))
	}

	// the jolt is one-day only: the next step gets no impulse term
	before := sec.Price
	e.Step(sec, 2)
	if sec.Price < before {
		t.Fatalf("price kept falling after one-day impulse: %v -> %v", before, sec.Price)
	}
}

func TestStepManipulationPressure(t *testing.T) {
	e := NewPriceEngine(NewContext(WithRand(flatRand{})), 1)

	plain := newTestSecurity(100)
	accum := newTestSecurity(100)
	accum.InstitutionalAccumulation = 1

	for day := 1; day <= 20; day++ {
		e.Step(plain, day)
		e.Step(accum, day)
	}
	if accum.Price <= plain.Price {
		t.Fatalf("accumulation pressure must lift price: %v vs %v", accum.Price, plain.Price)
	}
}

func TestStepHistoryWindow(t *testing.T) {
	e := NewPriceEngine(NewContext(WithSeed(3)), 1)
	sec := newTestSecurity(50)
	for day := 1; day <= HistoryWindow+40; day++ {
		e.Step(sec, day)
	}
	if len(sec.History) != HistoryWindow {
		t.Fatalf("expected history capped at %d, got %d", HistoryWindow, len(sec.History))
	}
	if sec.History[len(sec.History)-1].Day != HistoryWindow+40 {
		t.Fatalf("history must keep the newest entries")
	}
}

func TestStepVolatilityBoostDecays(t *testing.T) {
	e := NewPriceEngine(NewContext(WithRand(flatRand{})), 1)
	sec := newTestSecurity(100)
	sec.VolatilityBoost = 1.0
	for day := 1; day <= 40; day++ {
		e.Step(sec, day)
	}
	if sec.VolatilityBoost != 0 {
		t.Fatalf("volatility boost must decay to zero, got %v", sec.VolatilityBoost)
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Fatalf("clamp high: got %v", got)
	}
	if got := Clamp(-1, 0, 3); got != 0 {
		t.Fatalf("clamp low: got %v", got)
	}
	if got := Clamp(2, 0, 3); got != 2 {
		t.Fatalf("clamp pass-through: got %v", got)
	}
}
