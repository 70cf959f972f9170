package usecase

import (
	"context"
	"testing"

	"MarketLab/internal/domain/models"
	"MarketLab/internal/engine"
	"MarketLab/internal/phenomena"
	"MarketLab/internal/repository"
)

func seededSimulator(seed int64) (*Simulator, *repository.MemoryFeed) {
	ctx := engine.NewContext(engine.WithSeed(seed))
	book := engine.NewBook([]models.SecuritySeed{
		{Symbol: "APEX", Name: "Apex Dynamics", Price: 150, Volatility: 0.02},
		{Symbol: "BLT", Name: "Bolt Freight", Price: 62, Volatility: 0.03},
		{Symbol: "CRSP", Name: "Crisp Foods", Price: 38, Volatility: 0.015},
	})
	feed := repository.NewMemoryFeed()
	mods := phenomena.All(phenomena.Deps{Ctx: ctx, Sink: feed})
	sim := NewSimulator(ctx, book, engine.NewPriceEngine(ctx, 1), mods, feed, nil, nil)
	return sim, feed
}

func TestAdvanceDayCounts(t *testing.T) {
	sim, _ := seededSimulator(11)
	if sim.Day() != 0 {
		t.Fatalf("fresh simulator must start at day 0, got %d", sim.Day())
	}
	if err := sim.AdvanceDays(context.Background(), 5); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if sim.Day() != 5 {
		t.Fatalf("expected day 5, got %d", sim.Day())
	}
}

func TestAdvanceDaysHonorsContext(t *testing.T) {
	sim, _ := seededSimulator(11)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sim.AdvanceDays(ctx, 10); err == nil {
		t.Fatal("cancelled context must stop the run")
	}
	if sim.Day() != 0 {
		t.Fatalf("no tick should run after cancellation, day %d", sim.Day())
	}
}

func TestSameSeedSameRun(t *testing.T) {
	a, feedA := seededSimulator(42)
	b, feedB := seededSimulator(42)

	if err := a.AdvanceDays(context.Background(), 60); err != nil {
		t.Fatalf("advance a: %v", err)
	}
	if err := b.AdvanceDays(context.Background(), 60); err != nil {
		t.Fatalf("advance b: %v", err)
	}

	va, vb := a.Securities(), b.Securities()
	if len(va) != len(vb) {
		t.Fatalf("population mismatch: %d vs %d", len(va), len(vb))
	}
	for i := range va {
		if va[i].Symbol != vb[i].Symbol || va[i].Price != vb[i].Price {
			t.Fatalf("divergence at %s: %v vs %v", va[i].Symbol, va[i].Price, vb[i].Price)
		}
	}
	if feedA.Len() != feedB.Len() {
		t.Fatalf("news divergence: %d vs %d records", feedA.Len(), feedB.Len())
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a, _ := seededSimulator(1)
	b, _ := seededSimulator(2)
	if err := a.AdvanceDays(context.Background(), 60); err != nil {
		t.Fatalf("advance a: %v", err)
	}
	if err := b.AdvanceDays(context.Background(), 60); err != nil {
		t.Fatalf("advance b: %v", err)
	}
	va, vb := a.Securities(), b.Securities()
	same := true
	for i := range va {
		if va[i].Price != vb[i].Price {
			same = false
		}
	}
	if same {
		t.Fatal("different seeds should not replay the identical price path")
	}
}

func TestExplicitTrigger(t *testing.T) {
	sim, feed := seededSimulator(7)

	if _, err := sim.Trigger("NOPE", models.NewsSplit, nil); err == nil {
		t.Fatal("unknown symbol must error")
	}
	if _, err := sim.Trigger("APEX", "time_travel", nil); err == nil {
		t.Fatal("unknown phenomenon must error")
	}

	view, err := sim.Trigger("APEX", models.NewsSplit, &phenomena.TriggerOptions{Ratio: 2})
	if err != nil {
		t.Fatalf("split trigger on an expensive stock: %v", err)
	}
	if view.Type != models.NewsSplit {
		t.Fatalf("view type %q", view.Type)
	}

	// CRSP trades far below the split threshold
	if _, err := sim.Trigger("CRSP", models.NewsSplit, nil); err == nil {
		t.Fatal("split precondition must fail on a cheap stock")
	}
	if feed.Len() != 0 {
		t.Fatalf("explicit triggers emit news only when the phase runs, got %d records", feed.Len())
	}
}

func TestSignalsCoverEveryModule(t *testing.T) {
	sim, _ := seededSimulator(3)
	sigs, ok := sim.Signals("APEX")
	if !ok {
		t.Fatal("known symbol expected")
	}
	if len(sigs) != len(phenomena.Types()) {
		t.Fatalf("expected one signal per module, got %d", len(sigs))
	}
	for i, typ := range phenomena.Types() {
		if sigs[i].Type != typ {
			t.Fatalf("signal %d: %q vs %q", i, sigs[i].Type, typ)
		}
	}
	if _, ok := sim.Signals("NOPE"); ok {
		t.Fatal("unknown symbol must report not found")
	}
}

func TestSecurityLookup(t *testing.T) {
	sim, _ := seededSimulator(3)
	if err := sim.AdvanceDays(context.Background(), 3); err != nil {
		t.Fatalf("advance: %v", err)
	}

	v, ok := sim.Security("APEX")
	if !ok {
		t.Fatal("known symbol expected")
	}
	if len(v.History) == 0 {
		t.Fatal("detailed view must carry history")
	}

	list := sim.Securities()
	for _, s := range list {
		if len(s.History) != 0 {
			t.Fatal("list view must omit history")
		}
	}
	if _, ok := sim.Security("NOPE"); ok {
		t.Fatal("unknown symbol must report not found")
	}
}
