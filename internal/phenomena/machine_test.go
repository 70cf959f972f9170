package phenomena

import (
	"math"
	"testing"

	"MarketLab/internal/domain/models"
	"MarketLab/internal/engine"
)

// scriptRand makes stochastic branches scriptable: Float64 returns the
// current setting, Intn always picks the lower bound.
type scriptRand struct{ f float64 }

func (r *scriptRand) Float64() float64 { return r.f }
func (r *scriptRand) Intn(n int) int   { return 0 }

type captureSink struct{ recs []models.NewsRecord }

func (s *captureSink) Push(rec models.NewsRecord) { s.recs = append(s.recs, rec) }

func testDeps(r *scriptRand, flags *engine.FlagSet, sink *captureSink) Deps {
	opts := []engine.Option{engine.WithRand(r)}
	if flags != nil {
		opts = append(opts, engine.WithFlags(flags.Enabled))
	}
	d := Deps{Ctx: engine.NewContext(opts...)}
	if sink != nil {
		d.Sink = sink
	}
	return d
}

// tradedSecurity builds a security with enough flat history for support
// detection to work.
func tradedSecurity(price float64) *models.Security {
	sec := models.NewSecurity(models.SecuritySeed{
		Symbol: "APEX", Name: "Apex Dynamics", Price: price, Volatility: 0.02,
	})
	for d := 1; d <= 12; d++ {
		sec.History = append(sec.History, models.PricePoint{Day: d, Price: price})
	}
	return sec
}

func TestDeadCatTriggerPreconditions(t *testing.T) {
	r := &scriptRand{f: 0.5}
	d := NewDeadCat(testDeps(r, nil, nil))

	// no history, no support level
	bare := models.NewSecurity(models.SecuritySeed{Symbol: "X", Price: 50})
	if d.Trigger(bare, nil) != nil {
		t.Fatal("trigger must fail without a support level")
	}

	// penny price
	cheap := tradedSecurity(3)
	if d.Trigger(cheap, nil) != nil {
		t.Fatal("trigger must fail below the minimum price")
	}

	// another crash-family instance holds the slot
	busy := tradedSecurity(100)
	busy.Sweep = &models.PhenomenonState{Type: models.NewsSweep, Family: models.FamilyCrash}
	if d.Trigger(busy, nil) != nil {
		t.Fatal("crash slot is exclusive across the family")
	}

	// cooling down
	cooling := tradedSecurity(100)
	cooling.StartCooldown(models.FamilyCrash, 10)
	if d.Trigger(cooling, nil) != nil {
		t.Fatal("trigger must respect the family cooldown")
	}

	sec := tradedSecurity(100)
	st := d.Trigger(sec, nil)
	if st == nil {
		t.Fatal("trigger must succeed on a clean setup")
	}
	if st.Phase != "crash" {
		t.Fatalf("fresh instance must start in crash, got %q", st.Phase)
	}
	if sec.DeadCat != st {
		t.Fatal("instance must occupy the security's slot")
	}
	if st.CriteriaMet() != 1 {
		t.Fatalf("flat history at the current price marks obvious support only, got %d", st.CriteriaMet())
	}
	if math.Abs(st.Probability-0.45) > 1e-9 {
		t.Fatalf("one criterion maps to 0.45, got %v", st.Probability)
	}
}

func TestDeadCatTerminalNewsVeto(t *testing.T) {
	r := &scriptRand{f: 0.5}
	d := NewDeadCat(testDeps(r, nil, nil))
	sec := tradedSecurity(100)
	sec.EPSModifier = -0.2

	st := d.Trigger(sec, nil)
	if st == nil {
		t.Fatal("trigger expected")
	}
	if st.VetoPenalty() != 0.25 {
		t.Fatalf("terminal news veto must apply, penalty %v", st.VetoPenalty())
	}
	if math.Abs(st.Probability-0.20) > 1e-9 {
		t.Fatalf("probability must be table minus veto, got %v", st.Probability)
	}
}

func TestDeadCatOutcomeRolledOnce(t *testing.T) {
	r := &scriptRand{f: 0.2} // below any table probability: outcome succeeds
	d := NewDeadCat(testDeps(r, nil, nil))
	sec := tradedSecurity(100)

	st := d.Trigger(sec, nil)
	if st == nil {
		t.Fatal("trigger expected")
	}

	var decided, flipped bool
	var outcome bool
	for day := 1; sec.DeadCat != nil && day < 40; day++ {
		d.Process(sec, day)
		if st.OutcomeDecided && !decided {
			decided = true
			outcome = st.WillSucceed
			// later randomness must not matter anymore
			r.f = 0.99
			flipped = true
		}
	}
	if !decided || !flipped {
		t.Fatal("outcome was never decided")
	}
	if !outcome {
		t.Fatal("a roll below the probability must succeed")
	}
	if st.WillSucceed != outcome {
		t.Fatal("decided outcome changed after the roll")
	}
	if sec.DeadCat != nil {
		t.Fatal("slot must clear when the run completes")
	}
	if !sec.OnCooldown(models.FamilyCrash) {
		t.Fatal("completion must arm the family cooldown")
	}
}

func TestCrashFamilyMutualExclusion(t *testing.T) {
	r := &scriptRand{f: 0.5}
	deps := testDeps(r, nil, nil)
	d := NewDeadCat(deps)
	sw := NewSweep(deps)
	sec := tradedSecurity(100)

	if d.Trigger(sec, nil) == nil {
		t.Fatal("dead cat trigger expected")
	}
	if sw.Trigger(sec, nil) != nil {
		t.Fatal("sweep must not trigger while a crash-family instance is active")
	}
}

func TestCancelOnDisableMidFlight(t *testing.T) {
	r := &scriptRand{f: 0.5}
	flags := engine.NewFlagSet()
	sink := &captureSink{}
	d := NewDeadCat(testDeps(r, flags, sink))
	sec := tradedSecurity(100)

	if d.Trigger(sec, nil) == nil {
		t.Fatal("trigger expected")
	}
	emitted := len(sink.recs)

	flags.Set(models.NewsDeadCat, false)
	d.Process(sec, 1)

	if sec.DeadCat != nil {
		t.Fatal("disable must tear the instance down")
	}
	if sec.OnCooldown(models.FamilyCrash) {
		t.Fatal("cancellation must not arm a cooldown")
	}
	if len(sink.recs) != emitted {
		t.Fatal("cancellation must be silent")
	}
}

func TestScoreClamp(t *testing.T) {
	m := machine{
		spec: Spec{
			Type:      "clamp_probe",
			Phases:    []PhaseSpec{{Name: "active", MinDays: 1, MaxDays: 1}},
			Criteria:  []string{"a"},
			ProbTable: map[int]float64{0: 0.30, 1: 0.95},
		},
		deps: Deps{}.normalized(),
	}

	st := m.start()
	st.AddVeto("bad news", 0.50)
	if got := m.score(st); got != ProbabilityFloor {
		t.Fatalf("vetoed score must clamp to the floor, got %v", got)
	}

	st = m.start()
	st.MarkCriterion("a")
	if got := m.score(st); got != ProbabilityCeiling {
		t.Fatalf("score must clamp to the ceiling, got %v", got)
	}
}

func TestSplitLifecycle(t *testing.T) {
	r := &scriptRand{f: 0.5}
	sink := &captureSink{}
	s := NewSplit(testDeps(r, nil, sink))
	sec := tradedSecurity(150)

	st := s.Trigger(sec, &TriggerOptions{Ratio: 2})
	if st == nil {
		t.Fatal("trigger expected above the minimum price")
	}
	if !st.OutcomeDecided || !st.WillSucceed {
		t.Fatal("a split is certain once announced")
	}
	if st.Get("ratio") != 2 {
		t.Fatalf("ratio override not honored: %v", st.Get("ratio"))
	}

	for day := 1; sec.Split != nil && day < 30; day++ {
		s.Process(sec, day)
	}
	if sec.Split != nil {
		t.Fatal("split run must complete")
	}
	if sec.Price != 75 {
		t.Fatalf("price must divide by the ratio, got %v", sec.Price)
	}
	if sec.BasePrice != 75 || sec.YTDOpen != 75 {
		t.Fatalf("base %v and ytd open %v must divide too", sec.BasePrice, sec.YTDOpen)
	}
	for _, p := range sec.History {
		if p.Price != 75 {
			t.Fatalf("history must be restated, found %v", p.Price)
		}
	}
	if !sec.OnCooldown(models.FamilySplit) {
		t.Fatal("split completion must arm the family cooldown")
	}
}

func TestSplitTriggerGates(t *testing.T) {
	r := &scriptRand{f: 0.5}
	s := NewSplit(testDeps(r, nil, nil))

	cheap := tradedSecurity(80)
	if s.Trigger(cheap, nil) != nil {
		t.Fatal("no split below the minimum nominal price")
	}

	sec := tradedSecurity(200)
	if s.Trigger(sec, &TriggerOptions{Ratio: 3.9}) == nil {
		t.Fatal("trigger expected")
	}
	if sec.Split.Get("ratio") != 3 {
		t.Fatalf("fractional ratios floor to whole numbers, got %v", sec.Split.Get("ratio"))
	}
	if s.Trigger(sec, nil) != nil {
		t.Fatal("no second split while one is pending")
	}
}

func TestInsiderBuyCluster(t *testing.T) {
	r := &scriptRand{f: 0.5}
	b := NewInsiderBuying(testDeps(r, nil, nil))
	sec := tradedSecurity(60)

	sig := b.Signal(sec)
	if sig.Phase != "" || sig.CriteriaMet != 0 {
		t.Fatalf("no filings, no signal: %+v", sig)
	}
	if sig.Probability != insiderBaseProbability {
		t.Fatalf("baseline probability expected, got %v", sig.Probability)
	}

	for day := 1; day <= 2; day++ {
		b.SetDay(day)
		if b.Trigger(sec, nil) == nil {
			t.Fatal("filing expected")
		}
	}
	sig = b.Signal(sec)
	if sig.ClusterBuy {
		t.Fatal("two buys are not a cluster")
	}

	b.SetDay(3)
	if b.Trigger(sec, nil) == nil {
		t.Fatal("filing expected")
	}
	sig = b.Signal(sec)
	if !sig.ClusterBuy || !sig.GoldStandard {
		t.Fatalf("three buys in the window form a gold-standard cluster: %+v", sig)
	}
	if math.Abs(sig.Probability-(insiderBaseProbability+clusterBuyBoost)) > 1e-9 {
		t.Fatalf("cluster boost not applied: %v", sig.Probability)
	}
	if sig.CriteriaMet != len(insiderBuySpec.Criteria) {
		t.Fatalf("cluster signal must show all criteria, got %d", sig.CriteriaMet)
	}
	if sig.Strength != 1 {
		t.Fatalf("cluster strength caps at 1, got %v", sig.Strength)
	}
}

func TestInsiderFilingsAgeOut(t *testing.T) {
	r := &scriptRand{f: 0.5}
	b := NewInsiderBuying(testDeps(r, nil, nil))
	sec := tradedSecurity(60)

	b.SetDay(1)
	if b.Trigger(sec, nil) == nil {
		t.Fatal("filing expected")
	}
	b.Process(sec, insiderRecordMaxAge+5)
	if len(sec.InsiderBuys) != 0 {
		t.Fatalf("stale filings must age out, %d left", len(sec.InsiderBuys))
	}
}

func TestInsiderSellingIsNoise(t *testing.T) {
	r := &scriptRand{f: 0.5}
	s := NewInsiderSelling(testDeps(r, nil, nil))
	sec := tradedSecurity(60)

	s.SetDay(1)
	if s.Trigger(sec, nil) == nil {
		t.Fatal("filing expected")
	}
	sig := s.Signal(sec)
	if sig.Probability != 0.50 || sig.ProbabilityBoost != 0 {
		t.Fatalf("a lone sell carries no signal: %+v", sig)
	}

	for day := 2; day <= 3; day++ {
		s.SetDay(day)
		s.Trigger(sec, nil)
	}
	sig = s.Signal(sec)
	if math.Abs(sig.Probability-0.35) > 1e-9 {
		t.Fatalf("a sell cluster applies the penalty, got %v", sig.Probability)
	}
}

func TestRegistryCoversEveryType(t *testing.T) {
	mods := All(Deps{})
	types := Types()
	if len(mods) != len(types) {
		t.Fatalf("registry mismatch: %d modules, %d types", len(mods), len(types))
	}
	seen := make(map[string]bool)
	for i, m := range mods {
		if m.Type() != types[i] {
			t.Fatalf("position %d: module %q vs type %q", i, m.Type(), types[i])
		}
		if seen[m.Type()] {
			t.Fatalf("duplicate type %q", m.Type())
		}
		seen[m.Type()] = true
	}
}

func criterionMet(st *models.PhenomenonState, name string) bool {
	for _, c := range st.Criteria {
		if c.Name == name {
			return c.Met
		}
	}
	return false
}

func TestRebalanceGoldStandardLifecycle(t *testing.T) {
	r := &scriptRand{f: 0.5}
	sink := &captureSink{}
	rb := NewRebalance(testDeps(r, nil, sink))
	sec := tradedSecurity(100)

	st := rb.Trigger(sec, &TriggerOptions{Tier: 1})
	if st == nil {
		t.Fatal("trigger expected")
	}
	if !criterionMet(st, "tier-1 addition") {
		t.Fatal("a tier-1 add marks the first criterion at trigger")
	}

	for day := 1; sec.Rebalance != nil && day < 40; day++ {
		switch st.Phase {
		case "runUp":
			sec.Price = 106 // front-runners lift it 6% over the announce print
		case "fade":
			sec.Price = st.Get("mocPrice") - 6
		}
		rb.Process(sec, day)
	}
	if sec.Rebalance != nil {
		t.Fatal("rebalance run must complete")
	}
	if got := st.CriteriaMet(); got != len(rebalanceSpec.Criteria) {
		t.Fatalf("full setup must meet every criterion, got %d/%d", got, len(rebalanceSpec.Criteria))
	}
	if !criterionMet(st, "MOC volume climax") {
		t.Fatal("tier-1 closing volume must register as a climax")
	}
	if !criterionMet(st, "T+2 lower high") {
		t.Fatal("a fade below the inclusion print must mark the lower high")
	}
	if !st.IsGoldStandard() {
		t.Fatal("4/4 criteria is the gold standard")
	}
	if !st.WillSucceed {
		t.Fatal("a roll below the fade probability must succeed")
	}
	if !sec.OnCooldown(models.FamilyRebalance) {
		t.Fatal("completion must arm the family cooldown")
	}

	last := sink.recs[len(sink.recs)-1]
	if !last.GoldStandard {
		t.Fatal("the closing record must report the gold standard")
	}
}

func TestSplitDisabledMidRunUp(t *testing.T) {
	r := &scriptRand{f: 0.5}
	flags := engine.NewFlagSet()
	sink := &captureSink{}
	s := NewSplit(testDeps(r, flags, sink))
	sec := tradedSecurity(150)

	st := s.Trigger(sec, &TriggerOptions{Ratio: 2})
	if st == nil {
		t.Fatal("trigger expected")
	}

	s.Process(sec, 1)
	s.Process(sec, 2)
	if st.Phase != "runUp" {
		t.Fatalf("expected runUp after the announcement day, got %q", st.Phase)
	}
	emitted := len(sink.recs)

	flags.Set(models.NewsSplit, false)
	s.Process(sec, 3)

	if sec.Split != nil {
		t.Fatal("disable must tear the split down on the next day")
	}
	if len(sink.recs) != emitted {
		t.Fatal("cancellation must be silent")
	}
	if sec.Price != 150 {
		t.Fatalf("the division must never apply, price %v", sec.Price)
	}
	if sec.OnCooldown(models.FamilySplit) {
		t.Fatal("cancellation must not arm a cooldown")
	}
}

func TestManipulationDistributionCriteria(t *testing.T) {
	r := &scriptRand{f: 0.5}
	m := NewManipulation(testDeps(r, nil, nil))
	sec := tradedSecurity(50)

	st := m.Trigger(sec, nil)
	if st == nil {
		t.Fatal("trigger expected on a small unstable name")
	}

	day := 0
	for st.Phase != "distribution" && day < 20 {
		day++
		m.Process(sec, day)
	}
	if st.Phase != "distribution" {
		t.Fatal("never reached distribution")
	}

	// A fresh high with nothing left to unload fires neither criterion.
	sec.Price = st.Get("peakPrice") + 10
	sec.InstitutionalAccumulation = 0
	day++
	m.Process(sec, day)
	if criterionMet(st, "price stalls at highs") {
		t.Fatal("a new high is not a stall")
	}
	if criterionMet(st, "distribution detected") {
		t.Fatal("nothing accumulated, nothing to distribute")
	}
	if st.Get("peakPrice") != sec.Price {
		t.Fatalf("peak must track the new high, got %v", st.Get("peakPrice"))
	}

	// Price stalling below the peak while the position unwinds fires both.
	sec.Price = st.Get("peakPrice") - 5
	sec.InstitutionalAccumulation = 0.3
	day++
	m.Process(sec, day)
	if !criterionMet(st, "price stalls at highs") {
		t.Fatal("failing to make a new high is the stall")
	}
	if !criterionMet(st, "distribution detected") {
		t.Fatal("a declining position is the distribution tell")
	}
}
