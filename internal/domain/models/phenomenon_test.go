package models

import "testing"

func newState() *PhenomenonState {
	return &PhenomenonState{
		Type: NewsDeadCat,
		Criteria: []Criterion{
			{Name: "obvious support"},
			{Name: "volume climax"},
			{Name: "stabilization confirmed"},
		},
	}
}

func TestMarkCriterionMonotonic(t *testing.T) {
	st := newState()
	st.MarkCriterion("obvious support")
	if st.CriteriaMet() != 1 {
		t.Fatalf("expected 1 met, got %d", st.CriteriaMet())
	}
	// marking again must not double-count
	st.MarkCriterion("obvious support")
	if st.CriteriaMet() != 1 {
		t.Fatalf("expected 1 met after re-mark, got %d", st.CriteriaMet())
	}
}

func TestMarkCriterionUnknownIgnored(t *testing.T) {
	st := newState()
	st.MarkCriterion("no such criterion")
	if st.CriteriaMet() != 0 {
		t.Fatalf("unknown criterion must not count")
	}
}

func TestIsGoldStandard(t *testing.T) {
	st := newState()
	if st.IsGoldStandard() {
		t.Fatalf("empty state must not be gold standard")
	}
	st.MarkCriterion("obvious support")
	st.MarkCriterion("volume climax")
	if st.IsGoldStandard() {
		t.Fatalf("partial criteria must not be gold standard")
	}
	st.MarkCriterion("stabilization confirmed")
	if !st.IsGoldStandard() {
		t.Fatalf("all criteria met must be gold standard")
	}
}

func TestIsGoldStandardNoCriteria(t *testing.T) {
	st := &PhenomenonState{Type: NewsInsiderSell}
	if st.IsGoldStandard() {
		t.Fatalf("zero criteria must never grade gold standard")
	}
}

func TestAddVetoDedup(t *testing.T) {
	st := newState()
	st.AddVeto("terminal news", 0.25)
	st.AddVeto("terminal news", 0.25)
	st.AddVeto("bull market", 0.10)
	if got := st.VetoPenalty(); got != 0.35 {
		t.Fatalf("expected penalty 0.35, got %v", got)
	}
}

func TestPayloadGetSet(t *testing.T) {
	st := newState()
	if st.Get("support") != 0 {
		t.Fatalf("missing payload key must read zero")
	}
	st.Set("support", 42)
	if st.Get("support") != 42 {
		t.Fatalf("payload round trip failed")
	}
}

func TestNewsRecordClone(t *testing.T) {
	rec := NewsRecord{
		ID:      "news-000001",
		Symbol:  "APEX",
		Type:    NewsSplit,
		Payload: map[string]float64{"ratio": 4},
	}
	cp := rec.Clone()
	cp.Payload["ratio"] = 2
	if rec.Payload["ratio"] != 4 {
		t.Fatalf("clone must not share payload map")
	}
}

func TestSentimentLabel(t *testing.T) {
	cases := []struct {
		sentiment float64
		want      string
	}{
		{SentimentPositive, "positive"},
		{SentimentNegative, "negative"},
		{SentimentNeutral, "neutral"},
		{0.1, "neutral"},
	}
	for _, c := range cases {
		rec := NewsRecord{Sentiment: c.sentiment}
		if got := rec.SentimentLabel(); got != c.want {
			t.Fatalf("sentiment %v: expected %q, got %q", c.sentiment, c.want, got)
		}
	}
}

func TestCrashSlotExclusive(t *testing.T) {
	sec := NewSecurity(SecuritySeed{Symbol: "APEX", Price: 100})
	if sec.CrashActive() {
		t.Fatalf("fresh security must have no crash slot")
	}
	sec.Shakeout = &PhenomenonState{Type: NewsShakeout, Family: FamilyCrash}
	if got := sec.CrashSlot(); got == nil || got.Type != NewsShakeout {
		t.Fatalf("expected shakeout in crash slot, got %+v", got)
	}
}

func TestCooldowns(t *testing.T) {
	sec := NewSecurity(SecuritySeed{Symbol: "APEX", Price: 100})
	sec.StartCooldown(FamilyCrash, 2)
	if !sec.OnCooldown(FamilyCrash) {
		t.Fatalf("expected cooldown armed")
	}
	if sec.OnCooldown(FamilySplit) {
		t.Fatalf("unrelated family must not be on cooldown")
	}
	sec.StartCooldown(FamilyFOMO, 0)
	if sec.OnCooldown(FamilyFOMO) {
		t.Fatalf("zero-day cooldown must be a no-op")
	}
}

func TestImpulseQueue(t *testing.T) {
	sec := NewSecurity(SecuritySeed{Symbol: "APEX", Price: 100})
	sec.QueueImpulse("dead_cat_bounce", -0.10)
	sec.QueueImpulse("short_squeeze", 0.25)
	if got := sec.DrainImpulses(); got != 0.15 {
		t.Fatalf("expected summed impulse 0.15, got %v", got)
	}
	if got := sec.DrainImpulses(); got != 0 {
		t.Fatalf("drain must clear the queue, got %v", got)
	}
}
