package phenomena

import (
	"fmt"

	"MarketLab/internal/domain/models"
)

var rebalanceSpec = Spec{
	Type:   models.NewsRebalance,
	Family: models.FamilyRebalance,
	Phases: []PhaseSpec{
		{Name: "announcement", MinDays: 1, MaxDays: 1},
		{Name: "runUp", MinDays: 4, MaxDays: 6},
		{Name: "moc", MinDays: 1, MaxDays: 1},
		{Name: "fade", MinDays: 3, MaxDays: 5},
	},
	Criteria: []string{
		"tier-1 addition",
		"run-up into inclusion",
		"MOC volume climax",
		"T+2 lower high",
	},
	ProbTable: map[int]float64{
		0: 0.30,
		1: 0.45,
		2: 0.62,
		3: 0.75,
		4: 0.85,
	},
	DecisionPhase: "fade",
	CooldownDays:  120,
	TriggerRate:   0.002,
}

// Rebalance models an index addition: announcement pop, front-running
// run-up, the market-on-close inclusion day, then the post-inclusion fade.
// Probability scores the fade, the pattern the module teaches; WillSucceed
// means the fade plays out.
type Rebalance struct {
	m machine
}

func NewRebalance(deps Deps) *Rebalance {
	return &Rebalance{m: machine{spec: rebalanceSpec, deps: deps.normalized()}}
}

func (r *Rebalance) Type() string          { return rebalanceSpec.Type }
func (r *Rebalance) Family() models.Family { return rebalanceSpec.Family }
func (r *Rebalance) TriggerRate() float64  { return rebalanceSpec.TriggerRate }

func (r *Rebalance) Trigger(sec *models.Security, opts *TriggerOptions) *models.PhenomenonState {
	if !r.m.enabled() || sec.Rebalance != nil || sec.OnCooldown(models.FamilyRebalance) {
		return nil
	}

	tier := 1 + r.m.ctx().Choice(3)
	if opts != nil && opts.Tier >= 1 && opts.Tier <= 3 {
		tier = opts.Tier
	}

	st := r.m.start()
	st.Set("tier", float64(tier))
	st.Set("announcePrice", sec.Price)
	if tier == 1 {
		st.MarkCriterion("tier-1 addition")
	}
	r.m.refresh(st)
	sec.Rebalance = st
	return st
}

func clearRebalance(sec *models.Security) { sec.Rebalance = nil }

func (r *Rebalance) Process(sec *models.Security, day int) {
	st := sec.Rebalance
	if st == nil {
		return
	}
	if !r.m.enabled() {
		r.m.cancel(sec, clearRebalance)
		return
	}

	tier := int(st.Get("tier"))

	switch st.Phase {
	case "announcement":
		sec.SentimentOffset += 0.10 / float64(tier)
		r.m.emit(sec, st, day,
			fmt.Sprintf("%s to join major index", sec.Symbol),
			fmt.Sprintf("%s will be added to a tier-%d index at the next rebalance close.", sec.Name, tier),
			models.SentimentPositive,
			"Index funds must buy at the inclusion close regardless of price. Everyone knows that, which is why the pattern front-runs itself.")
	case "runUp":
		sec.SentimentOffset += 0.04 / float64(tier)
		ann := st.Get("announcePrice")
		if ann > 0 && (sec.Price-ann)/ann >= 0.05 {
			st.MarkCriterion("run-up into inclusion")
		}
	case "moc":
		// the forced market-on-close buy
		mocVol := r.m.ctx().Range(8, 35)
		if tier == 1 {
			mocVol += 5
		}
		st.Set("mocVolume", mocVol)
		st.Set("mocPrice", sec.Price)
		st.Set("mocDay", float64(st.Day))
		if mocVol >= 20 {
			st.MarkCriterion("MOC volume climax")
		}
		sec.QueueImpulse(st.Type, 0.03+0.03/float64(tier))
		r.m.emit(sec, st, day,
			fmt.Sprintf("%s inclusion day: massive closing volume", sec.Symbol),
			fmt.Sprintf("%s traded %.0fx its normal volume into the rebalance close.", sec.Name, mocVol),
			models.SentimentPositive,
			"The index funds have now bought. Ask who is left to buy tomorrow.")
	case "fade":
		if st.WillSucceed {
			sec.SentimentOffset -= 0.05
		}
		if st.Day >= int(st.Get("mocDay"))+2 && sec.Price < st.Get("mocPrice") {
			st.MarkCriterion("T+2 lower high")
		}
	}
	r.m.refresh(st)

	entered, done := r.m.advance(st)
	if entered == "fade" {
		r.m.emit(sec, st, day,
			fmt.Sprintf("%s drifts after index add", sec.Symbol),
			fmt.Sprintf("With the mechanical buying done, %s is finding its post-inclusion level.", sec.Name),
			models.SentimentNeutral,
			fmt.Sprintf("Post-inclusion fades score on the setup: %d/%d criteria met, about %s odds the run-up unwinds.",
				st.CriteriaMet(), len(st.Criteria), pct(st.Probability)))
	}
	if done {
		tell := "No fade this time: sometimes real buyers show up behind the index funds."
		sentiment := models.SentimentNeutral
		if st.WillSucceed {
			tell = "The full inclusion round-trip: run-up, volume climax at the close, lower high by T+2, fade. Selling into the MOC print was the trade."
			sentiment = models.SentimentNegative
		}
		r.m.emit(sec, st, day,
			fmt.Sprintf("%s index rebalance episode complete", sec.Symbol),
			fmt.Sprintf("The index-driven flows around %s have finished.", sec.Name),
			sentiment, tell)
		r.m.finish(sec, clearRebalance)
	}
}

func (r *Rebalance) Signal(sec *models.Security) models.Signal {
	return r.m.signalFrom(sec.Rebalance)
}
