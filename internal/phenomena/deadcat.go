package phenomena

import (
	"fmt"

	"MarketLab/internal/domain/models"
	"MarketLab/internal/engine"
)

var deadCatSpec = Spec{
	Type:   models.NewsDeadCat,
	Family: models.FamilyCrash,
	Phases: []PhaseSpec{
		{Name: "crash", MinDays: 2, MaxDays: 3},
		{Name: "bounce", MinDays: 2, MaxDays: 4},
		{Name: "resolution", MinDays: 3, MaxDays: 5},
	},
	Criteria: []string{
		"obvious support",
		"volume climax",
		"stabilization confirmed",
		"oversold momentum",
	},
	ProbTable: map[int]float64{
		0: 0.30,
		1: 0.45,
		2: 0.65,
		3: 0.75,
		4: 0.85,
	},
	DecisionPhase: "resolution",
	CooldownDays:  45,
	TriggerRate:   0.006,
}

// DeadCat models the crash-and-bounce pattern: a sharp drop, a relief
// bounce, then either a genuine reversal or a fade to new lows. The roll
// deciding which happens on the first resolution day and is replayed for
// the rest of the run.
type DeadCat struct {
	m machine
}

func NewDeadCat(deps Deps) *DeadCat {
	return &DeadCat{m: machine{spec: deadCatSpec, deps: deps.normalized()}}
}

func (d *DeadCat) Type() string          { return deadCatSpec.Type }
func (d *DeadCat) Family() models.Family { return deadCatSpec.Family }
func (d *DeadCat) TriggerRate() float64  { return deadCatSpec.TriggerRate }

// Trigger requires a detectable support level in price history and no
// active crash-family instance.
func (d *DeadCat) Trigger(sec *models.Security, _ *TriggerOptions) *models.PhenomenonState {
	if !d.m.enabled() || sec.CrashSlot() != nil || sec.OnCooldown(models.FamilyCrash) {
		return nil
	}
	support, ok := engine.SupportLevel(sec, 20)
	if !ok || sec.Price < 5 {
		return nil
	}

	st := d.m.start()
	st.Set("support", support)
	if support >= sec.Price*0.85 {
		st.MarkCriterion("obvious support")
	}
	if sec.EPSModifier <= -0.15 {
		st.AddVeto("terminal news", 0.25)
	}
	d.m.refresh(st)
	sec.DeadCat = st
	return st
}

func clearDeadCat(sec *models.Security) { sec.DeadCat = nil }

func (d *DeadCat) Process(sec *models.Security, day int) {
	st := sec.DeadCat
	if st == nil {
		return
	}
	if !d.m.enabled() {
		d.m.cancel(sec, clearDeadCat)
		return
	}

	switch st.Phase {
	case "crash":
		if st.Day == 0 {
			sec.SentimentOffset -= 0.25
			sec.QueueImpulse(st.Type, -0.10)
			sec.VolatilityBoost += 0.8 + d.m.ctx().Range(0, 0.5)
			d.m.emit(sec, st, day,
				fmt.Sprintf("%s plunges as sellers hit the tape", sec.Symbol),
				fmt.Sprintf("Shares of %s fell hard on heavy volume with no fundamental catalyst disclosed.", sec.Name),
				models.SentimentNegative,
				"Sharp declines without news often overshoot. Watch for a support level and a volume climax before assuming the move is over.")
		} else {
			sec.SentimentOffset -= 0.08
		}
		if sec.VolatilityBoost >= 1.0 {
			st.MarkCriterion("volume climax")
		}
		if sec.Price < sec.FairValue()*0.75 {
			st.MarkCriterion("oversold momentum")
		}
	case "bounce":
		sec.SentimentOffset += 0.06
		if sec.Price < sec.FairValue()*0.75 {
			st.MarkCriterion("oversold momentum")
		}
	case "resolution":
		if st.WillSucceed {
			sec.SentimentOffset += 0.05
		} else {
			sec.SentimentOffset -= 0.06
		}
	}
	d.m.refresh(st)

	entered, done := d.m.advance(st)
	switch entered {
	case "bounce":
		if support := st.Get("support"); support > 0 && sec.Price >= support*0.97 {
			st.MarkCriterion("stabilization confirmed")
		}
		d.m.refresh(st)
		d.m.emit(sec, st, day,
			fmt.Sprintf("%s bounces off the lows", sec.Symbol),
			fmt.Sprintf("%s recovered part of its decline. Traders debate whether the bounce is real.", sec.Name),
			models.SentimentNeutral,
			fmt.Sprintf("A bounce after a crash is only trustworthy with confirmation: %d/%d reversal criteria met, implying roughly %s odds the low holds.",
				st.CriteriaMet(), len(st.Criteria), pct(st.Probability)))
	case "resolution":
		d.m.emit(sec, st, day,
			fmt.Sprintf("Moment of truth for %s", sec.Symbol),
			fmt.Sprintf("The relief bounce in %s is ending; the next sessions decide whether the low was real.", sec.Name),
			models.SentimentNeutral,
			"Dead-cat bounces fail when buyers were only short-sellers covering. Fading volume on the bounce is the telltale.")
	}
	if done {
		sentiment := models.SentimentNegative
		headline := fmt.Sprintf("%s rolls over to fresh lows", sec.Symbol)
		tell := "This was a dead-cat bounce: the rally retraced on thin volume and sellers returned."
		if st.WillSucceed {
			sentiment = models.SentimentPositive
			headline = fmt.Sprintf("%s confirms its low and recovers", sec.Symbol)
			tell = "Reversal confirmed: support held on rising volume, the classic sign the crash exhausted itself."
		}
		d.m.emit(sec, st, day, headline,
			fmt.Sprintf("The post-crash pattern in %s resolved.", sec.Name),
			sentiment, tell)
		d.m.finish(sec, clearDeadCat)
	}
}

func (d *DeadCat) Signal(sec *models.Security) models.Signal {
	return d.m.signalFrom(sec.DeadCat)
}
