package phenomena

import (
	"fmt"

	"MarketLab/internal/domain/models"
	"MarketLab/internal/engine"
)

var fomoSpec = Spec{
	Type:   models.NewsFOMO,
	Family: models.FamilyFOMO,
	Phases: []PhaseSpec{
		{Name: "spark", MinDays: 1, MaxDays: 2},
		{Name: "surge", MinDays: 3, MaxDays: 6},
		{Name: "blowoff", MinDays: 1, MaxDays: 2},
		{Name: "hangover", MinDays: 3, MaxDays: 5},
	},
	Criteria: []string{
		"parabolic extension",
		"retail volume surge",
		"media saturation",
		"first distribution day",
	},
	ProbTable: map[int]float64{
		0: 0.30,
		1: 0.45,
		2: 0.62,
		3: 0.75,
		4: 0.85,
	},
	DecisionPhase: "blowoff",
	CooldownDays:  40,
	TriggerRate:   0.005,
}

// FOMO models a fear-of-missing-out rally: a spark, a compounding surge,
// a blowoff top, then the hangover. The roll on entering blowoff decides
// whether the unwind is a hard crash (the usual ending) or a soft landing.
// Probability here scores the crash, so more criteria met means a harder
// hangover is more likely.
type FOMO struct {
	m machine
}

func NewFOMO(deps Deps) *FOMO {
	return &FOMO{m: machine{spec: fomoSpec, deps: deps.normalized()}}
}

func (f *FOMO) Type() string          { return fomoSpec.Type }
func (f *FOMO) Family() models.Family { return fomoSpec.Family }
func (f *FOMO) TriggerRate() float64  { return fomoSpec.TriggerRate }

// Trigger requires positive trend and a visible recent run-up to latch onto.
func (f *FOMO) Trigger(sec *models.Security, _ *TriggerOptions) *models.PhenomenonState {
	if !f.m.enabled() || sec.FOMO != nil || sec.OnCooldown(models.FamilyFOMO) {
		return nil
	}
	if sec.Trend <= 0 || engine.ReturnOver(sec, 5) < 0.05 {
		return nil
	}

	st := f.m.start()
	st.Set("sparkPrice", sec.Price)
	f.m.refresh(st)
	sec.FOMO = st
	return st
}

func clearFOMO(sec *models.Security) { sec.FOMO = nil }

func (f *FOMO) Process(sec *models.Security, day int) {
	st := sec.FOMO
	if st == nil {
		return
	}
	if !f.m.enabled() {
		f.m.cancel(sec, clearFOMO)
		return
	}

	switch st.Phase {
	case "spark":
		if st.Day == 0 {
			sec.SentimentOffset += 0.12
			sec.VolatilityBoost += 0.3
			f.m.emit(sec, st, day,
				fmt.Sprintf("%s catches fire on social media", sec.Symbol),
				fmt.Sprintf("Mentions of %s are up sharply and the stock is running.", sec.Name),
				models.SentimentPositive,
				"Crowded attention moves prices short term. The question is never whether a FOMO rally ends, only how.")
		}
	case "surge":
		sec.SentimentOffset += 0.10
		sec.VolatilityBoost += 0.1
		if sec.Price >= st.Get("sparkPrice")*1.3 {
			st.MarkCriterion("parabolic extension")
		}
		if sec.VolatilityBoost >= 0.5 {
			st.MarkCriterion("retail volume surge")
		}
		if st.Day >= 4 {
			st.MarkCriterion("media saturation")
		}
	case "blowoff":
		sec.QueueImpulse(st.Type, 0.08)
		st.MarkCriterion("first distribution day")
	case "hangover":
		if st.WillSucceed {
			sec.SentimentOffset -= 0.10
		} else {
			sec.SentimentOffset -= 0.03
		}
	}
	f.m.refresh(st)

	entered, done := f.m.advance(st)
	switch entered {
	case "blowoff":
		f.m.emit(sec, st, day,
			fmt.Sprintf("%s goes vertical", sec.Symbol),
			fmt.Sprintf("%s printed its steepest gain of the move amid frenzied buying.", sec.Name),
			models.SentimentPositive,
			fmt.Sprintf("Vertical final legs mark exhaustion, not strength: %d/%d topping criteria met, about %s odds of a hard unwind.",
				st.CriteriaMet(), len(st.Criteria), pct(st.Probability)))
	case "hangover":
		f.m.emit(sec, st, day,
			fmt.Sprintf("%s rally stalls", sec.Symbol),
			fmt.Sprintf("Momentum in %s broke; late buyers are underwater.", sec.Name),
			models.SentimentNegative,
			"The average FOMO buyer arrives in the last third of the move. Distribution days are the exit bell.")
	}
	if done {
		tell := "Soft landing: the rally digested sideways. Rare, and usually a sign real fundamentals backed part of the move."
		sentiment := models.SentimentNeutral
		if st.WillSucceed {
			tell = "Hard unwind complete: parabolic advances retrace most of their final leg. Chasing vertical charts is the most reliably losing trade in this simulator."
			sentiment = models.SentimentNegative
		}
		f.m.emit(sec, st, day,
			fmt.Sprintf("The %s frenzy is over", sec.Symbol),
			fmt.Sprintf("Volume and mentions of %s returned to baseline.", sec.Name),
			sentiment, tell)
		f.m.finish(sec, clearFOMO)
	}
}

func (f *FOMO) Signal(sec *models.Security) models.Signal {
	return f.m.signalFrom(sec.FOMO)
}
