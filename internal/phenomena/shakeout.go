package phenomena

import (
	"fmt"

	"MarketLab/internal/domain/models"
)

var shakeoutSpec = Spec{
	Type:   models.NewsShakeout,
	Family: models.FamilyCrash,
	Phases: []PhaseSpec{
		{Name: "overreaction", MinDays: 1, MaxDays: 2},
		{Name: "stabilize", MinDays: 2, MaxDays: 3},
		{Name: "recovery", MinDays: 3, MaxDays: 4},
	},
	Criteria: []string{
		"fundamentals intact",
		"no follow-on reports",
		"stabilization confirmed",
		"sentiment washout",
	},
	ProbTable: map[int]float64{
		0: 0.30,
		1: 0.48,
		2: 0.65,
		3: 0.76,
		4: 0.85,
	},
	DecisionPhase: "recovery",
	CooldownDays:  30,
	TriggerRate:   0.006,
}

// Shakeout models a news overreaction: a scary headline knocks the price
// down, holders are shaken out, then either the move reverses (the news
// was noise) or the damage proves real. WillSucceed means recovery.
type Shakeout struct {
	m machine
}

func NewShakeout(deps Deps) *Shakeout {
	return &Shakeout{m: machine{spec: shakeoutSpec, deps: deps.normalized()}}
}

func (s *Shakeout) Type() string          { return shakeoutSpec.Type }
func (s *Shakeout) Family() models.Family { return shakeoutSpec.Family }
func (s *Shakeout) TriggerRate() float64  { return shakeoutSpec.TriggerRate }

func (s *Shakeout) Trigger(sec *models.Security, _ *TriggerOptions) *models.PhenomenonState {
	if !s.m.enabled() || sec.CrashSlot() != nil || sec.OnCooldown(models.FamilyCrash) {
		return nil
	}

	st := s.m.start()
	st.Set("prePrice", sec.Price)
	if sec.EPSModifier >= -0.05 {
		st.MarkCriterion("fundamentals intact")
	}
	s.m.refresh(st)
	sec.Shakeout = st
	return st
}

func clearShakeout(sec *models.Security) { sec.Shakeout = nil }

func (s *Shakeout) Process(sec *models.Security, day int) {
	st := sec.Shakeout
	if st == nil {
		return
	}
	if !s.m.enabled() {
		s.m.cancel(sec, clearShakeout)
		return
	}

	switch st.Phase {
	case "overreaction":
		if st.Day == 0 {
			sec.SentimentOffset -= 0.20
			sec.QueueImpulse(st.Type, -0.08)
			sec.VolatilityBoost += 0.6
			s.m.emit(sec, st, day,
				fmt.Sprintf("Alarming headline slams %s", sec.Symbol),
				fmt.Sprintf("%s sold off sharply on a headline whose actual earnings impact is unclear.", sec.Name),
				models.SentimentNegative,
				"First reaction to scary news is usually the worst price. Separate the headline's drama from its measurable earnings impact.")
		} else {
			sec.SentimentOffset -= 0.05
		}
		if sec.SentimentOffset <= -0.4 {
			st.MarkCriterion("sentiment washout")
		}
	case "stabilize":
		if s.m.ctx().Roll(0.8) {
			st.MarkCriterion("no follow-on reports")
		}
		if sec.Price >= st.Get("prePrice")*0.8 {
			st.MarkCriterion("stabilization confirmed")
		}
	case "recovery":
		if st.WillSucceed {
			sec.SentimentOffset += 0.07
		} else {
			sec.SentimentOffset -= 0.03
		}
	}
	s.m.refresh(st)

	entered, done := s.m.advance(st)
	if entered == "recovery" {
		s.m.emit(sec, st, day,
			fmt.Sprintf("Dust settles around %s", sec.Symbol),
			fmt.Sprintf("Selling in %s has slowed; the market is deciding if the scare was real.", sec.Name),
			models.SentimentNeutral,
			fmt.Sprintf("Overreactions reverse when fundamentals are intact and no second report lands: %d/%d criteria met, roughly %s recovery odds.",
				st.CriteriaMet(), len(st.Criteria), pct(st.Probability)))
	}
	if done {
		headline := fmt.Sprintf("%s scare proves overdone", sec.Symbol)
		sentiment := models.SentimentPositive
		tell := "Classic shakeout: weak hands sold the headline, the business was unchanged, and price round-tripped."
		if !st.WillSucceed {
			headline = fmt.Sprintf("%s damage proves real", sec.Symbol)
			sentiment = models.SentimentNegative
			tell = "Not every overreaction is one. When follow-on facts confirm the headline, the first drop was the cheapest exit."
			sec.EPSModifier -= 0.03
		}
		s.m.emit(sec, st, day, headline,
			fmt.Sprintf("The news episode around %s has resolved.", sec.Name),
			sentiment, tell)
		s.m.finish(sec, clearShakeout)
	}
}

func (s *Shakeout) Signal(sec *models.Security) models.Signal {
	return s.m.signalFrom(sec.Shakeout)
}
