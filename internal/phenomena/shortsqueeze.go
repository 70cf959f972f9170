package phenomena

import (
	"fmt"

	"MarketLab/internal/domain/models"
)

var shortSqueezeSpec = Spec{
	Type:   models.NewsShortSqueeze,
	Family: models.FamilySqueeze,
	Phases: []PhaseSpec{
		{Name: "setup", MinDays: 3, MaxDays: 5},
		{Name: "ignition", MinDays: 1, MaxDays: 2},
		{Name: "squeeze", MinDays: 2, MaxDays: 4},
		{Name: "exhaustion", MinDays: 2, MaxDays: 3},
	},
	Criteria: []string{
		"short interest extreme",
		"price holds support",
		"volume ignition",
		"covering detected",
	},
	ProbTable: map[int]float64{
		0: 0.25,
		1: 0.40,
		2: 0.60,
		3: 0.75,
		4: 0.88,
	},
	DecisionPhase: "ignition",
	CooldownDays:  45,
	TriggerRate:   0.004,
}

// minShortInterest is the trigger precondition: below this level there is
// no fuel for a squeeze.
const minShortInterest = 0.15

// ShortSqueeze models the heavily-shorted-stock pattern: a coiled setup,
// an ignition day, a forced-covering melt-up, then exhaustion. Whether the
// squeeze actually runs is rolled once when ignition begins.
type ShortSqueeze struct {
	m machine
}

func NewShortSqueeze(deps Deps) *ShortSqueeze {
	return &ShortSqueeze{m: machine{spec: shortSqueezeSpec, deps: deps.normalized()}}
}

func (s *ShortSqueeze) Type() string          { return shortSqueezeSpec.Type }
func (s *ShortSqueeze) Family() models.Family { return shortSqueezeSpec.Family }
func (s *ShortSqueeze) TriggerRate() float64  { return shortSqueezeSpec.TriggerRate }

func (s *ShortSqueeze) Trigger(sec *models.Security, _ *TriggerOptions) *models.PhenomenonState {
	if !s.m.enabled() || sec.ShortSqueeze != nil || sec.OnCooldown(models.FamilySqueeze) {
		return nil
	}
	if sec.ShortInterest < minShortInterest {
		return nil
	}

	st := s.m.start()
	st.Set("entryPrice", sec.Price)
	if sec.ShortInterest >= 0.25 {
		st.MarkCriterion("short interest extreme")
	}
	if sec.ShortInterest < 0.18 {
		st.AddVeto("low borrow pressure", 0.15)
	}
	s.m.refresh(st)
	sec.ShortSqueeze = st
	return st
}

func clearShortSqueeze(sec *models.Security) { sec.ShortSqueeze = nil }

func (s *ShortSqueeze) Process(sec *models.Security, day int) {
	st := sec.ShortSqueeze
	if st == nil {
		return
	}
	if !s.m.enabled() {
		s.m.cancel(sec, clearShortSqueeze)
		return
	}

	switch st.Phase {
	case "setup":
		// price refuses to break down despite the short pressure
		if sec.Price >= st.Get("entryPrice")*0.97 {
			st.MarkCriterion("price holds support")
		}
	case "ignition":
		if st.WillSucceed {
			sec.SentimentOffset += 0.10
			sec.QueueImpulse(st.Type, 0.06)
			sec.VolatilityBoost += 0.6
			st.MarkCriterion("volume ignition")
		} else {
			sec.SentimentOffset += 0.02
		}
	case "squeeze":
		if st.WillSucceed {
			sec.SentimentOffset += 0.12
			sec.ShortInterest *= 0.8 // shorts forced out day by day
			st.MarkCriterion("covering detected")
		} else {
			sec.SentimentOffset += 0.01
		}
	case "exhaustion":
		if st.WillSucceed {
			sec.SentimentOffset -= 0.08
		}
	}
	s.m.refresh(st)

	entered, done := s.m.advance(st)
	switch entered {
	case "ignition":
		s.m.emit(sec, st, day,
			fmt.Sprintf("%s rips higher as shorts scramble", sec.Symbol),
			fmt.Sprintf("Heavily shorted %s (%.0f%% of float short) jumped on sudden volume.", sec.Name, sec.ShortInterest*100),
			models.SentimentPositive,
			fmt.Sprintf("Squeeze setups score on fuel and trigger: %d/%d criteria met, about %s odds the covering cascade runs.",
				st.CriteriaMet(), len(st.Criteria), pct(st.Probability)))
	case "exhaustion":
		s.m.emit(sec, st, day,
			fmt.Sprintf("%s squeeze shows signs of fatigue", sec.Symbol),
			fmt.Sprintf("Short interest in %s has collapsed; the forced buying is spent.", sec.Name),
			models.SentimentNeutral,
			"Squeezes end when the last short covers. Without that buyer, price has no support at these levels.")
	}
	if done {
		tell := "The squeeze fizzled: holding a position only because shorts might cover is hope, not a thesis."
		sentiment := models.SentimentNeutral
		if st.WillSucceed {
			tell = "A completed squeeze round-trip: ignition, covering cascade, exhaustion. The exhaustion leg gives back much of the spike."
			sentiment = models.SentimentNegative
		}
		s.m.emit(sec, st, day,
			fmt.Sprintf("Short squeeze in %s runs its course", sec.Symbol),
			fmt.Sprintf("The squeeze episode in %s is over.", sec.Name),
			sentiment, tell)
		s.m.finish(sec, clearShortSqueeze)
	}
}

func (s *ShortSqueeze) Signal(sec *models.Security) models.Signal {
	return s.m.signalFrom(sec.ShortSqueeze)
}
