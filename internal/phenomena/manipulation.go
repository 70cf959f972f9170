package phenomena

import (
	"fmt"

	"MarketLab/internal/domain/models"
	"MarketLab/internal/engine"
)

var manipulationSpec = Spec{
	Type:   models.NewsManipulation,
	Family: models.FamilyManipulation,
	Phases: []PhaseSpec{
		{Name: "accumulation", MinDays: 5, MaxDays: 10},
		{Name: "pump", MinDays: 3, MaxDays: 6},
		{Name: "distribution", MinDays: 2, MaxDays: 4},
		{Name: "dump", MinDays: 2, MaxDays: 3},
	},
	Criteria: []string{
		"quiet accumulation",
		"volume without news",
		"price stalls at highs",
		"distribution detected",
	},
	ProbTable: map[int]float64{
		0: 0.35,
		1: 0.45,
		2: 0.60,
		3: 0.75,
		4: 0.85,
	},
	DecisionPhase: "dump",
	CooldownDays:  60,
	TriggerRate:   0.003,
}

// Manipulation models an institutional pump-and-dump: quiet accumulation,
// an engineered pump, distribution into strength, then the dump. The roll
// on entering the dump decides whether it completes or fizzles early.
// Unstable small names are the preferred target.
type Manipulation struct {
	m machine
}

func NewManipulation(deps Deps) *Manipulation {
	return &Manipulation{m: machine{spec: manipulationSpec, deps: deps.normalized()}}
}

func (p *Manipulation) Type() string          { return manipulationSpec.Type }
func (p *Manipulation) Family() models.Family { return manipulationSpec.Family }
func (p *Manipulation) TriggerRate() float64  { return manipulationSpec.TriggerRate }

func (p *Manipulation) Trigger(sec *models.Security, _ *TriggerOptions) *models.PhenomenonState {
	if !p.m.enabled() || sec.Manipulation != nil || sec.OnCooldown(models.FamilyManipulation) {
		return nil
	}
	if sec.Stability >= 0.7 {
		return nil // too large and liquid to move
	}

	st := p.m.start()
	st.Set("entryPrice", sec.Price)
	p.m.refresh(st)
	sec.Manipulation = st
	return st
}

func clearManipulation(sec *models.Security) {
	sec.Manipulation = nil
	sec.InstitutionalAccumulation = 0
}

func (p *Manipulation) Process(sec *models.Security, day int) {
	st := sec.Manipulation
	if st == nil {
		return
	}
	if !p.m.enabled() {
		p.m.cancel(sec, clearManipulation)
		return
	}

	switch st.Phase {
	case "accumulation":
		sec.InstitutionalAccumulation = engine.Clamp(sec.InstitutionalAccumulation+0.08, 0, 1)
		if st.Day >= 3 {
			st.MarkCriterion("quiet accumulation")
		}
	case "pump":
		sec.SentimentOffset += 0.08
		sec.VolatilityBoost += 0.2
		st.MarkCriterion("volume without news")
	case "distribution":
		// sold into strength while the tape still looks bullish
		if sec.Price > st.Get("peakPrice") {
			st.Set("peakPrice", sec.Price)
		} else {
			st.MarkCriterion("price stalls at highs")
		}
		held := sec.InstitutionalAccumulation
		sec.InstitutionalAccumulation = engine.Clamp(held-0.15, 0, 1)
		sec.SentimentOffset += 0.02
		if sec.InstitutionalAccumulation < held {
			st.MarkCriterion("distribution detected")
		}
	case "dump":
		if st.WillSucceed {
			if st.Day == int(st.Get("dumpDay")) {
				sec.QueueImpulse(st.Type, -0.08)
			}
			sec.SentimentOffset -= 0.15
			sec.InstitutionalAccumulation = 0
		} else {
			sec.SentimentOffset -= 0.04
			sec.InstitutionalAccumulation = engine.Clamp(sec.InstitutionalAccumulation-0.1, 0, 1)
		}
	}
	p.m.refresh(st)

	entered, done := p.m.advance(st)
	switch entered {
	case "pump":
		st.Set("peakPrice", sec.Price)
		p.m.emit(sec, st, day,
			fmt.Sprintf("%s surges on unexplained volume", sec.Symbol),
			fmt.Sprintf("%s is up sharply for days with no news and no analyst coverage changes.", sec.Name),
			models.SentimentPositive,
			"Price strength with no information is itself information. Someone accumulated quietly; ask why they want you to notice now.")
	case "dump":
		st.Set("dumpDay", float64(st.Day))
		p.m.emit(sec, st, day,
			fmt.Sprintf("%s reverses hard as big sellers appear", sec.Symbol),
			fmt.Sprintf("The rally in %s broke; block-sized sell orders are hitting every bounce.", sec.Name),
			models.SentimentNegative,
			fmt.Sprintf("The pump-and-dump telltales were visible: %d/%d criteria met. Retail buys the pump; the accumulator sells the top.",
				st.CriteriaMet(), len(st.Criteria)))
	}
	if done {
		p.m.emit(sec, st, day,
			fmt.Sprintf("%s settles after manipulation cycle", sec.Symbol),
			fmt.Sprintf("Volume in %s normalized. The round-trip is complete.", sec.Name),
			models.SentimentNeutral,
			"Full cycle: accumulate, pump, distribute, dump. The only winning move for outsiders was refusing to chase the middle leg.")
		p.m.finish(sec, clearManipulation)
	}
}

func (p *Manipulation) Signal(sec *models.Security) models.Signal {
	return p.m.signalFrom(sec.Manipulation)
}
