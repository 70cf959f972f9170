package phenomena

import (
	"fmt"

	"MarketLab/internal/domain/models"
	"MarketLab/internal/engine"
)

var sweepSpec = Spec{
	Type:   models.NewsSweep,
	Family: models.FamilyCrash,
	Phases: []PhaseSpec{
		{Name: "setup", MinDays: 2, MaxDays: 3},
		{Name: "sweep", MinDays: 1, MaxDays: 1},
		{Name: "reclaim", MinDays: 2, MaxDays: 3},
	},
	Criteria: []string{
		"clean support level",
		"stop cluster below support",
		"swift reclaim",
		"no follow-through selling",
	},
	ProbTable: map[int]float64{
		0: 0.30,
		1: 0.45,
		2: 0.60,
		3: 0.75,
		4: 0.85,
	},
	DecisionPhase: "reclaim",
	CooldownDays:  30,
	TriggerRate:   0.005,
}

// Sweep models a liquidity sweep: price is pushed through an obvious
// support level to trigger resting stops, then either snaps back (the
// sweep) or keeps falling (a genuine breakdown). WillSucceed means the
// reclaim holds.
type Sweep struct {
	m machine
}

func NewSweep(deps Deps) *Sweep {
	return &Sweep{m: machine{spec: sweepSpec, deps: deps.normalized()}}
}

func (s *Sweep) Type() string          { return sweepSpec.Type }
func (s *Sweep) Family() models.Family { return sweepSpec.Family }
func (s *Sweep) TriggerRate() float64  { return sweepSpec.TriggerRate }

func (s *Sweep) Trigger(sec *models.Security, _ *TriggerOptions) *models.PhenomenonState {
	if !s.m.enabled() || sec.CrashSlot() != nil || sec.OnCooldown(models.FamilyCrash) {
		return nil
	}
	support, ok := engine.SupportLevel(sec, 20)
	if !ok {
		return nil
	}

	st := s.m.start()
	st.Set("support", support)
	if support >= sec.Price*0.88 {
		st.MarkCriterion("clean support level")
		st.MarkCriterion("stop cluster below support")
	}
	s.m.refresh(st)
	sec.Sweep = st
	return st
}

func clearSweep(sec *models.Security) { sec.Sweep = nil }

func (s *Sweep) Process(sec *models.Security, day int) {
	st := sec.Sweep
	if st == nil {
		return
	}
	if !s.m.enabled() {
		s.m.cancel(sec, clearSweep)
		return
	}

	switch st.Phase {
	case "setup":
		sec.SentimentOffset -= 0.03 // drift toward the level
	case "sweep":
		sec.QueueImpulse(st.Type, -0.07)
		sec.VolatilityBoost += 0.5
		s.m.emit(sec, st, day,
			fmt.Sprintf("%s knifes through support", sec.Symbol),
			fmt.Sprintf("%s broke below its widely watched support level intraday on a burst of selling.", sec.Name),
			models.SentimentNegative,
			"When an obvious level breaks on a single fast push, ask who was selling. Stop-loss clusters are fuel for a sweep-and-reclaim.")
	case "reclaim":
		if st.WillSucceed {
			sec.SentimentOffset += 0.05
			if st.Day <= 4 {
				st.MarkCriterion("swift reclaim")
			}
			st.MarkCriterion("no follow-through selling")
		} else {
			sec.SentimentOffset -= 0.04
		}
	}
	s.m.refresh(st)

	entered, done := s.m.advance(st)
	if entered == "reclaim" && st.WillSucceed {
		sec.QueueImpulse(st.Type, 0.06)
	}
	if done {
		headline := fmt.Sprintf("%s breakdown confirmed", sec.Symbol)
		sentiment := models.SentimentNegative
		tell := "No reclaim: the level broke and stayed broken. Sweeps and breakdowns look identical on day one; the reclaim window tells them apart."
		if st.WillSucceed {
			headline = fmt.Sprintf("%s reclaims its level after stop-run", sec.Symbol)
			sentiment = models.SentimentPositive
			tell = "Textbook sweep: the break found no sellers beyond the stops, and price snapped back above the level within days."
		}
		s.m.emit(sec, st, day, headline,
			fmt.Sprintf("The support-break episode in %s resolved.", sec.Name),
			sentiment, tell)
		s.m.finish(sec, clearSweep)
	}
}

func (s *Sweep) Signal(sec *models.Security) models.Signal {
	return s.m.signalFrom(sec.Sweep)
}
