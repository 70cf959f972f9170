package phenomena

import (
	"fmt"

	"MarketLab/internal/domain/models"
)

var shortReportSpec = Spec{
	Type:   models.NewsShortReport,
	Family: models.FamilyCrash,
	Phases: []PhaseSpec{
		{Name: "publish", MinDays: 1, MaxDays: 1},
		{Name: "panic", MinDays: 2, MaxDays: 4},
		{Name: "rebuttal", MinDays: 2, MaxDays: 3},
		{Name: "resolution", MinDays: 3, MaxDays: 5},
	},
	Criteria: []string{
		"company rebuttal issued",
		"fundamentals unaffected",
		"panic volume climax",
		"stabilization above support",
	},
	ProbTable: map[int]float64{
		0: 0.20,
		1: 0.40,
		2: 0.60,
		3: 0.72,
		4: 0.82,
	},
	DecisionPhase: "resolution",
	CooldownDays:  60,
	TriggerRate:   0.003,
}

// ShortReport models an activist short-seller report: publication shock,
// panic selling, a company rebuttal window, then resolution. WillSucceed
// means the stock survives the allegations and recovers.
type ShortReport struct {
	m machine
}

func NewShortReport(deps Deps) *ShortReport {
	return &ShortReport{m: machine{spec: shortReportSpec, deps: deps.normalized()}}
}

func (r *ShortReport) Type() string          { return shortReportSpec.Type }
func (r *ShortReport) Family() models.Family { return shortReportSpec.Family }
func (r *ShortReport) TriggerRate() float64  { return shortReportSpec.TriggerRate }

// Trigger requires a minimum price (activists do not target penny stocks)
// and an open crash-family slot.
func (r *ShortReport) Trigger(sec *models.Security, _ *TriggerOptions) *models.PhenomenonState {
	if !r.m.enabled() || sec.CrashSlot() != nil || sec.OnCooldown(models.FamilyCrash) {
		return nil
	}
	if sec.Price < 10 {
		return nil
	}

	st := r.m.start()
	st.Set("prePrice", sec.Price)
	if sec.EPSModifier >= 0 {
		st.MarkCriterion("fundamentals unaffected")
	} else if sec.EPSModifier <= -0.15 {
		st.AddVeto("terminal news", 0.25)
	}
	r.m.refresh(st)
	sec.ShortReport = st
	return st
}

func clearShortReport(sec *models.Security) { sec.ShortReport = nil }

func (r *ShortReport) Process(sec *models.Security, day int) {
	st := sec.ShortReport
	if st == nil {
		return
	}
	if !r.m.enabled() {
		r.m.cancel(sec, clearShortReport)
		return
	}

	switch st.Phase {
	case "publish":
		sec.SentimentOffset -= 0.30
		sec.QueueImpulse(st.Type, -0.12)
		sec.VolatilityBoost += 1.0
		sec.ShortInterest += 0.05
		r.m.emit(sec, st, day,
			fmt.Sprintf("Short seller publishes scathing report on %s", sec.Symbol),
			fmt.Sprintf("An activist short firm alleges accounting irregularities at %s and discloses a short position.", sec.Name),
			models.SentimentNegative,
			"The author profits if the price falls. That does not make the report wrong, but it is a disclosed conflict of interest. Wait for the company's response.")
	case "panic":
		sec.SentimentOffset -= 0.10
		if sec.VolatilityBoost >= 1.0 {
			st.MarkCriterion("panic volume climax")
		}
	case "rebuttal":
		sec.SentimentOffset += 0.04
		if sec.Price >= st.Get("prePrice")*0.6 {
			st.MarkCriterion("stabilization above support")
		}
	case "resolution":
		if st.WillSucceed {
			sec.SentimentOffset += 0.06
		} else {
			sec.SentimentOffset -= 0.05
		}
	}
	r.m.refresh(st)

	entered, done := r.m.advance(st)
	switch entered {
	case "rebuttal":
		// the company answers the allegations most of the time
		if r.m.ctx().Roll(0.75) {
			st.MarkCriterion("company rebuttal issued")
			r.m.refresh(st)
			r.m.emit(sec, st, day,
				fmt.Sprintf("%s issues point-by-point rebuttal", sec.Symbol),
				fmt.Sprintf("%s management rejected the short report's claims and reaffirmed guidance.", sec.Name),
				models.SentimentPositive,
				fmt.Sprintf("A fast, specific rebuttal is the strongest recovery signal: %d/%d criteria met, roughly %s recovery odds.",
					st.CriteriaMet(), len(st.Criteria), pct(st.Probability)))
		}
	}
	if done {
		headline := fmt.Sprintf("%s fails to shake off short report", sec.Symbol)
		sentiment := models.SentimentNegative
		tell := "The allegations stuck: no rebuttal, no stabilization. Short reports that go unanswered usually prove right."
		if st.WillSucceed {
			headline = fmt.Sprintf("%s recovers from short attack", sec.Symbol)
			sentiment = models.SentimentPositive
			tell = "Report survived: solid fundamentals plus a swift rebuttal. Panic lows on disclosed-conflict research are often buyable."
		} else {
			// confirmed allegations leave permanent damage
			sec.EPSModifier -= 0.05
		}
		r.m.emit(sec, st, day, headline,
			fmt.Sprintf("The short-seller episode at %s has resolved.", sec.Name),
			sentiment, tell)
		r.m.finish(sec, clearShortReport)
	}
}

func (r *ShortReport) Signal(sec *models.Security) models.Signal {
	return r.m.signalFrom(sec.ShortReport)
}
