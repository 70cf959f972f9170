package phenomena

import (
	"fmt"
	"math"

	"MarketLab/internal/domain/models"
)

var splitSpec = Spec{
	Type:   models.NewsSplit,
	Family: models.FamilySplit,
	Phases: []PhaseSpec{
		{Name: "announcement", MinDays: 1, MaxDays: 1},
		{Name: "runUp", MinDays: 5, MaxDays: 8},
		{Name: "effective", MinDays: 1, MaxDays: 1},
	},
	Criteria: []string{
		"high nominal price",
		"pre-split run-up",
		"broad market strength",
	},
	ProbTable: map[int]float64{
		0: 0.40,
		1: 0.55,
		2: 0.68,
		3: 0.78,
	},
	CooldownDays: 90,
	TriggerRate:  0.002,
}

// minSplitPrice gates the trigger: companies split expensive stocks.
const minSplitPrice = 100

var splitRatios = []float64{2, 3, 4, 5}

// Split models a stock split: announcement pop, pre-split run-up, then the
// mechanical division on the effective day. There is no stochastic branch;
// the division itself always happens once announced.
type Split struct {
	m machine
}

func NewSplit(deps Deps) *Split {
	return &Split{m: machine{spec: splitSpec, deps: deps.normalized()}}
}

func (s *Split) Type() string          { return splitSpec.Type }
func (s *Split) Family() models.Family { return splitSpec.Family }
func (s *Split) TriggerRate() float64  { return splitSpec.TriggerRate }

func (s *Split) Trigger(sec *models.Security, opts *TriggerOptions) *models.PhenomenonState {
	if !s.m.enabled() || sec.Split != nil || sec.OnCooldown(models.FamilySplit) {
		return nil
	}
	if sec.Price < minSplitPrice {
		return nil
	}

	ratio := splitRatios[s.m.ctx().Choice(len(splitRatios))]
	if opts != nil && opts.Ratio >= 2 {
		ratio = math.Floor(opts.Ratio)
	}

	st := s.m.start()
	st.Set("ratio", ratio)
	st.Set("announcePrice", sec.Price)
	st.MarkCriterion("high nominal price")
	if sec.Trend > 0 {
		st.MarkCriterion("broad market strength")
	}
	// the split is certain once announced
	st.OutcomeDecided = true
	st.WillSucceed = true
	s.m.refresh(st)
	sec.Split = st
	return st
}

func clearSplit(sec *models.Security) { sec.Split = nil }

func (s *Split) Process(sec *models.Security, day int) {
	st := sec.Split
	if st == nil {
		return
	}
	if !s.m.enabled() {
		s.m.cancel(sec, clearSplit)
		return
	}

	ratio := st.Get("ratio")

	switch st.Phase {
	case "announcement":
		sec.SentimentOffset += 0.10
		s.m.emit(sec, st, day,
			fmt.Sprintf("%s announces %.0f-for-1 stock split", sec.Symbol, ratio),
			fmt.Sprintf("%s will split its shares %.0f-for-1, effective in roughly two weeks.", sec.Name, ratio),
			models.SentimentPositive,
			"A split changes the share count, not the company's value. The run-up it often causes is pure accessibility psychology.")
	case "runUp":
		sec.SentimentOffset += 0.02
		if sec.Price >= st.Get("announcePrice")*1.04 {
			st.MarkCriterion("pre-split run-up")
		}
	case "effective":
		// mechanical division; applied directly, bypassing the price formula
		sec.Price = math.Round(sec.Price / ratio)
		if sec.Price < 1 {
			sec.Price = 1
		}
		sec.BasePrice /= ratio
		sec.YTDOpen /= ratio
		for i := range sec.History {
			sec.History[i].Price /= ratio
		}
		s.m.emit(sec, st, day,
			fmt.Sprintf("%s split takes effect", sec.Symbol),
			fmt.Sprintf("Shares of %s now trade at one %.0fth of their prior price; holders own %.0fx the shares.", sec.Name, ratio, ratio),
			models.SentimentNeutral,
			"If the chart looks like an overnight crash, check for a split first. Your position value is unchanged.")
	}
	s.m.refresh(st)

	_, done := s.m.advance(st)
	if done {
		s.m.finish(sec, clearSplit)
	}
}

func (s *Split) Signal(sec *models.Security) models.Signal {
	return s.m.signalFrom(sec.Split)
}
