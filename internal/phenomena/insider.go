package phenomena

import (
	"fmt"

	"MarketLab/internal/domain/models"
)

// Insider activity is record-based rather than phase-based: filings
// accumulate on the security and the signal is computed over the recent
// window. The buy and sell sides are deliberately asymmetric: clustered
// buying is one of the strongest signals in the simulator, while selling
// is noise by design (people sell for houses, taxes, and divorces; they
// only buy for one reason).
const (
	insiderClusterSize   = 3
	insiderClusterWindow = 30 // days
	insiderRecordMaxAge  = 90 // days before a filing ages out

	// clusterBuyBoost is the probability bonus a confirmed buy cluster adds.
	clusterBuyBoost = 0.25
	// clusterSellPenalty applies only when selling itself clusters.
	clusterSellPenalty = -0.15

	insiderBaseProbability = 0.55
)

var insiderNames = []string{"R. Calloway", "M. Osei", "T. Lindqvist", "J. Barrera", "A. Whitfield", "K. Tanaka"}
var insiderRoles = []string{"CEO", "CFO", "COO", "Director", "EVP Sales", "General Counsel"}

// InsiderBuying maintains buy filings and scores buy clusters.
type InsiderBuying struct {
	m     machine
	today int
}

var insiderBuySpec = Spec{
	Type:   models.NewsInsiderBuy,
	Family: models.FamilyInsider,
	// record-based: a single synthetic phase, no machine lifecycle
	Phases:   []PhaseSpec{{Name: "active", MinDays: 1, MaxDays: 1}},
	Criteria: []string{"cluster of 3+ buys", "officer-level buyer", "meaningful size", "open-market purchase"},
	ProbTable: map[int]float64{
		0: insiderBaseProbability,
	},
	TriggerRate: 0.008,
}

func NewInsiderBuying(deps Deps) *InsiderBuying {
	return &InsiderBuying{m: machine{spec: insiderBuySpec, deps: deps.normalized()}}
}

func (b *InsiderBuying) Type() string          { return insiderBuySpec.Type }
func (b *InsiderBuying) Family() models.Family { return insiderBuySpec.Family }
func (b *InsiderBuying) TriggerRate() float64  { return insiderBuySpec.TriggerRate }

// Trigger records one buy filing. The returned state is a transient view;
// the durable record lives in sec.InsiderBuys.
func (b *InsiderBuying) Trigger(sec *models.Security, opts *TriggerOptions) *models.PhenomenonState {
	if !b.m.enabled() {
		return nil
	}
	ctx := b.m.ctx()
	t := models.InsiderTrade{
		Insider: insiderNames[ctx.Choice(len(insiderNames))],
		Role:    insiderRoles[ctx.Choice(len(insiderRoles))],
		Day:     b.today,
		Shares:  int64(ctx.IntRange(1, 50)) * 1000,
		Value:   ctx.Range(50_000, 2_000_000),
		Buy:     true,
	}
	if opts != nil {
		if opts.Insider != "" {
			t.Insider = opts.Insider
		}
		if opts.Role != "" {
			t.Role = opts.Role
		}
		if opts.Value > 0 {
			t.Value = opts.Value
		}
	}
	sec.InsiderBuys = append(sec.InsiderBuys, t)
	sec.SentimentOffset += 0.05

	st := b.m.start()
	st.Set("value", t.Value)
	b.markCriteria(st, sec, t)
	st.Probability = b.m.score(st) + boostIf(st, "cluster of 3+ buys", clusterBuyBoost)

	cluster := sec.RecentInsiderBuys(b.today, insiderClusterWindow) >= insiderClusterSize
	tell := "A single insider buy is a whisper. Watch for a cluster: three or more buyers inside a month."
	if cluster {
		sec.SentimentOffset += 0.15
		tell = fmt.Sprintf("Cluster buy confirmed: %d insiders bought within %d days. Clustered open-market buying is the gold standard of insider signals.",
			sec.RecentInsiderBuys(b.today, insiderClusterWindow), insiderClusterWindow)
	}
	b.m.emit(sec, st, b.today,
		fmt.Sprintf("%s %s buys %s stock", sec.Symbol, t.Role, sec.Symbol),
		fmt.Sprintf("%s (%s) purchased roughly $%.0fk of %s on the open market.", t.Insider, t.Role, t.Value/1000, sec.Name),
		models.SentimentPositive, tell)
	return st
}

func (b *InsiderBuying) markCriteria(st *models.PhenomenonState, sec *models.Security, t models.InsiderTrade) {
	if sec.RecentInsiderBuys(b.today, insiderClusterWindow) >= insiderClusterSize {
		st.MarkCriterion("cluster of 3+ buys")
	}
	if t.Role == "CEO" || t.Role == "CFO" || t.Role == "COO" {
		st.MarkCriterion("officer-level buyer")
	}
	if t.Value >= 100_000 {
		st.MarkCriterion("meaningful size")
	}
	st.MarkCriterion("open-market purchase")
}

// SetDay lets the orchestrator announce the current day before trigger
// rolls, so filings carry the right date.
func (b *InsiderBuying) SetDay(day int) { b.today = day }

// Process tracks the day and ages out stale filings.
func (b *InsiderBuying) Process(sec *models.Security, day int) {
	b.today = day
	sec.InsiderBuys = pruneFilings(sec.InsiderBuys, day)
	if sec.RecentInsiderBuys(day, insiderClusterWindow) >= insiderClusterSize {
		sec.SentimentOffset += 0.02
	}
}

// Signal reports the cluster state over the recent window.
func (b *InsiderBuying) Signal(sec *models.Security) models.Signal {
	n := sec.RecentInsiderBuys(b.today, insiderClusterWindow)
	sig := models.Signal{
		Type:          insiderBuySpec.Type,
		CriteriaTotal: len(insiderBuySpec.Criteria),
		Probability:   insiderBaseProbability,
	}
	if n == 0 {
		return sig
	}
	sig.Phase = "active"
	sig.CriteriaMet = 1 // filings on record
	sig.Strength = float64(n) / float64(insiderClusterSize)
	if sig.Strength > 1 {
		sig.Strength = 1
	}
	if n >= insiderClusterSize {
		sig.ClusterBuy = true
		sig.ProbabilityBoost = clusterBuyBoost
		sig.Probability = insiderBaseProbability + clusterBuyBoost
		sig.CriteriaMet = len(insiderBuySpec.Criteria)
		sig.GoldStandard = true
	}
	return sig
}

// InsiderSelling maintains sell filings. Zero probability adjustment by
// design except under a sell cluster.
type InsiderSelling struct {
	m     machine
	today int
}

var insiderSellSpec = Spec{
	Type:     models.NewsInsiderSell,
	Family:   models.FamilyInsider,
	Phases:   []PhaseSpec{{Name: "active", MinDays: 1, MaxDays: 1}},
	Criteria: []string{"cluster of 3+ sells", "officer-level seller", "outsized stake sold"},
	ProbTable: map[int]float64{
		0: 0.50,
	},
	TriggerRate: 0.015,
}

func NewInsiderSelling(deps Deps) *InsiderSelling {
	return &InsiderSelling{m: machine{spec: insiderSellSpec, deps: deps.normalized()}}
}

func (s *InsiderSelling) Type() string          { return insiderSellSpec.Type }
func (s *InsiderSelling) Family() models.Family { return insiderSellSpec.Family }
func (s *InsiderSelling) TriggerRate() float64  { return insiderSellSpec.TriggerRate }

func (s *InsiderSelling) Trigger(sec *models.Security, opts *TriggerOptions) *models.PhenomenonState {
	if !s.m.enabled() {
		return nil
	}
	ctx := s.m.ctx()
	t := models.InsiderTrade{
		Insider: insiderNames[ctx.Choice(len(insiderNames))],
		Role:    insiderRoles[ctx.Choice(len(insiderRoles))],
		Day:     s.today,
		Shares:  int64(ctx.IntRange(1, 80)) * 1000,
		Value:   ctx.Range(100_000, 5_000_000),
		Buy:     false,
	}
	if opts != nil {
		if opts.Insider != "" {
			t.Insider = opts.Insider
		}
		if opts.Role != "" {
			t.Role = opts.Role
		}
		if opts.Value > 0 {
			t.Value = opts.Value
		}
	}
	sec.InsiderSells = append(sec.InsiderSells, t)

	st := s.m.start()
	cluster := sec.RecentInsiderSells(s.today, insiderClusterWindow) >= insiderClusterSize
	tell := "Insider selling is almost always noise: diversification, taxes, a house. It carries zero signal on its own."
	if cluster {
		st.MarkCriterion("cluster of 3+ sells")
		sec.SentimentOffset -= 0.05
		tell = "Exception to the noise rule: several insiders selling inside a month deserves attention, especially near highs."
	}
	s.m.emit(sec, st, s.today,
		fmt.Sprintf("%s insider files stock sale", sec.Symbol),
		fmt.Sprintf("%s (%s) sold roughly $%.1fM of %s under a scheduled plan.", t.Insider, t.Role, t.Value/1_000_000, sec.Name),
		models.SentimentNeutral, tell)
	return st
}

// SetDay mirrors InsiderBuying.SetDay.
func (s *InsiderSelling) SetDay(day int) { s.today = day }

func (s *InsiderSelling) Process(sec *models.Security, day int) {
	s.today = day
	sec.InsiderSells = pruneFilings(sec.InsiderSells, day)
}

func (s *InsiderSelling) Signal(sec *models.Security) models.Signal {
	sig := models.Signal{
		Type:          insiderSellSpec.Type,
		CriteriaTotal: len(insiderSellSpec.Criteria),
		Probability:   0.50, // no adjustment: noise
	}
	if sec.RecentInsiderSells(s.today, insiderClusterWindow) >= insiderClusterSize {
		sig.Phase = "active"
		sig.CriteriaMet = 1
		sig.Strength = 0.5
		sig.ProbabilityBoost = clusterSellPenalty
		sig.Probability = 0.50 + clusterSellPenalty
	}
	return sig
}

func pruneFilings(filings []models.InsiderTrade, today int) []models.InsiderTrade {
	keep := filings[:0]
	for _, t := range filings {
		if today-t.Day <= insiderRecordMaxAge {
			keep = append(keep, t)
		}
	}
	return keep
}

func boostIf(st *models.PhenomenonState, criterion string, boost float64) float64 {
	for _, c := range st.Criteria {
		if c.Name == criterion && c.Met {
			return boost
		}
	}
	return 0
}
