package phenomena

import (
	"fmt"

	"MarketLab/internal/domain/models"
	"MarketLab/internal/domain/repository"
	"MarketLab/internal/engine"
)

// Probability bounds shared by every phenomenon after table lookup and
// veto subtraction.
const (
	ProbabilityFloor   = 0.10
	ProbabilityCeiling = 0.90
)

// TriggerOptions carries optional per-phenomenon trigger inputs. Zero
// values mean "let the module decide".
type TriggerOptions struct {
	Ratio   float64 // stock split ratio
	Tier    int     // index rebalance tier (1 = major index)
	Insider string  // insider filing: name
	Role    string  // insider filing: role
	Value   float64 // insider filing: trade value
}

// Deps is the injection point for every phenomenon module. Omitted fields
// fall back to ambient defaults; tests override both for determinism.
type Deps struct {
	Ctx  *engine.Context
	Sink repository.NewsSink
}

func (d Deps) normalized() Deps {
	if d.Ctx == nil {
		d.Ctx = engine.NewContext()
	}
	if d.Sink == nil {
		d.Sink = nopSink{}
	}
	return d
}

type nopSink struct{}

func (nopSink) Push(models.NewsRecord) {}

// Phenomenon is the contract every module exposes to the orchestrator.
//
// Trigger returns nil and leaves the security untouched when a
// precondition fails. Process advances the instance by exactly one
// simulated day; calling it twice in one tick is a contract violation and
// is not defended against. Signal is pure and read-only.
type Phenomenon interface {
	Type() string
	Family() models.Family
	TriggerRate() float64
	Trigger(sec *models.Security, opts *TriggerOptions) *models.PhenomenonState
	Process(sec *models.Security, day int)
	Signal(sec *models.Security) models.Signal
}

// PhaseSpec is one entry of a phenomenon's ordered phase table. Duration
// is rolled uniformly in [MinDays, MaxDays] when the phase is entered.
type PhaseSpec struct {
	Name    string
	MinDays int
	MaxDays int
}

// Spec is the per-phenomenon configuration table. Concrete phenomena are
// data plus a handful of phase hooks, not duplicated machinery.
type Spec struct {
	Type     string
	Family   models.Family
	Phases   []PhaseSpec
	Criteria []string

	// ProbTable maps criteria-met count to outcome probability before
	// vetoes. Hand-tuned balance constants; preserved, not re-derived.
	ProbTable map[int]float64

	// DecisionPhase names the phase on whose first day the stochastic
	// outcome is rolled exactly once. Empty means no stochastic branch.
	DecisionPhase string

	CooldownDays int
	TriggerRate  float64
}

func (s Spec) phase(name string) (PhaseSpec, bool) {
	for _, p := range s.Phases {
		if p.Name == name {
			return p, true
		}
	}
	return PhaseSpec{}, false
}

func (s Spec) next(name string) (PhaseSpec, bool) {
	for i, p := range s.Phases {
		if p.Name == name && i+1 < len(s.Phases) {
			return s.Phases[i+1], true
		}
	}
	return PhaseSpec{}, false
}

// machine embeds the shared state-machine behavior every module builds on:
// phase advancement, duration rolls, single-roll outcome resolution, Gold
// Standard probability scoring, and news emission.
type machine struct {
	spec Spec
	deps Deps
}

func (m *machine) ctx() *engine.Context { return m.deps.Ctx }

// start builds a fresh instance in the first phase.
func (m *machine) start() *models.PhenomenonState {
	first := m.spec.Phases[0]
	st := &models.PhenomenonState{
		Type:     m.spec.Type,
		Family:   m.spec.Family,
		Phase:    first.Name,
		DaysLeft: m.rollDays(first),
	}
	for _, name := range m.spec.Criteria {
		st.Criteria = append(st.Criteria, models.Criterion{Name: name})
	}
	st.Probability = m.score(st)
	return st
}

func (m *machine) rollDays(p PhaseSpec) int {
	return m.deps.Ctx.IntRange(p.MinDays, p.MaxDays)
}

// advance burns one day and moves to the next phase when the current one
// is exhausted. It returns the name of a newly entered phase (empty when
// the phase did not change) and whether the instance is complete. Entering
// the decision phase resolves the stochastic outcome exactly once.
func (m *machine) advance(st *models.PhenomenonState) (entered string, done bool) {
	st.Day++
	st.DaysLeft--
	if st.DaysLeft > 0 {
		return "", false
	}
	nxt, ok := m.spec.next(st.Phase)
	if !ok {
		return "", true
	}
	st.Phase = nxt.Name
	st.DaysLeft = m.rollDays(nxt)
	if nxt.Name == m.spec.DecisionPhase {
		m.resolve(st)
	}
	return nxt.Name, false
}

// score maps criteria-met count through the probability table and
// subtracts applied vetoes, clamped to the shared floor/ceiling.
func (m *machine) score(st *models.PhenomenonState) float64 {
	p, ok := m.spec.ProbTable[st.CriteriaMet()]
	if !ok {
		p = ProbabilityFloor
	}
	return engine.Clamp(p-st.VetoPenalty(), ProbabilityFloor, ProbabilityCeiling)
}

// resolve rolls the outcome once and caches it. Every later day replays
// the cached outcome; the roll never repeats.
func (m *machine) resolve(st *models.PhenomenonState) {
	if st.OutcomeDecided {
		return
	}
	st.Probability = m.score(st)
	st.WillSucceed = m.deps.Ctx.Roll(st.Probability)
	st.OutcomeDecided = true
}

// refresh recomputes the displayed probability from current criteria
// without touching a decided outcome.
func (m *machine) refresh(st *models.PhenomenonState) {
	if !st.OutcomeDecided {
		st.Probability = m.score(st)
	}
}

func (m *machine) enabled() bool {
	return m.deps.Ctx.Enabled(m.spec.Type)
}

// emit pushes a news record snapshotting the instance's current signal
// fields. Records are immutable once pushed.
func (m *machine) emit(sec *models.Security, st *models.PhenomenonState, day int, headline, body string, sentiment float64, telltale string) {
	rec := models.NewsRecord{
		Day:       day,
		Symbol:    sec.Symbol,
		Type:      m.spec.Type,
		Headline:  headline,
		Body:      body,
		Sentiment: sentiment,
		Telltale:  telltale,
	}
	if st != nil {
		rec.Phase = st.Phase
		rec.Probability = st.Probability
		rec.CriteriaMet = st.CriteriaMet()
		rec.CriteriaTotal = len(st.Criteria)
		rec.GoldStandard = st.IsGoldStandard()
	}
	m.deps.Sink.Push(rec)
	m.deps.Ctx.Metrics().RecordNewsEmitted(m.spec.Type)
}

// signalFrom builds the common read-only signal view.
func (m *machine) signalFrom(st *models.PhenomenonState) models.Signal {
	if st == nil {
		return models.Signal{Type: m.spec.Type}
	}
	sig := models.Signal{
		Type:          m.spec.Type,
		Phase:         st.Phase,
		CriteriaMet:   st.CriteriaMet(),
		CriteriaTotal: len(st.Criteria),
		GoldStandard:  st.IsGoldStandard(),
		Probability:   st.Probability,
	}
	if sig.CriteriaTotal > 0 {
		sig.Strength = float64(sig.CriteriaMet) / float64(sig.CriteriaTotal)
	}
	return sig
}

// finish clears the slot via the supplied setter and arms the family
// cooldown so a retrigger must wait.
func (m *machine) finish(sec *models.Security, clear func(*models.Security)) {
	clear(sec)
	sec.StartCooldown(m.spec.Family, m.spec.CooldownDays)
}

// cancel tears a slot down mid-flight when the family was disabled. No
// news, no cooldown; treated as external cancellation.
func (m *machine) cancel(sec *models.Security, clear func(*models.Security)) {
	clear(sec)
	if l := m.deps.Ctx.Logger(); l != nil {
		l.Debug("phenomenon cancelled: feature disabled")
	}
}

// pct renders a probability as a whole percentage for news copy.
func pct(p float64) string { return fmt.Sprintf("%.0f%%", p*100) }
