package models

// Criterion is one named Gold Standard success condition. Flags are
// monotonic: once met, a criterion never reverts for the instance's life.
type Criterion struct {
	Name string
	Met  bool
}

// Veto is a named probability penalty applied when context suppresses an
// otherwise-expected outcome (terminal news, bull-market momentum, ...).
type Veto struct {
	Name    string
	Penalty float64
}

// PhenomenonState is one active run of a phenomenon's state machine,
// embedded in a security's state slot.
type PhenomenonState struct {
	Type   string // phenomenon identifier, doubles as news discriminator
	Family Family

	Phase    string
	Day      int // days since trigger
	DaysLeft int // days remaining in the current phase

	Criteria    []Criterion
	Probability float64 // clamped to [0.10, 0.90]

	// The stochastic outcome is rolled exactly once at the phenomenon's
	// decision boundary and replayed verbatim for the rest of the run.
	OutcomeDecided bool
	WillSucceed    bool

	Vetoes []Veto

	// Payload carries phenomenon-specific numbers (split ratio, support
	// level, run-up percentage, ...) keyed by stable names.
	Payload map[string]float64
}

// MarkCriterion sets a named criterion true. Unknown names are ignored;
// a met flag is never cleared.
func (p *PhenomenonState) MarkCriterion(name string) {
	for i := range p.Criteria {
		if p.Criteria[i].Name == name {
			p.Criteria[i].Met = true
			return
		}
	}
}

// CriteriaMet counts satisfied Gold Standard criteria.
func (p *PhenomenonState) CriteriaMet() int {
	n := 0
	for _, c := range p.Criteria {
		if c.Met {
			n++
		}
	}
	return n
}

// IsGoldStandard reports whether every defined criterion is satisfied.
func (p *PhenomenonState) IsGoldStandard() bool {
	return len(p.Criteria) > 0 && p.CriteriaMet() == len(p.Criteria)
}

// AddVeto records a named penalty; duplicates by name are ignored so a
// veto is applied at most once per instance.
func (p *PhenomenonState) AddVeto(name string, penalty float64) {
	for _, v := range p.Vetoes {
		if v.Name == name {
			return
		}
	}
	p.Vetoes = append(p.Vetoes, Veto{Name: name, Penalty: penalty})
}

// VetoPenalty sums all applied penalties.
func (p *PhenomenonState) VetoPenalty() float64 {
	var total float64
	for _, v := range p.Vetoes {
		total += v.Penalty
	}
	return total
}

// Get reads a payload value, zero when absent.
func (p *PhenomenonState) Get(key string) float64 {
	if p.Payload == nil {
		return 0
	}
	return p.Payload[key]
}

// Set writes a payload value.
func (p *PhenomenonState) Set(key string, v float64) {
	if p.Payload == nil {
		p.Payload = make(map[string]float64)
	}
	p.Payload[key] = v
}

// Signal is the read-only per-phenomenon view; it never reports a stronger
// grade than the criteria actually met.
type Signal struct {
	Type          string
	Phase         string
	Strength      float64
	CriteriaMet   int
	CriteriaTotal int
	GoldStandard  bool
	Probability   float64

	// Insider-specific fields; zero for other phenomena.
	ClusterBuy       bool
	ProbabilityBoost float64
}
