package models

import "math"

// Family groups phenomena that are mutually exclusive on one security.
// Crash-family members share one slot; independent families overlap.
type Family string

const (
	FamilyCrash        Family = "crash"
	FamilySqueeze      Family = "squeeze"
	FamilyManipulation Family = "manipulation"
	FamilyFOMO         Family = "fomo"
	FamilySplit        Family = "split"
	FamilyRebalance    Family = "rebalance"
	FamilyInsider      Family = "insider"
)

// PriceImpulse is a one-day additive price jolt queued by a phenomenon and
// consumed (summed, then cleared) by the next price step.
type PriceImpulse struct {
	Source string
	Delta  float64
}

// InsiderTrade is a single insider filing attached to a security.
type InsiderTrade struct {
	Insider string
	Role    string
	Day     int
	Shares  int64
	Value   float64
	Buy     bool
}

// PricePoint is one entry of a security's bounded price history.
type PricePoint struct {
	Day   int
	Price float64
}

// Security is the mutable record every phenomenon reads and writes.
// Phenomenon slots are nil when no instance of that family is active.
type Security struct {
	Symbol string
	Name   string
	Sector string

	Price       float64 // rounded to integer currency units after each step
	BasePrice   float64 // pre-event reference
	EPSModifier float64 // permanent fundamentals drift

	SentimentOffset float64 // transient perception drift, [-0.8, +3.0]
	Volatility      float64
	VolatilityBoost float64 // temporary multiplier, decays daily
	ShortInterest   float64 // fraction of float held short
	Trend           float64
	Stability       float64

	InstitutionalAccumulation float64

	Impulses []PriceImpulse
	History  []PricePoint

	YTDOpen   float64
	YTDReturn float64

	// Phenomenon state slots, one per family member.
	Manipulation *PhenomenonState
	ShortSqueeze *PhenomenonState
	ShortReport  *PhenomenonState
	DeadCat      *PhenomenonState
	FOMO         *PhenomenonState
	Sweep        *PhenomenonState
	Shakeout     *PhenomenonState
	Split        *PhenomenonState
	Rebalance    *PhenomenonState

	InsiderBuys  []InsiderTrade
	InsiderSells []InsiderTrade

	// Cooldowns holds remaining days before a family may retrigger.
	Cooldowns map[Family]int
}

// FairValue is the fundamentals-only reference price.
func (s *Security) FairValue() float64 {
	return s.BasePrice * (1 + s.EPSModifier)
}

// PriceFloor and PriceCeiling bound every computed price.
func (s *Security) PriceFloor() float64   { return math.Max(1, s.BasePrice*0.05) }
func (s *Security) PriceCeiling() float64 { return s.BasePrice * 20 }

// CrashSlot returns the active crash-family instance, if any.
func (s *Security) CrashSlot() *PhenomenonState {
	for _, st := range []*PhenomenonState{s.DeadCat, s.ShortReport, s.Shakeout, s.Sweep} {
		if st != nil {
			return st
		}
	}
	return nil
}

// CrashActive reports whether a crash-family phenomenon currently drives the
// security; the price step dampens noise and convergence while it does.
func (s *Security) CrashActive() bool { return s.CrashSlot() != nil }

// OnCooldown reports whether the family must wait before retriggering.
func (s *Security) OnCooldown(f Family) bool {
	return s.Cooldowns != nil && s.Cooldowns[f] > 0
}

// StartCooldown arms the retrigger delay for a family.
func (s *Security) StartCooldown(f Family, days int) {
	if days <= 0 {
		return
	}
	if s.Cooldowns == nil {
		s.Cooldowns = make(map[Family]int)
	}
	s.Cooldowns[f] = days
}

// QueueImpulse appends a one-day price jolt consumed by the next price step.
func (s *Security) QueueImpulse(source string, delta float64) {
	s.Impulses = append(s.Impulses, PriceImpulse{Source: source, Delta: delta})
}

// DrainImpulses sums and clears all pending impulses.
func (s *Security) DrainImpulses() float64 {
	var total float64
	for _, im := range s.Impulses {
		total += im.Delta
	}
	s.Impulses = s.Impulses[:0]
	return total
}

// RecentInsiderBuys counts buy filings newer than maxAgeDays.
func (s *Security) RecentInsiderBuys(today, maxAgeDays int) int {
	n := 0
	for _, t := range s.InsiderBuys {
		if t.Buy && today-t.Day < maxAgeDays {
			n++
		}
	}
	return n
}

// RecentInsiderSells counts sell filings newer than maxAgeDays.
func (s *Security) RecentInsiderSells(today, maxAgeDays int) int {
	n := 0
	for _, t := range s.InsiderSells {
		if !t.Buy && today-t.Day < maxAgeDays {
			n++
		}
	}
	return n
}

// SecuritySeed is the ingress contract: the fields external callers supply
// when constructing the initial security list.
type SecuritySeed struct {
	Symbol     string  `yaml:"symbol"`
	Name       string  `yaml:"name"`
	Sector     string  `yaml:"sector"`
	Price      float64 `yaml:"price"`
	Volatility float64 `yaml:"volatility"`
	Trend      float64 `yaml:"trend"`
	Stability  float64 `yaml:"stability"`
}

// NewSecurity builds a Security from its seed with derived defaults.
func NewSecurity(seed SecuritySeed) *Security {
	return &Security{
		Symbol:     seed.Symbol,
		Name:       seed.Name,
		Sector:     seed.Sector,
		Price:      math.Round(seed.Price),
		BasePrice:  seed.Price,
		Volatility: seed.Volatility,
		Trend:      seed.Trend,
		Stability:  seed.Stability,
		YTDOpen:    seed.Price,
		Cooldowns:  make(map[Family]int),
	}
}
