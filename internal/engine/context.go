package engine

import (
	"math/rand"
	"time"

	"MarketLab/internal/domain/repository"
	"MarketLab/pkg/logger"
)

// Rand is the minimal random source the simulation consumes. Production
// wiring hands in math/rand; tests hand in a fixed-seed source.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// FlagFunc answers whether a phenomenon family is enabled. A nil predicate
// means everything is enabled.
type FlagFunc func(name string) bool

// ChoiceFunc picks an index in [0, n). Defaults to the random source.
type ChoiceFunc func(n int) int

// Context carries the injected dependencies every simulation component
// shares: random source, choice function, feature flags, logger, metrics.
// Omitted fields fall back to ambient defaults so production wiring stays
// short while tests override everything.
type Context struct {
	rand    Rand
	choice  ChoiceFunc
	flags   FlagFunc
	log     *logger.Logger
	metrics repository.Metrics
}

// Option configures a Context.
type Option func(*Context)

// WithRand sets the random source.
func WithRand(r Rand) Option {
	return func(c *Context) {
		if r != nil {
			c.rand = r
		}
	}
}

// WithSeed installs a math/rand source with the given seed; zero seeds from
// the wall clock.
func WithSeed(seed int64) Option {
	return func(c *Context) {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		c.rand = rand.New(rand.NewSource(seed))
	}
}

// WithFlags sets the feature-flag predicate.
func WithFlags(f FlagFunc) Option {
	return func(c *Context) { c.flags = f }
}

// WithChoice sets the choice function.
func WithChoice(f ChoiceFunc) Option {
	return func(c *Context) { c.choice = f }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Context) { c.log = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m repository.Metrics) Option {
	return func(c *Context) {
		if m != nil {
			c.metrics = m
		}
	}
}

// NewContext builds a simulation context with ambient defaults for any
// dependency not supplied.
func NewContext(opts ...Option) *Context {
	c := &Context{
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		metrics: NopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.choice == nil {
		c.choice = c.rand.Intn
	}
	return c
}

// Float64 draws a uniform value in [0, 1).
func (c *Context) Float64() float64 { return c.rand.Float64() }

// Intn draws a uniform int in [0, n).
func (c *Context) Intn(n int) int { return c.rand.Intn(n) }

// Roll returns true with probability p.
func (c *Context) Roll(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return c.rand.Float64() < p
}

// Range draws a uniform value in [lo, hi).
func (c *Context) Range(lo, hi float64) float64 {
	return lo + c.rand.Float64()*(hi-lo)
}

// IntRange draws a uniform int in [lo, hi].
func (c *Context) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + c.rand.Intn(hi-lo+1)
}

// Choice picks an index in [0, n).
func (c *Context) Choice(n int) int { return c.choice(n) }

// Enabled reports whether a phenomenon family is switched on. Absence of a
// predicate defaults to enabled.
func (c *Context) Enabled(name string) bool {
	if c.flags == nil {
		return true
	}
	return c.flags(name)
}

// Logger returns the injected logger, possibly nil.
func (c *Context) Logger() *logger.Logger { return c.log }

// Metrics returns the injected metrics recorder, never nil.
func (c *Context) Metrics() repository.Metrics { return c.metrics }

// NopMetrics discards every observation; the ambient default when no
// recorder is injected.
type NopMetrics struct{}

func (NopMetrics) RecordDayAdvanced()                    {}
func (NopMetrics) RecordPhenomenonTriggered(string)      {}
func (NopMetrics) RecordNewsEmitted(string)              {}
func (NopMetrics) RecordLastPrice(string, float64)       {}
func (NopMetrics) RecordTickDuration(float64)            {}
func (NopMetrics) RecordError(string)                    {}
