package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MarketLab/internal/domain/models"
	drepo "MarketLab/internal/domain/repository"
	"MarketLab/internal/engine"
	"MarketLab/internal/phenomena"
	"MarketLab/pkg/logger"
)

// dayAware lets record-based modules (insider activity) learn the current
// day before trigger rolls run.
type dayAware interface {
	SetDay(day int)
}

// Simulator owns the daily update loop: it advances every phenomenon
// machine for every security once per simulated day, in the fixed module
// order, then applies price convergence. The whole tick runs under one
// lock; there is no overlapping execution within a tick.
type Simulator struct {
	mu sync.Mutex

	ctx   *engine.Context
	book  *engine.Book
	price *engine.PriceEngine
	mods  []phenomena.Phenomenon

	feed     drepo.NewsFeed
	recorder drepo.TickRecorder // optional
	log      *logger.Logger

	day int
}

// NewSimulator wires the orchestrator. feed must be the same queryable
// sink the phenomenon modules push into; recorder and log may be nil.
func NewSimulator(
	ctx *engine.Context,
	book *engine.Book,
	price *engine.PriceEngine,
	mods []phenomena.Phenomenon,
	feed drepo.NewsFeed,
	recorder drepo.TickRecorder,
	log *logger.Logger,
) *Simulator {
	return &Simulator{
		ctx:      ctx,
		book:     book,
		price:    price,
		mods:     mods,
		feed:     feed,
		recorder: recorder,
		log:      log,
	}
}

// Day returns the current simulated day.
func (s *Simulator) Day() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.day
}

// AdvanceDay runs one full tick: cooldowns, trigger rolls, every module's
// process pass in fixed order, then the price step for every security.
func (s *Simulator) AdvanceDay(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	s.day++
	day := s.day

	secs := s.book.Securities()

	for _, sec := range secs {
		for fam, left := range sec.Cooldowns {
			if left > 0 {
				sec.Cooldowns[fam] = left - 1
			}
		}
	}

	// Daily trigger rolls, gated by feature flags.
	for _, mod := range s.mods {
		if da, ok := mod.(dayAware); ok {
			da.SetDay(day)
		}
		if !s.ctx.Enabled(mod.Type()) {
			continue
		}
		for _, sec := range secs {
			if !s.ctx.Roll(mod.TriggerRate()) {
				continue
			}
			if st := mod.Trigger(sec, nil); st != nil {
				s.ctx.Metrics().RecordPhenomenonTriggered(mod.Type())
				if s.log != nil {
					s.log.Debug("phenomenon triggered",
						logger.String("type", mod.Type()),
						logger.String("symbol", sec.Symbol),
						logger.Int("day", day))
				}
			}
		}
	}

	// Fixed-order process pass. Later modules may stack impulses on top
	// of earlier ones; the price step consumes the whole queue.
	for _, mod := range s.mods {
		for _, sec := range secs {
			mod.Process(sec, day)
		}
	}

	for _, sec := range secs {
		s.price.Step(sec, day)
		s.ctx.Metrics().RecordLastPrice(sec.Symbol, sec.Price)
	}

	s.ctx.Metrics().RecordDayAdvanced()
	s.ctx.Metrics().RecordTickDuration(time.Since(start).Seconds())

	if s.recorder != nil {
		if err := s.recorder.RecordPrices(ctx, day, secs); err != nil {
			s.ctx.Metrics().RecordError("record_prices")
			if s.log != nil {
				s.log.Warn("tick recorder prices failed", logger.Error(err))
			}
		}
		if recs := s.feed.Query(day, "", 0); len(recs) > 0 {
			if err := s.recorder.RecordNews(ctx, recs); err != nil {
				s.ctx.Metrics().RecordError("record_news")
				if s.log != nil {
					s.log.Warn("tick recorder news failed", logger.Error(err))
				}
			}
		}
	}
	return nil
}

// AdvanceDays runs n consecutive ticks.
func (s *Simulator) AdvanceDays(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.AdvanceDay(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Securities snapshots the population as egress views.
func (s *Simulator) Securities() []models.SecurityView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SecurityView, 0, s.book.Len())
	for _, sec := range s.book.Securities() {
		out = append(out, sec.View(false))
	}
	return out
}

// Security snapshots one security with full history and state slots.
func (s *Simulator) Security(symbol string) (models.SecurityView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec, ok := s.book.Get(symbol)
	if !ok {
		return models.SecurityView{}, false
	}
	return sec.View(true), true
}

// Signals returns every module's read-only signal for one security.
func (s *Simulator) Signals(symbol string) ([]models.Signal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec, ok := s.book.Get(symbol)
	if !ok {
		return nil, false
	}
	out := make([]models.Signal, 0, len(s.mods))
	for _, mod := range s.mods {
		out = append(out, mod.Signal(sec))
	}
	return out, true
}

// Trigger invokes one phenomenon explicitly (the educational
// experimentation path). A nil instance means a precondition failed.
func (s *Simulator) Trigger(symbol, phenomenonType string, opts *phenomena.TriggerOptions) (models.PhenomenonView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.book.Get(symbol)
	if !ok {
		return models.PhenomenonView{}, fmt.Errorf("unknown symbol %q", symbol)
	}
	for _, mod := range s.mods {
		if mod.Type() != phenomenonType {
			continue
		}
		if da, ok := mod.(dayAware); ok {
			da.SetDay(s.day)
		}
		st := mod.Trigger(sec, opts)
		if st == nil {
			return models.PhenomenonView{}, fmt.Errorf("%s: precondition failed for %s", phenomenonType, symbol)
		}
		s.ctx.Metrics().RecordPhenomenonTriggered(phenomenonType)
		return st.View(), nil
	}
	return models.PhenomenonView{}, fmt.Errorf("unknown phenomenon %q", phenomenonType)
}
