package middleware

import (
	"fmt"
	"sync"

	"MarketLab/internal/domain/models"
	domrepo "MarketLab/internal/domain/repository"
)

// NewsPipeline is a middleware between the phenomenon modules and the news
// sinks. It validates records, throttles runaway emitters, and keeps
// per-type counters so a buggy module cannot flood the public feed.
type NewsPipeline struct {
	next      domrepo.NewsSink
	metrics   domrepo.Metrics
	maxPerDay int

	mu        sync.Mutex
	day       int
	seenToday map[string]int // symbol -> records accepted today
}

type PipelineOption func(*NewsPipeline)

// WithMaxPerDay caps how many records a single symbol may emit per day.
func WithMaxPerDay(n int) PipelineOption {
	return func(p *NewsPipeline) {
		if n > 0 {
			p.maxPerDay = n
		}
	}
}

// NewNewsPipeline creates a new pipeline in front of next.
func NewNewsPipeline(next domrepo.NewsSink, metrics domrepo.Metrics, opts ...PipelineOption) *NewsPipeline {
	p := &NewsPipeline{
		next:      next,
		metrics:   metrics,
		maxPerDay: 20,
		seenToday: make(map[string]int),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ domrepo.NewsSink = (*NewsPipeline)(nil)

// Push validates, throttles, and forwards the record downstream.
func (p *NewsPipeline) Push(rec models.NewsRecord) {
	if err := validateRecord(rec); err != nil {
		p.metrics.RecordError("news_validate")
		return
	}
	if !p.allow(rec) {
		p.metrics.RecordError("news_throttle")
		return
	}
	p.next.Push(rec)
}

func validateRecord(rec models.NewsRecord) error {
	if rec.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if rec.Type == "" {
		return fmt.Errorf("type empty")
	}
	if rec.Day < 0 {
		return fmt.Errorf("day invalid")
	}
	if rec.Headline == "" {
		return fmt.Errorf("headline empty")
	}
	return nil
}

func (p *NewsPipeline) allow(rec models.NewsRecord) bool {
	if p.maxPerDay <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if rec.Day != p.day {
		p.day = rec.Day
		p.seenToday = make(map[string]int)
	}
	p.seenToday[rec.Symbol]++
	return p.seenToday[rec.Symbol] <= p.maxPerDay
}
