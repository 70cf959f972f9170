package repository

import (
	"MarketLab/internal/domain/models"
	domainrepo "MarketLab/internal/domain/repository"
)

// Fanout delivers each record to every registered sink in order. A slow or
// failing sink must not block the others, so sinks are expected to be
// non-blocking (the Kafka and websocket sinks buffer internally).
type Fanout struct {
	sinks []domainrepo.NewsSink
}

func NewFanout(sinks ...domainrepo.NewsSink) *Fanout {
	out := make([]domainrepo.NewsSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &Fanout{sinks: out}
}

func (f *Fanout) Push(rec models.NewsRecord) {
	for _, s := range f.sinks {
		s.Push(rec)
	}
}
