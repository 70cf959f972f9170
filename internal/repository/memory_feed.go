package repository

import (
	"fmt"
	"sync"

	"MarketLab/internal/domain/models"
	domainrepo "MarketLab/internal/domain/repository"
)

// MemoryFeed is the canonical in-process news feed: append-only, assigns
// sequential IDs to records that arrive without one, and hands out clones
// so callers can never mutate the archive.
type MemoryFeed struct {
	mu   sync.RWMutex
	recs []models.NewsRecord
	byID map[string]int
	next int
}

// NewMemoryFeed creates an empty feed.
func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{byID: make(map[string]int), next: 1}
}

var _ domainrepo.NewsFeed = (*MemoryFeed)(nil)

func (f *MemoryFeed) Push(rec models.NewsRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("news-%06d", f.next)
	}
	f.next++
	f.byID[rec.ID] = len(f.recs)
	f.recs = append(f.recs, rec.Clone())
}

func (f *MemoryFeed) ByID(id string) (models.NewsRecord, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	i, ok := f.byID[id]
	if !ok {
		return models.NewsRecord{}, false
	}
	return f.recs[i].Clone(), true
}

// Query filters by day (-1 matches any day) and news type ("" matches any).
// Results come back newest first; limit <= 0 means unlimited.
func (f *MemoryFeed) Query(day int, newsType string, limit int) []models.NewsRecord {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.NewsRecord, 0, 16)
	for i := len(f.recs) - 1; i >= 0; i-- {
		r := f.recs[i]
		if day >= 0 && r.Day != day {
			continue
		}
		if newsType != "" && r.Type != newsType {
			continue
		}
		out = append(out, r.Clone())
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func (f *MemoryFeed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.recs)
}
