package repository

import (
	"context"
	"time"

	domainrepo "MarketLab/internal/domain/repository"
	"MarketLab/pkg/cache"
)

// CacheSnapshots adapts a cache.Service (memory, Redis or layered) to the
// SnapshotCache the API reads through. Snapshots are only valid within a
// simulated day, so the TTL is a backstop, not the consistency mechanism:
// the tick path invalidates explicitly.
type CacheSnapshots struct {
	svc cache.Service
	ttl time.Duration
}

func NewCacheSnapshots(svc cache.Service, ttl time.Duration) *CacheSnapshots {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CacheSnapshots{svc: svc, ttl: ttl}
}

var _ domainrepo.SnapshotCache = (*CacheSnapshots)(nil)

func (c *CacheSnapshots) Set(ctx context.Context, key string, value interface{}) error {
	return c.svc.Set(ctx, cache.GenerateKey("snapshot", key), value, c.ttl)
}

func (c *CacheSnapshots) Get(ctx context.Context, key string, dest interface{}) error {
	return c.svc.Get(ctx, cache.GenerateKey("snapshot", key), dest)
}

func (c *CacheSnapshots) Invalidate(ctx context.Context, key string) error {
	return c.svc.Delete(ctx, cache.GenerateKey("snapshot", key))
}
