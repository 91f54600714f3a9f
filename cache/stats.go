package cache

import (
	"context"

	"github.com/ProductPriceTrackerOrg/backend-api-sub000/cache/store"
)

// Stats is a point-in-time snapshot. Hits and Misses accumulate for the
// process lifetime; Store health is read live from the backend on every call,
// not cached.
type Stats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hit_rate"` // percent; 0 when no calls have occurred
	Enabled bool    `json:"enabled"`

	Store store.Health `json:"store"`
}

func (c *Cache) Stats(ctx context.Context) Stats {
	h := c.hits.Load()
	m := c.misses.Load()
	s := Stats{Hits: h, Misses: m, Enabled: c.enabled}
	if total := h + m; total > 0 {
		s.HitRate = float64(h) / float64(total) * 100
	}
	if !c.enabled {
		return s
	}
	health, err := c.store.Info(ctx)
	if err != nil {
		c.log.Warn("cache store health unavailable", Fields{"err": err})
		return s
	}
	s.Store = health
	return s
}
