package cache

import "context"

// Admin is the operational surface of the cache. Flush lives only here so it
// cannot be reached from ordinary read paths; the remaining methods are thin
// pass-throughs for inspection endpoints.
type Admin struct {
	c *Cache
}

func (c *Cache) Admin() Admin { return Admin{c: c} }

// Flush wipes the cache namespace. With a namespace configured only that
// namespace's keys are removed; without one the whole store DB is flushed.
func (a Admin) Flush(ctx context.Context) bool {
	c := a.c
	if !c.enabled {
		return false
	}
	if c.ns != "" {
		return c.DeletePattern(ctx, "*")
	}
	if err := c.store.FlushAll(ctx); err != nil {
		c.degrade("flush", "", err)
		return false
	}
	c.log.Info("cache flushed", nil)
	return true
}

func (a Admin) Stats(ctx context.Context) Stats { return a.c.Stats(ctx) }

func (a Admin) Delete(ctx context.Context, keys ...string) bool {
	return a.c.Delete(ctx, keys...)
}

func (a Admin) DeletePattern(ctx context.Context, pattern string) bool {
	return a.c.DeletePattern(ctx, pattern)
}
