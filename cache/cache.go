package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ProductPriceTrackerOrg/backend-api-sub000/cache/codec"
	"github.com/ProductPriceTrackerOrg/backend-api-sub000/cache/store"
	"github.com/ProductPriceTrackerOrg/backend-api-sub000/internal/wire"
)

const (
	// DefaultTTL matches the backend's 10 minute listing-cache window.
	DefaultTTL = 10 * time.Minute

	defaultPingTimeout = 5 * time.Second
)

// Options tune the cache. Only Store is required (unless Disabled is set);
// others have sensible defaults.
type Options struct {
	Store store.Store

	Codec       codec.Codec   // nil => codec.JSON{}
	Logger      Logger        // nil => NopLogger
	Hooks       Hooks         // nil => NopHooks
	Namespace   string        // optional key prefix; "" => keys used verbatim
	DefaultTTL  time.Duration // 0 => 10m
	PingTimeout time.Duration // construction connectivity check; 0 => 5s
	Disabled    bool          // run as a permanent no-op (no store needed)
}

// Cache is a best-effort TTL cache over a remote byte store. Get never
// returns an error: an absent key, an unreachable store, and a corrupt entry
// all read as a miss, indistinguishable to callers.
type Cache struct {
	store store.Store
	codec codec.Codec
	log   Logger
	hooks Hooks
	ns    string

	defaultTTL time.Duration

	// set once at construction; a failed connectivity check disables the
	// cache for the whole process rather than retrying per call
	enabled bool

	hits   atomic.Uint64
	misses atomic.Uint64
}

func New(opts Options) (*Cache, error) {
	if opts.Store == nil && !opts.Disabled {
		return nil, fmt.Errorf("cache: store is required")
	}
	if opts.DefaultTTL < 0 {
		return nil, fmt.Errorf("cache: default TTL must be positive")
	}

	c := &Cache{
		store: opts.Store,
		ns:    opts.Namespace,
	}
	c.codec = opts.Codec
	if c.codec == nil {
		c.codec = codec.JSON{}
	}
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.defaultTTL = coalesce[time.Duration](opts.DefaultTTL, DefaultTTL)

	c.enabled = !opts.Disabled
	if c.enabled {
		ctx, cancel := context.WithTimeout(context.Background(), coalesce(opts.PingTimeout, defaultPingTimeout))
		defer cancel()
		if err := c.store.Ping(ctx); err != nil {
			c.enabled = false
			c.hooks.StoreDisabled(err)
			c.log.Error("cache store unreachable; caching disabled for process life", Fields{"err": err})
		}
	}
	return c, nil
}

func (c *Cache) Enabled() bool { return c.enabled }

func (c *Cache) Close(ctx context.Context) error {
	if c.store != nil {
		return c.store.Close(ctx)
	}
	return nil
}

// Get returns the cached value for key. Every call counts exactly one hit or
// one miss, including calls against a disabled store.
func (c *Cache) Get(ctx context.Context, key string) (any, bool) {
	if !c.enabled {
		c.misses.Add(1)
		return nil, false
	}
	k := c.key(key)
	raw, ok, err := c.store.Get(ctx, k)
	if err != nil {
		c.degrade("get", key, err)
		c.misses.Add(1)
		return nil, false
	}
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	payload, err := wire.Decode(raw)
	if err != nil {
		c.selfHeal(ctx, k, "corrupt")
		c.misses.Add(1)
		return nil, false
	}
	v, err := c.codec.Decode(payload)
	if err != nil {
		c.selfHeal(ctx, k, "value_decode")
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return v, true
}

// Set stores value under key. ttl == 0 means the configured default. A value
// outside the serializable variant set fails fast here rather than storing
// corrupt bytes.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	if !c.enabled {
		return false
	}
	switch {
	case ttl == 0:
		ttl = c.defaultTTL
	case ttl < 0:
		c.log.Error("cache set rejected: TTL must be positive", Fields{"key": key, "ttl": ttl})
		return false
	}
	payload, err := c.codec.Encode(value)
	if err != nil {
		c.hooks.EncodeRejected(key, err)
		c.log.Error("cache set rejected: value not serializable", Fields{"key": key, "err": err})
		return false
	}
	if err := c.store.SetEx(ctx, c.key(key), wire.Encode(payload), ttl); err != nil {
		c.degrade("set", key, err)
		return false
	}
	return true
}

// Delete removes the given keys (best effort).
func (c *Cache) Delete(ctx context.Context, keys ...string) bool {
	if !c.enabled || len(keys) == 0 {
		return false
	}
	sk := make([]string, len(keys))
	for i, k := range keys {
		sk[i] = c.key(k)
	}
	if err := c.store.Del(ctx, sk...); err != nil {
		c.degrade("delete", keys[0], err)
		return false
	}
	return true
}

// DeletePattern removes every key matching the redis-style glob pattern.
// Used to invalidate a family of derived keys after a write elsewhere makes
// them stale. Returns true only when at least one key was removed.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) bool {
	if !c.enabled {
		return false
	}
	keys, err := c.store.Keys(ctx, c.key(pattern))
	if err != nil {
		c.degrade("keys", pattern, err)
		return false
	}
	if len(keys) == 0 {
		return false
	}
	// keys are already storage keys; do not re-prefix
	if err := c.store.Del(ctx, keys...); err != nil {
		c.degrade("delete", pattern, err)
		return false
	}
	c.log.Debug("cache pattern invalidated", Fields{"pattern": pattern, "removed": len(keys)})
	return true
}

func (c *Cache) key(k string) string {
	if c.ns == "" {
		return k
	}
	return c.ns + ":" + k
}

func (c *Cache) degrade(op, key string, err error) {
	c.hooks.StoreDegraded(op, key, err)
	c.log.Warn("cache store operation failed", Fields{"op": op, "key": key, "err": err})
}

func (c *Cache) selfHeal(ctx context.Context, storageKey, reason string) {
	_ = c.store.Del(ctx, storageKey)
	c.hooks.SelfHeal(storageKey, reason)
	c.log.Warn("cache entry dropped on read", Fields{"key": storageKey, "reason": reason})
}
