package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ProductPriceTrackerOrg/backend-api-sub000/cache"
)

const (
	// DefaultTimeout matches the backend's historical per-query limit.
	DefaultTimeout = 15 * time.Second

	// DefaultCacheTTL mirrors cache.DefaultTTL for write-through entries.
	DefaultCacheTTL = 10 * time.Minute
)

// Options tune the executor. All fields are optional; a zero Options gets a
// process-default pool and no caching.
type Options struct {
	Pool  *Pool        // nil => NewPool(DefaultWorkers)
	Cache *cache.Cache // nil => no read/write-through

	Logger          cache.Logger  // nil => cache.NopLogger
	Hooks           Hooks         // nil => NopHooks
	DefaultTimeout  time.Duration // 0 => 15s
	DefaultCacheTTL time.Duration // 0 => 10m
}

// Executor runs requests against the shared pool, degrading every data-path
// fault into the request's fallback.
type Executor struct {
	pool  *Pool
	cache *cache.Cache
	log   cache.Logger
	hooks Hooks

	defaultTimeout time.Duration
	defaultTTL     time.Duration
}

func New(opts Options) (*Executor, error) {
	if opts.DefaultTimeout < 0 {
		return nil, fmt.Errorf("query: default timeout must be positive, got %v", opts.DefaultTimeout)
	}
	if opts.DefaultCacheTTL < 0 {
		return nil, fmt.Errorf("query: default cache TTL must be positive, got %v", opts.DefaultCacheTTL)
	}

	pool := opts.Pool
	if pool == nil {
		var err error
		if pool, err = NewPool(DefaultWorkers); err != nil {
			return nil, err
		}
	}

	e := &Executor{
		pool:  pool,
		cache: opts.Cache,
	}
	e.log = coalesce[cache.Logger](opts.Logger, cache.NopLogger{})
	e.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	e.defaultTimeout = coalesce[time.Duration](opts.DefaultTimeout, DefaultTimeout)
	e.defaultTTL = coalesce[time.Duration](opts.DefaultCacheTTL, DefaultCacheTTL)
	return e, nil
}

func (e *Executor) Pool() *Pool { return e.pool }

// Execute runs one request. The returned error reports configuration
// mistakes only; every runtime fault (timeout, query error, panic, cache
// outage) returns the request's fallback with a nil error.
func (e *Executor) Execute(ctx context.Context, req Request) (any, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	v, _ := e.run(ctx, req)
	return v, nil
}

// run assumes req is valid. The second return reports whether the entry
// degraded to its fallback (timeout or failure, not an empty result).
func (e *Executor) run(ctx context.Context, req Request) (any, bool) {
	if req.CacheKey != "" && e.cache != nil {
		if v, ok := e.cache.Get(ctx, req.CacheKey); ok {
			e.log.Debug("cache hit", cache.Fields{"key": req.CacheKey})
			return v, false
		}
	}

	timeout := coalesce(req.Timeout, e.defaultTimeout)
	qctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	rows, err := e.pool.Run(qctx, req.Query)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			terr := &TimeoutError{ResultKey: req.ResultKey, Timeout: timeout}
			e.hooks.QueryTimeout(req.ResultKey, timeout)
			e.log.Error("query degraded to fallback", cache.Fields{"err": terr})
		} else {
			rerr := &RunError{ResultKey: req.ResultKey, Err: err}
			e.hooks.QueryFailed(req.ResultKey, rerr)
			e.log.Error("query degraded to fallback", cache.Fields{"err": rerr})
		}
		return req.Fallback, true
	}
	e.log.Debug("query executed", cache.Fields{
		"result_key": req.ResultKey,
		"elapsed":    time.Since(start),
		"rows":       len(rows),
	})

	var out any = rows
	if req.Transform != nil && len(rows) > 0 {
		out = req.Transform(rows)
	}
	// empty results are returned but not cached, so a later call may still
	// observe data once the warehouse has some
	if req.CacheKey != "" && e.cache != nil && len(rows) > 0 && out != nil {
		e.cache.Set(ctx, req.CacheKey, out, coalesce(req.CacheTTL, e.defaultTTL))
	}
	return out, false
}

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
