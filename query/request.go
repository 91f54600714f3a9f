package query

import (
	"context"
	"fmt"
	"time"
)

// Row is one warehouse result row, column name to value.
type Row = map[string]any

// Rows is a raw warehouse result set.
type Rows []Row

// Func runs one blocking warehouse query. The context carries the request's
// deadline; clients that support interruption should honor it, blocking
// clients may ignore it.
type Func func(ctx context.Context) (Rows, error)

// Transform is a pure function shaping raw rows into the caller's result.
// It is applied only to non-empty results.
type Transform func(Rows) any

// Request describes one query execution.
type Request struct {
	// Query is the unit of work. Required.
	Query Func

	// ResultKey identifies this request's entry in a BatchResult. Required
	// for batches, optional for single Execute calls (used in logs either way).
	ResultKey string

	// CacheKey enables read/write-through when non-empty. Distinct filter
	// combinations must never share a CacheKey; it is independent of
	// ResultKey and may differ from it.
	CacheKey string

	// CacheTTL bounds the write-through entry. 0 means the executor default.
	CacheTTL time.Duration

	// Timeout bounds the wait for the query, queue time included.
	// 0 means the executor default.
	Timeout time.Duration

	// Fallback is returned whenever the query times out or fails. nil and
	// empty collections are both valid "no data" shapes.
	Fallback any

	// Transform optionally reshapes non-empty raw rows before caching and
	// returning.
	Transform Transform
}

func (r Request) validate() error {
	if r.Query == nil {
		return fmt.Errorf("query: request %q: query func is required", r.ResultKey)
	}
	if r.Timeout < 0 {
		return fmt.Errorf("query: request %q: timeout must be positive, got %v", r.ResultKey, r.Timeout)
	}
	if r.CacheTTL < 0 {
		return fmt.Errorf("query: request %q: cache TTL must be positive, got %v", r.ResultKey, r.CacheTTL)
	}
	return nil
}
