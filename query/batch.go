package query

import (
	"context"
	"fmt"
	"sync"

	"github.com/ProductPriceTrackerOrg/backend-api-sub000/cache"
)

// BatchResult maps each request's ResultKey to its settled value: the real
// result or the request's fallback. It always contains exactly one entry per
// input request.
type BatchResult map[string]any

// ExecuteBatch fans out one concurrent Execute per request and settles them
// into one map. Entries are isolated: one timeout or failure never delays or
// cancels siblings, and side effects (cache writes) are independent and
// unordered. The returned error reports configuration mistakes only,
// detected before anything is scheduled.
func (e *Executor) ExecuteBatch(ctx context.Context, reqs []Request) (BatchResult, error) {
	seen := make(map[string]struct{}, len(reqs))
	for _, r := range reqs {
		if err := r.validate(); err != nil {
			return nil, err
		}
		if r.ResultKey == "" {
			return nil, fmt.Errorf("query: batch request: result key is required")
		}
		if _, dup := seen[r.ResultKey]; dup {
			return nil, &DuplicateKeyError{Key: r.ResultKey}
		}
		seen[r.ResultKey] = struct{}{}
	}

	out := make(BatchResult, len(reqs))
	degraded := 0
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, req := range reqs {
		req := req
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, deg := e.run(ctx, req)
			mu.Lock()
			out[req.ResultKey] = v
			if deg {
				degraded++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	e.hooks.BatchSettled(len(reqs), degraded)
	if degraded > 0 {
		e.log.Warn("batch settled with degraded entries", cache.Fields{
			"total":    len(reqs),
			"degraded": degraded,
		})
	}
	return out, nil
}
