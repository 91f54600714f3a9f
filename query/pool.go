package query

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// DefaultWorkers matches the backend's historical warehouse thread pool size.
const DefaultWorkers = 10

// Pool bounds concurrent warehouse work for the whole process. It is the
// system's backpressure boundary: excess demand queues in Acquire, it never
// spawns unbounded goroutines. Construct once and inject it everywhere.
type Pool struct {
	workers int
	sem     *semaphore.Weighted

	inFlight  atomic.Int64
	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	abandoned atomic.Int64
}

func NewPool(workers int) (*Pool, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("query: pool workers must be positive, got %d", workers)
	}
	return &Pool{workers: workers, sem: semaphore.NewWeighted(int64(workers))}, nil
}

type result struct {
	rows Rows
	err  error
}

// Run executes fn on a pool slot, bounded by ctx's deadline (queue wait
// included). The deadline bounds the wait, not the work: when ctx expires
// while fn is still running, Run returns ctx.Err() immediately and the slot
// is released only when fn returns on its own.
func (p *Pool) Run(ctx context.Context, fn Func) (Rows, error) {
	p.submitted.Add(1)
	if err := p.sem.Acquire(ctx, 1); err != nil {
		// expired while queued; no slot was ever held
		p.failed.Add(1)
		return nil, err
	}

	ch := make(chan result, 1)
	p.inFlight.Add(1)
	go func() {
		defer p.sem.Release(1)
		defer p.inFlight.Add(-1)
		rows, err := runGuarded(ctx, fn)
		ch <- result{rows: rows, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			p.failed.Add(1)
		} else {
			p.completed.Add(1)
		}
		return r.rows, r.err
	case <-ctx.Done():
		p.abandoned.Add(1)
		return nil, ctx.Err()
	}
}

func runGuarded(ctx context.Context, fn Func) (rows Rows, err error) {
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("query panicked: %v", r)
		}
	}()
	return fn(ctx)
}

func (p *Pool) Workers() int { return p.workers }

// PoolStats are process-lifetime counters. Abandoned counts queries whose
// deadline fired while they were still running, i.e. slots held past their
// logical timeout.
type PoolStats struct {
	Workers   int   `json:"workers"`
	InFlight  int64 `json:"in_flight"`
	Submitted int64 `json:"submitted"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Abandoned int64 `json:"abandoned"`
}

func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Workers:   p.workers,
		InFlight:  p.inFlight.Load(),
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Abandoned: p.abandoned.Load(),
	}
}
