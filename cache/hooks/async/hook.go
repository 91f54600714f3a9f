// Package asynchook decouples hook consumers from the cache's hot paths:
// events are handed to a small worker set through a bounded queue and dropped
// when the queue is full, so a slow consumer can never stall a read.
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	c, _ := cache.New(cache.Options{Store: st, Hooks: hooks})
package asynchook

import (
	"sync"

	"github.com/ProductPriceTrackerOrg/backend-api-sub000/cache"
)

type Hooks struct {
	inner cache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ cache.Hooks = (*Hooks)(nil)

func New(inner cache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) StoreDisabled(err error) { h.try(func() { h.inner.StoreDisabled(err) }) }
func (h *Hooks) StoreDegraded(op, key string, err error) {
	h.try(func() { h.inner.StoreDegraded(op, key, err) })
}
func (h *Hooks) SelfHeal(k, reason string) { h.try(func() { h.inner.SelfHeal(k, reason) }) }
func (h *Hooks) EncodeRejected(key string, err error) {
	h.try(func() { h.inner.EncodeRejected(key, err) })
}
