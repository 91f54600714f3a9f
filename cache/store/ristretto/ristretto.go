package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	st "github.com/ProductPriceTrackerOrg/backend-api-sub000/cache/store"
)

// Store is a cost-bounded in-process backend. Ristretto cannot enumerate
// keys, so Keys returns store.ErrNotSupported and pattern invalidation is
// unavailable on this backend; writes may also be dropped under admission
// pressure, which the cache already tolerates.
type Store struct {
	c *rc.Cache
}

var _ st.Store = (*Store)(nil)

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto store: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		s.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

func (s *Store) SetEx(_ context.Context, key string, value []byte, ttl time.Duration) error {
	// admission may silently drop the write; the cache reads through anyway
	s.c.SetWithTTL(key, value, int64(len(value)), ttl)
	return nil
}

func (s *Store) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		s.c.Del(k)
	}
	return nil
}

func (s *Store) Keys(_ context.Context, _ string) ([]string, error) {
	return nil, st.ErrNotSupported
}

func (s *Store) FlushAll(_ context.Context) error {
	s.c.Clear()
	return nil
}

func (s *Store) Info(_ context.Context) (st.Health, error) {
	h := st.Health{Connected: true}
	if m := s.c.Metrics; m != nil {
		h.Keys = int64(m.KeysAdded() - m.KeysEvicted())
		h.UsedMemory = int64(m.CostAdded() - m.CostEvicted())
	}
	return h, nil
}

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close(_ context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}
