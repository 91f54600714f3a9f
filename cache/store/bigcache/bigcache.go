package bigcache

import (
	"context"
	"time"

	bc "github.com/allegro/bigcache/v3"

	st "github.com/ProductPriceTrackerOrg/backend-api-sub000/cache/store"
	"github.com/ProductPriceTrackerOrg/backend-api-sub000/internal/match"
)

// Store is an in-process backend for deployments without a remote cache.
// BigCache does not support per-entry TTLs: entries expire with the global
// LifeWindow and SetEx ignores its ttl argument.
type Store struct {
	c        *bc.BigCache
	maxBytes int64
}

var _ st.Store = (*Store)(nil)

type Config struct {
	LifeWindow         time.Duration // 0 => 10m
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*Store, error) {
	life := cfg.LifeWindow
	if life <= 0 {
		life = 10 * time.Minute
	}
	conf := bc.DefaultConfig(life)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &Store{c: c, maxBytes: int64(cfg.HardMaxCacheSizeMB) << 20}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := s.c.Get(key)
	if err == bc.ErrEntryNotFound {
		return nil, false, nil
	}
	return b, err == nil, err
}

func (s *Store) SetEx(_ context.Context, key string, value []byte, _ time.Duration) error {
	return s.c.Set(key, value)
}

func (s *Store) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		if err := s.c.Delete(k); err != nil && err != bc.ErrEntryNotFound {
			return err
		}
	}
	return nil
}

func (s *Store) Keys(_ context.Context, pattern string) ([]string, error) {
	var out []string
	it := s.c.Iterator()
	for it.SetNext() {
		e, err := it.Value()
		if err != nil {
			continue
		}
		if match.Match(pattern, e.Key()) {
			out = append(out, e.Key())
		}
	}
	return out, nil
}

func (s *Store) FlushAll(_ context.Context) error {
	return s.c.Reset()
}

func (s *Store) Info(_ context.Context) (st.Health, error) {
	return st.Health{
		Connected:  true,
		Keys:       int64(s.c.Len()),
		UsedMemory: int64(s.c.Capacity()),
		MaxMemory:  s.maxBytes,
	}, nil
}

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close(_ context.Context) error { return s.c.Close() }
