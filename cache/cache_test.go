package cache

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/ProductPriceTrackerOrg/backend-api-sub000/cache/store"
	"github.com/ProductPriceTrackerOrg/backend-api-sub000/internal/match"
)

type memEntry struct {
	v   []byte
	exp time.Time // zero => no TTL
}

// memStore is an in-memory store.Store with injectable failures.
type memStore struct {
	mu      sync.Mutex
	m       map[string]memEntry
	pingErr error
	opErr   error // when set, every data operation fails with it
}

var _ store.Store = (*memStore)(nil)

func newMemStore() *memStore { return &memStore{m: make(map[string]memEntry)} }

func (s *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opErr != nil {
		return nil, false, s.opErr
	}
	e, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(s.m, key)
		return nil, false, nil
	}
	return e.v, true, nil
}

func (s *memStore) SetEx(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opErr != nil {
		return s.opErr
	}
	s.m[key] = memEntry{v: value, exp: time.Now().Add(ttl)}
	return nil
}

func (s *memStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opErr != nil {
		return s.opErr
	}
	for _, k := range keys {
		delete(s.m, k)
	}
	return nil
}

func (s *memStore) Keys(_ context.Context, pattern string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opErr != nil {
		return nil, s.opErr
	}
	var out []string
	for k := range s.m {
		if match.Match(pattern, k) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (s *memStore) FlushAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opErr != nil {
		return s.opErr
	}
	s.m = make(map[string]memEntry)
	return nil
}

func (s *memStore) Info(_ context.Context) (store.Health, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opErr != nil {
		return store.Health{}, s.opErr
	}
	return store.Health{Connected: true, Keys: int64(len(s.m))}, nil
}

func (s *memStore) Ping(_ context.Context) error  { return s.pingErr }
func (s *memStore) Close(_ context.Context) error { return nil }

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

func (s *memStore) putRaw(key string, v []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = memEntry{v: v}
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[key]
	return ok
}

type recordingHooks struct {
	mu       sync.Mutex
	disabled int
	degraded []string // op names
	healed   []string // reasons
	rejected []string // keys
}

func (h *recordingHooks) StoreDisabled(error) {
	h.mu.Lock()
	h.disabled++
	h.mu.Unlock()
}

func (h *recordingHooks) StoreDegraded(op, _ string, _ error) {
	h.mu.Lock()
	h.degraded = append(h.degraded, op)
	h.mu.Unlock()
}

func (h *recordingHooks) SelfHeal(_, reason string) {
	h.mu.Lock()
	h.healed = append(h.healed, reason)
	h.mu.Unlock()
}

func (h *recordingHooks) EncodeRejected(key string, _ error) {
	h.mu.Lock()
	h.rejected = append(h.rejected, key)
	h.mu.Unlock()
}

func newTestCache(t *testing.T, ms store.Store, optsOpt func(*Options)) *Cache {
	t.Helper()
	opts := Options{Store: ms}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	c, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, newMemStore(), nil)
	defer c.Close(ctx)

	// expectations are in decoded (JSON) form
	cases := []struct {
		key  string
		in   any
		want any
	}{
		{"str", "hello", "hello"},
		{"bool", true, true},
		{"float", 3.5, 3.5},
		{"int", 42, float64(42)},
		{"nil", nil, nil},
		{"list", []any{"a", "b"}, []any{"a", "b"}},
		{"rows", []map[string]any{{"price": 19.99}}, []any{map[string]any{"price": 19.99}}},
		{
			"record",
			struct {
				ID   int    `json:"id"`
				Name string `json:"name"`
			}{ID: 7, Name: "acme"},
			map[string]any{"id": float64(7), "name": "acme"},
		},
	}
	for _, tc := range cases {
		if ok := c.Set(ctx, tc.key, tc.in, time.Minute); !ok {
			t.Fatalf("Set(%q) failed", tc.key)
		}
		got, ok := c.Get(ctx, tc.key)
		if !ok {
			t.Fatalf("Get(%q) miss after Set", tc.key)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Get(%q) = %#v, want %#v", tc.key, got, tc.want)
		}
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, newMemStore(), nil)

	c.Set(ctx, "k", "v", time.Minute)
	if ok := c.Delete(ctx, "k"); !ok {
		t.Fatal("Delete returned false")
	}
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("Get after Delete expected miss")
	}
}

func TestDeletePattern(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, newMemStore(), nil)

	c.Set(ctx, "trending:7d", "a", time.Minute)
	c.Set(ctx, "trending:30d", "b", time.Minute)
	c.Set(ctx, "search:phones", "c", time.Minute)

	if ok := c.DeletePattern(ctx, "trending:*"); !ok {
		t.Fatal("DeletePattern returned false")
	}
	if _, ok := c.Get(ctx, "trending:7d"); ok {
		t.Fatal("trending:7d survived pattern delete")
	}
	if _, ok := c.Get(ctx, "trending:30d"); ok {
		t.Fatal("trending:30d survived pattern delete")
	}
	if _, ok := c.Get(ctx, "search:phones"); !ok {
		t.Fatal("unrelated key was removed by pattern delete")
	}

	// nothing left to match
	if ok := c.DeletePattern(ctx, "trending:*"); ok {
		t.Fatal("DeletePattern with no matches expected false")
	}
}

func TestDisabledByOption(t *testing.T) {
	ctx := context.Background()
	c, err := New(Options{Disabled: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Enabled() {
		t.Fatal("cache expected disabled")
	}

	// every operation is a safe no-op with its documented negative result
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("Get on disabled cache expected miss")
	}
	if c.Set(ctx, "k", "v", time.Minute) {
		t.Fatal("Set on disabled cache expected false")
	}
	if c.Delete(ctx, "k") {
		t.Fatal("Delete on disabled cache expected false")
	}
	if c.DeletePattern(ctx, "*") {
		t.Fatal("DeletePattern on disabled cache expected false")
	}
	if c.Admin().Flush(ctx) {
		t.Fatal("Flush on disabled cache expected false")
	}
	if s := c.Stats(ctx); s.Enabled || s.Store.Connected {
		t.Fatalf("Stats on disabled cache: %+v", s)
	}
}

func TestDisabledByFailedPing(t *testing.T) {
	ms := newMemStore()
	ms.pingErr = errors.New("connection refused")
	hooks := &recordingHooks{}

	c := newTestCache(t, ms, func(o *Options) { o.Hooks = hooks })
	if c.Enabled() {
		t.Fatal("cache expected disabled after failed ping")
	}
	if hooks.disabled != 1 {
		t.Fatalf("StoreDisabled hook fired %d times, want 1", hooks.disabled)
	}

	// unreachable at construction means no per-call retries
	ctx := context.Background()
	if c.Set(ctx, "k", "v", time.Minute) {
		t.Fatal("Set expected false")
	}
	if ms.len() != 0 {
		t.Fatal("disabled cache wrote to store")
	}
}

func TestTransientFaultIsMiss(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore()
	hooks := &recordingHooks{}
	c := newTestCache(t, ms, func(o *Options) { o.Hooks = hooks })

	ms.mu.Lock()
	ms.opErr = errors.New("i/o timeout")
	ms.mu.Unlock()

	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("Get during outage expected miss")
	}
	if c.Set(ctx, "k", "v", time.Minute) {
		t.Fatal("Set during outage expected false")
	}
	if len(hooks.degraded) != 2 {
		t.Fatalf("StoreDegraded fired %d times, want 2 (%v)", len(hooks.degraded), hooks.degraded)
	}
}

func TestStatsConsistency(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, newMemStore(), nil)

	if s := c.Stats(ctx); s.HitRate != 0 {
		t.Fatalf("idle hit rate = %v, want 0", s.HitRate)
	}

	c.Set(ctx, "present", "v", time.Minute)

	gets := 0
	for i := 0; i < 3; i++ {
		c.Get(ctx, "present")
		gets++
	}
	for i := 0; i < 1; i++ {
		c.Get(ctx, "absent")
		gets++
	}

	s := c.Stats(ctx)
	if s.Hits+s.Misses != uint64(gets) {
		t.Fatalf("hits(%d)+misses(%d) != gets(%d)", s.Hits, s.Misses, gets)
	}
	if s.Hits != 3 || s.Misses != 1 {
		t.Fatalf("hits=%d misses=%d, want 3/1", s.Hits, s.Misses)
	}
	if s.HitRate != 75 {
		t.Fatalf("hit rate = %v, want 75", s.HitRate)
	}
	if !s.Store.Connected || s.Store.Keys != 1 {
		t.Fatalf("store health = %+v", s.Store)
	}
}

func TestSetRejectsUnsupportedValue(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore()
	hooks := &recordingHooks{}
	c := newTestCache(t, ms, func(o *Options) { o.Hooks = hooks })

	if c.Set(ctx, "bad", make(chan int), time.Minute) {
		t.Fatal("Set with unserializable value expected false")
	}
	if ms.len() != 0 {
		t.Fatal("unserializable value reached the store")
	}
	if len(hooks.rejected) != 1 || hooks.rejected[0] != "bad" {
		t.Fatalf("EncodeRejected = %v", hooks.rejected)
	}
}

func TestSetRejectsNegativeTTL(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore()
	c := newTestCache(t, ms, nil)

	if c.Set(ctx, "k", "v", -time.Second) {
		t.Fatal("Set with negative TTL expected false")
	}
	if ms.len() != 0 {
		t.Fatal("negative-TTL value reached the store")
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("New without store expected error")
	}
	if _, err := New(Options{Store: newMemStore(), DefaultTTL: -time.Minute}); err == nil {
		t.Fatal("New with negative default TTL expected error")
	}
}

func TestSelfHealOnCorrupt(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore()
	hooks := &recordingHooks{}
	c := newTestCache(t, ms, func(o *Options) { o.Hooks = hooks })

	ms.putRaw("junk", []byte("written by someone else"))

	if _, ok := c.Get(ctx, "junk"); ok {
		t.Fatal("corrupt entry read as hit")
	}
	if ms.has("junk") {
		t.Fatal("corrupt entry not removed")
	}
	if len(hooks.healed) != 1 || hooks.healed[0] != "corrupt" {
		t.Fatalf("SelfHeal = %v", hooks.healed)
	}
}

func TestNamespace(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore()
	c := newTestCache(t, ms, func(o *Options) { o.Namespace = "pricing" })

	c.Set(ctx, "k", "v", time.Minute)
	if !ms.has("pricing:k") {
		t.Fatal("namespaced storage key not found")
	}
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("Get through namespace expected hit")
	}
}

func TestAdminFlushScopedToNamespace(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore()
	c := newTestCache(t, ms, func(o *Options) { o.Namespace = "pricing" })

	other := newTestCache(t, ms, func(o *Options) { o.Namespace = "search" })
	other.Set(ctx, "q", "v", time.Minute)
	c.Set(ctx, "k", "v", time.Minute)

	if ok := c.Admin().Flush(ctx); !ok {
		t.Fatal("Flush returned false")
	}
	if ms.has("pricing:k") {
		t.Fatal("namespace flush left own key")
	}
	if !ms.has("search:q") {
		t.Fatal("namespace flush removed foreign namespace key")
	}
}

func TestAdminFlushWholeStore(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore()
	c := newTestCache(t, ms, nil)

	c.Set(ctx, "a", 1, time.Minute)
	c.Set(ctx, "b", 2, time.Minute)
	if ok := c.Admin().Flush(ctx); !ok {
		t.Fatal("Flush returned false")
	}
	if ms.len() != 0 {
		t.Fatalf("store has %d keys after flush", ms.len())
	}
}

func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t, newMemStore(), nil)

	c.Set(ctx, "k", "v", 30*time.Millisecond)
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("Get before expiry expected hit")
	}
	time.Sleep(60 * time.Millisecond)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("Get after expiry expected miss")
	}
}
