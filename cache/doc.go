// Package cache implements the best-effort read/write-through cache fronting
// the analytical warehouse. Correctness of the surrounding system never depends
// on it: a store that fails to connect at construction leaves the cache
// permanently disabled for the process, and any live fault (transport error,
// corrupt entry, unserializable value) collapses into the documented negative
// result, never an error to the caller.
//
// Components:
//   - store.Store: remote TTL byte store (Redis in production; BigCache and
//     Ristretto for in-process deployments).
//   - codec.Codec: (de)serializes values <-> []byte through the closed variant
//     set enforced by codec.Normalize.
//
// Keys are optionally namespaced as <ns>:<key>. Entries carry a small framing
// envelope so foreign or truncated bytes are self-healed on read.
//
// Flush is deliberately reachable only through Admin so ordinary read paths
// cannot wipe the namespace:
//
//	c, _ := cache.New(cache.Options{Store: st, Namespace: "pricing"})
//	rows, ok := c.Get(ctx, "trending:7d")
//	c.Admin().Flush(ctx)
package cache
