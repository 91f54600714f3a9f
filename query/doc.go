// Package query executes slow, blocking warehouse queries without blocking
// request handling: each query runs on a shared bounded pool under a
// wall-clock deadline, optionally read/write-through the cache, and degrades
// to a caller-supplied fallback instead of surfacing data-path errors.
//
// Execute handles one request; ExecuteBatch fans out several independent
// requests concurrently and settles them into one map, isolating per-entry
// failure. The only errors either returns are configuration mistakes (nil
// query func, negative timeout, duplicate result key in a batch) - a timeout,
// a failed query, or an unreachable cache all come back as the fallback value.
//
// The timeout bounds the wait, not the work: when the underlying client
// cannot be interrupted, the pool slot stays occupied until the call returns
// on its own (counted as Abandoned in pool stats). The deadline context is
// passed into the query func, so context-aware clients stop early.
package query
