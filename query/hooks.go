package query

import "time"

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
//
// They also carry the one distinction the data path deliberately hides: a
// fallback caused by a timeout or failure fires a hook, a legitimately empty
// result does not.
type Hooks interface {
	// The query did not settle within its deadline; the caller got the
	// fallback and the pool slot is held until the query returns on its own.
	QueryTimeout(resultKey string, timeout time.Duration)

	// The query returned an error or panicked; the caller got the fallback.
	QueryFailed(resultKey string, err error)

	// A batch finished; degraded counts entries that timed out or failed.
	BatchSettled(total, degraded int)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) QueryTimeout(string, time.Duration) {}
func (NopHooks) QueryFailed(string, error)          {}
func (NopHooks) BatchSettled(int, int)              {}
