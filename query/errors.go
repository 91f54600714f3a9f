package query

import (
	"fmt"
	"time"
)

// TimeoutError records a query that did not settle within its deadline.
// Callers never receive it from Execute; it reaches logs and hooks only.
type TimeoutError struct {
	ResultKey string
	Timeout   time.Duration
}

func (e *TimeoutError) Error() string {
	if e.ResultKey == "" {
		return fmt.Sprintf("query timed out after %v", e.Timeout)
	}
	return fmt.Sprintf("query %q timed out after %v", e.ResultKey, e.Timeout)
}

// RunError wraps the cause of a failed query, including recovered panics.
// Like TimeoutError it never escapes to Execute callers.
type RunError struct {
	ResultKey string
	Err       error
}

func (e *RunError) Error() string {
	if e.ResultKey == "" {
		return fmt.Sprintf("query failed: %v", e.Err)
	}
	return fmt.Sprintf("query %q failed: %v", e.ResultKey, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// DuplicateKeyError reports two batch entries sharing a ResultKey - a caller
// programming error, returned from ExecuteBatch before anything runs.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("query: duplicate result key %q in batch", e.Key)
}
