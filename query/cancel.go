package query

import "sync/atomic"

// CancelToken is an atomically observable flag a caller flips to abort an
// in-progress Search. A newly submitted Search implicitly supersedes (and
// cancels) any prior one still running against the same Engine — see
// Engine.generation in engine.go.
type CancelToken struct {
	cancelled atomic.Bool
}

// NewCancelToken returns a fresh, un-cancelled token.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel flips the token. Safe to call more than once, and from any
// goroutine.
func (c *CancelToken) Cancel() {
	c.cancelled.Store(true)
}

// Cancelled reports the current state. Search workers poll this between
// chunks, never blocking on it.
func (c *CancelToken) Cancelled() bool {
	return c.cancelled.Load()
}
