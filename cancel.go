package vimre

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sys/cpu"
)

// CancelToken stops a running match. The engine polls it once per text
// position and once per line in Search, so cancellation takes effect
// within a few steps.
//
// A nil *CancelToken is never cancelled.
type CancelToken struct {
	_         cpu.CacheLinePad
	cancelled atomic.Bool
	budget    atomic.Int64
	limited   bool
	_         cpu.CacheLinePad
}

// NewCancelToken returns a token that is cancelled only by Cancel.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// NewCancelTokenAfter returns a token that cancels itself after it has
// been polled polls times. It bounds the work of a match by steps rather
// than time, which keeps tests deterministic.
func NewCancelTokenAfter(polls int64) *CancelToken {
	t := &CancelToken{limited: true}
	t.budget.Store(polls)
	return t
}

// WithContext returns a token that is cancelled when ctx is done. Call
// stop once the match is over to release the context callback.
func WithContext(ctx context.Context) (t *CancelToken, stop func()) {
	t = NewCancelToken()
	if ctx.Err() != nil {
		t.Cancel()
		return t, func() {}
	}
	unregister := context.AfterFunc(ctx, t.Cancel)
	return t, func() { unregister() }
}

// WithTimeout returns a token that is cancelled after d.
func WithTimeout(d time.Duration) (t *CancelToken, stop func()) {
	t = NewCancelToken()
	timer := time.AfterFunc(d, t.Cancel)
	return t, func() { timer.Stop() }
}

// Cancel marks the token cancelled. It is safe to call from any goroutine
// and more than once.
func (t *CancelToken) Cancel() {
	t.cancelled.Store(true)
}

// Cancelled reports whether the token has been cancelled.
func (t *CancelToken) Cancelled() bool {
	if t == nil {
		return false
	}
	if t.limited && t.budget.Add(-1) < 0 {
		t.cancelled.Store(true)
	}
	return t.cancelled.Load()
}
