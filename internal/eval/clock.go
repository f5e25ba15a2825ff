package eval

import "sync/atomic"

// Clock is the monotonic logical clock issuing freshness tokens.
//
// Every cache entry is stamped with a strictly increasing token from
// this clock. Token comparison is the only staleness test: an input
// is "changed since the cached run" exactly when its token is newer
// than the dependent's entry token. No wall-clock time is involved,
// so runs replay identically.
//
// Thread-safety: atomic operations make Clock safe for concurrent
// use, though the evaluator's single-writer walk only advances it
// from one goroutine.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific token.
// Used to resume past all tokens persisted in a store.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next token and advances the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the clock's position without advancing it.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
