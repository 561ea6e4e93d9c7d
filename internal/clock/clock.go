// Package clock implements the market's monotonic tick counter: a
// non-negative integer advanced by exactly one on every Event the market
// receives, including its own emissions.
package clock

import "sync/atomic"

// Clock is a single, non-decreasing tick counter. Safe for concurrent reads
// via Now while the market's single owning flow advances it.
type Clock struct {
	tick atomic.Uint64
}

// New builds a Clock starting at the given tick (0 for a fresh market, or a
// restored value when loading from a snapshot).
func New(start uint64) *Clock {
	c := &Clock{}
	c.tick.Store(start)
	return c
}

// Now returns the current tick.
func (c *Clock) Now() uint64 {
	return c.tick.Load()
}

// Advance increments the tick by one and returns the new value.
func (c *Clock) Advance() uint64 {
	return c.tick.Add(1)
}
