package core

import "sync/atomic"

// Clock hands out the logical timestamps calls are ordered by. Every Tick is strictly greater
// than the one before it.
type Clock interface {
	Tick() int64
}

// LogicalClock is the default Clock: an atomic counter whose first Tick returns 1.
// It has nothing to do with wall-clock time, so call order is reproducible across runs.
type LogicalClock struct {
	seq atomic.Int64
}

// NewLogicalClock creates a clock starting at 0.
func NewLogicalClock() *LogicalClock {
	return &LogicalClock{}
}

// Current returns the last issued timestamp without advancing the clock.
func (c *LogicalClock) Current() int64 {
	return c.seq.Load()
}

// Tick advances the clock and returns the new timestamp.
func (c *LogicalClock) Tick() int64 {
	return c.seq.Add(1)
}
