package testutil

import (
	"sync"
	"time"
)

// Epoch is the wall time every StepClock starts from unless told otherwise.
// 2023-11-14T22:13:20Z.
var Epoch = time.UnixMilli(1_700_000_000_000).UTC()

// StepClock is a deterministic wall clock for tests.
//
// Each call to Now returns the current instant and then advances it by Step,
// so metadata stamps are distinct and predictable. A zero Step freezes the
// clock.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewStepClock creates a clock starting at Epoch that advances one
// millisecond per reading.
func NewStepClock() *StepClock {
	return &StepClock{now: Epoch, step: time.Millisecond}
}

// NewFrozenClock creates a clock that always reads at.
func NewFrozenClock(at time.Time) *StepClock {
	return &StepClock{now: at}
}

// Now returns the current instant and advances the clock by its step.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Peek returns the instant the next Now call will return.
func (c *StepClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Reset moves the clock back to Epoch.
//
// Used for test reuse: a scenario replayed after Reset produces identical
// metadata stamps.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = Epoch
}
