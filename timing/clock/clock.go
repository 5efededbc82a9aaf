// Package clock provides the quadrature system clock for real-time
// simulation.
//
// The oscillator is divided into four quadrature phases (Q1..Q4); one
// full phase rotation is one instruction cycle. With the default 4 MHz
// internal oscillator the chip executes one instruction per
// microsecond.
package clock

import (
	"context"
	"fmt"
	"time"
)

// Clock divides an oscillator into quadrature phases and counts
// completed instruction cycles.
type Clock struct {
	config *Config

	phase  int
	cycles uint64
}

// NewClock creates a clock with default internal-oscillator timing.
func NewClock() *Clock {
	return &Clock{config: DefaultConfig()}
}

// NewClockWithConfig creates a clock with custom oscillator parameters.
func NewClockWithConfig(config *Config) *Clock {
	return &Clock{config: config}
}

// Config returns the clock's oscillator parameters.
func (c *Clock) Config() *Config { return c.config }

// Phase returns the current quadrature phase, 0 to PhasesPerCycle-1.
func (c *Clock) Phase() int { return c.phase }

// Cycles returns the number of completed instruction cycles.
func (c *Clock) Cycles() uint64 { return c.cycles }

// Step advances the clock by one oscillator phase and reports whether
// a full instruction cycle just completed.
func (c *Clock) Step() bool {
	c.phase++
	if c.phase >= c.config.PhasesPerCycle {
		c.phase = 0
		c.cycles++
		return true
	}
	return false
}

// CyclePeriod returns the wall-clock duration of one instruction cycle.
func (c *Clock) CyclePeriod() time.Duration {
	return time.Duration(c.config.PhasesPerCycle) * time.Second /
		time.Duration(c.config.FrequencyHz)
}

// Run invokes tick once per instruction cycle at the configured rate
// until the context is cancelled. Ticks never overlap: the callback
// runs on the calling goroutine.
func (c *Clock) Run(ctx context.Context, tick func()) error {
	if err := c.config.Validate(); err != nil {
		return fmt.Errorf("invalid clock config: %w", err)
	}

	ticker := time.NewTicker(c.CyclePeriod())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for i := 0; i < c.config.PhasesPerCycle; i++ {
				c.Step()
			}
			tick()
		}
	}
}
