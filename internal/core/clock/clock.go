// Package clock is the time source seam of the gate refresh loop.
// Production code injects Real(); tests inject a clockwork fake and
// advance time explicitly.
package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the time source sampled on every refresh tick. A zero Now()
// means the reading is unavailable.
type Clock = clockwork.Clock

// Ticker delivers periodic ticks on Chan(). Ticks are dropped when the
// consumer falls behind.
type Ticker = clockwork.Ticker

// Real returns the wall clock.
func Real() Clock { return clockwork.NewRealClock() }

// Func returns a Clock whose readings come from now. Tickers and timers
// still run on real time.
func Func(now func() time.Time) Clock {
	return funcClock{Clock: clockwork.NewRealClock(), now: now}
}

type funcClock struct {
	clockwork.Clock
	now func() time.Time
}

func (c funcClock) Now() time.Time { return c.now() }

func (c funcClock) Since(t time.Time) time.Duration { return c.now().Sub(t) }

func (c funcClock) Until(t time.Time) time.Duration { return t.Sub(c.now()) }
