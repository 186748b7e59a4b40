// Package gate decides whether time-gated content is visible. Every
// function takes the sampled instant explicitly; nothing here reads the
// wall clock.
package gate

import (
	"fmt"
	"sync/atomic"
	"time"
)

const (
	millisPerDay    = 24 * 60 * 60 * 1000
	millisPerHour   = 60 * 60 * 1000
	millisPerMinute = 60 * 1000
	millisPerSecond = 1000
)

// State is the derived visibility of one gated entity at one instant.
type State struct {
	Locked      bool   `json:"locked"`
	DisplayText string `json:"display_text"`
}

// Countdown is the time remaining until a target, floor-decomposed.
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// String renders the countdown as "1d 02h 03m 04s".
func (countdown Countdown) String() string {
	return fmt.Sprintf("%dd %02dh %02dm %02ds", countdown.Days, countdown.Hours, countdown.Minutes, countdown.Seconds)
}

// Usable reports whether now is a clock reading the engine can compare
// against. The zero instant stands for an unavailable clock.
func Usable(now time.Time) bool {
	return !now.IsZero()
}

// IsLocked reports whether now is strictly before target. An unusable
// reading is always locked.
func IsLocked(now, target time.Time) bool {
	if !Usable(now) {
		return true
	}
	return now.Before(target)
}

// CountdownTo returns the remaining time until target. ok is false once
// now has reached target; callers treat that as permanently unlocked.
// An unusable reading stays locked with a zero countdown.
func CountdownTo(now, target time.Time) (countdown Countdown, ok bool) {
	if !Usable(now) {
		return Countdown{}, true
	}
	if !now.Before(target) {
		return Countdown{}, false
	}

	diff := target.Sub(now).Milliseconds()
	return Countdown{
		Days:    int(diff / millisPerDay),
		Hours:   int((diff % millisPerDay) / millisPerHour),
		Minutes: int((diff % millisPerHour) / millisPerMinute),
		Seconds: int((diff % millisPerMinute) / millisPerSecond),
	}, true
}

// Evaluate derives the State of target at now.
func Evaluate(now, target time.Time) State {
	return State{
		Locked:      IsLocked(now, target),
		DisplayText: FormatInstant(target),
	}
}

// Gate latches a single target. Once an observation finds it unlocked it
// never reports locked again, even if a later reading goes backwards.
type Gate struct {
	name     string
	target   time.Time
	unlocked atomic.Bool
}

// New creates a gate for target.
func New(name string, target time.Time) *Gate {
	return &Gate{name: name, target: target}
}

// Name returns the gate name.
func (g *Gate) Name() string {
	return g.name
}

// Target returns the unlock instant.
func (g *Gate) Target() time.Time {
	return g.target
}

// Unlocked reports whether the gate has latched open.
func (g *Gate) Unlocked() bool {
	return g.unlocked.Load()
}

// Observe evaluates the gate at now. transitioned is true for exactly
// one call over the gate's lifetime: the one that latched it open.
func (g *Gate) Observe(now time.Time) (state State, transitioned bool) {
	state = Evaluate(now, g.target)
	if g.unlocked.Load() {
		state.Locked = false
		return state, false
	}
	if state.Locked {
		return state, false
	}
	return state, g.unlocked.CompareAndSwap(false, true)
}

// Countdown returns the remaining time at now, latching the gate open
// when the countdown runs out.
func (g *Gate) Countdown(now time.Time) (countdown Countdown, ok bool) {
	if g.unlocked.Load() {
		return Countdown{}, false
	}
	countdown, ok = CountdownTo(now, g.target)
	if !ok {
		g.unlocked.Store(true)
	}
	return countdown, ok
}
