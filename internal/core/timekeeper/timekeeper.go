package timekeeper

import (
	"log/slog"
	"sync"
	"time"

	"greenx/internal/core/clock"
	"greenx/internal/core/gate"
	"greenx/internal/core/model"
)

// Config contains runtime options for TimeKeeper.
type Config struct {
	Clock  clock.Clock
	Logger *slog.Logger
}

// TimeKeeper samples the clock on two tickers and publishes gate states.
// The timeline refreshes on TimelineInterval; the feature-flag countdown
// refreshes on CountdownInterval and stops for good once the flag opens.
type TimeKeeper struct {
	mu       sync.Mutex
	config   model.TimeKeeperConfig
	options  Config
	schedule model.Schedule
	flag     *gate.Gate
	timeline []*gate.Gate
	last     Snapshot
	events   []chan Event
	stopCh   chan struct{}
	running  bool
	loops    sync.WaitGroup
}

// New creates a TimeKeeper for the schedule.
func New(schedule model.Schedule, config model.TimeKeeperConfig, options Config) *TimeKeeper {
	defaults := model.DefaultTimeKeeperConfig()
	if config.TimelineInterval <= 0 {
		config.TimelineInterval = defaults.TimelineInterval
	}
	if config.CountdownInterval <= 0 {
		config.CountdownInterval = defaults.CountdownInterval
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	timeline := make([]*gate.Gate, len(schedule.Timeline))
	for i, event := range schedule.Timeline {
		timeline[i] = gate.New(event.Title, event.Target)
	}

	return &TimeKeeper{
		config:   config,
		options:  options,
		schedule: schedule,
		flag:     gate.New(schedule.Flag.Name, schedule.Flag.Target),
		timeline: timeline,
	}
}

// Subscribe registers a new observer channel. Sends never block; an
// observer that falls behind misses events.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	keeper.events = append(keeper.events, ch)
	keeper.mu.Unlock()
	return ch
}

// Start takes the first sample, publishes it, and launches the refresh
// loops. The countdown loop is skipped when the flag is already open.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.running {
		return
	}
	keeper.running = true
	keeper.stopCh = make(chan struct{})

	now := keeper.options.Clock.Now()
	keeper.refreshTimelineLocked(now, false)
	keeper.refreshFlagLocked(now, false)
	keeper.last.At = now
	keeper.emitLocked(Event{Type: EventTimeline, Snapshot: keeper.copyLastLocked(), At: now})
	keeper.emitLocked(Event{Type: EventCountdown, Snapshot: keeper.copyLastLocked(), At: now})

	timelineTicker := keeper.options.Clock.NewTicker(keeper.config.TimelineInterval)
	keeper.loops.Add(1)
	go keeper.run(timelineTicker, keeper.stopCh, keeper.tickTimeline)

	if keeper.flag.Unlocked() {
		keeper.options.Logger.Info("feature flag already open", "gate", keeper.flag.Name())
		return
	}
	countdownTicker := keeper.options.Clock.NewTicker(keeper.config.CountdownInterval)
	keeper.loops.Add(1)
	go keeper.run(countdownTicker, keeper.stopCh, keeper.tickCountdown)
}

// Stop cancels the refresh loops and closes observers. It returns once
// every ticker has been released.
func (keeper *TimeKeeper) Stop() {
	keeper.mu.Lock()
	if !keeper.running {
		keeper.mu.Unlock()
		return
	}
	close(keeper.stopCh)
	keeper.running = false
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	keeper.loops.Wait()
	for _, ch := range events {
		close(ch)
	}
}

// Snapshot resamples the clock and returns every gate state.
func (keeper *TimeKeeper) Snapshot() Snapshot {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()

	now := keeper.options.Clock.Now()
	keeper.refreshTimelineLocked(now, true)
	keeper.refreshFlagLocked(now, true)
	keeper.last.At = now
	return keeper.copyLastLocked()
}

// FlagUnlocked reports whether the feature flag has latched open.
func (keeper *TimeKeeper) FlagUnlocked() bool {
	return keeper.flag.Unlocked()
}

// Schedule returns the static schedule the keeper was built from.
func (keeper *TimeKeeper) Schedule() model.Schedule {
	return keeper.schedule
}

// run drives one ticker until stop closes or tick reports it is done.
func (keeper *TimeKeeper) run(ticker clock.Ticker, stop <-chan struct{}, tick func() bool) {
	defer keeper.loops.Done()
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			if done := tick(); done {
				return
			}
		}
	}
}

func (keeper *TimeKeeper) tickTimeline() bool {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if !keeper.running {
		return true
	}

	now := keeper.options.Clock.Now()
	keeper.refreshTimelineLocked(now, true)
	keeper.refreshFlagLocked(now, true)
	keeper.last.At = now
	keeper.emitLocked(Event{Type: EventTimeline, Snapshot: keeper.copyLastLocked(), At: now})
	return false
}

// tickCountdown reports done once the flag is open, which cancels the
// countdown ticker permanently. The last countdown event always carries
// the open flag, even when a Snapshot call latched it first.
func (keeper *TimeKeeper) tickCountdown() bool {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if !keeper.running {
		return true
	}

	now := keeper.options.Clock.Now()
	keeper.refreshFlagLocked(now, true)
	keeper.last.At = now
	keeper.emitLocked(Event{Type: EventCountdown, Snapshot: keeper.copyLastLocked(), At: now})
	return keeper.flag.Unlocked()
}

func (keeper *TimeKeeper) refreshTimelineLocked(now time.Time, announce bool) {
	entries := make([]Entry, len(keeper.timeline))
	for i, g := range keeper.timeline {
		event := keeper.schedule.Timeline[i]
		state, transitioned := g.Observe(now)
		entries[i] = Entry{
			Title:       event.Title,
			Target:      event.Target,
			Deliverable: event.Deliverable,
			Note:        event.Note,
			State:       state,
		}
		if transitioned && announce {
			keeper.announceUnlockLocked(g, now)
		}
	}
	keeper.last.Timeline = entries
}

func (keeper *TimeKeeper) refreshFlagLocked(now time.Time, announce bool) {
	wasUnlocked := keeper.flag.Unlocked()
	countdown, locked := keeper.flag.Countdown(now)
	keeper.last.Flag = FlagStatus{
		Name:        keeper.flag.Name(),
		Target:      keeper.flag.Target(),
		DisplayText: gate.FormatInstant(keeper.flag.Target()),
		Unlocked:    !locked,
		Countdown:   countdown,
	}
	if !wasUnlocked && !locked && announce {
		keeper.announceUnlockLocked(keeper.flag, now)
	}
}

func (keeper *TimeKeeper) announceUnlockLocked(g *gate.Gate, now time.Time) {
	keeper.options.Logger.Info("gate unlocked",
		"gate", g.Name(),
		"target", g.Target().Format(time.RFC3339),
		"observed_at", now.Format(time.RFC3339),
	)
	keeper.emitLocked(Event{
		Type:  EventUnlock,
		Gate:  g.Name(),
		State: StateUnlocked,
		At:    now,
	})
}

func (keeper *TimeKeeper) copyLastLocked() Snapshot {
	snapshot := keeper.last
	snapshot.Timeline = append([]Entry(nil), keeper.last.Timeline...)
	return snapshot
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}
