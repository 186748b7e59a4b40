package animation

import (
	"context"
	"sync"
	"time"

	"greenx/internal/core/clock"
)

// Config contains splash timing values.
type Config struct {
	HoldDuration  time.Duration
	FadeDuration  time.Duration
	FrameInterval time.Duration
	FinalScale    float64
}

// Frame is the splash appearance at one instant.
type Frame struct {
	Opacity float64
	Scale   float64
}

// FrameAt returns the splash frame elapsed after it appeared.
func (config Config) FrameAt(elapsed time.Duration) Frame {
	if elapsed < config.HoldDuration {
		return Frame{Opacity: 1, Scale: 1}
	}
	faded := elapsed - config.HoldDuration
	if config.FadeDuration <= 0 || faded >= config.FadeDuration {
		return Frame{Opacity: 0, Scale: config.FinalScale}
	}
	progress := float64(faded) / float64(config.FadeDuration)
	return Frame{
		Opacity: 1 - progress,
		Scale:   1 - progress*(1-config.FinalScale),
	}
}

// Total is the time from the splash appearing to it being gone.
func (config Config) Total() time.Duration {
	return config.HoldDuration + config.FadeDuration
}

// Engine drives the loading splash shown before the board.
type Engine struct {
	mu          sync.Mutex
	config      Config
	clock       clock.Clock
	updateFrame func(Frame)
	cancel      context.CancelFunc
}

// New creates a new splash engine. updateFrame is called from the
// engine's goroutine whenever the frame changes.
func New(config Config, source clock.Clock, updateFrame func(Frame)) *Engine {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultConfig().FrameInterval
	}
	if source == nil {
		source = clock.Real()
	}
	return &Engine{
		config:      config,
		clock:       source,
		updateFrame: updateFrame,
	}
}

// StartSplash shows the splash, fades it out and then calls onDone. A
// cancelled or replaced splash never calls onDone.
func (engine *Engine) StartSplash(ctx context.Context, onDone func()) {
	engine.start(ctx, func(runCtx context.Context) {
		if engine.run(runCtx) && onDone != nil {
			onDone()
		}
	})
}

// Stop terminates any active splash.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(parent)
	engine.cancel = cancel
	engine.mu.Unlock()

	go run(runCtx)
}

// run reports whether the splash played to the end.
func (engine *Engine) run(ctx context.Context) bool {
	started := engine.clock.Now()
	current := engine.config.FrameAt(0)
	engine.updateFrame(current)

	ticker := engine.clock.NewTicker(engine.config.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.Chan():
			elapsed := engine.clock.Now().Sub(started)
			frame := engine.config.FrameAt(elapsed)
			if frame != current {
				current = frame
				engine.updateFrame(frame)
			}
			if elapsed >= engine.config.Total() {
				return true
			}
		}
	}
}
