package animation

import "time"

// DefaultConfig holds the splash for three seconds, then fades it out
// over 600ms while shrinking it to 95%.
func DefaultConfig() Config {
	return Config{
		HoldDuration:  3 * time.Second,
		FadeDuration:  600 * time.Millisecond,
		FrameInterval: 40 * time.Millisecond,
		FinalScale:    0.95,
	}
}
