package timekeeper

import (
	"time"

	"greenx/internal/core/gate"
)

// State is the visibility of a gated entity.
type State string

const (
	StateLocked   State = "locked"
	StateUnlocked State = "unlocked"
)

// EventType defines the type of TimeKeeper event.
type EventType string

const (
	EventTimeline  EventType = "timeline"
	EventCountdown EventType = "countdown"
	EventUnlock    EventType = "unlock"
)

// Entry is the derived state of one timeline milestone.
type Entry struct {
	Title       string    `json:"title"`
	Target      time.Time `json:"target"`
	Deliverable string    `json:"deliverable"`
	Note        string    `json:"note,omitempty"`
	gate.State
}

// FlagStatus is the derived state of the feature flag.
type FlagStatus struct {
	Name        string         `json:"name"`
	Target      time.Time      `json:"target"`
	DisplayText string         `json:"display_text"`
	Unlocked    bool           `json:"unlocked"`
	Countdown   gate.Countdown `json:"countdown"`
}

// Snapshot is every gate state at one sampled instant.
type Snapshot struct {
	At       time.Time  `json:"at"`
	Flag     FlagStatus `json:"flag"`
	Timeline []Entry    `json:"timeline"`
}

// Event represents a TimeKeeper update for observers.
type Event struct {
	Type     EventType `json:"type"`
	Gate     string    `json:"gate,omitempty"`
	State    State     `json:"state,omitempty"`
	Snapshot Snapshot  `json:"snapshot"`
	At       time.Time `json:"at"`
}
