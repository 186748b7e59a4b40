package model

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// GatedEvent is one dated milestone on the timeline.
type GatedEvent struct {
	Title       string
	Target      time.Time
	Deliverable string
	Note        string
}

// FeatureFlag is the single top-level gate that reveals the problem
// statements and opens the submission links.
type FeatureFlag struct {
	Name    string
	Target  time.Time
	Caption string
}

// Schedule is the static input of the gate engine.
type Schedule struct {
	Flag     FeatureFlag
	Timeline []GatedEvent
}

// TimeKeeperConfig contains refresh settings for the gate loop.
type TimeKeeperConfig struct {
	TimelineInterval  time.Duration
	CountdownInterval time.Duration
}

// DefaultTimeKeeperConfig refreshes the timeline every minute and the
// countdown every second.
func DefaultTimeKeeperConfig() TimeKeeperConfig {
	return TimeKeeperConfig{
		TimelineInterval:  time.Minute,
		CountdownInterval: time.Second,
	}
}

// Problem is a problem statement card.
type Problem struct {
	ID          int
	Title       string
	Description string
	Details     string
	Tags        []string
	Accent      string
}

// Link is an external link handed to the host's navigation facility.
type Link struct {
	Label   string
	URL     string
	Caption string
}

// Contact is an organizer card.
type Contact struct {
	Name  string
	Role  string
	Phone string
}

// Initials returns the first letter of every word in the contact name.
func (contact Contact) Initials() string {
	var builder strings.Builder
	for _, word := range strings.Fields(contact.Name) {
		first, _ := utf8.DecodeRuneInString(word)
		builder.WriteRune(unicode.ToUpper(first))
	}
	return builder.String()
}

// Stat is a hero section figure.
type Stat struct {
	Label string
	Value string
}

// Site is the full static configuration of the event page.
type Site struct {
	Name                 string
	Club                 string
	Institute            string
	Festival             string
	Tagline              string
	Summary              string
	Stats                []Stat
	Registration         Link
	RegistrationDeadline string
	Schedule             Schedule
	Problems             []Problem
	Submissions          []Link
	Contacts             []Contact
	Social               []Link
}

// BoardSettings are the editable preferences of the countdown board.
type BoardSettings struct {
	Fullscreen bool
	Opacity    float64
	Autostart  bool
}

// DefaultBoardSettings returns the board defaults.
func DefaultBoardSettings() BoardSettings {
	return BoardSettings{
		Fullscreen: false,
		Opacity:    0.9,
		Autostart:  false,
	}
}
