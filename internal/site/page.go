// Package site turns the static event configuration and a gate snapshot
// into the view every host renders. Locked content is dropped here, so a
// host cannot show a problem statement by mistake.
package site

import (
	"fmt"
	"html/template"
	"time"

	"greenx/internal/core/gate"
	"greenx/internal/core/model"
	"greenx/internal/core/timekeeper"
)

// FlagView is the feature-flag section of the page.
type FlagView struct {
	Name          string         `json:"name"`
	Caption       string         `json:"caption"`
	DisplayText   string         `json:"display_text"`
	Unlocked      bool           `json:"unlocked"`
	Countdown     gate.Countdown `json:"countdown"`
	CountdownText string         `json:"countdown_text"`
}

// ProblemView is a revealed problem statement.
type ProblemView struct {
	ID          int           `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Details     template.HTML `json:"details"`
	Markdown    string        `json:"-"`
	Tags        []string      `json:"tags"`
	Accent      string        `json:"accent"`
}

// TimelineView is one milestone as displayed.
type TimelineView struct {
	Title       string `json:"title"`
	Deliverable string `json:"deliverable"`
	Note        string `json:"note,omitempty"`
	DisplayText string `json:"display_text"`
	Locked      bool   `json:"locked"`
	Badge       string `json:"badge,omitempty"`
}

// LinkView is an outbound link; Enabled is false while its gate is shut.
type LinkView struct {
	Label   string `json:"label"`
	URL     string `json:"url,omitempty"`
	Caption string `json:"caption,omitempty"`
	Enabled bool   `json:"enabled"`
}

// ContactView is an organizer card.
type ContactView struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Initials string `json:"initials"`
}

// Page is everything a host needs to draw the event page at one instant.
type Page struct {
	At                   time.Time      `json:"at"`
	Name                 string         `json:"name"`
	Club                 string         `json:"club"`
	Institute            string         `json:"institute"`
	Festival             string         `json:"festival"`
	Tagline              string         `json:"tagline"`
	Summary              string         `json:"summary"`
	Stats                []model.Stat   `json:"stats"`
	Registration         LinkView       `json:"registration"`
	RegistrationDeadline string         `json:"registration_deadline"`
	Flag                 FlagView       `json:"flag"`
	ProblemCount         int            `json:"problem_count"`
	Problems             []ProblemView  `json:"problems"`
	Timeline             []TimelineView `json:"timeline"`
	Submissions          []LinkView     `json:"submissions"`
	Contacts             []ContactView  `json:"contacts"`
	Social               []LinkView     `json:"social"`
}

// Build derives the page from the site and a snapshot. Problems are nil
// and submission links carry no URL until the flag has unlocked.
func Build(site model.Site, snapshot timekeeper.Snapshot) (Page, error) {
	unlocked := snapshot.Flag.Unlocked

	page := Page{
		At:                   snapshot.At,
		Name:                 site.Name,
		Club:                 site.Club,
		Institute:            site.Institute,
		Festival:             site.Festival,
		Tagline:              site.Tagline,
		Summary:              site.Summary,
		Stats:                site.Stats,
		Registration:         enabledLink(site.Registration),
		RegistrationDeadline: site.RegistrationDeadline,
		Flag: FlagView{
			Name:          snapshot.Flag.Name,
			Caption:       site.Schedule.Flag.Caption,
			DisplayText:   snapshot.Flag.DisplayText,
			Unlocked:      unlocked,
			Countdown:     snapshot.Flag.Countdown,
			CountdownText: snapshot.Flag.Countdown.String(),
		},
		ProblemCount: len(site.Problems),
	}

	if unlocked {
		for _, problem := range site.Problems {
			details, err := RenderMarkdown(problem.Details)
			if err != nil {
				return Page{}, fmt.Errorf("problem %d: %w", problem.ID, err)
			}
			page.Problems = append(page.Problems, ProblemView{
				ID:          problem.ID,
				Title:       problem.Title,
				Description: problem.Description,
				Details:     details,
				Markdown:    problem.Details,
				Tags:        problem.Tags,
				Accent:      problem.Accent,
			})
		}
	}

	for _, entry := range snapshot.Timeline {
		page.Timeline = append(page.Timeline, TimelineView{
			Title:       entry.Title,
			Deliverable: entry.Deliverable,
			Note:        entry.Note,
			DisplayText: entry.DisplayText,
			Locked:      entry.Locked,
			Badge:       Badge(entry.State),
		})
	}

	for _, link := range site.Submissions {
		view := LinkView{Label: link.Label, Caption: link.Caption}
		if unlocked {
			view.URL = link.URL
			view.Enabled = true
		}
		page.Submissions = append(page.Submissions, view)
	}

	for _, contact := range site.Contacts {
		page.Contacts = append(page.Contacts, ContactView{
			Name:     contact.Name,
			Role:     contact.Role,
			Phone:    contact.Phone,
			Initials: contact.Initials(),
		})
	}
	for _, link := range site.Social {
		page.Social = append(page.Social, enabledLink(link))
	}

	return page, nil
}

// Problem returns the revealed problem with id.
func (page Page) Problem(id int) (ProblemView, bool) {
	for _, problem := range page.Problems {
		if problem.ID == id {
			return problem, true
		}
	}
	return ProblemView{}, false
}

// Badge is the lock label laid over a milestone. Unlocked milestones
// have none.
func Badge(state gate.State) string {
	if !state.Locked {
		return ""
	}
	return "Unlocks " + state.DisplayText
}

func enabledLink(link model.Link) LinkView {
	return LinkView{
		Label:   link.Label,
		URL:     link.URL,
		Caption: link.Caption,
		Enabled: link.URL != "",
	}
}
