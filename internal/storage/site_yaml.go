package storage

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"greenx/internal/core/model"
	"greenx/resources"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSchedule indicates the site configuration cannot drive the
// gate engine.
var ErrInvalidSchedule = errors.New("invalid schedule")

type yamlLink struct {
	Label   string `yaml:"label"`
	URL     string `yaml:"url"`
	Caption string `yaml:"caption"`
}

type yamlFlag struct {
	Name    string `yaml:"name"`
	Target  string `yaml:"target"`
	Caption string `yaml:"caption"`
}

type yamlEvent struct {
	Title       string `yaml:"title"`
	Target      string `yaml:"target"`
	Deliverable string `yaml:"deliverable"`
	Note        string `yaml:"note"`
}

type yamlProblem struct {
	ID          int      `yaml:"id"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Details     string   `yaml:"details"`
	Tags        []string `yaml:"tags"`
	Accent      string   `yaml:"accent"`
}

type yamlSite struct {
	Name                 string        `yaml:"name"`
	Club                 string        `yaml:"club"`
	Institute            string        `yaml:"institute"`
	Festival             string        `yaml:"festival"`
	Tagline              string        `yaml:"tagline"`
	Summary              string        `yaml:"summary"`
	Stats                []model.Stat  `yaml:"stats"`
	Registration         yamlLink      `yaml:"registration"`
	RegistrationDeadline string        `yaml:"registration_deadline"`
	Flag                 yamlFlag      `yaml:"flag"`
	Timeline             []yamlEvent   `yaml:"timeline"`
	Problems             []yamlProblem `yaml:"problems"`
	Submissions          []yamlLink    `yaml:"submissions"`
	Contacts             []struct {
		Name  string `yaml:"name"`
		Role  string `yaml:"role"`
		Phone string `yaml:"phone"`
	} `yaml:"contacts"`
	Social []yamlLink `yaml:"social"`
}

// DefaultSite parses the compiled-in site configuration.
func DefaultSite() (model.Site, error) {
	return LoadSite(resources.SiteYAML())
}

// LoadSiteFile reads a site configuration from path. An empty path
// selects the compiled-in configuration.
func LoadSiteFile(path string) (model.Site, error) {
	if path == "" {
		return DefaultSite()
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		return model.Site{}, fmt.Errorf("read site file: %w", err)
	}
	return LoadSite(rawData)
}

// LoadSite parses and validates a site configuration document.
func LoadSite(rawData []byte) (model.Site, error) {
	var fileData yamlSite
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return model.Site{}, fmt.Errorf("parse site yaml: %w", err)
	}

	flagTarget, err := parseTarget("flag", fileData.Flag.Target)
	if err != nil {
		return model.Site{}, err
	}
	flagName := strings.TrimSpace(fileData.Flag.Name)
	if flagName == "" {
		flagName = "problems"
	}

	site := model.Site{
		Name:                 fileData.Name,
		Club:                 fileData.Club,
		Institute:            fileData.Institute,
		Festival:             fileData.Festival,
		Tagline:              fileData.Tagline,
		Summary:              strings.TrimSpace(fileData.Summary),
		Stats:                fileData.Stats,
		Registration:         model.Link(fileData.Registration),
		RegistrationDeadline: fileData.RegistrationDeadline,
		Schedule: model.Schedule{
			Flag: model.FeatureFlag{
				Name:    flagName,
				Target:  flagTarget,
				Caption: fileData.Flag.Caption,
			},
		},
	}

	for i, event := range fileData.Timeline {
		title := strings.TrimSpace(event.Title)
		if title == "" {
			return model.Site{}, fmt.Errorf("%w: timeline entry %d has no title", ErrInvalidSchedule, i)
		}
		target, err := parseTarget(title, event.Target)
		if err != nil {
			return model.Site{}, err
		}
		site.Schedule.Timeline = append(site.Schedule.Timeline, model.GatedEvent{
			Title:       title,
			Target:      target,
			Deliverable: event.Deliverable,
			Note:        event.Note,
		})
	}

	seen := make(map[int]bool, len(fileData.Problems))
	for _, problem := range fileData.Problems {
		if seen[problem.ID] {
			return model.Site{}, fmt.Errorf("%w: duplicate problem id %d", ErrInvalidSchedule, problem.ID)
		}
		seen[problem.ID] = true
		site.Problems = append(site.Problems, model.Problem{
			ID:          problem.ID,
			Title:       problem.Title,
			Description: strings.TrimSpace(problem.Description),
			Details:     problem.Details,
			Tags:        problem.Tags,
			Accent:      problem.Accent,
		})
	}

	for _, link := range fileData.Submissions {
		site.Submissions = append(site.Submissions, model.Link(link))
	}
	for _, contact := range fileData.Contacts {
		site.Contacts = append(site.Contacts, model.Contact{
			Name:  contact.Name,
			Role:  contact.Role,
			Phone: contact.Phone,
		})
	}
	for _, link := range fileData.Social {
		site.Social = append(site.Social, model.Link(link))
	}

	return site, nil
}

// parseTarget requires an explicit offset so a deadline never depends on
// the host's local zone.
func parseTarget(owner, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %s has no target", ErrInvalidSchedule, owner)
	}
	target, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s target %q: %v", ErrInvalidSchedule, owner, value, err)
	}
	return target, nil
}
