package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"greenx/internal/core/clock"
	"greenx/internal/core/model"
	"greenx/internal/core/timekeeper"
	"greenx/internal/storage"
)

var (
	statusAt       string
	statusSiteFile string
	statusJSON     bool
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34"))
	lockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	unlockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	nameStyle     = lipgloss.NewStyle().Width(34)
	stateStyle    = lipgloss.NewStyle().Width(10)
	whenStyle     = lipgloss.NewStyle().Width(26)
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of every gate",
	Long: "status evaluates every gate once and prints the result. --at evaluates\n" +
		"the schedule at a fixed RFC 3339 instant instead of now.",
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now
		if statusAt != "" {
			at, err := time.Parse(time.RFC3339, statusAt)
			if err != nil {
				return fmt.Errorf("--at: %w", err)
			}
			now = func() time.Time { return at }
		}

		site, err := storage.LoadSiteFile(statusSiteFile)
		if err != nil {
			return err
		}

		snapshot := evaluate(site, clock.Func(now))
		if statusJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(snapshot)
		}
		renderStatus(cmd.OutOrStdout(), site, snapshot)
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusAt, "at", "", "evaluate at this RFC 3339 instant")
	statusCmd.Flags().StringVar(&statusSiteFile, "site", "", "site YAML file (default: compiled-in)")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
}

func evaluate(site model.Site, source clock.Clock) timekeeper.Snapshot {
	keeper := timekeeper.New(site.Schedule, model.DefaultTimeKeeperConfig(), timekeeper.Config{
		Clock:  source,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return keeper.Snapshot()
}

func renderStatus(w io.Writer, site model.Site, snapshot timekeeper.Snapshot) {
	var b strings.Builder

	b.WriteString(titleStyle.Render(site.Name))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("evaluated at " + snapshot.At.Format(time.RFC3339)))
	b.WriteString("\n\n")

	flag := snapshot.Flag
	if flag.Unlocked {
		b.WriteString(unlockedStyle.Render(flag.Name + " revealed"))
	} else {
		b.WriteString(lockedStyle.Render(flag.Name + " unlock in " + flag.Countdown.String()))
	}
	b.WriteString(mutedStyle.Render(" (" + flag.DisplayText + " IST)"))
	b.WriteString("\n\n")

	for _, entry := range snapshot.Timeline {
		state := unlockedStyle.Render(stateStyle.Render("open"))
		if entry.Locked {
			state = lockedStyle.Render(stateStyle.Render("locked"))
		}
		b.WriteString(nameStyle.Render(entry.Title))
		b.WriteString(state)
		b.WriteString(whenStyle.Render(entry.DisplayText))
		b.WriteString(mutedStyle.Render(relative(entry.Target, snapshot.At)))
		b.WriteString("\n")
	}

	fmt.Fprint(w, b.String())
}

func relative(target, now time.Time) string {
	if now.IsZero() {
		return "clock unavailable"
	}
	return humanize.RelTime(target, now, "ago", "from now")
}
