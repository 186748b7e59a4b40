package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenx/internal/core/model"
)

func TestDefaultSite(t *testing.T) {
	site, err := DefaultSite()
	require.NoError(t, err)

	assert.Equal(t, "GreenX Hackathon", site.Name)
	assert.Equal(t, "problems", site.Schedule.Flag.Name)
	assert.True(t, site.Schedule.Flag.Target.Equal(time.Date(2025, time.May, 28, 18, 30, 0, 0, time.UTC)))

	require.Len(t, site.Schedule.Timeline, 6)
	round1 := site.Schedule.Timeline[1]
	assert.Equal(t, "Round 1 Submissions", round1.Title)
	assert.True(t, round1.Target.Equal(time.Date(2025, time.June, 2, 18, 29, 0, 0, time.UTC)))
	assert.Equal(t, "File format: teamname_round1_greenx.*", round1.Note)

	require.Len(t, site.Problems, 3)
	assert.Equal(t, []string{"AI/ML", "IoT", "Water Quality"}, site.Problems[1].Tags)
	require.Len(t, site.Submissions, 2)
	require.Len(t, site.Contacts, 4)
	assert.Equal(t, "KD", site.Contacts[0].Initials())
	assert.Len(t, site.Social, 3)
	assert.Equal(t, "https://forms.gle/cpJdoQpAtenTg8nL9", site.Registration.URL)
}

func TestLoadSiteRejectsBadSchedules(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "missing flag target",
			doc:  "flag:\n  name: problems\n",
		},
		{
			name: "target without offset",
			doc:  "flag:\n  target: \"2025-05-29T00:00:00\"\n",
		},
		{
			name: "untitled timeline entry",
			doc:  "flag:\n  target: \"2025-05-29T00:00:00+05:30\"\ntimeline:\n  - target: \"2025-06-02T23:59:00+05:30\"\n",
		},
		{
			name: "unparseable timeline target",
			doc:  "flag:\n  target: \"2025-05-29T00:00:00+05:30\"\ntimeline:\n  - title: Round 1\n    target: tomorrow\n",
		},
		{
			name: "duplicate problem ids",
			doc:  "flag:\n  target: \"2025-05-29T00:00:00+05:30\"\nproblems:\n  - id: 1\n  - id: 1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSite([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidSchedule)
		})
	}
}

func TestLoadSiteRejectsMalformedYAML(t *testing.T) {
	_, err := LoadSite([]byte("flag: [unterminated"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidSchedule)
}

func TestLoadSiteDefaultsFlagName(t *testing.T) {
	site, err := LoadSite([]byte("flag:\n  target: \"2025-05-29T00:00:00+05:30\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "problems", site.Schedule.Flag.Name)
}

func TestLoadSiteFile(t *testing.T) {
	site, err := LoadSiteFile("")
	require.NoError(t, err)
	assert.Equal(t, "GreenX Hackathon", site.Name)

	path := filepath.Join(t.TempDir(), "site.yaml")
	doc := "name: Dry Run\nflag:\n  target: \"2025-01-01T09:00:00+05:30\"\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	site, err = LoadSiteFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Dry Run", site.Name)
	assert.Empty(t, site.Schedule.Timeline)

	_, err = LoadSiteFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()

	settings, err := LoadSettings(dir, "greenx")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultBoardSettings(), settings)

	want := model.BoardSettings{Fullscreen: true, Opacity: 0.75, Autostart: true}
	require.NoError(t, SaveSettings(dir, "greenx", want))

	got, err := LoadSettings(dir, "greenx")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSettingsClampOpacity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greenx", settingsFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("opacity: 0.1\nfullscreen: true\n"), 0o644))

	settings, err := LoadSettings(dir, "greenx")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultBoardSettings().Opacity, settings.Opacity)
	assert.True(t, settings.Fullscreen)
}

func TestSettingsParseError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greenx", settingsFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("opacity: [1"), 0o644))

	settings, err := LoadSettings(dir, "greenx")
	require.Error(t, err)
	assert.Equal(t, model.DefaultBoardSettings(), settings)
}
