package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fyne.io/fyne/v2"

	"greenx/internal/site"
)

type fakeTrayApp struct {
	menus []*fyne.Menu
}

func (app *fakeTrayApp) SetSystemTrayMenu(menu *fyne.Menu) { app.menus = append(app.menus, menu) }
func (app *fakeTrayApp) SetSystemTrayIcon(fyne.Resource) {}
func (app *fakeTrayApp) SetSystemTrayWindow(fyne.Window) {}

func (app *fakeTrayApp) last() *fyne.Menu {
	return app.menus[len(app.menus)-1]
}

func lockedPage() site.Page {
	return site.Page{Flag: site.FlagView{Name: "problems", CountdownText: "0d 03h 12m 09s"}}
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "problems unlock in 0d 03h 12m 09s", StatusText(lockedPage()))

	page := lockedPage()
	page.Flag.Unlocked = true
	assert.Equal(t, "problems revealed", StatusText(page))
}

func TestSubmissionsOpenOnUnlock(t *testing.T) {
	app := &fakeTrayApp{}
	var opened []int
	manager := New(app, "GreenX", []string{"Round 1", "Round 2"}, Callbacks{
		OnSubmission: func(index int) { opened = append(opened, index) },
	})

	require.NotEmpty(t, app.menus)
	menu := app.last()
	assert.Equal(t, "GreenX", menu.Label)
	require.Len(t, manager.submissionItems, 2)
	for _, item := range manager.submissionItems {
		assert.True(t, item.Disabled)
	}

	manager.Update(lockedPage())
	assert.Equal(t, "Status: problems unlock in 0d 03h 12m 09s", manager.statusItem.Label)

	page := lockedPage()
	page.Flag.Unlocked = true
	manager.Update(page)
	assert.Equal(t, "Status: problems revealed", manager.statusItem.Label)
	for _, item := range manager.submissionItems {
		assert.False(t, item.Disabled)
	}

	manager.submissionItems[1].Action()
	assert.Equal(t, []int{1}, opened)
}

func TestUnchangedStatusDoesNotRebuildMenu(t *testing.T) {
	app := &fakeTrayApp{}
	manager := New(app, "GreenX", nil, Callbacks{})

	manager.Update(lockedPage())
	count := len(app.menus)
	manager.Update(lockedPage())
	assert.Len(t, app.menus, count)
}
