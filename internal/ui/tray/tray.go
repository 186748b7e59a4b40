package tray

import (
	"fmt"

	"greenx/internal/site"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowBoard   func()
	OnSubmission  func(index int)
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app             desktop.App
	title           string
	statusItem      *fyne.MenuItem
	submissionItems []*fyne.MenuItem
	callbacks       Callbacks
	statusLabel     string
}

// New creates a tray manager. submissions are the labels of the
// submission links, disabled until SetSubmissionsOpen(true).
func New(app desktop.App, title string, submissions []string, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		title:     title,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	for i, label := range submissions {
		index := i
		item := fyne.NewMenuItem(label, func() {
			if manager.callbacks.OnSubmission != nil {
				manager.callbacks.OnSubmission(index)
			}
		})
		item.Disabled = true
		manager.submissionItems = append(manager.submissionItems, item)
	}

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status label.
func (manager *Manager) SetStatus(status string) {
	if status == manager.statusLabel {
		return
	}
	manager.statusLabel = status
	manager.statusItem.Label = fmt.Sprintf("Status: %s", status)
	manager.refreshMenu()
}

// SetSubmissionsOpen enables or disables the submission links.
func (manager *Manager) SetSubmissionsOpen(open bool) {
	changed := false
	for _, item := range manager.submissionItems {
		if item.Disabled == open {
			item.Disabled = !open
			changed = true
		}
	}
	if changed {
		manager.refreshMenu()
	}
}

// Update applies a page to the tray status and links.
func (manager *Manager) Update(page site.Page) {
	manager.SetStatus(StatusText(page))
	manager.SetSubmissionsOpen(page.Flag.Unlocked)
}

// StatusText is the one-line tray summary of the feature flag.
func StatusText(page site.Page) string {
	if page.Flag.Unlocked {
		return fmt.Sprintf("%s revealed", page.Flag.Name)
	}
	return fmt.Sprintf("%s unlock in %s", page.Flag.Name, page.Flag.CountdownText)
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}

	items := []*fyne.MenuItem{
		manager.statusItem,
		fyne.NewMenuItem("Show board", func() {
			if manager.callbacks.OnShowBoard != nil {
				manager.callbacks.OnShowBoard()
			}
		}),
		fyne.NewMenuItemSeparator(),
	}
	items = append(items, manager.submissionItems...)
	items = append(items,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	)
	manager.app.SetSystemTrayMenu(fyne.NewMenu(manager.title, items...))
}
