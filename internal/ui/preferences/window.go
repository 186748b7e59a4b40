package preferences

import (
	"fmt"

	"greenx/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const (
	minOpacity = 0.5
	maxOpacity = 1.0
)

// Window handles the preferences UI.
type Window struct {
	window       fyne.Window
	settings     model.BoardSettings
	onSave       func(model.BoardSettings)
	onCancel     func()
	opacity      *widget.Slider
	opacityLabel *widget.Label
	fullscreen   *widget.Check
	autostart    *widget.Check
	saveButton   *widget.Button
}

// New creates a preferences window.
func New(app fyne.App, title string, settings model.BoardSettings, onSave func(model.BoardSettings)) *Window {
	window := app.NewWindow(title + " Settings")

	opacityLabel := widget.NewLabel(formatOpacity(settings.Opacity))
	opacity := widget.NewSlider(minOpacity, maxOpacity)
	opacity.Step = 0.01
	opacity.Value = clampOpacity(settings.Opacity)
	opacity.OnChanged = func(value float64) {
		opacityLabel.SetText(formatOpacity(value))
	}

	fullscreen := widget.NewCheck("Fullscreen board", nil)
	fullscreen.SetChecked(settings.Fullscreen)

	autostart := widget.NewCheck("Start board at login", nil)
	autostart.SetChecked(settings.Autostart)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Board", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Background opacity"), layout.NewSpacer(), opacityLabel),
		opacity,
		fullscreen,
		autostart,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(380, 260))

	prefs := &Window{
		window:       window,
		settings:     settings,
		onSave:       onSave,
		opacity:      opacity,
		opacityLabel: opacityLabel,
		fullscreen:   fullscreen,
		autostart:    autostart,
		saveButton:   saveButton,
	}

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		window.Hide()
		prefs.UpdateSettings(prefs.settings)
		if prefs.onCancel != nil {
			prefs.onCancel()
		}
	}
	window.SetCloseIntercept(cancelButton.OnTapped)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// SetOnCancel sets a handler fired when edits are discarded.
func (prefs *Window) SetOnCancel(handler func()) {
	prefs.onCancel = handler
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.BoardSettings) {
	prefs.settings = settings
	prefs.opacity.SetValue(clampOpacity(settings.Opacity))
	prefs.opacityLabel.SetText(formatOpacity(settings.Opacity))
	prefs.fullscreen.SetChecked(settings.Fullscreen)
	prefs.autostart.SetChecked(settings.Autostart)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings
	settings.Opacity = clampOpacity(prefs.opacity.Value)
	settings.Fullscreen = prefs.fullscreen.Checked
	settings.Autostart = prefs.autostart.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func clampOpacity(value float64) float64 {
	if value < minOpacity {
		return minOpacity
	}
	if value > maxOpacity {
		return maxOpacity
	}
	return value
}

func formatOpacity(value float64) string {
	return fmt.Sprintf("%d%%", int(clampOpacity(value)*100+0.5))
}
