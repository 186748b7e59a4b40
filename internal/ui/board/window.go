package board

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"greenx/internal/site"
	"greenx/internal/ui/animation"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// Config defines board visuals.
type Config struct {
	Opacity    uint8
	Fullscreen bool
}

// Window is the countdown board shown on the event hall display.
type Window struct {
	app            fyne.App
	window         fyne.Window
	config         Config
	background     *canvas.Rectangle
	splash         *fyne.Container
	splashLogo     *canvas.Image
	splashTitle    *canvas.Text
	splashTagline  *canvas.Text
	board          *fyne.Container
	festivalLabel  *canvas.Text
	countdownLabel *canvas.Text
	flagLabel      *canvas.Text
	problems       *fyne.Container
	timeline       *fyne.Container
	engine         *animation.Engine
	cancelCtx      context.CancelFunc
	revealed       bool
	onBoardShown   func()
}

var (
	titleColor    = color.NRGBA{R: 22, G: 101, B: 52, A: 255}
	accentColor   = color.NRGBA{R: 217, G: 119, B: 6, A: 255}
	lockedColor   = color.NRGBA{R: 220, G: 38, B: 38, A: 255}
	mutedColor    = color.NRGBA{R: 21, G: 128, B: 61, A: 200}
	splashSize    = float32(160)
	defaultWidth  = float32(1280)
	defaultHeight = float32(800)
)

// New creates the board window. Nothing is visible until ShowSplash.
func New(app fyne.App, title, tagline, festival string, logo fyne.Resource, config Config) *Window {
	window := app.NewWindow(title)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{R: 240, G: 253, B: 244, A: config.Opacity})

	splashLogo := canvas.NewImageFromResource(logo)
	splashLogo.FillMode = canvas.ImageFillContain
	splashLogo.SetMinSize(fyne.NewSize(splashSize, splashSize))

	splashTitle := canvas.NewText(title, titleColor)
	splashTitle.Alignment = fyne.TextAlignCenter
	splashTitle.TextStyle = fyne.TextStyle{Bold: true}
	splashTitle.TextSize = 42

	splashTagline := canvas.NewText(tagline, mutedColor)
	splashTagline.Alignment = fyne.TextAlignCenter
	splashTagline.TextSize = 18

	splash := container.NewCenter(container.NewVBox(
		container.NewCenter(splashLogo),
		splashTitle,
		splashTagline,
	))

	festivalLabel := canvas.NewText(festival, mutedColor)
	festivalLabel.Alignment = fyne.TextAlignCenter
	festivalLabel.TextSize = 16

	heading := canvas.NewText(title, titleColor)
	heading.Alignment = fyne.TextAlignCenter
	heading.TextStyle = fyne.TextStyle{Bold: true}
	heading.TextSize = 36

	countdownLabel := canvas.NewText("--d --h --m --s", accentColor)
	countdownLabel.Alignment = fyne.TextAlignCenter
	countdownLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	countdownLabel.TextSize = 64

	flagLabel := canvas.NewText("", lockedColor)
	flagLabel.Alignment = fyne.TextAlignCenter
	flagLabel.TextSize = 18

	problems := container.NewVBox()
	timeline := container.NewVBox()

	header := container.NewVBox(festivalLabel, heading, countdownLabel, flagLabel)
	columns := container.NewGridWithColumns(2,
		container.NewVScroll(problems),
		container.NewVScroll(timeline),
	)
	board := container.NewBorder(header, nil, nil, nil, columns)
	board.Hide()

	window.SetContent(container.NewStack(background, splash, board))

	boardWindow := &Window{
		app:            app,
		window:         window,
		config:         config,
		background:     background,
		splash:         splash,
		splashLogo:     splashLogo,
		splashTitle:    splashTitle,
		splashTagline:  splashTagline,
		board:          board,
		festivalLabel:  festivalLabel,
		countdownLabel: countdownLabel,
		flagLabel:      flagLabel,
		problems:       problems,
		timeline:       timeline,
	}
	boardWindow.applyWindowMode()
	return boardWindow
}

// SetEngine attaches the splash engine.
func (boardWindow *Window) SetEngine(engine *animation.Engine) {
	boardWindow.engine = engine
}

// SetOnBoardShown sets a handler fired once the splash has faded out.
func (boardWindow *Window) SetOnBoardShown(handler func()) {
	boardWindow.onBoardShown = handler
}

// ShowSplash opens the window on the loading splash. The board replaces
// it when the splash engine finishes.
func (boardWindow *Window) ShowSplash() {
	boardWindow.stopEngine()
	boardWindow.splash.Show()
	boardWindow.board.Hide()
	boardWindow.window.Show()

	if boardWindow.engine == nil {
		boardWindow.showBoardUnsafe()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	boardWindow.cancelCtx = cancel
	boardWindow.engine.StartSplash(ctx, func() {
		fyne.Do(boardWindow.showBoardUnsafe)
	})
}

// Show brings the board to the front.
func (boardWindow *Window) Show() {
	boardWindow.applyWindowMode()
	boardWindow.window.Show()
	boardWindow.window.RequestFocus()
}

// Hide hides the board and stops the splash.
func (boardWindow *Window) Hide() {
	boardWindow.stopEngine()
	if boardWindow.config.Fullscreen {
		boardWindow.window.SetFullScreen(false)
	}
	boardWindow.window.Hide()
}

// SetCloseIntercept routes the window close button.
func (boardWindow *Window) SetCloseIntercept(handler func()) {
	boardWindow.window.SetCloseIntercept(handler)
}

// SetFrame applies one splash frame. Safe to call from any goroutine.
func (boardWindow *Window) SetFrame(frame animation.Frame) {
	fyne.Do(func() {
		alpha := uint8(frame.Opacity * 255)
		boardWindow.splashLogo.Translucency = 1 - frame.Opacity
		side := splashSize * float32(frame.Scale)
		boardWindow.splashLogo.SetMinSize(fyne.NewSize(side, side))
		boardWindow.splashTitle.Color = withAlpha(titleColor, alpha)
		boardWindow.splashTagline.Color = withAlpha(mutedColor, alpha)
		boardWindow.splash.Refresh()
	})
}

// Update redraws the board from page. Safe to call from any goroutine.
func (boardWindow *Window) Update(page site.Page) {
	fyne.Do(func() {
		boardWindow.updateUnsafe(page)
	})
}

// UpdateConfig updates board visuals.
func (boardWindow *Window) UpdateConfig(config Config) {
	boardWindow.config = config
	boardWindow.background.FillColor = color.NRGBA{R: 240, G: 253, B: 244, A: config.Opacity}
	boardWindow.applyWindowMode()
	canvas.Refresh(boardWindow.background)
}

func (boardWindow *Window) updateUnsafe(page site.Page) {
	if page.Flag.Unlocked {
		boardWindow.countdownLabel.Text = "Problems Revealed"
		boardWindow.flagLabel.Text = "Submissions are open"
		boardWindow.flagLabel.Color = titleColor
	} else {
		boardWindow.countdownLabel.Text = page.Flag.CountdownText
		boardWindow.flagLabel.Text = "Problems unlock " + page.Flag.DisplayText + " IST"
		boardWindow.flagLabel.Color = lockedColor
	}
	boardWindow.countdownLabel.Refresh()
	boardWindow.flagLabel.Refresh()

	if page.Flag.Unlocked != boardWindow.revealed || len(boardWindow.problems.Objects) == 0 {
		boardWindow.revealed = page.Flag.Unlocked
		boardWindow.problems.Objects = problemCards(page)
		boardWindow.problems.Refresh()
	}

	boardWindow.timeline.Objects = timelineRows(page.Timeline)
	boardWindow.timeline.Refresh()
}

func (boardWindow *Window) showBoardUnsafe() {
	boardWindow.cancelCtx = nil
	boardWindow.splash.Hide()
	boardWindow.board.Show()
	if boardWindow.onBoardShown != nil {
		boardWindow.onBoardShown()
	}
}

func (boardWindow *Window) stopEngine() {
	if boardWindow.cancelCtx != nil {
		boardWindow.cancelCtx()
		boardWindow.cancelCtx = nil
	}
}

func (boardWindow *Window) applyWindowMode() {
	if boardWindow.config.Fullscreen {
		boardWindow.window.SetFullScreen(true)
		return
	}
	boardWindow.window.SetFullScreen(false)
	boardWindow.window.Resize(fyne.NewSize(defaultWidth, defaultHeight))
	boardWindow.window.CenterOnScreen()
}

func problemCards(page site.Page) []fyne.CanvasObject {
	if !page.Flag.Unlocked {
		locked := widget.NewRichTextFromMarkdown(lockedMarkdown(page))
		locked.Wrapping = fyne.TextWrapWord
		return []fyne.CanvasObject{widget.NewCard("Problems Locked", "", locked)}
	}

	cards := make([]fyne.CanvasObject, 0, len(page.Problems))
	for _, problem := range page.Problems {
		body := widget.NewRichTextFromMarkdown(problem.Description + "\n\n" + problem.Markdown)
		body.Wrapping = fyne.TextWrapWord
		cards = append(cards, widget.NewCard(problem.Title, strings.Join(problem.Tags, " · "), body))
	}
	return cards
}

func lockedMarkdown(page site.Page) string {
	return fmt.Sprintf("%s\n\n**%d problem statements** unlock on %s IST.",
		page.Flag.Caption, page.ProblemCount, page.Flag.DisplayText)
}

func timelineRows(entries []site.TimelineView) []fyne.CanvasObject {
	rows := make([]fyne.CanvasObject, 0, len(entries))
	for _, entry := range entries {
		title := canvas.NewText(entry.Title, titleColor)
		title.TextStyle = fyne.TextStyle{Bold: true}
		title.TextSize = 18

		when := canvas.NewText(entry.DisplayText+" · "+entry.Deliverable, mutedColor)
		when.TextSize = 14

		row := container.NewVBox(title, when)
		if entry.Badge != "" {
			badge := canvas.NewText(entry.Badge, lockedColor)
			badge.TextStyle = fyne.TextStyle{Bold: true}
			badge.TextSize = 12
			row.Add(badge)
		}
		rows = append(rows, row, widget.NewSeparator())
	}
	return rows
}

func withAlpha(base color.NRGBA, alpha uint8) color.NRGBA {
	base.A = alpha
	return base
}
