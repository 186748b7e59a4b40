package main

import (
	"log/slog"
	"net/url"
	"os"

	"greenx/internal/core/clock"
	"greenx/internal/core/model"
	"greenx/internal/core/timekeeper"
	"greenx/internal/platform"
	"greenx/internal/site"
	"greenx/internal/storage"
	"greenx/internal/ui/animation"
	"greenx/internal/ui/board"
	"greenx/internal/ui/preferences"
	"greenx/internal/ui/tray"
	"greenx/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const (
	appName     = "GreenX"
	settingsApp = "greenx"
	logoFile    = "greenx.svg"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		logger.Info("board already running", "err", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	siteConfig, err := storage.DefaultSite()
	if err != nil {
		logger.Error("load site", "err", err)
		return
	}

	fyneApp := app.NewWithID("com.greenx.board")
	var logo fyne.Resource
	if logoBytes, err := resources.Logo(logoFile); err != nil {
		logger.Warn("logo unavailable", "err", err)
	} else {
		logo = fyne.NewStaticResource(logoFile, logoBytes)
		fyneApp.SetIcon(logo)
	}
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error("system tray unsupported on this platform")
		return
	}

	service := platform.NewService()
	configDir, err := service.ConfigDir()
	if err != nil {
		logger.Warn("config dir unavailable", "err", err)
	}
	settings := model.DefaultBoardSettings()
	if configDir != "" {
		if loaded, err := storage.LoadSettings(configDir, settingsApp); err != nil {
			logger.Warn("load settings", "err", err)
		} else {
			settings = loaded
		}
	}
	if enabled, err := service.AutostartEnabled(appName); err != nil {
		logger.Warn("autostart status", "err", err)
	} else {
		settings.Autostart = enabled
	}

	keeper := timekeeper.New(siteConfig.Schedule, model.DefaultTimeKeeperConfig(), timekeeper.Config{
		Clock:  clock.Real(),
		Logger: logger,
	})

	boardWindow := board.New(fyneApp, siteConfig.Name, siteConfig.Tagline, siteConfig.Festival, logo, boardConfig(settings))
	boardWindow.SetEngine(animation.New(animation.DefaultConfig(), clock.Real(), boardWindow.SetFrame))
	boardWindow.SetCloseIntercept(boardWindow.Hide)
	guard.OnActivate(func() {
		fyne.Do(boardWindow.Show)
	})

	prefsWindow := preferences.New(fyneApp, appName, settings, func(updated model.BoardSettings) {
		if updated.Autostart != settings.Autostart {
			applyAutostart(service, updated.Autostart, logger)
		}
		settings = updated
		boardWindow.UpdateConfig(boardConfig(settings))
		if configDir == "" {
			return
		}
		if err := storage.SaveSettings(configDir, settingsApp, settings); err != nil {
			logger.Error("save settings", "err", err)
		}
	})

	openURL := func(raw string) {
		if raw == "" {
			return
		}
		parsed, err := url.Parse(raw)
		if err != nil {
			logger.Warn("invalid link", "url", raw, "err", err)
			return
		}
		if err := fyneApp.OpenURL(parsed); err != nil {
			logger.Warn("open link", "url", raw, "err", err)
		}
	}

	submissionLabels := make([]string, 0, len(siteConfig.Submissions))
	for _, link := range siteConfig.Submissions {
		submissionLabels = append(submissionLabels, link.Label)
	}

	trayManager := tray.New(desktopApp, appName, submissionLabels, tray.Callbacks{
		OnShowBoard: boardWindow.Show,
		OnSubmission: func(index int) {
			page, err := site.Build(siteConfig, keeper.Snapshot())
			if err != nil || index < 0 || index >= len(page.Submissions) {
				return
			}
			if link := page.Submissions[index]; link.Enabled {
				openURL(link.URL)
			}
		},
		OnPreferences: prefsWindow.Show,
		OnQuit: func() {
			keeper.Stop()
			fyneApp.Quit()
		},
	})
	if logo != nil {
		desktopApp.SetSystemTrayIcon(logo)
	}

	events := keeper.Subscribe(16)
	go func() {
		for event := range events {
			if event.Type == timekeeper.EventUnlock {
				logger.Info("gate unlocked", "event", event.Gate)
				continue
			}
			page, err := site.Build(siteConfig, event.Snapshot)
			if err != nil {
				logger.Error("build page", "err", err)
				continue
			}
			boardWindow.Update(page)
			fyne.Do(func() {
				trayManager.Update(page)
			})
		}
	}()

	fyneApp.Lifecycle().SetOnStopped(keeper.Stop)

	keeper.Start()
	boardWindow.ShowSplash()
	fyneApp.Run()
}

func boardConfig(settings model.BoardSettings) board.Config {
	return board.Config{
		Opacity:    opacityToAlpha(settings.Opacity),
		Fullscreen: settings.Fullscreen,
	}
}

func applyAutostart(service platform.Service, enabled bool, logger *slog.Logger) {
	if !enabled {
		if err := service.DisableAutostart(appName); err != nil {
			logger.Warn("disable autostart", "err", err)
		}
		return
	}
	execPath, err := os.Executable()
	if err != nil {
		logger.Warn("enable autostart", "err", err)
		return
	}
	entry := platform.LaunchEntry{
		Name:     appName,
		ExecPath: execPath,
		Comment:  "GreenX Hackathon countdown board",
	}
	if err := service.EnableAutostart(entry); err != nil {
		logger.Warn("enable autostart", "err", err)
	}
}

func opacityToAlpha(opacity float64) uint8 {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return uint8(opacity * 255)
}
