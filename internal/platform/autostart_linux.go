//go:build linux

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (service *platformService) EnableAutostart(entry LaunchEntry) error {
	if err := entry.validate(); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}

	path, err := service.desktopEntryPath(entry.Name)
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("enable autostart: create autostart dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(buildDesktopEntry(entry)), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write desktop entry: %w", err)
	}
	return nil
}

func (service *platformService) DisableAutostart(name string) error {
	path, err := service.desktopEntryPath(name)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("disable autostart: remove desktop entry: %w", err)
	}
	return nil
}

func (service *platformService) AutostartEnabled(name string) (bool, error) {
	path, err := service.desktopEntryPath(name)
	if err != nil {
		return false, fmt.Errorf("autostart status: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("autostart status: %w", err)
	}
	return true, nil
}

func (service *platformService) desktopEntryPath(name string) (string, error) {
	configDir, err := service.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "autostart", desktopFileName(name)), nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func desktopFileName(name string) string {
	return slug(name) + ".desktop"
}

func buildDesktopEntry(entry LaunchEntry) string {
	execLine := entry.ExecPath
	if strings.Contains(execLine, " ") && !strings.HasPrefix(execLine, `"`) {
		execLine = `"` + execLine + `"`
	}

	var builder strings.Builder
	builder.WriteString("[Desktop Entry]\n")
	builder.WriteString("Type=Application\n")
	fmt.Fprintf(&builder, "Name=%s\n", entry.Name)
	if entry.Comment != "" {
		fmt.Fprintf(&builder, "Comment=%s\n", entry.Comment)
	}
	fmt.Fprintf(&builder, "Exec=%s\n", execLine)
	builder.WriteString("X-GNOME-Autostart-enabled=true\n")
	builder.WriteString("Terminal=false\n")
	return builder.String()
}
