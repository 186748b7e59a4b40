//go:build darwin

package platform

import (
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
)

func (service *platformService) EnableAutostart(entry LaunchEntry) error {
	if err := entry.validate(); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}

	path, err := launchAgentPath(entry.Name)
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("enable autostart: create LaunchAgents dir: %w", err)
	}
	content := buildLaunchAgentPlist(launchAgentLabel(entry.Name), entry.ExecPath)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("enable autostart: write plist: %w", err)
	}
	return nil
}

func (service *platformService) DisableAutostart(name string) error {
	path, err := launchAgentPath(name)
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("disable autostart: remove plist: %w", err)
	}
	return nil
}

func (service *platformService) AutostartEnabled(name string) (bool, error) {
	path, err := launchAgentPath(name)
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

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "Library", "Application Support")
}

func launchAgentPath(name string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, "Library", "LaunchAgents", launchAgentLabel(name)+".plist"), nil
}

func launchAgentLabel(name string) string {
	return "com.greenx." + slug(name)
}

func buildLaunchAgentPlist(label, execPath string) string {
	return fmt.Sprintf(
		`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array>
		<string>%s</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`,
		html.EscapeString(label),
		html.EscapeString(execPath),
	)
}
