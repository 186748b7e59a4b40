//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (service *platformService) EnableAutostart(entry LaunchEntry) error {
	if err := entry.validate(); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	output, err := reg("add", registryRunKey, "/v", entry.Name, "/t", "REG_SZ", "/d", quoteWindowsPath(entry.ExecPath), "/f")
	if err != nil {
		return fmt.Errorf("enable autostart: reg add failed: %w: %s", err, output)
	}
	return nil
}

func (service *platformService) DisableAutostart(name string) error {
	enabled, err := service.AutostartEnabled(name)
	if err != nil || !enabled {
		return err
	}
	output, err := reg("delete", registryRunKey, "/v", name, "/f")
	if err != nil {
		return fmt.Errorf("disable autostart: reg delete failed: %w: %s", err, output)
	}
	return nil
}

// AutostartEnabled reports whether the Run key holds a value for name.
// reg query exits non-zero when the value is absent.
func (service *platformService) AutostartEnabled(name string) (bool, error) {
	if _, err := reg("query", registryRunKey, "/v", name); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return false, nil
		}
		return false, fmt.Errorf("autostart status: %w", err)
	}
	return true, nil
}

func reg(args ...string) (string, error) {
	output, err := exec.Command("reg", args...).CombinedOutput()
	return strings.TrimSpace(string(output)), err
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}

func quoteWindowsPath(execPath string) string {
	return `"` + strings.Trim(execPath, `"`) + `"`
}
