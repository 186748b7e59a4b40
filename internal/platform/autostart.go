// Package platform holds the OS-specific pieces of the countdown board:
// login autostart for kiosk machines and the single-instance lock.
package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalidEntry is returned for a launch entry without a name or path.
var ErrInvalidEntry = errors.New("invalid launch entry")

// LaunchEntry describes how the board is started at login.
type LaunchEntry struct {
	Name     string
	ExecPath string
	Comment  string
}

// Service defines OS-specific helpers needed by the board.
type Service interface {
	ConfigDir() (string, error)
	EnableAutostart(entry LaunchEntry) error
	DisableAutostart(name string) error
	AutostartEnabled(name string) (bool, error)
}

type platformService struct{}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// ConfigDir returns the OS-standard configuration directory, falling
// back to the conventional location under the home directory.
func (service *platformService) ConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

func (entry LaunchEntry) validate() error {
	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidEntry)
	}
	if entry.ExecPath == "" {
		return fmt.Errorf("%w: exec path is empty", ErrInvalidEntry)
	}
	return nil
}

// slug lowercases name and joins its words with dashes.
func slug(name string) string {
	fields := strings.Fields(strings.ToLower(name))
	if len(fields) == 0 {
		return "greenx"
	}
	return strings.Join(fields, "-")
}
