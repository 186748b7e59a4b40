package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"greenx/internal/core/model"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "board.yaml"

type yamlSettings struct {
	Fullscreen bool    `yaml:"fullscreen"`
	Opacity    float64 `yaml:"opacity"`
	Autostart  bool    `yaml:"autostart"`
}

// LoadSettings reads board preferences from YAML under configDir.
// If the file does not exist, default settings are returned.
func LoadSettings(configDir, appName string) (model.BoardSettings, error) {
	settings := model.DefaultBoardSettings()
	configPath := settingsPath(configDir, appName)

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes board preferences to YAML under configDir.
func SaveSettings(configDir, appName string, settings model.BoardSettings) error {
	configPath := settingsPath(configDir, appName)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		Fullscreen: settings.Fullscreen,
		Opacity:    settings.Opacity,
		Autostart:  settings.Autostart,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func settingsPath(configDir, appName string) string {
	return filepath.Join(configDir, appName, settingsFileName)
}

func applyYamlSettings(settings *model.BoardSettings, fileData yamlSettings) {
	if fileData.Opacity >= 0.5 && fileData.Opacity <= 1 {
		settings.Opacity = fileData.Opacity
	}
	settings.Fullscreen = fileData.Fullscreen
	settings.Autostart = fileData.Autostart
}
