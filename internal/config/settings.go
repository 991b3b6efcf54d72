package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings are process-level options read from ~/.revlint/config.yaml.
// Lint preferences are not part of Settings; they live in the preference
// store and are loaded per run into a Config.
type Settings struct {
	Database DatabaseSettings `yaml:"database"`
	Logging  LoggingSettings  `yaml:"logging"`
	Output   OutputSettings   `yaml:"output"`
	Queue    QueueSettings    `yaml:"queue"`
}

// DatabaseSettings locates the item store.
type DatabaseSettings struct {
	// Path is the SQLite database file. Defaults to ~/.revlint/revlint.db.
	Path string `yaml:"path"`
}

// LoggingSettings configures operational logging.
type LoggingSettings struct {
	// Level is "info" (default), "debug" or "trace".
	Level string `yaml:"level"`
}

// OutputSettings configures terminal output.
type OutputSettings struct {
	Color bool `yaml:"color"`
}

// QueueSettings configures lint queue navigation.
type QueueSettings struct {
	// URLTemplate is the navigation URL; {tag} is replaced by the escaped
	// review tag name.
	URLTemplate string `yaml:"url_template"`
	// Opener is the command used to open URLs. Empty means print only.
	Opener string `yaml:"opener"`
}

// DefaultSettings returns Settings with defaults filled in.
func DefaultSettings() *Settings {
	return &Settings{
		Logging: LoggingSettings{Level: "info"},
		Output:  OutputSettings{Color: true},
		Queue: QueueSettings{
			URLTemplate: "omnifocus:///tag/{tag}",
		},
	}
}

// Dir returns the revlint home directory (~/.revlint).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".revlint"), nil
}

// LoadSettings loads settings. Order: defaults -> ~/.revlint/config.yaml ->
// environment variables.
func LoadSettings() (*Settings, error) {
	settings := DefaultSettings()

	dir, err := Dir()
	if err == nil {
		path := filepath.Join(dir, "config.yaml")
		if _, statErr := os.Stat(path); statErr == nil {
			fileSettings, loadErr := LoadSettingsFromFile(path)
			if loadErr != nil {
				return nil, fmt.Errorf("loading settings file: %w", loadErr)
			}
			settings = fileSettings
		}
	}

	applyEnvOverrides(settings)

	if settings.Database.Path == "" {
		if dir == "" {
			return nil, fmt.Errorf("no database path configured and home directory unavailable")
		}
		settings.Database.Path = filepath.Join(dir, "revlint.db")
	}

	return settings, nil
}

// LoadSettingsFromFile loads settings from a specific YAML file.
func LoadSettingsFromFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings file: %w", err)
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing settings file: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	validLevels := map[string]bool{"": true, "info": true, "debug": true, "trace": true}
	if !validLevels[s.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace)", s.Logging.Level)
	}
	return nil
}

func applyEnvOverrides(s *Settings) {
	if v := os.Getenv("REVLINT_DB"); v != "" {
		s.Database.Path = v
	}
	if v := os.Getenv("REVLINT_LOG_LEVEL"); v != "" {
		s.Logging.Level = v
	}
	if os.Getenv("NO_COLOR") != "" {
		s.Output.Color = false
	}
}
