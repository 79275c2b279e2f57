// Package config owns the PgWarp configuration directory and the
// application settings file. Everything PgWarp persists (variables, saved
// queries, settings, logs) lives under one per-user directory.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// dirOverride lets tests redirect the config directory.
var dirOverride string

// Dir resolves the per-user PgWarp configuration directory:
// ${XDG_CONFIG_HOME:-$HOME/.config}/pgwarp on Unix-like hosts,
// %APPDATA%\PgWarp on Windows. The directory is not created here; writers
// create it with 0700 on first save.
func Dir() (string, error) {
	if dirOverride != "" {
		return dirOverride, nil
	}
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA is not set")
		}
		return filepath.Join(appData, "PgWarp"), nil
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pgwarp"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "pgwarp"), nil
}

// SetDir overrides the config directory (tests, --config-dir flag).
func SetDir(dir string) {
	dirOverride = dir
}

// Settings holds user preferences from settings.json.
type Settings struct {
	// Theme for the TUI ("light" or "dark").
	Theme string `json:"theme,omitempty"`

	// Debug enables categorized file logging under <config-dir>/logs/.
	Debug bool `json:"debug,omitempty"`

	// LogLevel filters file logs: debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// ConfirmBeforeRun warns before executing a query that still contains
	// undefined {{placeholders}}.
	ConfirmBeforeRun *bool `json:"confirm_before_run,omitempty"`
}

// ConfirmsBeforeRun applies the default (true) when the field is unset.
func (s *Settings) ConfirmsBeforeRun() bool {
	if s.ConfirmBeforeRun == nil {
		return true
	}
	return *s.ConfirmBeforeRun
}

// LoadSettings reads settings.json from the config directory. A missing
// file yields defaults.
func LoadSettings() (*Settings, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{Theme: "dark"}, nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}
	s := &Settings{Theme: "dark"}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

// Save writes settings.json, creating the config directory if needed.
func (s *Settings) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), data, 0600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
