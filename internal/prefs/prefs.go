// Package prefs handles schoolcal user preferences persistence.
// Preferences are stored in ~/.config/schoolcal/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for schoolcal.
type Prefs struct {
	Theme      string `toml:"theme"`
	SearchType string `toml:"search_type"`
	Year       int    `toml:"year,omitempty"`
	Grade      int    `toml:"grade,omitempty"`
	View       string `toml:"view"`
}

const (
	defaultPrefsPath  = "~/.config/schoolcal/prefs.toml"
	defaultTheme      = "Dracula"
	defaultSearchType = "school"
	defaultView       = "monthly"
	maxGrade          = 6
)

// Default returns the preferences used when nothing is saved.
func Default() Prefs {
	return Prefs{
		Theme:      defaultTheme,
		SearchType: defaultSearchType,
		View:       defaultView,
	}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Default(), nil // Graceful degradation
	}

	var p Prefs
	if err := toml.Unmarshal(bytes, &p); err != nil {
		return Default(), nil // Graceful degradation
	}

	return p.normalize(), nil
}

func (p Prefs) normalize() Prefs {
	p.Theme = strings.TrimSpace(p.Theme)
	if p.Theme == "" {
		p.Theme = defaultTheme
	}
	switch strings.ToLower(strings.TrimSpace(p.SearchType)) {
	case "region":
		p.SearchType = "region"
	default:
		p.SearchType = defaultSearchType
	}
	switch strings.ToLower(strings.TrimSpace(p.View)) {
	case "list":
		p.View = "list"
	default:
		p.View = defaultView
	}
	if p.Year < 0 {
		p.Year = 0
	}
	if p.Grade < 0 || p.Grade > maxGrade {
		p.Grade = 0
	}
	return p
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p.normalize())
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
