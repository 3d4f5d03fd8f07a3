// Package prefs persists per-user client state between runs: the theme, the
// last category filter, and the session token with the name it belongs to.
// Preferences are stored in ~/.config/stayfinder/prefs.toml.
package prefs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences.
type Prefs struct {
	Theme        string `toml:"theme"`
	LastCategory string `toml:"last_category,omitempty"`
	Token        string `toml:"token,omitempty"`
	UserName     string `toml:"user_name,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/stayfinder/prefs.toml"
	defaultTheme     = "Nightfox"
	defaultCategory  = "all"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

func defaults() Prefs {
	return Prefs{Theme: defaultTheme, LastCategory: defaultCategory}
}

// Load reads preferences from the given path. A missing or unreadable file
// yields defaults; the error is only reported for unreadable files so callers
// can log it.
func Load(path string) (Prefs, error) {
	prefs := defaults()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return prefs, nil
		}
		return prefs, fmt.Errorf("open prefs: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, fmt.Errorf("read prefs: %w", err)
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return defaults(), fmt.Errorf("parse prefs: %w", err)
	}

	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	if strings.TrimSpace(prefs.LastCategory) == "" {
		prefs.LastCategory = defaultCategory
	}
	prefs.Token = strings.TrimSpace(prefs.Token)

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
// The file holds a session token, so it is written owner-only.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o600); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// Update loads the prefs at path, applies fn, and saves the result.
func Update(path string, fn func(*Prefs)) error {
	p, _ := Load(path)
	fn(&p)
	return Save(path, p)
}

// ClearSession drops the stored token and user name.
func (p *Prefs) ClearSession() {
	p.Token = ""
	p.UserName = ""
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
