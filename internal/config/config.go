package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings the client needs to reach the listings API.
type Config struct {
	APIURL       string
	LogDir       string
	LogLevel     string
	PollInterval time.Duration
	// Token is a session token supplied through the environment. It wins over
	// the one saved in prefs.
	Token string
}

const (
	defaultConfigPath = "~/.config/stayfinder/config.toml"
	defaultLogDir     = "~/.local/share/stayfinder"
	defaultLogLevel   = "info"
	defaultAPIURL     = "127.0.0.1:5000"
	defaultPoll       = 30 * time.Second
	minPoll           = 5 * time.Second
)

// Environment variables that override the config file.
const (
	EnvAPIURL = "STAYFINDER_API_URL"
	EnvToken  = "STAYFINDER_TOKEN"
	EnvLogDir = "STAYFINDER_LOG_DIR"
	EnvLevel  = "STAYFINDER_LOG_LEVEL"
)

// LoadDotEnv reads KEY=VALUE pairs from the given files (".env" when none are
// named) into the process environment. Variables already set are left alone
// and missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load parses the TOML config at path, falling back to defaults when the file
// is missing, then applies environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{APIURL: defaultAPIURL, LogDir: defaultLogDir, LogLevel: defaultLogLevel, PollInterval: defaultPoll}

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		if err := cfg.parse(file); err != nil {
			return Config{}, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	cfg.applyEnv()
	cfg.LogDir = mustExpand(cfg.LogDir)
	return cfg, nil
}

func (c *Config) parse(r io.Reader) error {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL      string `toml:"api_url"`
		LogDir      string `toml:"log_dir"`
		LogLevel    string `toml:"log_level"`
		PollSeconds int    `toml:"poll_seconds"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		c.LogDir = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = v
	}
	if raw.PollSeconds > 0 {
		c.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	if c.PollInterval < minPoll {
		c.PollInterval = minPoll
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogDir)); v != "" {
		c.LogDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvToken)); v != "" {
		c.Token = v
	}
}

// LogPath returns the client log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/stayfinder.log")
	}
	return filepath.Join(c.LogDir, "stayfinder.log")
}

// SlogLevel maps LogLevel onto slog. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
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
