package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings schoolcal reads from config.toml.
type Config struct {
	APIBase        string
	TokenFile      string
	LogFile        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	DefaultSchool     string
	DefaultRegion     string
	DefaultRegionCode string
	DefaultAddress    string
}

const (
	defaultConfigPath     = "~/.config/schoolcal/config.toml"
	defaultAPIBase        = "127.0.0.1:8080"
	defaultTokenFile      = "~/.config/schoolcal/token"
	defaultLogFile        = "~/.local/state/schoolcal/schoolcal.log"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
	defaultRequestTimeout = 5 * time.Second
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBase:        defaultAPIBase,
		TokenFile:      mustExpand(defaultTokenFile),
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		LogFormat:      defaultLogFormat,
		RequestTimeout: defaultRequestTimeout,
	}
}

// Load locates and parses the config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase           string `toml:"api_base"`
		TokenFile         string `toml:"token_file"`
		LogFile           string `toml:"log_file"`
		LogLevel          string `toml:"log_level"`
		LogFormat         string `toml:"log_format"`
		RequestTimeout    int    `toml:"request_timeout_seconds"`
		DefaultSchool     string `toml:"default_school"`
		DefaultRegion     string `toml:"default_region"`
		DefaultRegionCode string `toml:"default_region_code"`
		DefaultAddress    string `toml:"default_address"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIBase = orDefault(raw.APIBase, defaultAPIBase)
	cfg.TokenFile = mustExpand(orDefault(raw.TokenFile, defaultTokenFile))
	cfg.LogFile = mustExpand(orDefault(raw.LogFile, defaultLogFile))
	cfg.LogLevel = strings.ToLower(orDefault(raw.LogLevel, defaultLogLevel))
	cfg.LogFormat = strings.ToLower(orDefault(raw.LogFormat, defaultLogFormat))
	if raw.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeout) * time.Second
	}

	cfg.DefaultSchool = strings.TrimSpace(raw.DefaultSchool)
	cfg.DefaultRegion = strings.TrimSpace(raw.DefaultRegion)
	cfg.DefaultRegionCode = strings.TrimSpace(raw.DefaultRegionCode)
	cfg.DefaultAddress = strings.TrimSpace(raw.DefaultAddress)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log_format %q", c.LogFormat)
	}
	return nil
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
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

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
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
