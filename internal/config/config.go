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

// Storage backends.
const (
	StorageFile   = "file"
	StorageBadger = "badger"
	StorageMemory = "memory"
)

// Config captures everything popview reads from config.toml and the
// environment.
type Config struct {
	APIURL         string
	RequestTimeout time.Duration
	Storage        string
	StoragePath    string
	LogFile        string
	LogLevel       string
	Theme          string
}

const (
	defaultConfigPath     = "~/.config/popview/config.toml"
	defaultStateDir       = "~/.local/state/popview"
	defaultAPIURL         = "https://datausa.io"
	defaultRequestTimeout = 10 * time.Second
	defaultLogLevel       = "info"
)

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the built-in configuration.
func Default() Config {
	cfg := Config{
		APIURL:         defaultAPIURL,
		RequestTimeout: defaultRequestTimeout,
		Storage:        StorageFile,
		LogLevel:       defaultLogLevel,
	}
	cfg.finalize()
	return cfg
}

// Load locates and parses the config file, falling back to defaults when it
// is missing. Environment overrides are not applied; see ApplyEnv.
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
		APIURL         string `toml:"api_url"`
		RequestTimeout string `toml:"request_timeout"`
		Storage        string `toml:"storage"`
		StoragePath    string `toml:"storage_path"`
		LogFile        string `toml:"log_file"`
		LogLevel       string `toml:"log_level"`
		Theme          string `toml:"theme"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	s := setter{}
	s.setString(raw.APIURL, &cfg.APIURL)
	s.setString(raw.Storage, &cfg.Storage)
	s.setString(raw.StoragePath, &cfg.StoragePath)
	s.setString(raw.LogFile, &cfg.LogFile)
	s.setString(raw.LogLevel, &cfg.LogLevel)
	s.setString(raw.Theme, &cfg.Theme)
	if err := s.setDuration("request_timeout", raw.RequestTimeout, &cfg.RequestTimeout); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated fields and fills derived paths.
func (c *Config) Validate() error {
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	switch c.Storage {
	case "":
		c.Storage = StorageFile
	case StorageFile, StorageBadger, StorageMemory:
	default:
		return fmt.Errorf("unknown storage %q (want file, badger or memory)", c.Storage)
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if strings.TrimSpace(c.APIURL) == "" {
		c.APIURL = defaultAPIURL
	}
	c.finalize()
	return nil
}

// finalize expands paths and fills the log file and level when unset.
func (c *Config) finalize() {
	if strings.TrimSpace(c.StoragePath) != "" {
		c.StoragePath = mustExpand(c.StoragePath)
	}
	if strings.TrimSpace(c.LogFile) == "" {
		c.LogFile = filepath.Join(mustExpand(defaultStateDir), "popview.log")
	}
	c.LogFile = mustExpand(c.LogFile)
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = defaultLogLevel
	}
}

// StorageLocation returns StoragePath, or the backend's default location
// under ~/.local/state/popview when unset.
func (c Config) StorageLocation() string {
	if strings.TrimSpace(c.StoragePath) != "" {
		return c.StoragePath
	}
	stateDir := mustExpand(defaultStateDir)
	if c.Storage == StorageBadger {
		return filepath.Join(stateDir, "badger")
	}
	return filepath.Join(stateDir, "store.toml")
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
