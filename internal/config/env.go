package config

import (
	"fmt"
	"strings"
	"time"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIURL         = "POPVIEW_API_URL"
	EnvRequestTimeout = "POPVIEW_REQUEST_TIMEOUT"
	EnvStorage        = "POPVIEW_STORAGE"
	EnvStoragePath    = "POPVIEW_STORAGE_PATH"
	EnvLogFile        = "POPVIEW_LOG_FILE"
	EnvLogLevel       = "POPVIEW_LOG_LEVEL"
	EnvTheme          = "POPVIEW_THEME"
)

// ApplyEnv overlays POPVIEW_* variables onto cfg. Flags are applied by the
// caller afterwards, giving flags > env > file > defaults.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	s := setter{}
	s.setString(getenv(EnvAPIURL), &cfg.APIURL)
	s.setString(getenv(EnvStorage), &cfg.Storage)
	s.setString(getenv(EnvStoragePath), &cfg.StoragePath)
	s.setString(getenv(EnvLogFile), &cfg.LogFile)
	s.setString(getenv(EnvLogLevel), &cfg.LogLevel)
	s.setString(getenv(EnvTheme), &cfg.Theme)
	if err := s.setDuration(EnvRequestTimeout, getenv(EnvRequestTimeout), &cfg.RequestTimeout); err != nil {
		return err
	}
	return cfg.Validate()
}

// setter copies only non-empty values so unset sources never clobber
// lower-precedence ones.
type setter struct{}

func (setter) setString(value string, dst *string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func (setter) setDuration(name, value string, dst *time.Duration) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	if d <= 0 {
		return fmt.Errorf("parse %s: duration must be positive", name)
	}
	*dst = d
	return nil
}
