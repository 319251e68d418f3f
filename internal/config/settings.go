package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const settingsFile = "settings.yaml"

// EnvPrefix prefixes environment overrides, e.g. EWC_POLL_INTERVAL=500ms.
const EnvPrefix = "EWC"

// Settings are the runtime knobs of the CLI.
type Settings struct {
	Port          int           `mapstructure:"port"`
	Username      string        `mapstructure:"username"`
	Language      string        `mapstructure:"language"`
	QueueOrder    string        `mapstructure:"queue_order"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	FallbackDelay time.Duration `mapstructure:"fallback_delay"`
	HTTPTimeout   time.Duration `mapstructure:"http_timeout"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Port:          80,
		Username:      "admin",
		QueueOrder:    "fifo",
		PollInterval:  time.Second,
		FallbackDelay: 3 * time.Second,
		HTTPTimeout:   10 * time.Second,
	}
}

// GetSettingsPath returns the default settings file path.
func GetSettingsPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, settingsFile), nil
}

// LoadSettings reads settings from path, or from the default location when
// path is empty, and applies EWC_* environment overrides. A missing file
// yields the defaults.
func LoadSettings(path string) (Settings, error) {
	if path == "" {
		p, err := GetSettingsPath()
		if err != nil {
			return Settings{}, err
		}
		path = p
	}

	v := viper.New()
	def := DefaultSettings()
	v.SetDefault("port", def.Port)
	v.SetDefault("username", def.Username)
	v.SetDefault("language", def.Language)
	v.SetDefault("queue_order", def.QueueOrder)
	v.SetDefault("poll_interval", def.PollInterval)
	v.SetDefault("fallback_delay", def.FallbackDelay)
	v.SetDefault("http_timeout", def.HTTPTimeout)

	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks ranges and enumerations.
func (s Settings) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}
	if s.QueueOrder != "fifo" && s.QueueOrder != "lifo" {
		return fmt.Errorf("queue_order must be fifo or lifo, got %q", s.QueueOrder)
	}
	if s.PollInterval <= 0 || s.FallbackDelay <= 0 || s.HTTPTimeout <= 0 {
		return fmt.Errorf("poll_interval, fallback_delay and http_timeout must be positive")
	}
	return nil
}
