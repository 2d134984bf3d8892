// Package config loads taskanalyzer settings.
//
// Precedence (highest to lowest):
//  1. Environment variables (TASKANALYZER_SERVICE_URL, TASKANALYZER_LOG_LEVEL, ...)
//  2. YAML config file (~/.config/taskanalyzer/config.yaml)
//  3. Defaults
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/idilsaglam/taskanalyzer/internal/logging"
)

// EnvPrefix is stripped from environment variable names before mapping.
const EnvPrefix = "TASKANALYZER_"

const maxConfigFileSize = 1024 * 1024

type Config struct {
	Service ServiceConfig  `koanf:"service"`
	Offline bool           `koanf:"offline"`
	Log     logging.Config `koanf:"log"`
	UI      UIConfig       `koanf:"ui"`
	Metrics MetricsConfig  `koanf:"metrics"`
}

// ServiceConfig points at the remote scoring service.
type ServiceConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
	Token   string        `koanf:"token"`
}

type UIConfig struct {
	Theme string `koanf:"theme"` // classic, neon or mono
}

type MetricsConfig struct {
	Textfile string `koanf:"textfile"`
}

// Defaults
const (
	DefaultServiceURL = "http://127.0.0.1:8000"
	DefaultTimeout    = 5 * time.Second
	DefaultTheme      = "classic"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "json"
)

// DefaultPath returns ~/.config/taskanalyzer/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "taskanalyzer", "config.yaml"), nil
}

// Load reads the YAML file at path (the default path when empty), then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	content, err := readFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
	case err != nil:
		return nil, err
	default:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// TASKANALYZER_SERVICE_URL -> service.url
	// TASKANALYZER_LOG_FILE    -> log.file
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey splits on the first underscore only, so field names may keep theirs.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Service.URL == "" {
		cfg.Service.URL = DefaultServiceURL
	}
	if cfg.Service.Timeout == 0 {
		cfg.Service.Timeout = DefaultTimeout
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = DefaultTheme
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// Validate rejects settings that cannot work.
func (c *Config) Validate() error {
	if c.Service.Timeout < 0 {
		return fmt.Errorf("service.timeout must not be negative")
	}
	if !strings.HasPrefix(c.Service.URL, "http://") && !strings.HasPrefix(c.Service.URL, "https://") {
		return fmt.Errorf("service.url must be an http(s) URL, got %q", c.Service.URL)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}
