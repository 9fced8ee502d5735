// Package config loads the AI endpoint configuration from the user's dotfile.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// FileName is the name of the config file inside the user's home directory.
const FileName = ".milli.config"

const (
	// DefaultAPIKey is sent when the config has no api_key.
	DefaultAPIKey = "lm-studio"
	// DefaultTemperature replaces an unset or zero temperature.
	DefaultTemperature = 0.2
	// DefaultTimeoutMS replaces an unset or zero timeout_ms.
	DefaultTimeoutMS = 60000
)

var (
	// ErrNoHome is returned when the home directory cannot be resolved.
	ErrNoHome = errors.New("home directory not found")
	// ErrNotFound is returned when the config file does not exist.
	ErrNotFound = errors.New("config file not found")
	// ErrIncomplete is returned when a required key is missing.
	ErrIncomplete = errors.New("config incomplete")
)

// NotFoundError reports the config path that does not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotFound, e.Path)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Config is the AI endpoint configuration.
type Config struct {
	BaseURL           string  `mapstructure:"base_url"           yaml:"base_url"`
	ResponsesEndpoint string  `mapstructure:"responses_endpoint" yaml:"responses_endpoint"`
	ModelsEndpoint    string  `mapstructure:"models_endpoint"    yaml:"models_endpoint,omitempty"`
	Model             string  `mapstructure:"model"              yaml:"model"`
	APIKey            string  `mapstructure:"api_key"            yaml:"api_key"`
	Temperature       float64 `mapstructure:"temperature"        yaml:"temperature"`
	TimeoutMS         int64   `mapstructure:"timeout_ms"         yaml:"timeout_ms"`
}

// Redacted returns a copy with the API key masked.
func (c Config) Redacted() Config {
	if c.APIKey != "" {
		c.APIKey = "********"
	}
	return c
}

// PathIn returns the config file path under home.
func PathIn(home string) string {
	return filepath.Join(home, FileName)
}

// LoadFile reads, validates and defaults the config file at path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// Parse reads key = value lines from r and returns a validated, defaulted config.
// An empty value counts as unset: an empty base_url, responses_endpoint or
// model fails with ErrIncomplete, and an empty api_key becomes DefaultAPIKey.
// Non-finite numbers are ignored like unparsable ones.
func Parse(r io.Reader) (*Config, error) {
	settings, err := readSettings(r)
	if err != nil {
		return nil, err
	}
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := mapstructure.Decode(settings, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func readSettings(r io.Reader) (map[string]any, error) {
	settings := make(map[string]any)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		rawKey, rawVal, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key := strings.TrimSpace(rawKey)
		val := strings.TrimSpace(rawVal)
		if key == "" {
			continue
		}

		switch key {
		case "base_url", "responses_endpoint", "models_endpoint", "model", "api_key":
			settings[key] = val
		case "temperature":
			if v, err := strconv.ParseFloat(val, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
				settings[key] = v
			}
		case "timeout_ms":
			if v, err := strconv.ParseInt(val, 10, 64); err == nil {
				settings[key] = v
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return settings, nil
}

// A configured zero is treated as unset.
func (c *Config) applyDefaults() {
	if c.APIKey == "" {
		c.APIKey = DefaultAPIKey
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.TimeoutMS == 0 {
		c.TimeoutMS = DefaultTimeoutMS
	}
}
