package config

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Loader caches the config for the process lifetime.
// A failed load leaves the loader empty so a later call can retry.
type Loader struct {
	homeDir func() (string, error)
	path    string

	mu  sync.Mutex
	cfg atomic.Pointer[Config]
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHomeDir overrides home directory discovery.
func WithHomeDir(fn func() (string, error)) LoaderOption {
	return func(l *Loader) {
		l.homeDir = fn
	}
}

// WithPath loads from an explicit file instead of the home dotfile.
func WithPath(path string) LoaderOption {
	return func(l *Loader) {
		l.path = path
	}
}

// NewLoader creates a loader that reads ~/.milli.config by default.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{homeDir: os.UserHomeDir}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path resolves the config file path.
func (l *Loader) Path() (string, error) {
	if l.path != "" {
		return l.path, nil
	}
	home, err := l.homeDir()
	if err != nil || home == "" {
		return "", fmt.Errorf("%w for ~/%s", ErrNoHome, FileName)
	}
	return PathIn(home), nil
}

// EnsureLoaded returns the cached config, loading it on first success.
func (l *Loader) EnsureLoaded() (*Config, error) {
	if cfg := l.cfg.Load(); cfg != nil {
		return cfg, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if cfg := l.cfg.Load(); cfg != nil {
		return cfg, nil
	}

	path, err := l.Path()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Str("model", cfg.Model).Msg("AI config loaded")
	l.cfg.Store(cfg)
	return cfg, nil
}

// Loaded reports whether a config is cached.
func (l *Loader) Loaded() bool {
	return l.cfg.Load() != nil
}

// Reset drops the cached config.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg.Store(nil)
}
