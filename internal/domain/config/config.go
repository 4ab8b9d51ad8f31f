// Package config loads and validates launcher configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glintlauncher/glint/internal/domain/rank"
)

// ErrInvalidConfig indicates the configuration failed validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the launcher configuration, read from config.yaml.
type Config struct {
	// Weights controls the ranking signal blend.
	Weights rank.Weights `yaml:"weights"`

	// DebounceMs is the keystroke quiet period before a search fires.
	DebounceMs int `yaml:"debounceMs"`

	// ProviderTimeoutMs bounds each provider per dispatch.
	ProviderTimeoutMs int `yaml:"providerTimeoutMs"`

	// SandboxTimeoutMs is the default plugin execution budget.
	SandboxTimeoutMs int `yaml:"sandboxTimeoutMs"`

	// FailureThreshold is the consecutive-failure count that quarantines
	// a plugin.
	FailureThreshold int `yaml:"failureThreshold"`

	// PluginDirs are the plugin search paths. Empty means the loader
	// defaults.
	PluginDirs []string `yaml:"pluginDirs"`

	// UsageDBPath is the usage-frequency database location. Empty means
	// the default under the user config directory.
	UsageDBPath string `yaml:"usageDbPath"`

	// ResultLimit caps ranked results per search.
	ResultLimit int `yaml:"resultLimit"`
}

// Default returns the standard configuration.
func Default() *Config {
	return &Config{
		Weights:           rank.DefaultWeights(),
		DebounceMs:        150,
		ProviderTimeoutMs: 500,
		SandboxTimeoutMs:  3000,
		FailureThreshold:  3,
		ResultLimit:       30,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".glint", "config.yaml")
}

// Load reads a configuration file. A missing file yields the defaults;
// present fields override defaults, absent fields keep them.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for out-of-range values.
func (c *Config) Validate() error {
	for name, v := range map[string]float64{
		"weights.fuzzy":     c.Weights.Fuzzy,
		"weights.frequency": c.Weights.Frequency,
		"weights.type":      c.Weights.Type,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalidConfig, name, v)
		}
	}
	if c.DebounceMs < 0 {
		return fmt.Errorf("%w: debounceMs must not be negative", ErrInvalidConfig)
	}
	if c.ProviderTimeoutMs <= 0 {
		return fmt.Errorf("%w: providerTimeoutMs must be positive", ErrInvalidConfig)
	}
	if c.SandboxTimeoutMs <= 0 {
		return fmt.Errorf("%w: sandboxTimeoutMs must be positive", ErrInvalidConfig)
	}
	if c.FailureThreshold <= 0 {
		return fmt.Errorf("%w: failureThreshold must be positive", ErrInvalidConfig)
	}
	if c.ResultLimit <= 0 {
		return fmt.Errorf("%w: resultLimit must be positive", ErrInvalidConfig)
	}
	return nil
}

// Debounce returns the keystroke quiet period.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// ProviderTimeout returns the per-provider dispatch deadline.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutMs) * time.Millisecond
}

// SandboxTimeout returns the default plugin execution budget.
func (c *Config) SandboxTimeout() time.Duration {
	return time.Duration(c.SandboxTimeoutMs) * time.Millisecond
}
