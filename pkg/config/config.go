// Package config loads the optional vdom.yaml renderer configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/vdom/pkg/errors"
)

// FileName is the configuration file looked up by LoadOptional.
const FileName = "vdom.yaml"

// DefaultPlaceholderPrefix prefixes the text of comment placeholders.
const DefaultPlaceholderPrefix = "vdom-empty"

// DefaultVersion is assumed when the file omits a version.
const DefaultVersion = "v1.0.0"

// Config represents the vdom.yaml configuration.
type Config struct {
	Version     string            `yaml:"version,omitempty"`
	Debug       bool              `yaml:"debug,omitempty"`
	Log         LogConfig         `yaml:"log"`
	Placeholder PlaceholderConfig `yaml:"placeholder"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// LogConfig controls reconciler logging.
type LogConfig struct {
	// Verbosity is the highest logr V-level emitted by the default handler.
	Verbosity int `yaml:"verbosity,omitempty"`
}

// PlaceholderConfig controls comment placeholders for empty renders.
type PlaceholderConfig struct {
	Prefix string `yaml:"prefix,omitempty"`
}

// MetricsConfig controls the Prometheus collector.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Version:     DefaultVersion,
		Placeholder: PlaceholderConfig{Prefix: DefaultPlaceholderPrefix},
		Metrics:     MetricsConfig{Namespace: "vdom"},
	}
}

// LoadOptional reads vdom.yaml from dir if present, falling back to Default.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, configError("config.LoadOptional", fmt.Errorf("failed to read %s: %w", FileName, err))
	}
	return Parse(data)
}

// Parse decodes a configuration document, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, configError("config.Parse", fmt.Errorf("failed to parse %s: %w", FileName, err))
	}
	cfg.Version = strings.TrimSpace(cfg.Version)
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if strings.TrimSpace(cfg.Placeholder.Prefix) == "" {
		cfg.Placeholder.Prefix = DefaultPlaceholderPrefix
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "vdom"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks version compatibility and value ranges. Failures are
// *errors.VDOMError values of kind errors.KindConfig.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return configError("config.Validate", err)
	}
	return nil
}

func (c *Config) validate() error {
	if !semver.IsValid(c.Version) {
		return fmt.Errorf("invalid version %q: must be a semantic version like v1.2.0", c.Version)
	}
	if major := semver.Major(c.Version); major != "v1" {
		return fmt.Errorf("unsupported config version %s (major %s), expected v1", c.Version, major)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("log.verbosity must be >= 0, got %d", c.Log.Verbosity)
	}
	if strings.Contains(c.Placeholder.Prefix, "--") {
		return fmt.Errorf("placeholder.prefix %q cannot contain \"--\"", c.Placeholder.Prefix)
	}
	return nil
}

func configError(op string, err error) error {
	return &errors.VDOMError{Op: op, Kind: errors.KindConfig, Err: err}
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
