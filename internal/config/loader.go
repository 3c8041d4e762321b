package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied by [LoadFromReader] before validation.
const (
	DefaultListenAddr      = ":8080"
	DefaultBaseURL         = "https://pokeapi.co/api/v2"
	DefaultTimeoutSeconds  = 10
	DefaultWordThreshold   = 0.70
	DefaultAcceptThreshold = 1.0
	DefaultSubnameWeight   = 0.25
	DefaultTTLMinutes      = 10
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults, and
// validates the result. Useful in tests where configs are constructed from
// string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}

	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills zero-valued fields with the package defaults. An
// all-empty file therefore yields a runnable configuration.
func applyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = DefaultListenAddr
	}
	if cfg.Server.LogLevel == "" {
		cfg.Server.LogLevel = LogInfo
	}
	if cfg.Catalog.BaseURL == "" {
		cfg.Catalog.BaseURL = DefaultBaseURL
	}
	if cfg.Catalog.TimeoutSeconds == 0 {
		cfg.Catalog.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if cfg.Matcher.WordThreshold == 0 {
		cfg.Matcher.WordThreshold = DefaultWordThreshold
	}
	if cfg.Matcher.AcceptThreshold == 0 {
		cfg.Matcher.AcceptThreshold = DefaultAcceptThreshold
	}
	if cfg.Matcher.SubnameWeight == 0 {
		cfg.Matcher.SubnameWeight = DefaultSubnameWeight
	}
	if cfg.Session.TTLMinutes == 0 {
		cfg.Session.TTLMinutes = DefaultTTLMinutes
	}
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Catalog.TimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("catalog.timeout_seconds must not be negative, got %d", cfg.Catalog.TimeoutSeconds))
	}
	if cfg.Matcher.WordThreshold <= 0 || cfg.Matcher.WordThreshold > 1 {
		errs = append(errs, fmt.Errorf("matcher.word_threshold must be in (0, 1], got %g", cfg.Matcher.WordThreshold))
	}
	if cfg.Matcher.AcceptThreshold < 0 {
		errs = append(errs, fmt.Errorf("matcher.accept_threshold must not be negative, got %g", cfg.Matcher.AcceptThreshold))
	}
	if cfg.Matcher.SubnameWeight < 0 {
		errs = append(errs, fmt.Errorf("matcher.subname_weight must not be negative, got %g", cfg.Matcher.SubnameWeight))
	}
	if cfg.Session.TTLMinutes < 0 {
		errs = append(errs, fmt.Errorf("session.ttl_minutes must not be negative, got %d", cfg.Session.TTLMinutes))
	}

	return errors.Join(errs...)
}
