// Package config provides the configuration schema and loader for the
// dexvox query service.
package config

import "time"

// LogLevel controls log verbosity for the dexvox server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure for dexvox.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Catalog CatalogConfig `yaml:"catalog"`
	Matcher MatcherConfig `yaml:"matcher"`
	Session SessionConfig `yaml:"session"`
	Dialog  DialogConfig  `yaml:"dialog"`
}

// ServerConfig holds network and logging settings.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`
}

// CatalogConfig describes the remote species catalog and the optional
// shared snapshot store.
type CatalogConfig struct {
	// BaseURL is the PokeAPI-compatible upstream base URL.
	BaseURL string `yaml:"base_url"`

	// TimeoutSeconds bounds each upstream request. Default: 10.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// PostgresDSN, when set, stores the startup-loaded name catalog in
	// PostgreSQL so replicas can share one snapshot. Empty keeps the
	// catalog in process memory.
	PostgresDSN string `yaml:"postgres_dsn"`
}

// MatcherConfig exposes the name-resolution scoring constants. The
// defaults are the values that performed best against labelled utterance
// sets; recalibrate here rather than in code.
type MatcherConfig struct {
	// WordThreshold is the per-word similarity ratio an utterance token
	// must exceed to consume a candidate word. Default: 0.70.
	WordThreshold float64 `yaml:"word_threshold"`

	// AcceptThreshold is the combined score a candidate must strictly
	// exceed to be accepted. Default: 1.0.
	AcceptThreshold float64 `yaml:"accept_threshold"`

	// SubnameWeight scales the hyphen sub-name bonus. Default: 0.25.
	SubnameWeight float64 `yaml:"subname_weight"`
}

// SessionConfig controls conversation-session bookkeeping.
type SessionConfig struct {
	// TTLMinutes is how long an idle session keeps its last-resolved
	// entity before being evicted. Default: 10.
	TTLMinutes int `yaml:"ttl_minutes"`
}

// DialogConfig points at optional spoken-response template overrides.
type DialogConfig struct {
	// TemplateFile is a YAML file merged over the built-in response
	// templates. Empty uses the built-ins unchanged.
	TemplateFile string `yaml:"template_file"`
}

// Timeout returns the upstream request timeout as a [time.Duration].
func (c CatalogConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TTL returns the session idle lifetime as a [time.Duration].
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}
