// Package config provides configuration for the fivewhys-ai service.
//
// Sources, highest priority first:
//  1. Environment variables (FIVEWHYS_* prefix, plus the AI_* names the
//     deployment scripts already export)
//  2. YAML config file (optional)
//  3. Built-in defaults
//
// The oracle credentials are opaque to the core: they are loaded here and
// handed to the llm client untouched.
package config

import (
	"fmt"
	"strings"
)

// Config holds all service configuration.
type Config struct {
	// Server configuration
	Server struct {
		Host            string
		Port            int
		ReadTimeout     int // seconds
		WriteTimeout    int // seconds
		ShutdownTimeout int // seconds
		StaticDir       string
	}

	// Oracle endpoint configuration
	Oracle struct {
		BaseURL string
		APIKey  string
		Model   string
	}

	// Interview configuration
	Analysis struct {
		MaxDepth int
	}

	// Rate limiting for the public endpoints
	RateLimit struct {
		Enabled        bool
		RequestsPerMin int
	}

	// Logging configuration
	Logging struct {
		Level      string
		Format     string // json or console
		File       string // empty -> stderr only
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
		Compress   bool
	}
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8080
	cfg.Server.ReadTimeout = 30
	cfg.Server.WriteTimeout = 60
	cfg.Server.ShutdownTimeout = 10
	cfg.Server.StaticDir = "static"

	cfg.Oracle.BaseURL = "https://api.openai.com/v1"
	cfg.Oracle.Model = "gpt-3.5-turbo"

	cfg.Analysis.MaxDepth = 7

	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RequestsPerMin = 60

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"
	cfg.Logging.MaxSizeMB = 100
	cfg.Logging.MaxBackups = 5
	cfg.Logging.MaxAgeDays = 30
	cfg.Logging.Compress = true

	return cfg
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() []error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Oracle.BaseURL == "" {
		errs = append(errs, fmt.Errorf("oracle.base_url is required"))
	}
	if c.Oracle.Model == "" {
		errs = append(errs, fmt.Errorf("oracle.model is required"))
	}
	if c.Analysis.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("analysis.max_depth must be at least 1"))
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMin < 1 {
		errs = append(errs, fmt.Errorf("rate_limit.requests_per_min must be at least 1"))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.format %q is not json or console", c.Logging.Format))
	}

	return errs
}
