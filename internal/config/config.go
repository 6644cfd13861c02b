// Package config defines service configuration and its loading.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load(ctx) layers defaults, an optional YAML file and environment variables.
// - Validation failures wrap ErrInvalidConfig; source failures wrap ErrLoadConfig.
package config

import (
	"fmt"
)

// Size defaults.
const (
	defaultMaxUploadBytes = 10 << 20
	defaultMaxBodyBytes   = 1 << 20
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// MaxUploadBytes caps multipart uploads on /api/upload-csv.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// MaxBodyBytes caps JSON request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// CORSAllowOrigins lists allowed origins; "*" allows any.
	CORSAllowOrigins []string `koanf:"cors_allow_origins"`

	// CORSAllowCredentials sets Access-Control-Allow-Credentials.
	CORSAllowCredentials bool `koanf:"cors_allow_credentials"`

	// DocsEnabled serves /api-docs and /openapi.yaml.
	DocsEnabled bool `koanf:"docs_enabled"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":8000",
		MaxUploadBytes:       defaultMaxUploadBytes,
		MaxBodyBytes:         defaultMaxBodyBytes,
		CORSAllowOrigins:     []string{"*"},
		CORSAllowCredentials: true,
		DocsEnabled:          true,
	}
}

// Validate checks invariants that defaults and sources cannot express.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	case len(c.CORSAllowOrigins) == 0:
		return fmt.Errorf("%w: cors_allow_origins must not be empty", ErrInvalidConfig)
	}
	return nil
}
