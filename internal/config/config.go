// Package config defines service configuration and its loading layers.
package config

import (
	"fmt"
	"time"
)

// Source kinds understood by the document loader.
const (
	SourceHTTP = "http"
	SourceFile = "file"
	SourceS3   = "s3"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// SourceKind selects where the JSON snapshots are read from: http, file or s3.
	SourceKind    string `koanf:"source_kind"`
	SourceBaseURL string `koanf:"source_base_url"`
	SourceDir     string `koanf:"source_dir"`

	S3Bucket          string `koanf:"s3_bucket"`
	S3Prefix          string `koanf:"s3_prefix"`
	S3Region          string `koanf:"s3_region"`
	S3Endpoint        string `koanf:"s3_endpoint"`
	S3AccessKeyID     string `koanf:"s3_access_key_id"`
	S3SecretAccessKey string `koanf:"s3_secret_access_key"`

	// Document names relative to the source root.
	PlayersDocument string `koanf:"players_document"`
	RatingsDocument string `koanf:"ratings_document"`
	IndexDocument   string `koanf:"index_document"`

	FetchTimeoutMS   int `koanf:"fetch_timeout_ms"`
	FetchWorkers     int `koanf:"fetch_workers"`
	RefreshIntervalS int `koanf:"refresh_interval_s"`

	SessionCapacity int `koanf:"session_capacity"`
	SessionTTLS     int `koanf:"session_ttl_s"`

	// Locale drives number formatting and string collation, e.g. "ru".
	Locale string `koanf:"locale"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		SourceKind:       SourceHTTP,
		SourceBaseURL:    "https://iq-capitalist.github.io/data",
		SourceDir:        "data",
		S3Region:         "auto",
		PlayersDocument:  "all_data.json",
		RatingsDocument:  "data.json",
		IndexDocument:    "tournaments-index.json",
		FetchTimeoutMS:   10_000,
		FetchWorkers:     4,
		RefreshIntervalS: 300,
		SessionCapacity:  10_000,
		SessionTTLS:      1800,
		Locale:           "ru",
	}
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalS) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLS) * time.Second
}

// Validate reports the first invalid setting wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.FetchWorkers <= 0:
		return fmt.Errorf("%w: fetch_workers must be positive", ErrInvalidConfig)
	case c.RefreshIntervalS <= 0:
		return fmt.Errorf("%w: refresh_interval_s must be positive", ErrInvalidConfig)
	case c.SessionCapacity <= 0:
		return fmt.Errorf("%w: session_capacity must be positive", ErrInvalidConfig)
	case c.PlayersDocument == "":
		return fmt.Errorf("%w: players_document must not be empty", ErrInvalidConfig)
	}

	switch c.SourceKind {
	case SourceHTTP:
		if c.SourceBaseURL == "" {
			return fmt.Errorf("%w: source_base_url is required for http source", ErrInvalidConfig)
		}
	case SourceFile:
		if c.SourceDir == "" {
			return fmt.Errorf("%w: source_dir is required for file source", ErrInvalidConfig)
		}
	case SourceS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("%w: s3_bucket is required for s3 source", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown source_kind %q", ErrInvalidConfig, c.SourceKind)
	}
	return nil
}
