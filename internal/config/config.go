// Package config provides configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// State backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	Port           string
	AllowedOrigins []string
	AWSRegion      string
	StateBackend   string
	SQLitePath     string
	S3Bucket       string
	AssetPrefix    string
	BedrockEnabled bool
	BedrockModelID string
	LogLevel       string
	LogDev         bool
	SessionTTL     time.Duration
	CatalogPath    string
	RateLimit      int
	RateWindow     time.Duration
}

// SetDefaults registers every key with its default so AutomaticEnv can see it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("allowed_origin", "http://localhost:5173")
	v.SetDefault("aws_region", "ap-northeast-1")
	v.SetDefault("state_backend", BackendMemory)
	v.SetDefault("sqlite_path", "")
	v.SetDefault("s3_bucket", "")
	v.SetDefault("asset_prefix", "assets/")
	v.SetDefault("bedrock_enabled", false)
	v.SetDefault("bedrock_model_id", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dev", false)
	v.SetDefault("session_ttl", 30*time.Minute)
	v.SetDefault("catalog_path", "")
	v.SetDefault("rate_limit", 120)
	v.SetDefault("rate_window", time.Minute)
}

// LoadConfig reads configuration into v from the environment and, when path
// is set, from a YAML file. Environment variables take precedence over the
// file, and flags bound to v take precedence over both. A nil v gets a fresh
// instance with the defaults.
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
		SetDefaults(v)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper builds a Config from an already prepared viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:           v.GetString("port"),
		AllowedOrigins: splitList(v.GetString("allowed_origin")),
		AWSRegion:      v.GetString("aws_region"),
		StateBackend:   strings.ToLower(v.GetString("state_backend")),
		SQLitePath:     v.GetString("sqlite_path"),
		S3Bucket:       v.GetString("s3_bucket"),
		AssetPrefix:    v.GetString("asset_prefix"),
		BedrockEnabled: v.GetBool("bedrock_enabled"),
		BedrockModelID: v.GetString("bedrock_model_id"),
		LogLevel:       v.GetString("log_level"),
		LogDev:         v.GetBool("log_dev"),
		SessionTTL:     v.GetDuration("session_ttl"),
		CatalogPath:    v.GetString("catalog_path"),
		RateLimit:      v.GetInt("rate_limit"),
		RateWindow:     v.GetDuration("rate_window"),
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return errors.New("invalid port: must be a number")
	}

	switch c.StateBackend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown state backend %q", c.StateBackend)
	}

	if c.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.RateLimit <= 0 || c.RateWindow <= 0 {
		return errors.New("rate limit and window must be positive")
	}

	return nil
}
