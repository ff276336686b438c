package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

type AppConfig struct {
	RedisURL    string `yaml:"redis_url"`
	DatabaseURL string `yaml:"database_url"`

	SessionTTLSec int `yaml:"session_ttl_sec"`

	// MessagesDir holds YAML overrides for the message catalog.
	MessagesDir string `yaml:"messages_dir"`

	Log LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	Console bool   `yaml:"console"`
	ToFile  bool   `yaml:"to_file"`
	File    string `yaml:"file"`
	Caller  bool   `yaml:"caller"`
}

// Load builds the config from defaults, then the YAML file named by
// CHECKERS_CONFIG (if any), then the environment.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		SessionTTLSec: 86400,
		Log: LogConfig{
			Level:   "info",
			Format:  "legacy",
			Console: true,
			File:    "logs/checkers.log",
		},
	}

	if path := strings.TrimSpace(os.Getenv("CHECKERS_CONFIG")); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		cfg.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("CHECKERS_SESSION_TTL")); v != "" { // seconds
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionTTLSec = n
		}
	}

	if v := strings.TrimSpace(os.Getenv("CHECKERS_MESSAGES_DIR")); v != "" {
		cfg.MessagesDir = v
	}

	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FORMAT")); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("LOG_FILE")); v != "" {
		cfg.Log.File = v
	}
	boolEnv("LOG_TO_CONSOLE", &cfg.Log.Console)
	boolEnv("LOG_TO_FILE", &cfg.Log.ToFile)
	boolEnv("LOG_CALLER", &cfg.Log.Caller)

	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.SessionTTLSec <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %d", cfg.SessionTTLSec)
	}
	return cfg, nil
}

func (c *AppConfig) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// bad values are ignored, as with numeric settings
func boolEnv(key string, dst *bool) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
