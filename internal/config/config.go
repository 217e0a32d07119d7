// Package config maps environment variables into a structured config
// object. A .env file, if present, is loaded by main before this runs.
package config

import (
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"devflow/backend/internal/errs"
)

// Config is the root configuration for the server process.
type Config struct {
	// MongoURI is the connection string for the document store. Required.
	MongoURI string `koanf:"mongodb_url"`
	// DBName is the fixed database name.
	DBName string `koanf:"db_name"`
	// Port the HTTP server listens on.
	Port string `koanf:"port"`
	// FirebaseKeyData holds the service-account JSON used to verify
	// ID tokens. Optional; auth is disabled without it.
	FirebaseKeyData string `koanf:"firebase_key_data"`
	// RedisURL configures the revalidation publisher. Optional.
	RedisURL string `koanf:"redis_url"`
	// LogLevel is a zerolog level name (debug, info, warn, ...).
	LogLevel string `koanf:"log_level"`
	// Env switches console vs JSON logging ("development" or "production").
	Env string `koanf:"app_env"`
}

// Load reads the process environment into a Config and applies
// defaults. A missing MONGODB_URL is a hard error, not a logged
// warning: the store is unusable without it.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.MongoURI == "" {
		return nil, errs.MissingConfig("MONGODB_URL")
	}
	if cfg.DBName == "" {
		cfg.DBName = "devflow"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}
