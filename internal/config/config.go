// Package config reads the estate configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// RedisConfig holds the connection settings of the redis adapter.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// LogConfig holds the logger settings.
type LogConfig struct {
	Level  string
	Format string
	Color  bool
}

// SuggestConfig holds the language model settings.
type SuggestConfig struct {
	APIKey string
	Model  string
}

// Config is the full application configuration.
type Config struct {
	Adapter string
	DataDir string
	Redis   RedisConfig
	Log     LogConfig
	Suggest SuggestConfig
}

// Load reads a .env file (the given path, or ./.env) when one exists, then the
// environment. Variables already set in the environment win over the file.
// A missing file is not an error.
func Load(envPath ...string) (*Config, error) {
	if err := godotenv.Load(envPath...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		Adapter: strings.ToLower(getEnvAsString("ESTATE_ADAPTER", "fs")),
		DataDir: getEnvAsString("ESTATE_DATA_DIR", ".estate"),
		Redis: RedisConfig{
			Addr:     getEnvAsString("ESTATE_REDIS_ADDR", "localhost:6379"),
			Password: getEnvAsString("ESTATE_REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("ESTATE_REDIS_DB", 0),
			Prefix:   getEnvAsString("ESTATE_REDIS_PREFIX", "estate:"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnvAsString("ESTATE_LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnvAsString("ESTATE_LOG_FORMAT", "text")),
			Color:  getEnvAsBool("ESTATE_LOG_COLOR", true),
		},
		Suggest: SuggestConfig{
			APIKey: getEnvAsString("GEMINI_API_KEY", ""),
			Model:  getEnvAsString("ESTATE_SUGGEST_MODEL", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that have a closed set of choices.
func (c *Config) Validate() error {
	switch c.Adapter {
	case "fs", "memory", "redis":
	default:
		return fmt.Errorf("ESTATE_ADAPTER must be fs, memory or redis, got %q", c.Adapter)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("ESTATE_LOG_FORMAT must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// URI returns the adapter-specific location of the store.
func (c *Config) URI() string {
	if c.Adapter == "redis" {
		return c.Redis.Addr
	}
	return c.DataDir
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an integer variable, falling back on unset or malformed values.
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnvAsString(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool reads a boolean variable, falling back on unset or malformed values.
func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnvAsString(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}
