package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreFile     = "file"
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	StoreBackend string `yaml:"store_backend"`
	DataDir      string `yaml:"data_dir"`
	RedisURL     string `yaml:"redis_url"`
	DatabaseURL  string `yaml:"database_url"`
	LogFile      string `yaml:"log_file"`
	DebugMode    bool   `yaml:"debug_mode"`

	// Timer presets in minutes; zero means the built-in default.
	FocusMinutes      int `yaml:"focus_minutes"`
	ShortBreakMinutes int `yaml:"short_break_minutes"`
	LongBreakMinutes  int `yaml:"long_break_minutes"`
}

// Load loads configuration from an optional YAML file (STUDYFLOW_CONFIG)
// with environment variables taking precedence.
func Load() (*Config, error) {
	cfg := &Config{}

	if path := os.Getenv("STUDYFLOW_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.StoreBackend = getEnv("STUDYFLOW_STORE", defaultString(cfg.StoreBackend, StoreFile))
	cfg.DataDir = getEnv("STUDYFLOW_DATA_DIR", defaultString(cfg.DataDir, defaultDataDir()))
	cfg.RedisURL = getEnv("STUDYFLOW_REDIS_URL", defaultString(cfg.RedisURL, "redis://localhost:6379/0"))
	cfg.DatabaseURL = getEnv("STUDYFLOW_DATABASE_URL", cfg.DatabaseURL)
	cfg.LogFile = getEnv("STUDYFLOW_LOG_FILE", cfg.LogFile)
	cfg.DebugMode = getEnvBool("STUDYFLOW_DEBUG", cfg.DebugMode)
	cfg.FocusMinutes = getEnvInt("STUDYFLOW_FOCUS_MINUTES", cfg.FocusMinutes)
	cfg.ShortBreakMinutes = getEnvInt("STUDYFLOW_SHORT_BREAK_MINUTES", cfg.ShortBreakMinutes)
	cfg.LongBreakMinutes = getEnvInt("STUDYFLOW_LONG_BREAK_MINUTES", cfg.LongBreakMinutes)

	switch cfg.StoreBackend {
	case StoreFile, StoreMemory, StoreRedis:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("STUDYFLOW_DATABASE_URL is required for the postgres store backend")
		}
	default:
		return nil, fmt.Errorf("unknown store backend %q (must be file, memory, redis, or postgres)", cfg.StoreBackend)
	}

	return cfg, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".studyflow"
	}
	return home + "/.studyflow"
}

func defaultString(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
