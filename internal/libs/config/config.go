// Package config provides application configuration management from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers understood by the db package
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverFile     = "file"
)

// Config holds application configuration
type Config struct {
	DatabaseURL     string
	DatabaseName    string
	StoreDriver     string
	DataDir         string
	CORSOrigins     []string
	APIPort         string
	APIHost         string
	LogLevel        string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first; variables already
// present in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:  getEnv("DATABASE_URL", os.Getenv("MONGO_URL")),
		DatabaseName: getEnv("DB_NAME", ""),
		StoreDriver:  strings.ToLower(getEnv("STORE_DRIVER", "")),
		DataDir:      getEnv("DATA_DIR", "./data"),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),
		APIPort:      getEnv("API_PORT", "8080"),
		APIHost:      getEnv("API_HOST", "0.0.0.0"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	timeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = timeout

	if cfg.StoreDriver == "" {
		cfg.StoreDriver = DriverFile
		if cfg.DatabaseURL != "" {
			cfg.StoreDriver = DriverPostgres
		}
	}

	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	case DriverSQLite, DriverFile:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// splitList splits a comma separated value, dropping blanks
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
