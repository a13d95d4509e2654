package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Server settings
	Port     string
	Host     string
	LogLevel string

	// Shared secret authenticating the upstream agent gateway
	InternalSecret string

	// Store configuration
	Backend     string
	PostgresURL string
	MySQLURL    string
	SQLitePath  string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8001"),
		Host:           getEnv("HOST", "0.0.0.0"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		InternalSecret: os.Getenv("MCP_INTERNAL_SECRET"),
		Backend:        os.Getenv("TODO_BACKEND"),
		PostgresURL:    os.Getenv("POSTGRES_URL"),
		MySQLURL:       os.Getenv("MYSQL_URL"),
		SQLitePath:     getEnv("SQLITE_PATH", "todos.db"),
	}

	if cfg.InternalSecret == "" {
		return nil, fmt.Errorf("MCP_INTERNAL_SECRET must be set")
	}

	log.Info().
		Str("backend", cfg.Backend).
		Bool("postgres", cfg.PostgresURL != "").
		Bool("mysql", cfg.MySQLURL != "").
		Str("sqlite_path", cfg.SQLitePath).
		Msg("Configuration loaded")

	return cfg, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
