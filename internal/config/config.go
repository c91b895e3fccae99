// Package config reads application configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// HTTP Server Configuration
	HTTPPort           int
	CORSAllowedOrigins []string

	// Database Configuration
	DatabaseURL string

	// Engine Configuration
	SuppressionWindow time.Duration
	ActiveWindow      time.Duration

	// Simulator Configuration
	SimulatorEnabled  bool
	SimulatorScenario string

	// Slack Configuration
	SlackBotToken string
	SlackChannel  string

	// Minimum severity that triggers a Slack notification
	SlackMinSeverity string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.HTTPPort = getEnvAsIntOrDefault("HTTP_PORT", 3000)
	cfg.CORSAllowedOrigins = getEnvAsListOrDefault("CORS_ALLOWED_ORIGINS", nil)

	// Default to a local SQLite file so the dashboard runs without Postgres
	cfg.DatabaseURL = getEnvOrDefault("DATABASE_URL", "alertdash.db")

	cfg.SuppressionWindow = time.Duration(getEnvAsIntOrDefault("SUPPRESSION_WINDOW_SECONDS", 30)) * time.Second
	cfg.ActiveWindow = time.Duration(getEnvAsIntOrDefault("ACTIVE_WINDOW_MINUTES", 60)) * time.Minute

	cfg.SimulatorEnabled = getEnvAsBoolOrDefault("SIMULATOR_ENABLED", false)
	cfg.SimulatorScenario = getEnvOrDefault("SIMULATOR_SCENARIO", "")

	cfg.SlackBotToken = os.Getenv("SLACK_BOT_TOKEN")
	cfg.SlackChannel = getEnvOrDefault("SLACK_ALERTS_CHANNEL", "#alerts")
	cfg.SlackMinSeverity = getEnvOrDefault("SLACK_MIN_SEVERITY", "high")

	return cfg, nil
}

// getEnvOrDefault returns the value of an environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the value of an environment variable as an integer or a default value
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault returns the value of an environment variable as a bool or a default value
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvAsListOrDefault splits a comma-separated environment variable
func getEnvAsListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
