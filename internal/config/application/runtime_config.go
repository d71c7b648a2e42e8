package application

import (
	"net"
	"os"
	"strconv"
	"strings"
)

// RuntimeConfig holds all runtime configuration from CLI flags, environment variables, and .env file
type RuntimeConfig struct {
	// API Configuration
	APIPort string
	Bind    string

	// Origin allowed for cross-origin requests, empty disables CORS
	AllowedOrigin string

	// Development Mode
	DevMode bool

	// Logging Configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// Settings file path, optional
	SettingsPath string
}

// LoadRuntimeConfig loads configuration with precedence: CLI flags > env vars > .env file > defaults
func LoadRuntimeConfig(port, bind, allowedOrigin, logLevel, logFormat, logOutput, settingsPath string, devMode bool) *RuntimeConfig {
	cfg := &RuntimeConfig{
		APIPort:       getValue(port, "HOSTPULSE_API_PORT", "8787"),
		Bind:          getValue(bind, "HOSTPULSE_BIND", "127.0.0.1"),
		AllowedOrigin: getValue(allowedOrigin, "HOSTPULSE_ALLOWED_ORIGIN", ""),
		DevMode:       devMode || getBoolEnv("HOSTPULSE_DEV_MODE", false),
		LogLevel:      getValue(logLevel, "HOSTPULSE_LOG_LEVEL", "INFO"),
		LogFormat:     getValue(logFormat, "HOSTPULSE_LOG_FORMAT", "text"),
		LogOutput:     getValue(logOutput, "HOSTPULSE_LOG_OUTPUT", "stdout"),
		SettingsPath:  getValue(settingsPath, "HOSTPULSE_SETTINGS", ""),
	}

	return cfg
}

// Addr is the listen address of the HTTP server
func (c *RuntimeConfig) Addr() string {
	return net.JoinHostPort(c.Bind, c.APIPort)
}

// getValue returns the first non-empty value from CLI flag, env var, or default
func getValue(cliValue, envKey, defaultValue string) string {
	if cliValue != "" {
		return cliValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolEnv gets a boolean environment variable
func getBoolEnv(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "true" || value == "1" || value == "yes" {
		return true
	}
	if value == "false" || value == "0" || value == "no" {
		return false
	}
	return defaultValue
}

// Validate checks that the configuration is usable
func (c *RuntimeConfig) Validate() error {
	port, err := strconv.Atoi(c.APIPort)
	if err != nil || port < 1 || port > 65535 {
		return &ConfigError{Field: "port", Message: "API port must be a number between 1 and 65535 (set HOSTPULSE_API_PORT or use --port flag)"}
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return &ConfigError{Field: "log-format", Message: "log format must be text or json"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
