// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Data      DataConfig
	Server    ServerConfig
	Auth      AuthConfig
	Assistant AssistantConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds on-disk storage locations.
type DataConfig struct {
	// BasePath holds the database, the search index, and the token key.
	BasePath string
}

// DBPath is the Badger directory.
func (d DataConfig) DBPath() string { return filepath.Join(d.BasePath, "db") }

// SearchPath is the bleve index directory.
func (d DataConfig) SearchPath() string { return filepath.Join(d.BasePath, "search") }

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port              string        // Server port (default: 8080)
	ReadTimeout       time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout      time.Duration // HTTP write timeout (default: 60s, assistant replies are slow)
	IdleTimeout       time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins       []string      // Allowed origins; empty allows any origin without credentials
	RequestsPerMinute int           // Per-IP request budget; 0 disables the limiter
}

// AuthConfig holds identity token configuration.
type AuthConfig struct {
	// KeyHex is a hex-encoded 32-byte PASETO v4 key. Empty loads or
	// generates one under the data path.
	KeyHex   string
	Issuer   string
	Audience string
	// TokenLifetime bounds tokens minted by the seeder.
	TokenLifetime time.Duration
}

// AssistantConfig holds the chat assistant backend configuration.
type AssistantConfig struct {
	Enabled           bool
	BaseURL           string // OpenAI-compatible endpoint; empty uses the default
	APIKey            string
	Model             string
	MessagesPerMinute int // Per-user chat message budget; 0 disables the limiter
	Timeout           time.Duration
}

// LoadConfig loads configuration from the process flags and environment with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return Load(flag.CommandLine, os.Args[1:])
}

// Load registers the configuration flags on fs, parses args and builds the config.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	// Define command-line flags.
	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Base path for the database, search index and keys")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 60s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma-separated allowed CORS origins")
	requestsPerMinute := fs.String("requests-per-minute", "", "Per-IP request budget (default: 300, 0 disables)")

	// Auth flags
	authKey := fs.String("auth-key", "", "Hex-encoded 32-byte token key")
	authIssuer := fs.String("auth-issuer", "", "Expected token issuer")
	authAudience := fs.String("auth-audience", "", "Expected token audience")
	tokenLifetime := fs.String("token-lifetime", "", "Lifetime of seeded tokens (default: 24h)")

	// Assistant flags
	assistantEnabled := fs.String("assistant-enabled", "", "Enable assistant replies in chats (default: true)")
	assistantBaseURL := fs.String("assistant-base-url", "", "OpenAI-compatible API base URL")
	assistantModel := fs.String("assistant-model", "", "Default assistant model")
	assistantRate := fs.String("assistant-messages-per-minute", "", "Per-user chat message budget (default: 20)")
	assistantTimeout := fs.String("assistant-timeout", "", "Assistant request timeout (default: 45s)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port:              getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins:       splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "")),
			RequestsPerMinute: getIntConfigValue(*requestsPerMinute, "REQUESTS_PER_MINUTE", 300),
		},
		Auth: AuthConfig{
			KeyHex:   getConfigValue(*authKey, "AUTH_KEY", ""),
			Issuer:   getConfigValue(*authIssuer, "AUTH_ISSUER", "boipoka"),
			Audience: getConfigValue(*authAudience, "AUTH_AUDIENCE", "boipoka-api"),
		},
		Assistant: AssistantConfig{
			Enabled:           getBoolConfigValue(*assistantEnabled, "ASSISTANT_ENABLED", true),
			BaseURL:           getConfigValue(*assistantBaseURL, "ASSISTANT_BASE_URL", ""),
			APIKey:            getConfigValue("", "ASSISTANT_API_KEY", os.Getenv("OPENAI_API_KEY")),
			Model:             getConfigValue(*assistantModel, "ASSISTANT_MODEL", "gpt-4o-mini"),
			MessagesPerMinute: getIntConfigValue(*assistantRate, "ASSISTANT_MESSAGES_PER_MINUTE", 20),
		},
	}

	durations := []struct {
		flagValue, envKey, def string
		dst                    *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "60s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{*tokenLifetime, "TOKEN_LIFETIME", "24h", &cfg.Auth.TokenLifetime},
		{*assistantTimeout, "ASSISTANT_TIMEOUT", "45s", &cfg.Assistant.Timeout},
	}
	for _, d := range durations {
		value := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", strings.ToLower(d.envKey), value, err)
		}
		*d.dst = parsed
	}

	// Expand and validate data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	if c.Server.RequestsPerMinute < 0 {
		return fmt.Errorf("invalid requests per minute: %d", c.Server.RequestsPerMinute)
	}
	for _, origin := range c.Server.CORSOrigins {
		if origin == "*" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid CORS origin: %q", origin)
		}
	}

	if c.Auth.KeyHex != "" && len(c.Auth.KeyHex) != 64 {
		return errors.New("AUTH_KEY must be 64 hex characters (32 bytes)")
	}
	if c.Auth.TokenLifetime <= 0 {
		return errors.New("token lifetime must be positive")
	}

	if c.Assistant.Enabled {
		if c.Assistant.Model == "" {
			return errors.New("assistant model is required when the assistant is enabled")
		}
		if c.Assistant.BaseURL != "" {
			if _, err := url.ParseRequestURI(c.Assistant.BaseURL); err != nil {
				return fmt.Errorf("invalid assistant base URL %q: %w", c.Assistant.BaseURL, err)
			}
		}
	}
	if c.Assistant.MessagesPerMinute < 0 {
		return fmt.Errorf("invalid assistant messages per minute: %d", c.Assistant.MessagesPerMinute)
	}

	// A missing API key is not an error: the assistant is then disabled at startup.

	return nil
}

// IsProduction reports whether the app runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath defaults the data path to ~/Boipoka/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Boipoka", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// splitList splits a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		key, value, found := strings.Cut(line, "=")
		if !found {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
