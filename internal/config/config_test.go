package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/some/path"},
		Server: ServerConfig{RequestsPerMinute: 60},
		Auth:   AuthConfig{TokenLifetime: time.Hour},
		Assistant: AssistantConfig{
			Enabled:           true,
			Model:             "gpt-4o-mini",
			MessagesPerMinute: 10,
		},
	}
}

// load parses args with a fresh flag set and no .env file.
func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args = append([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")}, args...)
	return Load(fs, args)
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty data path", func(c *Config) { c.Data.BasePath = "" }},
		{"negative request budget", func(c *Config) { c.Server.RequestsPerMinute = -1 }},
		{"bad cors origin", func(c *Config) { c.Server.CORSOrigins = []string{"localhost:3000"} }},
		{"short auth key", func(c *Config) { c.Auth.KeyHex = "abcd" }},
		{"zero token lifetime", func(c *Config) { c.Auth.TokenLifetime = 0 }},
		{"assistant without model", func(c *Config) { c.Assistant.Model = "" }},
		{"bad assistant url", func(c *Config) { c.Assistant.BaseURL = "not a url" }},
		{"negative message budget", func(c *Config) { c.Assistant.MessagesPerMinute = -5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_DisabledAssistantNeedsNoModel(t *testing.T) {
	cfg := validConfig()
	cfg.Assistant.Enabled = false
	cfg.Assistant.Model = ""
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg, err := load(t)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, filepath.Join(home, "Boipoka", "data"), cfg.Data.BasePath)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 60*time.Second, cfg.Server.WriteTimeout)
	assert.Empty(t, cfg.Server.CORSOrigins)
	assert.Equal(t, 300, cfg.Server.RequestsPerMinute)
	assert.Equal(t, "boipoka", cfg.Auth.Issuer)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenLifetime)
	assert.True(t, cfg.Assistant.Enabled)
	assert.Equal(t, 20, cfg.Assistant.MessagesPerMinute)
}

func TestLoad_Precedence(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := load(t, "-port", "9100")
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port, "flag beats env")
	assert.Equal(t, "debug", cfg.Logger.Level, "env beats default")
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nASSISTANT_MODEL=\"local-llama\"\nCORS_ORIGINS=https://a.example, https://b.example\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	// Keys loaded from the file leak into the process env; clear them afterwards.
	t.Setenv("ASSISTANT_MODEL", "")
	t.Setenv("CORS_ORIGINS", "")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Load(fs, []string{"-env-file", envPath, "-data-path", dir})
	require.NoError(t, err)

	assert.Equal(t, "local-llama", cfg.Assistant.Model)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, dir, cfg.Data.BasePath)
	assert.Equal(t, filepath.Join(dir, "db"), cfg.Data.DBPath())
	assert.Equal(t, filepath.Join(dir, "search"), cfg.Data.SearchPath())
}

func TestLoad_InvalidDuration(t *testing.T) {
	_, err := load(t, "-read-timeout", "soon")
	assert.ErrorContains(t, err, "server_read_timeout")
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/books", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "books"), got)

	got, err = expandPath("", "/default")
	require.NoError(t, err)
	assert.Equal(t, "/default", got)

	got, err = expandPath("relative/dir", "")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}

func TestGetBoolConfigValue(t *testing.T) {
	t.Setenv("BOOL_TEST", "YES")
	assert.True(t, getBoolConfigValue("", "BOOL_TEST", false))
	assert.False(t, getBoolConfigValue("off", "BOOL_TEST", true))
	assert.True(t, getBoolConfigValue("", "BOOL_UNSET", true))
}
