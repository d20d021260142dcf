package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.Info("blog created", "blog_id", "blog-1", "owner_id", "user-1")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "blog created", record["msg"])
	assert.Equal(t, "blog-1", record["blog_id"])
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		environment string
		wantJSON    bool
	}{
		{"production", true},
		{"development", false},
		{"staging", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			var buf bytes.Buffer
			New(Config{Environment: tt.environment, Writer: &buf}).Info("hello")
			assert.Equal(t, tt.wantJSON, strings.HasPrefix(buf.String(), "{"), buf.String())
		})
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Format: "pretty", Writer: &buf})

	logger.Info("quiet")
	logger.Warn("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
	assert.Contains(t, buf.String(), "WRN")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestRedaction(t *testing.T) {
	for _, format := range []string{"json", "pretty"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Format: format, Writer: &buf})

			logger.Info("assistant configured",
				"api_key", "sk-live-123",
				"access_token", "v4.local.abc",
				"total_tokens", 42,
			)

			out := buf.String()
			assert.NotContains(t, out, "sk-live-123")
			assert.NotContains(t, out, "v4.local.abc")
			assert.Contains(t, out, redacted)
			assert.Contains(t, out, "42", "token counts are not credentials")
		})
	}
}

func TestPrettyHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: "pretty", Writer: &buf})

	logger.With("request_id", "r-1").
		WithGroup("chat").
		Info("message added", "chat_id", "chat-1", slog.Group("usage", "total_tokens", 7))

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "message added")
	assert.Contains(t, out, "request_id=r-1")
	assert.Contains(t, out, "chat.chat_id=chat-1")
	assert.Contains(t, out, "chat.usage.total_tokens=7")
}

func TestPrettyHandler_QuotesStrings(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: "pretty", Writer: &buf})

	logger.Info("blog created", "title", "The Name of the Wind")

	assert.Contains(t, buf.String(), `title="The Name of the Wind"`)
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: "json", Writer: &buf})

	logger.WithError(errors.New("disk full")).Error("write failed")

	assert.Contains(t, buf.String(), `"error":"disk full"`)
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	require.NotNil(t, logger)
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
}
