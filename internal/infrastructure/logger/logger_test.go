package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), tt.input)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf})

	log.Debug().Str("trip_id", "trip-1").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "trip-1", entry["trip_id"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNew_ConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Format: "console", Output: &buf})

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "shown"))
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
}

func TestWithContext(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Output: &buf})

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	scoped := WithContext(ctx, base)
	scoped.Info().Msg("scoped")
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)

	buf.Reset()
	plain := WithContext(context.Background(), base)
	plain.Info().Msg("plain")
	assert.NotContains(t, buf.String(), "request_id")
}
