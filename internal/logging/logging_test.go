package logging

import (
	"bytes"
	"cooked/internal/configuration"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLogger_JSON(t *testing.T) {
	var out bytes.Buffer
	logger, closer := NewLogger(configuration.LoggerConfig{Level: "info", Format: configuration.LogFormatJSON}, &out)
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("analyzed", "overallScore", 42)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "analyzed", record["msg"])
	assert.Equal(t, 42.0, record["overallScore"])
}

func TestNewLogger_TextWithFile(t *testing.T) {
	var out bytes.Buffer
	file := filepath.Join(t.TempDir(), "cooked.log")
	logger, closer := NewLogger(configuration.LoggerConfig{
		Level:      "debug",
		Format:     configuration.LogFormatText,
		File:       file,
		MaxSizeMB:  1,
		MaxBackups: 1,
	}, &out)

	logger.With("component", "test").Warn("rating lookup failed", "professor", "X")
	require.NoError(t, closer.Close())

	assert.Contains(t, out.String(), "rating lookup failed")

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(content), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "test", record["component"])
	assert.Equal(t, "X", record["professor"])
}
