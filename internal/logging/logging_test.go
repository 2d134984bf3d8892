package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NoFileIsNop(t *testing.T) {
	logger, cleanup, err := New(Config{Level: "debug"})
	require.NoError(t, err)
	defer cleanup()
	assert.False(t, logger.Core().Enabled(-1))
}

func TestNew_WritesJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "logs", "taskanalyzer.log")
	logger, cleanup, err := New(Config{Level: "info", Format: "json", File: p})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("analysis complete")
	cleanup()

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "analysis complete", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry, "ts")
}

func TestNew_Console(t *testing.T) {
	p := filepath.Join(t.TempDir(), "taskanalyzer.log")
	logger, cleanup, err := New(Config{Format: "console", File: p})
	require.NoError(t, err)
	logger.Warn("service down")
	cleanup()

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "service down")
	assert.False(t, strings.HasPrefix(string(b), "{"))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(Config{Level: "loud", File: filepath.Join(t.TempDir(), "x.log")})
	assert.Error(t, err)
}
