package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestSetupStderr(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer

	cfg := DefaultConfig()
	cfg.Level = "warn"
	logger, cleanup, err := Setup(cfg, &buf)
	require.NoError(t, err)
	defer cleanup()

	logger.Info("hidden")
	slog.Warn("shown", "path", "core/a.yml")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "path=core/a.yml")
}

func TestSetupFile(t *testing.T) {
	restoreDefault(t)
	path := filepath.Join(t.TempDir(), "logs", "fwlint.log")

	cfg := DefaultConfig()
	cfg.File = path
	cfg.Compress = false
	logger, cleanup, err := Setup(cfg, nil)
	require.NoError(t, err)

	logger.Info("to file")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=\"to file\"")
}
