package logger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useLogger restores a stderr logger once the test finishes
func useLogger(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		_ = Close()
		_ = InitializeWithConfig(Config{Level: "INFO"})
	})
}

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		debug    string
		expected string
	}{
		{name: "explicit level", level: "warn", expected: "warn"},
		{name: "explicit level wins over debug", level: "ERROR", debug: "1", expected: "ERROR"},
		{name: "debug flag", debug: "1", expected: "DEBUG"},
		{name: "debug true", debug: "true", expected: "DEBUG"},
		{name: "debug off", debug: "0", expected: "INFO"},
		{name: "nothing set", expected: "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.level)
			t.Setenv("DATESEL_DEBUG", tt.debug)
			assert.Equal(t, tt.expected, LevelFromEnv())
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, parseLevel("INFO"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestInitializeWritesJSONToFile(t *testing.T) {
	useLogger(t)
	path := filepath.Join(t.TempDir(), "nested", "picker.log")

	require.NoError(t, InitializeWithConfig(Config{Level: "debug", Format: "JSON", File: path}))
	assert.Equal(t, slog.LevelDebug, GetLevel())
	assert.Equal(t, "json", GetFormat())
	assert.Equal(t, path, GetLogFile())
	assert.False(t, IsTUIMode())

	Debug("picker opened", "picker", "p1")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "picker opened", entry["msg"])
	assert.Equal(t, "p1", entry["picker"])
}

func TestInitializeFiltersBelowLevel(t *testing.T) {
	useLogger(t)
	path := filepath.Join(t.TempDir(), "picker.log")

	require.NoError(t, InitializeWithConfig(Config{Level: "WARN", File: path}))
	assert.Equal(t, "text", GetFormat())

	Info("hidden")
	Warn("shown", "step", 7)
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "msg=shown")
	assert.Contains(t, string(data), "step=7")
}

func TestTUIModeDefaultsToDataDir(t *testing.T) {
	useLogger(t)
	dir := t.TempDir()
	t.Setenv("DATESEL_DATA_DIR", dir)

	require.NoError(t, InitializeWithConfig(Config{TUIMode: true}))

	expected := filepath.Join(dir, "logs", "datesel.log")
	assert.Equal(t, expected, GetLogFile())
	assert.True(t, IsTUIMode())
	assert.FileExists(t, expected)
}

func TestTUIModeRequiresWritableFile(t *testing.T) {
	useLogger(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	path := filepath.Join(blocker, "logs", "datesel.log")

	err := InitializeWithConfig(Config{File: path, TUIMode: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TUI mode requires file-based logging")

	err = InitializeWithConfig(Config{File: path})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "TUI mode")
	assert.Contains(t, err.Error(), "failed to create log directory")
}

func TestFailedInitializeKeepsPreviousLogger(t *testing.T) {
	useLogger(t)
	path := filepath.Join(t.TempDir(), "picker.log")
	require.NoError(t, InitializeWithConfig(Config{Level: "ERROR", File: path}))

	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	require.Error(t, InitializeWithConfig(Config{Level: "DEBUG", File: filepath.Join(blocker, "x.log")}))

	assert.Equal(t, slog.LevelError, GetLevel())
	assert.Equal(t, path, GetLogFile())
}

func TestCloseIsIdempotent(t *testing.T) {
	useLogger(t)
	path := filepath.Join(t.TempDir(), "picker.log")
	require.NoError(t, InitializeWithConfig(Config{File: path}))

	require.NoError(t, Close())
	require.NoError(t, Close())

	// Falls back to stderr after close
	require.NotNil(t, GetLogger())
	Info("after close")
}
