package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInit_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	require.NoError(t, Init(Options{Level: "debug", File: path}))
	t.Cleanup(Close)

	assert.Equal(t, path, GetLogPath())
	L().Debug("hello")
	LogPanic("boom")
	require.NoError(t, L().Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "panic recovered")
}

func TestClose_ResetsToNop(t *testing.T) {
	require.NoError(t, Init(Options{Level: "info"}))
	Close()
	assert.NotPanics(t, func() { L().Info("dropped") })
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel(" Warn "))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.PanicLevel, parseLevel("panic"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestDefaultLogPath(t *testing.T) {
	t.Parallel()

	path, err := DefaultLogPath()
	require.NoError(t, err)
	assert.Equal(t, "debug.log", filepath.Base(path))
	assert.Equal(t, ".reversi", filepath.Base(filepath.Dir(path)))
}
