// Package logger wraps a process-wide zap logger.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// maxLogSize rotates the log file when it grows beyond this size
const maxLogSize = 10 * 1024 * 1024

// Options controls where and how logs are written
type Options struct {
	Level   string // debug, info, warn, error
	Format  string // console or json
	File    string // empty disables file output
	Console bool   // write to stderr
}

var (
	mu           sync.Mutex
	globalLogger = zap.NewNop()
	logFile      *os.File
	logPath      string
)

// L returns the global logger; a no-op logger until Init succeeds
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return globalLogger
}

// DefaultLogPath returns ~/.reversi/debug.log
func DefaultLogPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".reversi", "debug.log"), nil
}

// Init builds the global logger from opts
func Init(opts Options) error {
	level := parseLevel(opts.Level)
	var cores []zapcore.Core

	if opts.Console {
		cores = append(cores, zapcore.NewCore(newEncoder(opts.Format), zapcore.Lock(os.Stderr), level))
	}

	var f *os.File
	if opts.File != "" {
		var err error
		if f, err = openLogFile(opts.File); err != nil {
			return err
		}
		cores = append(cores, zapcore.NewCore(newEncoder(opts.Format), zapcore.AddSync(f), level))
	}

	if len(cores) == 0 {
		cores = append(cores, zapcore.NewNopCore())
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	globalLogger, logFile, logPath = l, f, opts.File
	globalLogger.Info("logger initialized", zap.String("path", logPath), zap.Stringer("level", level))
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		_ = os.Rename(path, fmt.Sprintf("%s.%d", path, time.Now().Unix()))
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// Close flushes and closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()
	_ = globalLogger.Sync()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	globalLogger = zap.NewNop()
}

// LogPanic logs a recovered panic with its stack trace
func LogPanic(r any) {
	L().Error("panic recovered", zap.Any("panic", r), zap.StackSkip("stack", 1))
}

// GetLogPath returns the current log file path
func GetLogPath() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

func newEncoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	if strings.EqualFold(format, "json") {
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " | "
	return zapcore.NewConsoleEncoder(cfg)
}

func parseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
