package config

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ParseLevel maps a level name or a numeric slog level to slog.Level.
func ParseLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Numeric slog levels, e.g. -4 for debug.
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// NewLogWriter returns the rotating file writer for cfg.
func NewLogWriter(cfg LogConfig) *lumberjack.Logger {
	filename := strings.TrimSpace(cfg.Filename)
	if filename == "" {
		filename = defaultLogFilename
	}
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
}

// NewLogger builds a text slog logger writing to w. Verbose forces debug.
func NewLogger(w io.Writer, cfg LogConfig, verbose bool) *slog.Logger {
	level := ParseLevel(cfg.Level, slog.LevelInfo)
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}))
}

// ConfigureLogger installs a file-backed logger as the slog default and
// returns the writer so the caller can close it.
func ConfigureLogger(cfg LogConfig, verbose bool) io.Closer {
	w := NewLogWriter(cfg)
	slog.SetDefault(NewLogger(w, cfg, verbose))
	return w
}

// WriteDefault writes the current settings, gap penalties included, to
// bioalign.yaml in dir. An existing file is left untouched.
func WriteDefault(v *viper.Viper, dir string) (string, error) {
	cfg, err := Load(v)
	if err != nil {
		return "", err
	}
	v.Set(KeyGapOpen, cfg.Scoring.GapOpen)
	v.Set(KeyGapExtend, cfg.Scoring.GapExtend)

	path := filepath.Join(dir, FileName)
	if err := v.SafeWriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
