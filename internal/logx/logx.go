// Package logx builds the zap logger shared by the board, the GUI and the CLI.
package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects where and how log entries are written.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	File   string // optional; appended to
	Stderr bool   // also write to stderr
}

// New builds a logger from opts. The returned close function releases the
// log file, if any.
func New(opts Options) (*zap.Logger, func() error, error) {
	level := ParseLevel(opts.Level)
	var cores []zapcore.Core
	closer := func() error { return nil }

	if opts.Stderr {
		cores = append(cores, zapcore.NewCore(encoder(opts.Format), zapcore.AddSync(os.Stderr), level))
	}

	if path := strings.TrimSpace(opts.File); path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, closer, fmt.Errorf("create log dir: %w", err)
			}
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file: %w", err)
		}
		closer = f.Close
		cores = append(cores, zapcore.NewCore(encoder(opts.Format), zapcore.AddSync(f), level))
	}

	if len(cores) == 0 {
		return zap.NewNop(), closer, nil
	}
	logger := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, closer, nil
}

// NewWriter builds a logger writing to w. Used by tests and the diff tool.
func NewWriter(w io.Writer, level, format string) *zap.Logger {
	core := zapcore.NewCore(encoder(format), zapcore.AddSync(w), ParseLevel(level))
	return zap.New(core)
}

// ParseLevel maps a level name to a zap level; unknown names mean info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ValidLevel reports whether s names a level ParseLevel understands.
func ValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

func encoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if strings.EqualFold(format, "json") {
		cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " | "
	return zapcore.NewConsoleEncoder(cfg)
}
