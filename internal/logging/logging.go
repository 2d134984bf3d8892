// Package logging builds the zap logger. The TUI owns the terminal, so logs
// only go to a file; with no file configured, logging is discarded.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls where and how logs are written.
type Config struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // "json" or "console"
	File   string `koanf:"file"`
}

// New returns a logger and a cleanup func that syncs and closes the log file.
func New(cfg Config) (*zap.Logger, func(), error) {
	if cfg.File == "" {
		return zap.NewNop(), func() {}, nil
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o700); err != nil {
		return nil, nil, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), zapcore.AddSync(f), level)
	logger := zap.New(core, zap.AddCaller())
	cleanup := func() {
		_ = logger.Sync()
		_ = f.Close()
	}
	return logger, cleanup, nil
}

func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == "console" {
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}
