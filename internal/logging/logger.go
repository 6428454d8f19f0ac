package logging

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configures logger output.
type Config struct {
	// Level is the minimum level to emit: debug, info, warn, error.
	Level string `koanf:"level"`

	// Format selects the encoder: "json" or "console".
	Format string `koanf:"format"`
}

// DefaultConfig returns info-level JSON logging.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "json"}
}

// Validate checks the logging configuration.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	switch c.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q (want json or console)", c.Format)
	}
	return nil
}

// Logger wraps Zap with context-aware methods.
type Logger struct {
	zap *zap.Logger
}

// NewLogger creates a logger from config, writing to stderr.
func NewLogger(cfg Config) (*Logger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level, _ := zapcore.ParseLevel(cfg.Level)
	core := zapcore.NewCore(
		newEncoder(cfg.Format),
		zapcore.Lock(os.Stderr),
		level,
	)

	return &Logger{zap: zap.New(core)}, nil
}

// NewNop returns a logger that discards everything. Used in tests and
// as the default when no logger is injected.
func NewNop() *Logger {
	return &Logger{zap: zap.NewNop()}
}

// newEncoder creates a JSON or console encoder.
func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == "console" {
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}

// Context-aware logging methods

func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.zap.Debug(msg, append(ContextFields(ctx), fields...)...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.zap.Info(msg, append(ContextFields(ctx), fields...)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.zap.Warn(msg, append(ContextFields(ctx), fields...)...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.zap.Error(msg, append(ContextFields(ctx), fields...)...)
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// Zap exposes the underlying zap logger for integrations that need it.
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}
