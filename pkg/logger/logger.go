package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger embeds *zap.Logger so call sites use zap fields directly.
type Logger struct {
	*zap.Logger
}

func NewLogger() *Logger {
	return NewLoggerWithLevel("info")
}

// NewLoggerWithLevel builds a production JSON logger at the given level
// ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func NewLoggerWithLevel(level string) *Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.StacktraceKey = ""

	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	z, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return &Logger{Logger: z}
}

// With attaches structured context to a child logger.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}
