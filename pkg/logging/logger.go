package logging

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ZapLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

func NewZapLogger(level zapcore.Level) (*ZapLogger, error) {
	return NewZapLoggerWithOptions(level, DefaultOptions())
}

func NewZapLoggerWithOptions(level zapcore.Level, options Options) (*ZapLogger, error) {
	atomicLevel := zap.NewAtomicLevelAt(level)
	settings := newSettings(atomicLevel, options)

	logger, err := settings.config.Build(settings.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}

	return &ZapLogger{
		logger: logger,
		level:  atomicLevel,
	}, nil
}

// NewNopLogger returns a logger that discards everything. Used by tests.
func NewNopLogger() *ZapLogger {
	return &ZapLogger{
		logger: zap.NewNop(),
		level:  zap.NewAtomicLevelAt(zapcore.FatalLevel),
	}
}

func ParseLevel(text string) (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(text)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q: %w", text, err)
	}
	return level, nil
}

func (z *ZapLogger) SetLevel(level zapcore.Level) {
	z.level.SetLevel(level)
}

func (z *ZapLogger) DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	z.logger.Debug(msg, z.withContextFields(ctx, fields)...)
}

func (z *ZapLogger) InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	z.logger.Info(msg, z.withContextFields(ctx, fields)...)
}

func (z *ZapLogger) WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	z.logger.Warn(msg, z.withContextFields(ctx, fields)...)
}

func (z *ZapLogger) ErrorCtx(ctx context.Context, msg string, fields ...zap.Field) {
	z.logger.Error(msg, z.withContextFields(ctx, fields)...)
}

func (z *ZapLogger) Sync() error {
	return z.logger.Sync()
}

func (z *ZapLogger) withContextFields(ctx context.Context, fields []zap.Field) []zap.Field {
	ctxFields := ContextFields(ctx)
	if len(ctxFields) == 0 {
		return fields
	}
	return append(ctxFields, fields...)
}
