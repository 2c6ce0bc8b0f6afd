package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger 基于 zap 的 Logger 实现
type zapLogger struct {
	log *zap.Logger
}

// NewZapLogger 用已有的 *zap.Logger 构造 Logger
//
// Trace 映射为 zap 的 Debug；Category 通过 zap.Logger.Named 追加。
func NewZapLogger(log *zap.Logger) Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &zapLogger{log: log}
}

// NewZapProduction 创建 JSON 输出的 zap Logger，minimumLevel 控制最低级别
func NewZapProduction(minimumLevel LogLevel) (Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(toZapLevel(minimumLevel))
	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(log), nil
}

func (l *zapLogger) Trace(msg string, fields ...Field) { l.Log(LogLevelTrace, msg, fields...) }
func (l *zapLogger) Debug(msg string, fields ...Field) { l.Log(LogLevelDebug, msg, fields...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.Log(LogLevelInfo, msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.Log(LogLevelWarn, msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.Log(LogLevelError, msg, fields...) }

func (l *zapLogger) Enabled(level LogLevel) bool {
	if level >= LogLevelOff {
		return false
	}
	return l.log.Core().Enabled(toZapLevel(level))
}

func (l *zapLogger) Log(level LogLevel, msg string, fields ...Field) {
	if level >= LogLevelOff {
		return
	}
	if ce := l.log.Check(toZapLevel(level), msg); ce != nil {
		ce.Write(toZapFields(fields)...)
	}
}

func (l *zapLogger) WithFields(fields ...Field) Logger {
	return &zapLogger{log: l.log.With(toZapFields(fields)...)}
}

func (l *zapLogger) WithCategory(category string) Logger {
	return &zapLogger{log: l.log.Named(category)}
}

func toZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LogLevelTrace, LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

func toZapFields(fields []Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		switch v := f.Value.(type) {
		case error:
			out[i] = zap.NamedError(f.Key, v)
		case interface{ String() string }:
			out[i] = zap.Stringer(f.Key, v)
		default:
			out[i] = zap.Any(f.Key, v)
		}
	}
	return out
}
