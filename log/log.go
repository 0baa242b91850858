// Package log builds zap loggers writing JSON to stdout, stderr or a rotated
// file.
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type plugin = zapcore.Core

// DefaultEncoderConfig is the production config with ISO8601 times under
// "timestamp" and upper-case levels.
func DefaultEncoderConfig() zapcore.EncoderConfig {
	var encoderConfig = zap.NewProductionEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.TimeKey = "timestamp"
	return encoderConfig
}

// DefaultOption records the caller on every entry and a stack trace from
// DPanic up.
func DefaultOption() []zap.Option {
	var stackTraceLevel zap.LevelEnablerFunc = func(level zapcore.Level) bool {
		return level >= zapcore.DPanicLevel
	}
	return []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(stackTraceLevel),
	}
}

func NewLogger(plugin zapcore.Core, options ...zap.Option) *zap.Logger {
	return zap.New(plugin, append(DefaultOption(), options...)...)
}

// NewPlugin is a JSON core; the other New*Plugin helpers only pick the
// writer.
func NewPlugin(writer zapcore.WriteSyncer, enabler zapcore.LevelEnabler) plugin {
	return zapcore.NewCore(zapcore.NewJSONEncoder(DefaultEncoderConfig()), writer, enabler)
}

func NewStdoutPlugin(enabler zapcore.LevelEnabler) plugin {
	return NewPlugin(zapcore.Lock(zapcore.AddSync(os.Stdout)), enabler)
}

func NewStderrPlugin(enabler zapcore.LevelEnabler) plugin {
	return NewPlugin(zapcore.Lock(zapcore.AddSync(os.Stderr)), enabler)
}

// NewFilePlugin writes to filePath, rotating at 200MB and compressing old
// files.
func NewFilePlugin(filePath string, enabler zapcore.LevelEnabler) (plugin, io.Closer) {
	var writer = &lumberjack.Logger{
		Filename:  filePath,
		MaxSize:   200,
		LocalTime: true,
		Compress:  true,
	}
	return NewPlugin(zapcore.AddSync(writer), enabler), writer
}

// New parses level ("debug", "INFO", ...) and returns a logger writing to
// filePath, or to stderr when filePath is empty. The closer is a no-op for
// stderr.
func New(level string, filePath string) (*zap.Logger, io.Closer, error) {
	if level == "" {
		level = "INFO"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	if filePath == "" {
		return NewLogger(NewStderrPlugin(lvl)), io.NopCloser(nil), nil
	}
	p, closer := NewFilePlugin(filePath, lvl)
	return NewLogger(p), closer, nil
}
