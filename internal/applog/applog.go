// Package applog is the engine's structured-logging seam: failed
// deal-index appends (Warn) and expired-payload hydration (Debug) go
// through it rather than straight to stdout. It is never required for
// correctness — dealsdb.New defaults to a no-op logger. dealsdb.DB is the
// only component that takes a Logger; the table packages do not log, so
// page eviction is not logged.
//
// Grounded on ridhomain-mc/pkg/logger, which wraps go.uber.org/zap behind
// the same small interface; adapted here to drop the Fatal method (this
// engine is a library and must never os.Exit on a caller's behalf).
package applog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging interface every engine component
// accepts.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	With(keysAndValues ...interface{}) Logger
}

// ZapLogger implements Logger using a zap.SugaredLogger.
type ZapLogger struct {
	logger *zap.SugaredLogger
}

// New builds a production-configured ZapLogger.
func New() *ZapLogger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	config := zap.NewProductionConfig()
	config.EncoderConfig = encoderConfig

	logger, _ := config.Build()

	return &ZapLogger{logger: logger.Sugar()}
}

func (l *ZapLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l *ZapLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Infow(msg, keysAndValues...)
}

func (l *ZapLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warnw(msg, keysAndValues...)
}

func (l *ZapLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, keysAndValues...)
}

func (l *ZapLogger) With(keysAndValues ...interface{}) Logger {
	return &ZapLogger{logger: l.logger.With(keysAndValues...)}
}

// Nop is a Logger that discards everything, used as the default when a
// caller doesn't configure one.
type Nop struct{}

func (Nop) Debug(string, ...interface{})  {}
func (Nop) Info(string, ...interface{})   {}
func (Nop) Warn(string, ...interface{})   {}
func (Nop) Error(string, ...interface{})  {}
func (n Nop) With(...interface{}) Logger  { return n }
