package logging

import (
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

type zapWrapper struct {
	logger *zap.Logger
}

// ForZap adapts a zap logger. Caller annotation skips the wrapper frame.
func ForZap(logger *zap.Logger) Interface {
	return zapWrapper{logger: logger.WithOptions(zap.AddCaller())}
}

func (l zapWrapper) WithField(key string, value interface{}) Interface {
	return zapWrapper{l.logger.With(zap.Any(key, value))}
}

func (l zapWrapper) WithError(err error) Interface {
	return zapWrapper{l.logger.With(zap.Error(err))}
}

func (l zapWrapper) skip() *zap.Logger { return l.logger.WithOptions(zap.AddCallerSkip(1)) }

func (l zapWrapper) Debug(msg string) { l.skip().Debug(msg) }
func (l zapWrapper) Info(msg string)  { l.skip().Info(msg) }
func (l zapWrapper) Warn(msg string)  { l.skip().Warn(msg) }
func (l zapWrapper) Error(msg string) { l.skip().Error(msg) }
func (l zapWrapper) Fatal(msg string) { l.skip().Fatal(msg) }

func (l zapWrapper) Debugf(format string, args ...interface{}) { l.skip().Debug(fmtMsg(format, args)) }
func (l zapWrapper) Infof(format string, args ...interface{})  { l.skip().Info(fmtMsg(format, args)) }
func (l zapWrapper) Warnf(format string, args ...interface{})  { l.skip().Warn(fmtMsg(format, args)) }
func (l zapWrapper) Errorf(format string, args ...interface{}) { l.skip().Error(fmtMsg(format, args)) }
func (l zapWrapper) Fatalf(format string, args ...interface{}) { l.skip().Fatal(fmtMsg(format, args)) }

type logrusWrapper struct {
	entry *logrus.Entry
}

// ForLogrus adapts a logrus entry.
func ForLogrus(entry *logrus.Entry) Interface {
	return logrusWrapper{entry: entry}
}

func (l logrusWrapper) WithField(key string, value interface{}) Interface {
	return logrusWrapper{entry: l.entry.WithField(key, value)}
}

func (l logrusWrapper) WithError(err error) Interface {
	return logrusWrapper{entry: l.entry.WithError(err)}
}

func (l logrusWrapper) Debug(msg string)                          { l.entry.Debug(msg) }
func (l logrusWrapper) Info(msg string)                           { l.entry.Info(msg) }
func (l logrusWrapper) Warn(msg string)                           { l.entry.Warn(msg) }
func (l logrusWrapper) Error(msg string)                          { l.entry.Error(msg) }
func (l logrusWrapper) Fatal(msg string)                          { l.entry.Fatal(msg) }
func (l logrusWrapper) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l logrusWrapper) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l logrusWrapper) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l logrusWrapper) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l logrusWrapper) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }

type discard struct{}

// Discard returns a logger that drops every line.
func Discard() Interface { return discard{} }

func (d discard) WithField(string, interface{}) Interface { return d }
func (d discard) WithError(error) Interface               { return d }
func (d discard) Debug(string)                            {}
func (d discard) Info(string)                             {}
func (d discard) Warn(string)                             {}
func (d discard) Error(string)                            {}
func (d discard) Fatal(string)                            {}
func (d discard) Debugf(string, ...interface{})           {}
func (d discard) Infof(string, ...interface{})            {}
func (d discard) Warnf(string, ...interface{})            {}
func (d discard) Errorf(string, ...interface{})           {}
func (d discard) Fatalf(string, ...interface{})           {}
