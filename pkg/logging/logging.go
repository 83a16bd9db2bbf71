package logging

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// NewLogger builds a zap logger writing to the configured file and, unless
// disabled, to stdout.
func NewLogger(config *Config) (*zap.Logger, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging config: %w", err)
	}

	level, err := config.zapLevel()
	if err != nil {
		return nil, fmt.Errorf("constructing log level: %w", err)
	}
	encoder := newEncoder(config)

	var core zapcore.Core = zapcore.NewCore(encoder, zapcore.AddSync(&config.Logger), level)
	if !config.DisableConsoleOutput {
		core = zapcore.NewTee(core, zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level))
	}

	return zap.New(core, zap.AddCaller()), nil
}

// Debug output goes to the log file too; lumberjack falls back to a temp file
// when no filename is configured.
func newEncoder(config *Config) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	if config.Debug {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	if config.EncodeTimeAsRFC3339Nano {
		encoderConfig.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	}

	if config.Debug {
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}

// NewTestLogger returns a logrus backed logger writing to stderr.
func NewTestLogger() Interface {
	return ForLogrus(logrus.NewEntry(logrus.New()))
}

// NewObserved returns a logger recording every line at DEBUG and above, so
// tests can assert on the exact messages an operation emitted.
func NewObserved() (Interface, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return ForZap(zap.New(core)), logs
}

// Messages lists the recorded messages in emission order.
func Messages(logs *observer.ObservedLogs) []string {
	entries := logs.AllUntimed()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Message)
	}
	return out
}
