package logging

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ConfigKey is the viper key holding the logging section.
var ConfigKey = "logging"

// Level is a case-insensitive logging level name.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var zapLevels = map[Level]zapcore.Level{
	"":         zapcore.InfoLevel,
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

// ParseLevel parses a level name. An empty name means INFO.
func ParseLevel(level string) (Level, error) {
	l := Level(strings.ToUpper(level))
	if err := l.Validate(); err != nil {
		return "", err
	}
	if l == "" {
		return LevelInfo, nil
	}
	return l, nil
}

// Validate reports whether l names a known level.
func (l Level) Validate() error {
	if _, ok := zapLevels[Level(strings.ToUpper(string(l)))]; !ok {
		return fmt.Errorf("unknown log level: %s", l)
	}
	return nil
}

func (l Level) String() string { return strings.ToUpper(string(l)) }

func (l Level) zapLevel() (zapcore.Level, error) {
	zl, ok := zapLevels[Level(l.String())]
	if !ok {
		return zapcore.InfoLevel, fmt.Errorf("can't convert log level to zapcore.Level: %s", l)
	}
	return zl, nil
}

// Config holds the configuration for logging.
type Config struct {
	// Debug forces DEBUG level and the console encoder; Level is ignored.
	Debug bool `mapstructure:"debug"`

	// Level defaults to INFO.
	Level Level `mapstructure:"level"`

	// EncodeTimeAsRFC3339Nano switches timestamps to RFC3339Nano.
	EncodeTimeAsRFC3339Nano bool `mapstructure:"encodeTimeAsRFC3339Nano"`

	// DisableConsoleOutput keeps lines out of stdout, only the file gets them.
	DisableConsoleOutput bool `mapstructure:"disableConsoleOutput"`

	// Logger holds the rotation knobs of the log file.
	lumberjack.Logger `mapstructure:",squash"`
}

// Option is a configuration option for logging.
type Option func(*Config) error

// Validate ensures the logging Config is valid.
func (c *Config) Validate() error {
	switch {
	case c.MaxSize < 0:
		return fmt.Errorf("maxsize must be >= 0, not %d", c.MaxSize)
	case c.MaxBackups < 0:
		return fmt.Errorf("maxbackups must be >= 0, not %d", c.MaxBackups)
	case c.MaxAge < 0:
		return fmt.Errorf("maxage days must be >= 0, not %d", c.MaxAge)
	}
	if err := c.Level.Validate(); err != nil {
		return fmt.Errorf("invalid level: %w", err)
	}
	return nil
}

func (c *Config) zapLevel() (zapcore.Level, error) {
	if c.Debug {
		return zapcore.DebugLevel, nil
	}
	return c.Level.zapLevel()
}

// WithViper reads the "logging" section.
func WithViper(v *viper.Viper) Option {
	return WithViperKey(v, ConfigKey)
}

// WithViperKey reads the section stored under configKey.
func WithViperKey(v *viper.Viper, configKey string) Option {
	return func(c *Config) error {
		if v == nil {
			return errors.New("nil Viper")
		}
		return errors.Wrapf(v.UnmarshalKey(configKey, c), "reading %q", configKey)
	}
}

// WithDebug overrides the debug switch, typically from the --debug flag.
func WithDebug(debug bool) Option {
	return func(c *Config) error {
		c.Debug = c.Debug || debug
		return nil
	}
}

// Apply takes the supplied options and applies them to the configuration.
func (c *Config) Apply(opts ...Option) error {
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(c); err != nil {
			return err
		}
	}
	return nil
}

// NewConfig creates a new logging config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}
