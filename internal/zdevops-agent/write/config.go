package write

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/zdevops/zdevops/pkg/configutils"
	"github.com/zdevops/zdevops/pkg/logging"
)

// TargetKind selects what the write agent writes to.
type TargetKind string

const (
	TargetDataset TargetKind = "dataset"
	TargetMember  TargetKind = "member"
	TargetFile    TargetKind = "file"
)

// SourceConfig is where the content comes from. Value is a path for file
// sources and the content itself for text.
type SourceConfig struct {
	Kind  SourceKind `mapstructure:"kind" validate:"required,oneof=local workspace text"`
	Value string     `mapstructure:"value"`
}

// Config defines the configuration for the write agent
type Config struct {
	Logger logging.Interface

	Target  TargetKind `mapstructure:"target" validate:"required,oneof=dataset member file"`
	Dataset string     `mapstructure:"dsn"`
	Member  string     `mapstructure:"member"`
	// Path is the destination z/OS UNIX file.
	Path   string `mapstructure:"path"`
	Binary bool   `mapstructure:"binary"`

	Source SourceConfig `mapstructure:"source"`
}

// Option defines a function that applies configuration options
type Option func(*Config) error

// Apply applies the given options to the configuration
func (c *Config) Apply(opts ...Option) error {
	for _, o := range opts {
		if o != nil {
			if err := o(c); err != nil {
				return err
			}
		}
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Target: TargetDataset,
		Source: SourceConfig{Kind: SourceWorkspace},
	}
}

// NewConfig builds and returns a new configuration from the given options
func NewConfig(opts ...Option) (*Config, error) {
	c := defaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, fmt.Errorf("failed to apply config options: %w", err)
	}
	return c, nil
}

// WithLogger sets the logger for the configuration
func WithLogger(logger logging.Interface) Option {
	return func(c *Config) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		c.Logger = logger
		return nil
	}
}

// WithViper loads configuration using Viper
func WithViper(v *viper.Viper) Option {
	return func(c *Config) error {
		*c = *defaultConfig()
		if err := configutils.BindEnvsRecursive(v, c, ""); err != nil {
			return fmt.Errorf("error binding envs: %w", err)
		}
		if err := v.Unmarshal(c); err != nil {
			return fmt.Errorf("error unmarshalling config: %w", err)
		}
		return nil
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch c.Target {
	case TargetDataset, TargetMember:
		if c.Dataset == "" {
			return errors.Errorf("dsn is required to write to a %s", c.Target)
		}
		if c.Target == TargetMember && c.Member == "" {
			return errors.New("member is required to write to a member")
		}
	case TargetFile:
		if c.Path == "" {
			return errors.New("path is required to write to a file")
		}
	}

	if _, err := ParseSource(c.Source.Kind, c.Source.Value); err != nil {
		return err
	}
	return nil
}
