package datasets

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/zdevops/zdevops/pkg/configutils"
	"github.com/zdevops/zdevops/pkg/logging"
	"github.com/zdevops/zdevops/pkg/zosmf"
)

// Action selects what the datasets agent does.
type Action string

const (
	ActionDelete     Action = "delete"
	ActionDeleteMask Action = "delete-mask"
	ActionAllocate   Action = "allocate"
	ActionDownload   Action = "download"
)

// Config defines the configuration for the datasets agent
type Config struct {
	Logger logging.Interface

	Action Action `mapstructure:"action" validate:"required,oneof=delete delete-mask allocate download"`

	// Dataset is a dataset name, or DSN(MEMBER) for download.
	Dataset string  `mapstructure:"dsn"`
	Member  *string `mapstructure:"member"`
	Mask    string  `mapstructure:"mask"`

	FailOnNotExist bool `mapstructure:"fail_on_not_exist"`
	FailOnExist    bool `mapstructure:"fail_on_exist"`

	Allocation zosmf.AllocationParams `mapstructure:"allocation" validate:"-"`
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
		FailOnNotExist: true,
		FailOnExist:    true,
		Allocation: zosmf.AllocationParams{
			Organization:   zosmf.OrgSequential,
			RecordFormat:   "FB",
			RecordLength:   80,
			AllocationUnit: "TRK",
			Primary:        1,
		},
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

	switch c.Action {
	case ActionDelete, ActionAllocate, ActionDownload:
		if c.Dataset == "" {
			return errors.Errorf("dsn is required for %s", c.Action)
		}
	}
	if c.Action == ActionAllocate {
		if err := validator.New().Struct(c.Allocation); err != nil {
			return errors.Wrap(err, "invalid allocation parameters")
		}
	}
	return nil
}
