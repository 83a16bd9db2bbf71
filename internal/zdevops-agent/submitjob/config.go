package submitjob

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/zdevops/zdevops/pkg/configutils"
	"github.com/zdevops/zdevops/pkg/logarchive"
	"github.com/zdevops/zdevops/pkg/logging"
)

// Config defines the configuration for the submit-job agent
type Config struct {
	Logger logging.Interface

	// Reference is the job to submit: DSN(MEMBER) or a z/OS UNIX path.
	Reference string `mapstructure:"reference" validate:"required"`

	// Sync waits for the job and saves its log; otherwise the agent returns
	// right after submission.
	Sync    bool `mapstructure:"sync"`
	CheckRC bool `mapstructure:"check_rc"`

	URLTemplate  string        `mapstructure:"url_template"`
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"gt=0"`
	WaitTimeout  time.Duration `mapstructure:"wait_timeout" validate:"gt=0"`

	Archive logarchive.Config `mapstructure:"archive"`
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
		Sync:         true,
		PollInterval: DefaultWaitPolicy.Interval,
		WaitTimeout:  DefaultWaitPolicy.Timeout,
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

// WaitPolicy is the configured polling policy.
func (c *Config) WaitPolicy() WaitPolicy {
	return WaitPolicy{Interval: c.PollInterval, Timeout: c.WaitTimeout}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.PollInterval > c.WaitTimeout {
		return errors.Errorf("poll_interval %s is longer than wait_timeout %s", c.PollInterval, c.WaitTimeout)
	}
	return nil
}
