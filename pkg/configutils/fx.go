package configutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// ProvideViper supplies v loaded from configFilePath, with env overrides under
// envPrefix ("connection.url" reads PREFIX_CONNECTION_URL) and the --debug
// flag from pflags bound to "debug".
func ProvideViper(v *viper.Viper, envPrefix string, pflags *pflag.FlagSet, configFilePath string) fx.Option {
	return fx.Provide(func(fs afero.Fs) (*viper.Viper, error) {
		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		if pflags != nil {
			if f := pflags.Lookup("debug"); f != nil {
				if err := v.BindPFlag("debug", f); err != nil {
					return nil, fmt.Errorf("can't bind debug flag: %w", err)
				}
			}
		}

		if configFilePath == "" {
			return nil, errors.New("no config file provided")
		}
		if err := ResolveAndMergeFile(v, fs, configFilePath); err != nil {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}

		// UnmarshalKey ignores AutomaticEnv values unless they are set explicitly.
		for _, key := range v.AllKeys() {
			v.Set(key, v.Get(key))
		}
		return v, nil
	})
}
