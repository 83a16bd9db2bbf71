package logging

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides *zap.Logger and Interface from the "logging" viper section.
// The top-level "debug" key (bound to --debug) forces debug output.
var Module fx.Option = fx.Provide(
	provideZapLogger,
	func(l *zap.Logger) Interface { return ForZap(l) },
)

func provideZapLogger(v *viper.Viper) (*zap.Logger, error) {
	config, err := NewConfig(WithViper(v), WithDebug(v.GetBool("debug")))
	if err != nil {
		return nil, fmt.Errorf("error reading logging configuration: %w", err)
	}
	return NewLogger(config)
}
