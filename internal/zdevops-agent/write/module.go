package write

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/zdevops/zdevops/pkg/logging"
	"github.com/zdevops/zdevops/pkg/metrics"
	"github.com/zdevops/zdevops/pkg/workspace"
	"github.com/zdevops/zdevops/pkg/zosmf"
)

type writeParams struct {
	fx.In

	Logger     logging.Interface
	Viper      *viper.Viper
	Factory    *zosmf.Factory
	Connection zosmf.Connection
	Workspace  *workspace.Workspace
	Metrics    *metrics.Metrics `optional:"true"`
}

// Module provides the write agent via fx
var Module = fx.Provide(
	func(params writeParams) (*Agent, error) {
		config, err := NewConfig(
			WithViper(params.Viper),
			WithLogger(params.Logger),
		)
		if err != nil {
			return nil, fmt.Errorf("error creating write config: %w", err)
		}
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid write config: %w", err)
		}

		client, err := params.Factory.Create(context.Background(), params.Connection)
		if err != nil {
			return nil, err
		}
		return NewAgent(config, NewWriter(client, config.Logger, params.Metrics), params.Workspace)
	})
