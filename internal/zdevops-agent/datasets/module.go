package datasets

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

type datasetsParams struct {
	fx.In

	Logger     logging.Interface
	Viper      *viper.Viper
	Factory    *zosmf.Factory
	Connection zosmf.Connection
	Workspace  *workspace.Workspace
	Metrics    *metrics.Metrics `optional:"true"`
}

// Module provides the datasets agent via fx
var Module = fx.Provide(
	func(params datasetsParams) (*Agent, error) {
		config, err := NewConfig(
			WithViper(params.Viper),
			WithLogger(params.Logger),
		)
		if err != nil {
			return nil, fmt.Errorf("error creating datasets config: %w", err)
		}
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid datasets config: %w", err)
		}

		client, err := params.Factory.Create(context.Background(), params.Connection)
		if err != nil {
			return nil, err
		}
		return NewAgent(config, NewExecutor(client, config.Logger, params.Metrics), params.Workspace), nil
	})
