package submitjob

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/zdevops/zdevops/pkg/logarchive"
	"github.com/zdevops/zdevops/pkg/logging"
	"github.com/zdevops/zdevops/pkg/metrics"
	"github.com/zdevops/zdevops/pkg/workspace"
	"github.com/zdevops/zdevops/pkg/zosmf"
)

type submitJobParams struct {
	fx.In

	Logger     logging.Interface
	Viper      *viper.Viper
	Factory    *zosmf.Factory
	Connection zosmf.Connection
	Workspace  *workspace.Workspace
	Metrics    *metrics.Metrics `optional:"true"`
}

// Module provides the submit-job agent via fx
var Module = fx.Provide(
	func(params submitJobParams) (*Agent, error) {
		config, err := NewConfig(
			WithViper(params.Viper),
			WithLogger(params.Logger),
		)
		if err != nil {
			return nil, fmt.Errorf("error creating submit-job config: %w", err)
		}
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid submit-job config: %w", err)
		}

		ctx := context.Background()
		client, err := params.Factory.Create(ctx, params.Connection)
		if err != nil {
			return nil, err
		}

		orchestrator := NewOrchestrator(client, params.Connection, config.Logger, params.Metrics).
			WithWaitPolicy(config.WaitPolicy()).
			WithURLTemplate(config.URLTemplate)

		if config.Archive.Enabled() {
			archiver, err := logarchive.NewS3Archiver(ctx, config.Archive, config.Logger)
			if err != nil {
				return nil, fmt.Errorf("error creating log archiver: %w", err)
			}
			orchestrator.WithArchiver(archiver)
		}
		return NewAgent(config, orchestrator, params.Workspace), nil
	})
