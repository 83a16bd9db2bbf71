package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/zdevops/zdevops/pkg/logging"
	"github.com/zdevops/zdevops/pkg/metrics"
	"github.com/zdevops/zdevops/pkg/stepid"
	"github.com/zdevops/zdevops/pkg/version"
	"github.com/zdevops/zdevops/pkg/workspace"
	"github.com/zdevops/zdevops/pkg/zosmf"
	"github.com/zdevops/zdevops/pkg/zosmf/memclient"
)

var configFilePath string
var debug bool

// AgentModule represents a module that can be run by the agent framework
type AgentModule interface {
	Name() string
	ShortDescription() string
	LongDescription() string
	FxModules() []fx.Option

	// ConfigureCommand Allow agents to configure their commands (add subcommands, custom flags, etc.)
	ConfigureCommand(*cobra.Command)

	// NextStepID identifies the next run of this agent in the logs.
	NextStepID() string

	// Start is the default action when no subcommand is specified
	Start(ctx context.Context) error
}

// CreateAgentCommand creates a cobra command for an agent module
func CreateAgentCommand(module AgentModule) *cobra.Command {
	cmd := &cobra.Command{
		Use:   module.Name(),
		Short: module.ShortDescription(),
		Long:  module.LongDescription(),
		// We don't set Run here - let the module decide if it wants a default action
	}

	// Add common flags to persistent flags so they're available to subcommands
	cmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "", "path to config file")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")

	// Let the module configure its command (add subcommands, set Run function, etc.)
	module.ConfigureCommand(cmd)

	return cmd
}

// commonModules wires what every agent shares: config, logging tagged with
// the run and step ids, metrics, the workspace and the z/OSMF client factory.
func commonModules(cmd *cobra.Command, runID, stepID string) []fx.Option {
	return []fx.Option{
		workspace.FsModule,
		configProvider(cmd),
		logging.Module,
		logging.UseLoggingInterface,
		fx.Decorate(func(l logging.Interface) logging.Interface {
			return logging.ForStep(l, runID, stepID)
		}),
		metrics.Module,
		workspace.Module,
		zosmf.Module,
		memclient.Module,
	}
}

// runAgentCommand runs a specific command action for an agent
func runAgentCommand(cmd *cobra.Command, module AgentModule, action func(context.Context) error) {
	options := commonModules(cmd, stepid.NewRunID(), module.NextStepID())

	// Add module-specific options
	options = append(options, module.FxModules()...)

	// Run the action once the app has started; stopping the app cancels it.
	options = append(options, fx.Invoke(func(lc fx.Lifecycle, log logging.Interface, sh fx.Shutdowner) {
		ctx, cancel := context.WithCancel(context.Background())
		lc.Append(
			fx.Hook{
				OnStart: func(context.Context) error {
					log.Infof("Starting %s (%s)", module.Name(), version.String())
					go func() {
						code := 0
						if err := action(ctx); err != nil {
							log.WithError(err).Errorf("%s encountered an error during execution", module.Name())
							code = 1
						}
						if err := sh.Shutdown(fx.ExitCode(code)); err != nil {
							log.WithError(err).Errorf("Failed to shutdown %s", module.Name())
						}
					}()
					return nil
				},
				OnStop: func(context.Context) error {
					cancel()
					return nil
				},
			})
	}))

	fx.New(fx.Options(options...)).Run()
}
