package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/zdevops/zdevops/internal/zdevops-agent/datasets"
	"github.com/zdevops/zdevops/pkg/constants"
	"github.com/zdevops/zdevops/pkg/stepid"
)

// DatasetsAgent implements the AgentModule interface for dataset management
type DatasetsAgent struct {
	agent  *datasets.Agent
	steps  *stepid.Counter
	action datasets.Action
}

// Name returns the name of the agent
func (d *DatasetsAgent) Name() string {
	return "datasets"
}

// ShortDescription returns a short description of the agent
func (d *DatasetsAgent) ShortDescription() string {
	return "Manage z/OS datasets"
}

// LongDescription returns a detailed description of the agent
func (d *DatasetsAgent) LongDescription() string {
	return "Deletes, allocates and downloads datasets. Without a sub-command the action comes from the config file."
}

// ConfigureCommand adds one sub-command per action
func (d *DatasetsAgent) ConfigureCommand(cmd *cobra.Command) {
	cmd.Run = func(cmd *cobra.Command, args []string) {
		runAgentCommand(cmd, d, d.Start)
	}

	subcommands := []struct {
		action datasets.Action
		short  string
	}{
		{datasets.ActionDelete, "Delete a dataset or one of its members"},
		{datasets.ActionDeleteMask, "Delete every dataset matching a mask"},
		{datasets.ActionAllocate, "Allocate a dataset"},
		{datasets.ActionDownload, "Download a dataset or member into the workspace"},
	}
	for _, sc := range subcommands {
		action := sc.action
		cmd.AddCommand(&cobra.Command{
			Use:   string(action),
			Short: sc.short,
			Run: func(cmd *cobra.Command, args []string) {
				d.action = action
				runAgentCommand(cmd, d, d.Start)
			},
		})
	}
}

// FxModules returns the fx modules needed by this agent
func (d *DatasetsAgent) FxModules() []fx.Option {
	return []fx.Option{
		fx.Decorate(d.applyAction),
		datasets.Module,
		fx.Populate(&d.agent),
	}
}

// applyAction lets a sub-command override the configured action.
func (d *DatasetsAgent) applyAction(v *viper.Viper) *viper.Viper {
	if d.action != "" {
		v.Set("action", string(d.action))
	}
	return v
}

// NextStepID returns the id of the next dataset operation
func (d *DatasetsAgent) NextStepID() string {
	return d.steps.Next()
}

// Start starts the agent
func (d *DatasetsAgent) Start(ctx context.Context) error {
	return d.agent.Start(ctx)
}

// NewDatasetsAgent creates a new datasets agent
func NewDatasetsAgent() *DatasetsAgent {
	return &DatasetsAgent{steps: stepid.NewCounter(constants.DatasetsStepMarker)}
}
