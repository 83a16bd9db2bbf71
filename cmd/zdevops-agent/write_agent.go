package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/zdevops/zdevops/internal/zdevops-agent/write"
	"github.com/zdevops/zdevops/pkg/constants"
	"github.com/zdevops/zdevops/pkg/stepid"
)

// WriteAgent implements the AgentModule interface for dataset and file writes
type WriteAgent struct {
	agent *write.Agent
	steps *stepid.Counter
}

// Name returns the name of the agent
func (w *WriteAgent) Name() string {
	return "write"
}

// ShortDescription returns a short description of the agent
func (w *WriteAgent) ShortDescription() string {
	return "Write content to a dataset, member or z/OS UNIX file"
}

// LongDescription returns a detailed description of the agent
func (w *WriteAgent) LongDescription() string {
	return "Writes a local file, a workspace file or inline text. Dataset writes are checked against the record length first."
}

// ConfigureCommand configures the agent command
func (w *WriteAgent) ConfigureCommand(cmd *cobra.Command) {
	cmd.Run = func(cmd *cobra.Command, args []string) {
		runAgentCommand(cmd, w, w.Start)
	}
}

// FxModules returns the fx modules needed by this agent
func (w *WriteAgent) FxModules() []fx.Option {
	return []fx.Option{
		write.Module,
		fx.Populate(&w.agent),
	}
}

// NextStepID returns the id of the next write
func (w *WriteAgent) NextStepID() string {
	return w.steps.Next()
}

// Start starts the agent
func (w *WriteAgent) Start(ctx context.Context) error {
	return w.agent.Start(ctx)
}

// NewWriteAgent creates a new write agent
func NewWriteAgent() *WriteAgent {
	return &WriteAgent{steps: stepid.NewCounter(constants.WriteStepMarker)}
}
