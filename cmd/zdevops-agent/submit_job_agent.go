package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/zdevops/zdevops/internal/zdevops-agent/submitjob"
	"github.com/zdevops/zdevops/pkg/constants"
	"github.com/zdevops/zdevops/pkg/stepid"
)

// SubmitJobAgent implements the AgentModule interface for job submission
type SubmitJobAgent struct {
	agent *submitjob.Agent
	steps *stepid.Counter
}

// Name returns the name of the agent
func (s *SubmitJobAgent) Name() string {
	return "submit-job"
}

// ShortDescription returns a short description of the agent
func (s *SubmitJobAgent) ShortDescription() string {
	return "Submit a z/OS job"
}

// LongDescription returns a detailed description of the agent
func (s *SubmitJobAgent) LongDescription() string {
	return "Submits the JCL found at a dataset member or z/OS UNIX file. In sync mode it waits for the job to finish, " +
		"saves the job log as NAME.ID in the workspace and optionally fails on a non-zero return code."
}

// ConfigureCommand configures the agent command
func (s *SubmitJobAgent) ConfigureCommand(cmd *cobra.Command) {
	cmd.Run = func(cmd *cobra.Command, args []string) {
		runAgentCommand(cmd, s, s.Start)
	}
}

// FxModules returns the fx modules needed by this agent
func (s *SubmitJobAgent) FxModules() []fx.Option {
	return []fx.Option{
		submitjob.Module,
		fx.Populate(&s.agent),
	}
}

// NextStepID returns the id of the next submission
func (s *SubmitJobAgent) NextStepID() string {
	return s.steps.Next()
}

// Start starts the agent
func (s *SubmitJobAgent) Start(ctx context.Context) error {
	return s.agent.Start(ctx)
}

// NewSubmitJobAgent creates a new submit-job agent
func NewSubmitJobAgent() *SubmitJobAgent {
	return &SubmitJobAgent{steps: stepid.NewCounter(constants.SubmitJobStepMarker)}
}
