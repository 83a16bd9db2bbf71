package submitjob

import (
	"context"
	"errors"
	"fmt"

	"github.com/zdevops/zdevops/pkg/logging"
	"github.com/zdevops/zdevops/pkg/workspace"
	"github.com/zdevops/zdevops/pkg/zosmf"
)

// ErrReturnCode fails a checked run whose job did not end with CC 0000.
var ErrReturnCode = errors.New("job RC code is not 0000")

// Agent submits the configured job.
type Agent struct {
	config       *Config
	orchestrator *Orchestrator
	workspace    *workspace.Workspace
	logger       logging.Interface
}

// NewAgent creates the submit-job agent.
func NewAgent(config *Config, orchestrator *Orchestrator, ws *workspace.Workspace) *Agent {
	return &Agent{config: config, orchestrator: orchestrator, workspace: ws, logger: config.Logger}
}

// Start submits the job and, in sync mode, waits for it and saves its log.
func (a *Agent) Start(ctx context.Context) error {
	if !a.config.Sync {
		_, err := a.orchestrator.Submit(ctx, a.config.Reference)
		return err
	}

	result, err := a.orchestrator.SubmitAndWaitSync(ctx, a.config.Reference, a.workspace)
	if err != nil {
		return err
	}

	if a.config.CheckRC && result.ReturnCode != zosmf.SuccessReturnCode {
		err := fmt.Errorf("%w: %s ended with %q", ErrReturnCode, result.Job, result.ReturnCode)
		a.logger.Error(err.Error())
		return err
	}
	return nil
}
