package datasets

import (
	"context"
	"fmt"

	"github.com/zdevops/zdevops/pkg/logging"
	"github.com/zdevops/zdevops/pkg/workspace"
)

// Agent runs one configured dataset action.
type Agent struct {
	config    *Config
	executor  *Executor
	workspace *workspace.Workspace
	logger    logging.Interface
}

// NewAgent creates the datasets agent.
func NewAgent(config *Config, executor *Executor, ws *workspace.Workspace) *Agent {
	return &Agent{config: config, executor: executor, workspace: ws, logger: config.Logger}
}

// Start performs the configured action. Failures that were skipped over by
// a best-effort run are logged but do not fail the agent.
func (a *Agent) Start(ctx context.Context) error {
	var (
		outcome *BulkOutcome
		err     error
	)

	switch a.config.Action {
	case ActionDelete:
		outcome, err = a.executor.Delete(ctx, a.config.Dataset, a.config.Member, a.config.FailOnNotExist)
	case ActionDeleteMask:
		outcome, err = a.executor.DeleteByMask(ctx, a.config.Mask, a.config.FailOnNotExist)
	case ActionAllocate:
		outcome, err = a.executor.Allocate(ctx, a.config.Dataset, a.config.Allocation, a.config.FailOnExist)
	case ActionDownload:
		outcome, err = a.executor.Download(ctx, a.config.Dataset, a.workspace)
	default:
		return fmt.Errorf("unknown action %q", a.config.Action)
	}
	if err != nil {
		return err
	}

	if outcome.Status() == StatusFailedButContinued {
		a.logger.WithError(outcome.ErrorOrNil()).Warnf("%d of %d targets failed", len(outcome.Failed), len(outcome.Failed)+len(outcome.Succeeded))
	}
	return nil
}
