package write

import (
	"context"
	"fmt"

	"github.com/zdevops/zdevops/pkg/logging"
	"github.com/zdevops/zdevops/pkg/workspace"
	"github.com/zdevops/zdevops/pkg/zosmf"
)

// Agent writes one configured source to one configured target.
type Agent struct {
	config    *Config
	writer    *Writer
	source    Source
	workspace *workspace.Workspace
	logger    logging.Interface
}

// NewAgent creates the write agent. The content source is resolved here,
// once.
func NewAgent(config *Config, writer *Writer, ws *workspace.Workspace) (*Agent, error) {
	source, err := ParseSource(config.Source.Kind, config.Source.Value)
	if err != nil {
		return nil, err
	}
	return &Agent{
		config:    config,
		writer:    writer,
		source:    source,
		workspace: ws,
		logger:    config.Logger,
	}, nil
}

// Start loads the content and writes it.
func (a *Agent) Start(ctx context.Context) error {
	data, err := a.source.Load(a.workspace)
	if err != nil {
		a.logger.WithError(err).Errorf("Failed to load %s", a.source)
		return err
	}
	a.logger.Infof("Writing %s to %s", a.source, a.destination())

	var outcome Outcome
	switch a.config.Target {
	case TargetDataset:
		outcome, err = a.writer.WriteToDataset(ctx, a.config.Dataset, string(data))
	case TargetMember:
		outcome, err = a.writer.WriteToMember(ctx, a.config.Dataset, a.config.Member, string(data))
	case TargetFile:
		outcome, err = a.writer.WriteToFile(ctx, a.config.Path, data, a.config.Binary)
	default:
		return fmt.Errorf("unknown write target %q", a.config.Target)
	}
	if err != nil {
		return err
	}

	a.logger.WithField("result", string(outcome.Result)).Debugf("Write to %s finished", outcome.Target)
	return nil
}

func (a *Agent) destination() string {
	switch a.config.Target {
	case TargetMember:
		return zosmf.MemberRef(a.config.Dataset, a.config.Member)
	case TargetFile:
		return a.config.Path
	default:
		return a.config.Dataset
	}
}
