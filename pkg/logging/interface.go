package logging

import (
	"fmt"
)

// Interface is the sink every agent writes its status and diagnostic lines to.
// It is satisfied by both the zap and logrus backends, so callers never pick one.
type Interface interface {
	WithField(key string, value interface{}) Interface
	WithError(err error) Interface

	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
	Fatal(msg string)

	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// Field names attached by agents to every line of a run.
const (
	RunIDField  = "run"
	StepIDField = "step"
)

// ForStep tags log with the identifiers of one agent execution.
func ForStep(log Interface, runID, stepID string) Interface {
	return log.WithField(RunIDField, runID).WithField(StepIDField, stepID)
}

func fmtMsg(format string, args []interface{}) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
