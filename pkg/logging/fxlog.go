package logging

import (
	"strings"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// UseLoggingInterface routes fx container events to the provided Interface.
// Successful events are logged at DEBUG so they stay out of step output.
var UseLoggingInterface fx.Option = fx.WithLogger(
	func(logger Interface) fxevent.Logger {
		return &fxLoggerAdapter{log: logger.WithField("fx", "event")}
	},
)

type fxLoggerAdapter struct{ log Interface }

// LogEvent implements fxevent.Logger.
func (f *fxLoggerAdapter) LogEvent(event fxevent.Event) {
	log := f.log
	switch e := event.(type) {
	case *fxevent.OnStartExecuted:
		outcome("OnStart hook", e.Err, log.WithField("callee", e.FunctionName).WithField("runtime", e.Runtime.String()))
	case *fxevent.OnStopExecuted:
		outcome("OnStop hook", e.Err, log.WithField("callee", e.FunctionName).WithField("runtime", e.Runtime.String()))
	case *fxevent.Provided:
		if e.Err != nil {
			log.WithField("constructor", e.ConstructorName).WithError(e.Err).Error("error encountered while applying options")
		}
	case *fxevent.Invoked:
		outcome("Invoke", e.Err, log.WithField("function", e.FunctionName))
	case *fxevent.Stopping:
		log.WithField("signal", strings.ToUpper(e.Signal.String())).Info("Stopping: received signal")
	case *fxevent.Stopped:
		outcome("App stop", e.Err, log)
	case *fxevent.RollingBack:
		outcome("Start failed, rolling back", e.StartErr, log)
	case *fxevent.Started:
		outcome("App start", e.Err, log)
	case *fxevent.LoggerInitialized:
		outcome("Custom logger initialization", e.Err, log.WithField("function", e.ConstructorName))
	}
}

func outcome(msg string, err error, log Interface) {
	if err == nil {
		log.Debug(msg + " succeeded")
		return
	}
	log.WithError(err).Error(msg + " failed")
}
