// Package metrics counts agent operations in Prometheus form. Agents are short
// lived, so the registry is dumped to a node-exporter textfile at shutdown
// instead of being served.
package metrics

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/zdevops/zdevops/pkg/logging"
)

// Result labels.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultSkipped = "skipped"
)

// TextfileKey is the viper key of the textfile output path.
const TextfileKey = "metrics.textfile"

// Metrics holds the agent collectors. A nil *Metrics records nothing.
type Metrics struct {
	operations  *prometheus.CounterVec
	bulkTargets *prometheus.CounterVec
	jobWait     prometheus.Histogram
}

// NewMetrics registers the collectors with registerer, or the default
// registerer when nil.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &Metrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zdevops_operations_total",
			Help: "Remote operations by operation and result",
		}, []string{"operation", "result"}),
		bulkTargets: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "zdevops_bulk_targets_total",
			Help: "Targets processed by bulk operations by operation and result",
		}, []string{"operation", "result"}),
		jobWait: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "zdevops_job_wait_duration_seconds",
			Help:    "Time spent waiting for submitted jobs to finish",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34m
		}),
	}
}

func result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

// ObserveOperation counts one finished operation.
func (m *Metrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, result(err)).Inc()
}

// ObserveTarget counts one target of a bulk operation.
func (m *Metrics) ObserveTarget(operation, result string) {
	if m == nil {
		return
	}
	m.bulkTargets.WithLabelValues(operation, result).Inc()
}

// ObserveJobWait records how long a job took to reach a terminal state.
func (m *Metrics) ObserveJobWait(d time.Duration) {
	if m == nil {
		return
	}
	m.jobWait.Observe(d.Seconds())
}

// WriteTextfile atomically writes everything gathered by g to path.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return errors.Wrapf(prometheus.WriteToTextfile(path, g), "writing metrics to %s", path)
}

// Module provides a private registry and the Metrics on it, and writes the
// textfile configured under TextfileKey when the app stops.
var Module = fx.Options(
	fx.Provide(
		prometheus.NewRegistry,
		func(r *prometheus.Registry) *Metrics { return NewMetrics(r) },
	),
	fx.Invoke(func(lc fx.Lifecycle, r *prometheus.Registry, v *viper.Viper, log logging.Interface) {
		path := v.GetString(TextfileKey)
		if path == "" {
			return
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				if err := WriteTextfile(path, r); err != nil {
					log.WithError(err).Warn("Failed to write metrics textfile")
				}
				return nil
			},
		})
	}),
)
