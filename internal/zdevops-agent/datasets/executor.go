package datasets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/zdevops/zdevops/pkg/diag"
	"github.com/zdevops/zdevops/pkg/logging"
	"github.com/zdevops/zdevops/pkg/metrics"
	"github.com/zdevops/zdevops/pkg/zosmf"
)

// ContinueNotice follows the diagnostic of every failure that is skipped over.
const ContinueNotice = "Failure ignored, continuing with execution"

var (
	// ErrEmptyMask rejects a bulk operation without a mask.
	ErrEmptyMask = fmt.Errorf("%w: dataset mask is empty", zosmf.ErrValidation)

	// ErrNoMatch means a mask resolved to no dataset at all.
	ErrNoMatch = errors.New("no datasets matched the mask")
)

// Status summarizes a BulkOutcome.
type Status string

const (
	StatusSucceeded          Status = "succeeded"
	StatusFailedButContinued Status = "failed-but-continued"
	StatusAborted            Status = "aborted-on-first-failure"
)

// TargetFailure is one target the operation failed on.
type TargetFailure struct {
	Target     string
	Diagnostic string
	// NotFound is set when the target did not exist.
	NotFound bool
	Err      error
}

// BulkOutcome records what happened to every target of one invocation.
// Skipped holds targets never attempted because the run aborted.
type BulkOutcome struct {
	Operation string
	Succeeded []string
	Failed    []TargetFailure
	Skipped   []string
	Aborted   bool
}

// Status tells apart clean runs, runs that carried on past failures, and
// runs that stopped at the first failure.
func (o *BulkOutcome) Status() Status {
	switch {
	case o.Aborted:
		return StatusAborted
	case len(o.Failed) > 0:
		return StatusFailedButContinued
	default:
		return StatusSucceeded
	}
}

// ErrorOrNil combines the per-target failures.
func (o *BulkOutcome) ErrorOrNil() error {
	var result *multierror.Error
	for _, f := range o.Failed {
		result = multierror.Append(result, fmt.Errorf("%s: %w", f.Target, f.Err))
	}
	return result.ErrorOrNil()
}

func (o *BulkOutcome) String() string {
	return fmt.Sprintf("%s %s: %d succeeded, %d failed, %d not attempted",
		o.Operation, o.Status(), len(o.Succeeded), len(o.Failed), len(o.Skipped))
}

// Operation acts on one target.
type Operation func(ctx context.Context, target string) error

// Executor runs operations over datasets, one target at a time.
type Executor struct {
	client  zosmf.Client
	log     logging.Interface
	metrics *metrics.Metrics
}

// NewExecutor returns an executor working through client.
func NewExecutor(client zosmf.Client, log logging.Interface, m *metrics.Metrics) *Executor {
	return &Executor{client: client, log: log, metrics: m}
}

// Enumerate lists the datasets matching mask. An empty mask and a mask that
// matches nothing are both failures.
func (e *Executor) Enumerate(ctx context.Context, mask string) ([]string, error) {
	mask = strings.TrimSpace(mask)
	if mask == "" {
		e.log.Error(ErrEmptyMask.Error())
		return nil, ErrEmptyMask
	}

	e.log.Infof("Listing datasets matching %s", mask)
	targets, err := e.client.ListDatasets(ctx, mask)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", mask, diag.Report(e.log, err))
	}
	if len(targets) == 0 {
		e.log.Errorf("No datasets matched %s", mask)
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, mask)
	}

	e.log.Infof("Found %d datasets matching %s", len(targets), mask)
	return targets, nil
}

// ApplyToAll runs fn on every target in order. With continueOnFailure a
// failure is logged and the next target is tried, and the call succeeds once
// all targets were attempted. Without it the first failure stops the run and
// is returned. Cancellation of ctx always stops the run.
func (e *Executor) ApplyToAll(ctx context.Context, op string, targets []string, fn Operation, continueOnFailure bool) (*BulkOutcome, error) {
	outcome := &BulkOutcome{Operation: op}

	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			outcome.Aborted = true
			outcome.Skipped = append(outcome.Skipped, targets[i:]...)
			e.log.WithError(err).Errorf("%s interrupted before %s", op, target)
			e.observeSkipped(op, len(targets)-i)
			return outcome, fmt.Errorf("%s interrupted: %w", op, err)
		}

		err := fn(ctx, target)
		if err == nil {
			outcome.Succeeded = append(outcome.Succeeded, target)
			e.metrics.ObserveTarget(op, metrics.ResultSuccess)
			continue
		}

		reported := diag.Report(e.log, err)
		outcome.Failed = append(outcome.Failed, TargetFailure{
			Target:     target,
			Diagnostic: diag.Diagnostic(reported),
			NotFound:   zosmf.IsNotFound(err),
			Err:        reported,
		})
		e.metrics.ObserveTarget(op, metrics.ResultFailure)

		if !continueOnFailure {
			outcome.Aborted = true
			outcome.Skipped = append(outcome.Skipped, targets[i+1:]...)
			e.observeSkipped(op, len(targets)-i-1)
			e.log.Errorf("%s failed on %s", op, target)
			return outcome, fmt.Errorf("%s %s: %w", op, target, reported)
		}
		e.log.Warn(ContinueNotice)
	}

	return outcome, nil
}

func (e *Executor) observeSkipped(op string, n int) {
	for i := 0; i < n; i++ {
		e.metrics.ObserveTarget(op, metrics.ResultSkipped)
	}
}

// ApplyToOne is ApplyToAll for a single dataset. A supplied member is
// validated first and a bad one always aborts, before any remote call.
func (e *Executor) ApplyToOne(ctx context.Context, op, dsn string, member *string, fn func(ctx context.Context) error, continueOnFailure bool) (*BulkOutcome, error) {
	target := dsn
	if member != nil {
		if err := zosmf.ValidateMember(*member); err != nil {
			e.log.Error(err.Error())
			return &BulkOutcome{Operation: op, Aborted: true, Skipped: []string{dsn}}, err
		}
		if !zosmf.ConventionalMemberName(*member) {
			e.log.Warnf("Member name %s does not follow the usual naming rules", *member)
		}
		target = zosmf.MemberRef(dsn, *member)
	}

	return e.ApplyToAll(ctx, op, []string{target}, func(ctx context.Context, _ string) error {
		return fn(ctx)
	}, continueOnFailure)
}
