package submitjob

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/zdevops/zdevops/pkg/diag"
	"github.com/zdevops/zdevops/pkg/logarchive"
	"github.com/zdevops/zdevops/pkg/logging"
	"github.com/zdevops/zdevops/pkg/metrics"
	"github.com/zdevops/zdevops/pkg/workspace"
	"github.com/zdevops/zdevops/pkg/zosmf"
)

// Metric labels.
const (
	OpSubmit = "submit"
	OpWait   = "wait"
	OpFetch  = "fetch-output"
)

var (
	// ErrSubmissionFailed is the caller-facing failure of Submit. The service
	// diagnostic is logged before it.
	ErrSubmissionFailed = errors.New("job submission failed")

	// ErrIncompleteResponse means the service accepted a job but did not
	// report its id or name.
	ErrIncompleteResponse = errors.New("service response does not identify the job")

	// ErrWaitInterrupted means the wait ended by cancellation or timeout
	// before the job finished.
	ErrWaitInterrupted = errors.New("waiting for the job was interrupted")

	// ErrNotTerminal rejects output retrieval for a job still running.
	ErrNotTerminal = fmt.Errorf("%w: job has not finished", zosmf.ErrValidation)
)

// WaitPolicy bounds AwaitCompletion.
type WaitPolicy struct {
	Interval time.Duration
	Timeout  time.Duration
}

// DefaultWaitPolicy polls every 5 seconds for at most 30 minutes.
var DefaultWaitPolicy = WaitPolicy{Interval: 5 * time.Second, Timeout: 30 * time.Minute}

// Result is the outcome of a synchronous run. LogPath, Link and ArchiveURI
// stay empty when the job produced no output.
type Result struct {
	Job        *zosmf.JobHandle
	ReturnCode string
	LogPath    string
	Link       string
	ArchiveURI string
}

// Orchestrator submits jobs and follows them to completion over one
// connection.
type Orchestrator struct {
	client      zosmf.Client
	conn        zosmf.Connection
	log         logging.Interface
	metrics     *metrics.Metrics
	wait        WaitPolicy
	urlTemplate string
	archiver    logarchive.Archiver
}

// NewOrchestrator returns an orchestrator using client, which must be
// connected through conn.
func NewOrchestrator(client zosmf.Client, conn zosmf.Connection, log logging.Interface, m *metrics.Metrics) *Orchestrator {
	return &Orchestrator{client: client, conn: conn, log: log, metrics: m, wait: DefaultWaitPolicy}
}

// WithWaitPolicy replaces the polling cadence and bound.
func (o *Orchestrator) WithWaitPolicy(p WaitPolicy) *Orchestrator {
	o.wait = p
	return o
}

// WithURLTemplate sets the template of the log links; "{name}" and "{id}"
// are replaced with the job name and id.
func (o *Orchestrator) WithURLTemplate(tmpl string) *Orchestrator {
	o.urlTemplate = tmpl
	return o
}

// WithArchiver copies every persisted log with a.
func (o *Orchestrator) WithArchiver(a logarchive.Archiver) *Orchestrator {
	o.archiver = a
	return o
}

// Submit submits the job found at ref, a DSN(MEMBER) or a z/OS UNIX path.
func (o *Orchestrator) Submit(ctx context.Context, ref string) (*zosmf.JobHandle, error) {
	job, err := o.submit(ctx, ref)
	o.metrics.ObserveOperation(OpSubmit, err)
	return job, err
}

func (o *Orchestrator) submit(ctx context.Context, ref string) (*zosmf.JobHandle, error) {
	o.log.Infof("Submitting %s with connection %s", ref, o.conn.String())

	job, err := o.client.SubmitJob(ctx, ref)
	if err != nil {
		reported := diag.Report(o.log, err)
		o.log.Errorf("Job submission failed for %s", ref)
		return nil, fmt.Errorf("%w: %s: %w", ErrSubmissionFailed, ref, reported)
	}
	if job == nil || job.ID == "" || job.Name == "" {
		o.log.Error(ErrIncompleteResponse.Error())
		return nil, fmt.Errorf("%w: %s", ErrIncompleteResponse, ref)
	}

	o.log.Infof("Job submitted successfully. JOBID=%s, JOBNAME=%s, OWNER=%s", job.ID, job.Name, job.Owner)
	return job, nil
}

// AwaitCompletion blocks until job reaches a terminal status and returns the
// final handle. Cancellation of ctx or the wait timeout end the wait with
// ErrWaitInterrupted; status query failures end it with their own error.
func (o *Orchestrator) AwaitCompletion(ctx context.Context, job *zosmf.JobHandle) (*zosmf.JobHandle, error) {
	o.log.Infof("Waiting for job %s to finish", job)
	start := time.Now()

	current := job
	err := wait.PollUntilContextTimeout(ctx, o.wait.Interval, o.wait.Timeout, true, func(ctx context.Context) (bool, error) {
		h, err := o.client.GetJobStatus(ctx, job.Name, job.ID)
		if err != nil {
			return false, err
		}
		if h == nil {
			return false, ErrIncompleteResponse
		}
		current = h
		return h.IsTerminal(), nil
	})
	o.metrics.ObserveOperation(OpWait, err)

	if err != nil {
		if wait.Interrupted(err) {
			err = fmt.Errorf("%w: %s still %s after %s: %w", ErrWaitInterrupted, job, current.Status, time.Since(start).Round(time.Second), err)
			o.log.Error(err.Error())
			return nil, err
		}
		return nil, fmt.Errorf("querying status of %s: %w", job, diag.Report(o.log, err))
	}

	o.metrics.ObserveJobWait(time.Since(start))
	o.log.Infof("Job %s finished with return code %s", current, current.RC())
	return current, nil
}

// FetchOutputParts reads every spool file of a finished job, in the order the
// service lists them. A job without output yields an empty slice.
func (o *Orchestrator) FetchOutputParts(ctx context.Context, job *zosmf.JobHandle) ([]zosmf.OutputPart, error) {
	parts, err := o.fetchOutputParts(ctx, job)
	o.metrics.ObserveOperation(OpFetch, err)
	return parts, err
}

func (o *Orchestrator) fetchOutputParts(ctx context.Context, job *zosmf.JobHandle) ([]zosmf.OutputPart, error) {
	if !job.IsTerminal() {
		err := fmt.Errorf("%w: %s is %s", ErrNotTerminal, job, job.Status)
		o.log.Error(err.Error())
		return nil, err
	}

	o.log.Info("Getting job log")
	parts, err := o.client.ListOutputParts(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("listing output of %s: %w", job, diag.Report(o.log, err))
	}

	for i := range parts {
		content, err := o.client.ReadOutputPart(ctx, job, parts[i].ID)
		if err != nil {
			return nil, fmt.Errorf("reading output %d of %s: %w", parts[i].ID, job, diag.Report(o.log, err))
		}
		parts[i].Content = content
	}
	return parts, nil
}

// LogName is the file name of a job log, NAME.ID.
func LogName(job *zosmf.JobHandle) string {
	return job.Name + "." + job.ID
}

// PersistLog writes the concatenated parts to LogName(job) in ws and returns
// the file path and the link to show for it.
func (o *Orchestrator) PersistLog(ws *workspace.Workspace, job *zosmf.JobHandle, parts []zosmf.OutputPart) (path, link string, err error) {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Content)
	}

	path, err = ws.Persist(LogName(job), []byte(b.String()))
	if err != nil {
		err = fmt.Errorf("saving log of %s: %w", job, err)
		o.log.Error(err.Error())
		return "", "", err
	}
	return path, o.link(job, path), nil
}

func (o *Orchestrator) link(job *zosmf.JobHandle, path string) string {
	if o.urlTemplate == "" {
		return path
	}
	return strings.NewReplacer("{name}", job.Name, "{id}", job.ID).Replace(o.urlTemplate)
}

// SubmitAndWaitSync submits ref, waits for the job, and saves its log into
// ws. The first failure ends the run. A job without output leaves no file.
func (o *Orchestrator) SubmitAndWaitSync(ctx context.Context, ref string, ws *workspace.Workspace) (*Result, error) {
	job, err := o.Submit(ctx, ref)
	if err != nil {
		return nil, err
	}

	final, err := o.AwaitCompletion(ctx, job)
	if err != nil {
		return nil, err
	}
	result := &Result{Job: final, ReturnCode: final.RC()}

	parts, err := o.FetchOutputParts(ctx, final)
	if err != nil {
		return result, err
	}
	if len(parts) == 0 {
		o.log.Infof("Job %s has no output, no log saved", final)
		return result, nil
	}

	result.LogPath, result.Link, err = o.PersistLog(ws, final, parts)
	if err != nil {
		return result, err
	}
	o.log.WithField("path", result.LogPath).Infof("Job log saved: %s", result.Link)

	if o.archiver != nil {
		data, err := ws.Read(LogName(final))
		if err == nil {
			result.ArchiveURI, err = o.archiver.Archive(ctx, LogName(final), data)
		}
		if err != nil {
			o.log.WithError(err).Warn("Failed to archive the job log")
		}
	}
	return result, nil
}
