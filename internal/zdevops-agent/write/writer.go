package write

import (
	"context"
	"fmt"
	"strings"

	"github.com/zdevops/zdevops/pkg/diag"
	"github.com/zdevops/zdevops/pkg/logging"
	"github.com/zdevops/zdevops/pkg/metrics"
	"github.com/zdevops/zdevops/pkg/zosmf"
)

// OpWrite is the metric label of every write.
const OpWrite = "write"

// Request is one write to a dataset or one of its members.
type Request struct {
	Dataset string
	// Member is nil for sequential datasets.
	Member  *string
	Content string
}

func (r Request) target() string {
	if r.Member == nil {
		return r.Dataset
	}
	return zosmf.MemberRef(r.Dataset, *r.Member)
}

// Writer validates content and writes it through a z/OSMF client.
type Writer struct {
	client  zosmf.Client
	log     logging.Interface
	metrics *metrics.Metrics
}

// NewWriter returns a writer working through client.
func NewWriter(client zosmf.Client, log logging.Interface, m *metrics.Metrics) *Writer {
	return &Writer{client: client, log: log, metrics: m}
}

// Write validates req against the record length of its dataset and writes
// the normalized content. Names are checked before any remote call, and
// rejected content is never sent.
func (w *Writer) Write(ctx context.Context, req Request) (Outcome, error) {
	outcome, err := w.write(ctx, req)
	w.metrics.ObserveOperation(OpWrite, err)
	return outcome, err
}

func (w *Writer) write(ctx context.Context, req Request) (Outcome, error) {
	req.Dataset = strings.TrimSpace(req.Dataset)
	target := req.target()
	rejected := func(err error) (Outcome, error) {
		w.log.Error(err.Error())
		return Outcome{Target: target, Result: ResultRejected, Diagnostic: err.Error(), err: err}, err
	}

	if !zosmf.ValidDatasetName(req.Dataset) {
		return rejected(fmt.Errorf("%w: %q is not a valid dataset name", zosmf.ErrValidation, req.Dataset))
	}
	member := ""
	if req.Member != nil {
		if err := zosmf.ValidateMember(*req.Member); err != nil {
			return rejected(err)
		}
		if !zosmf.ConventionalMemberName(*req.Member) {
			w.log.Warnf("Member name %s does not follow the usual naming rules", *req.Member)
		}
		member = *req.Member
	}

	if NormalizeContent(req.Content) == "" {
		w.log.Info("Nothing to write, skipping")
		return Outcome{Target: target, Result: ResultSkipped}, nil
	}

	info, err := w.client.GetDatasetInfo(ctx, req.Dataset)
	if err != nil {
		return Outcome{Target: target}, fmt.Errorf("can't get attributes of %s: %w", req.Dataset, diag.Report(w.log, err))
	}

	outcome := Validate(target, info.RecordLength, req.Content)
	if outcome.Result == ResultRejected {
		w.log.Error(outcome.Diagnostic)
		return outcome, outcome.Err()
	}

	if err := w.client.WriteDataset(ctx, req.Dataset, member, []byte(outcome.Content)); err != nil {
		return outcome, fmt.Errorf("writing %s: %w", target, diag.Report(w.log, err))
	}
	outcome.Result = ResultWritten
	w.log.Infof("Data has been written to %s", target)
	return outcome, nil
}

// WriteToDataset writes content to a sequential dataset.
func (w *Writer) WriteToDataset(ctx context.Context, dsn, content string) (Outcome, error) {
	w.log.Infof("Writing to dataset %s", dsn)
	return w.Write(ctx, Request{Dataset: dsn, Content: content})
}

// WriteToMember writes content to dsn(member).
func (w *Writer) WriteToMember(ctx context.Context, dsn, member, content string) (Outcome, error) {
	w.log.Infof("Writing to member %s", zosmf.MemberRef(dsn, member))
	return w.Write(ctx, Request{Dataset: dsn, Member: &member, Content: content})
}

// WriteToFile writes data as is to a z/OS UNIX file. Empty data is skipped.
func (w *Writer) WriteToFile(ctx context.Context, path string, data []byte, binary bool) (Outcome, error) {
	if strings.TrimSpace(path) == "" {
		err := fmt.Errorf("%w: destination file path is empty", zosmf.ErrValidation)
		w.log.Error(err.Error())
		return Outcome{Result: ResultRejected, Diagnostic: err.Error(), err: err}, err
	}
	if len(data) == 0 {
		w.log.Info("Nothing to write, skipping")
		return Outcome{Target: path, Result: ResultSkipped}, nil
	}

	w.log.Infof("Writing %d bytes to file %s (binary=%t)", len(data), path, binary)
	err := w.client.WriteFile(ctx, path, data, binary)
	w.metrics.ObserveOperation(OpWrite, err)
	if err != nil {
		return Outcome{Target: path}, fmt.Errorf("writing %s: %w", path, diag.Report(w.log, err))
	}
	w.log.Infof("Data has been written to file %s", path)
	return Outcome{Target: path, Result: ResultWritten, Content: string(data)}, nil
}
