package datasets

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/zdevops/zdevops/pkg/diag"
	"github.com/zdevops/zdevops/pkg/workspace"
	"github.com/zdevops/zdevops/pkg/zosmf"
)

// Operation names, also used as metric labels.
const (
	OpDelete   = "delete"
	OpAllocate = "allocate"
	OpDownload = "download"
)

// DeleteByMask deletes every dataset matching mask. With failOnNotExist a
// failed delete stops the run, otherwise it is logged and skipped.
func (e *Executor) DeleteByMask(ctx context.Context, mask string, failOnNotExist bool) (*BulkOutcome, error) {
	targets, err := e.Enumerate(ctx, mask)
	if err != nil {
		e.metrics.ObserveOperation(OpDelete, err)
		return nil, err
	}

	e.log.Infof("Deleting %d datasets matching %s", len(targets), mask)
	outcome, err := e.ApplyToAll(ctx, OpDelete, targets, e.deleteDataset, !failOnNotExist)
	e.finish(OpDelete, outcome, err)
	return outcome, err
}

func (e *Executor) deleteDataset(ctx context.Context, dsn string) error {
	if err := e.client.DeleteDataset(ctx, dsn, ""); err != nil {
		return err
	}
	e.log.Infof("Dataset %s deleted", dsn)
	return nil
}

// Delete removes one dataset, or one of its members when member is set.
func (e *Executor) Delete(ctx context.Context, dsn string, member *string, failOnNotExist bool) (*BulkOutcome, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		err := fmt.Errorf("%w: dataset name is empty", zosmf.ErrValidation)
		e.log.Error(err.Error())
		return nil, err
	}

	ref := dsn
	var m string
	if member != nil {
		m = *member
		ref = zosmf.MemberRef(dsn, m)
	}
	e.log.Infof("Deleting %s", ref)

	outcome, err := e.ApplyToOne(ctx, OpDelete, dsn, member, func(ctx context.Context) error {
		if err := e.client.DeleteDataset(ctx, dsn, m); err != nil {
			return err
		}
		e.log.Infof("%s deleted", ref)
		return nil
	}, !failOnNotExist)
	e.finish(OpDelete, outcome, err)
	return outcome, err
}

// Allocate creates dsn. With failOnExist an existing dataset is an error,
// otherwise it is reported and left alone.
func (e *Executor) Allocate(ctx context.Context, dsn string, params zosmf.AllocationParams, failOnExist bool) (*BulkOutcome, error) {
	if !zosmf.ValidDatasetName(dsn) {
		err := fmt.Errorf("%w: %q is not a valid dataset name", zosmf.ErrValidation, dsn)
		e.log.Error(err.Error())
		return nil, err
	}
	if err := validator.New().Struct(params); err != nil {
		err = fmt.Errorf("%w: allocation parameters of %s: %v", zosmf.ErrValidation, dsn, err)
		e.log.Error(err.Error())
		return nil, err
	}

	e.log.Infof("Allocating %s (dsorg=%s recfm=%s lrecl=%d)", dsn, params.Organization, params.RecordFormat, params.RecordLength)
	outcome, err := e.ApplyToOne(ctx, OpAllocate, dsn, nil, func(ctx context.Context) error {
		if err := e.client.CreateDataset(ctx, dsn, params); err != nil {
			return err
		}
		e.log.Infof("Dataset %s allocated", dsn)
		return nil
	}, !failOnExist)
	e.finish(OpAllocate, outcome, err)
	return outcome, err
}

// Download copies a sequential dataset, a single member given as DSN(MEMBER),
// or every member of a partitioned dataset into ws. Files are named after the
// dataset, members as DSN(MEMBER).
func (e *Executor) Download(ctx context.Context, ref string, ws *workspace.Workspace) (*BulkOutcome, error) {
	e.log.Infof("Downloading %s", ref)

	if dsn, member, ok := zosmf.SplitMemberRef(ref); ok {
		outcome, err := e.ApplyToOne(ctx, OpDownload, dsn, &member, func(ctx context.Context) error {
			return e.download(ctx, ws, dsn, member)
		}, false)
		e.finish(OpDownload, outcome, err)
		return outcome, err
	}

	info, err := e.client.GetDatasetInfo(ctx, ref)
	if err != nil {
		err = fmt.Errorf("can't find %s: %w", ref, diag.Report(e.log, err))
		e.metrics.ObserveOperation(OpDownload, err)
		return nil, err
	}

	var outcome *BulkOutcome
	switch {
	case info.Organization == zosmf.OrgSequential:
		outcome, err = e.ApplyToOne(ctx, OpDownload, ref, nil, func(ctx context.Context) error {
			return e.download(ctx, ws, ref, "")
		}, false)
	case info.Organization.Partitioned():
		outcome, err = e.downloadMembers(ctx, ws, ref)
	default:
		e.log.Warnf("Invalid dataset organization %q of %s, nothing downloaded", info.Organization, ref)
		return &BulkOutcome{Operation: OpDownload}, nil
	}
	e.finish(OpDownload, outcome, err)
	return outcome, err
}

func (e *Executor) downloadMembers(ctx context.Context, ws *workspace.Workspace, dsn string) (*BulkOutcome, error) {
	members, err := e.client.ListMembers(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("listing members of %s: %w", dsn, diag.Report(e.log, err))
	}
	if len(members) == 0 {
		e.log.Infof("%s has no members", dsn)
		return &BulkOutcome{Operation: OpDownload}, nil
	}

	e.log.Infof("Downloading %d members of %s", len(members), dsn)
	return e.ApplyToAll(ctx, OpDownload, members, func(ctx context.Context, member string) error {
		return e.download(ctx, ws, dsn, member)
	}, false)
}

func (e *Executor) download(ctx context.Context, ws *workspace.Workspace, dsn, member string) error {
	ref := zosmf.MemberRef(dsn, member)
	data, err := e.client.ReadDataset(ctx, dsn, member)
	if err != nil {
		return err
	}
	path, err := ws.Persist(ref, data)
	if err != nil {
		return err
	}
	e.log.WithField("path", path).Infof("%s has been downloaded", ref)
	return nil
}

func (e *Executor) finish(op string, outcome *BulkOutcome, err error) {
	e.metrics.ObserveOperation(op, err)
	if outcome != nil {
		e.log.Info(outcome.String())
	}
}
