package datasets

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/zdevops/zdevops/pkg/diag"
	"github.com/zdevops/zdevops/pkg/logging"
	"github.com/zdevops/zdevops/pkg/workspace"
	"github.com/zdevops/zdevops/pkg/zosmf"
	"github.com/zdevops/zdevops/pkg/zosmf/memclient"
)

func newTestExecutor(t *testing.T, names ...string) (*Executor, *memclient.Service, func() []string) {
	t.Helper()
	svc := memclient.New()
	for _, n := range names {
		svc.AddDataset(zosmf.DatasetInfo{Name: n, Organization: zosmf.OrgSequential, RecordLength: ptr.To(80)}, nil)
	}
	log, logs := logging.NewObserved()
	return NewExecutor(svc, log, nil), svc, func() []string { return logging.Messages(logs) }
}

var failB = zosmf.NewPayloadError("delete", "HLQ.B", 500, `{"details":["IDC3009I ** VSAM CATALOG RETURN CODE IS 56"]}`, zosmf.ErrConnection)

func TestEnumerate(t *testing.T) {
	ctx := context.Background()

	t.Run("empty mask is a validation failure", func(t *testing.T) {
		e, svc, messages := newTestExecutor(t, "HLQ.A")
		_, err := e.Enumerate(ctx, "  ")
		assert.ErrorIs(t, err, ErrEmptyMask)
		assert.True(t, zosmf.IsValidation(err))
		assert.Empty(t, svc.Calls(), "no remote call for an empty mask")
		assert.NotEmpty(t, messages())
	})

	t.Run("no match is a distinct failure", func(t *testing.T) {
		e, _, messages := newTestExecutor(t, "HLQ.A")
		targets, err := e.Enumerate(ctx, "OTHER.*")
		assert.ErrorIs(t, err, ErrNoMatch)
		assert.Nil(t, targets)
		assert.Contains(t, messages(), "No datasets matched OTHER.*")
	})

	t.Run("listing failure is normalized", func(t *testing.T) {
		e, svc, messages := newTestExecutor(t, "HLQ.A")
		svc.Fail("list", "", zosmf.NewPayloadError("list", "HLQ.*", 500, `{"message":"catalog unavailable"}`, zosmf.ErrConnection))

		_, err := e.Enumerate(ctx, "HLQ.*")
		assert.True(t, zosmf.IsConnection(err))
		assert.Contains(t, messages(), "catalog unavailable")
	})

	t.Run("matches in listing order", func(t *testing.T) {
		e, _, _ := newTestExecutor(t, "HLQ.C", "HLQ.A", "HLQ.B")
		targets, err := e.Enumerate(ctx, "HLQ.*")
		require.NoError(t, err)
		assert.Equal(t, []string{"HLQ.A", "HLQ.B", "HLQ.C"}, targets)
	})
}

func TestDeleteByMask_BestEffort(t *testing.T) {
	e, svc, messages := newTestExecutor(t, "HLQ.A", "HLQ.B", "HLQ.C")
	svc.Fail("delete", "HLQ.B", failB)

	outcome, err := e.DeleteByMask(context.Background(), "HLQ.*", false)

	require.NoError(t, err)
	assert.Equal(t, StatusFailedButContinued, outcome.Status())
	assert.Equal(t, []string{"HLQ.A", "HLQ.C"}, outcome.Succeeded)
	require.Len(t, outcome.Failed, 1)
	assert.Equal(t, "HLQ.B", outcome.Failed[0].Target)
	assert.Equal(t, "IDC3009I ** VSAM CATALOG RETURN CODE IS 56", outcome.Failed[0].Diagnostic)
	assert.Empty(t, outcome.Skipped)
	assert.Error(t, outcome.ErrorOrNil())

	assert.Equal(t, []string{"HLQ.A", "HLQ.B", "HLQ.C"}, svc.CallsOf("delete"))
	assert.False(t, svc.Exists("HLQ.A", ""))
	assert.True(t, svc.Exists("HLQ.B", ""))

	msgs := messages()
	assert.Contains(t, msgs, ContinueNotice)
	assert.Less(t, indexOf(msgs, "IDC3009I ** VSAM CATALOG RETURN CODE IS 56"), indexOf(msgs, ContinueNotice))
}

func TestDeleteByMask_FailFast(t *testing.T) {
	e, svc, messages := newTestExecutor(t, "HLQ.A", "HLQ.B", "HLQ.C")
	svc.Fail("delete", "HLQ.B", failB)

	outcome, err := e.DeleteByMask(context.Background(), "HLQ.*", true)

	require.Error(t, err)
	assert.True(t, zosmf.IsConnection(err))
	var d *diag.Error
	assert.True(t, errors.As(err, &d))

	want := &BulkOutcome{
		Operation: OpDelete,
		Succeeded: []string{"HLQ.A"},
		Failed:    []TargetFailure{{Target: "HLQ.B", Diagnostic: "IDC3009I ** VSAM CATALOG RETURN CODE IS 56"}},
		Skipped:   []string{"HLQ.C"},
		Aborted:   true,
	}
	assert.Empty(t, cmp.Diff(want, outcome, cmpopts.IgnoreFields(TargetFailure{}, "Err")))
	assert.Equal(t, StatusAborted, outcome.Status())
	assert.Equal(t, []string{"HLQ.A", "HLQ.B"}, svc.CallsOf("delete"), "HLQ.C is never attempted")
	assert.NotContains(t, messages(), ContinueNotice)
}

func TestDeleteNotFound(t *testing.T) {
	t.Run("tolerated", func(t *testing.T) {
		e, _, messages := newTestExecutor(t)
		outcome, err := e.Delete(context.Background(), "HLQ.GONE", nil, false)

		require.NoError(t, err)
		require.Len(t, outcome.Failed, 1)
		assert.True(t, outcome.Failed[0].NotFound)
		assert.Contains(t, messages(), ContinueNotice)
	})

	t.Run("fatal", func(t *testing.T) {
		e, _, _ := newTestExecutor(t)
		_, err := e.Delete(context.Background(), "HLQ.GONE", nil, true)
		assert.True(t, zosmf.IsNotFound(err))
	})
}

func TestDeleteMember(t *testing.T) {
	ctx := context.Background()
	e, svc, _ := newTestExecutor(t)
	svc.AddDataset(zosmf.DatasetInfo{Name: "HLQ.LIB", Organization: zosmf.OrgPartitioned}, map[string]string{"A": "x", "B": "y"})

	outcome, err := e.Delete(ctx, "HLQ.LIB", ptr.To("A"), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"HLQ.LIB(A)"}, outcome.Succeeded)
	assert.False(t, svc.Exists("HLQ.LIB", "A"))
	assert.True(t, svc.Exists("HLQ.LIB", "B"))
}

func TestApplyToOne_MemberValidationAbortsBeforeRemoteCall(t *testing.T) {
	for _, member := range []string{"", "TOOLONGNAME"} {
		for _, continueOnFailure := range []bool{true, false} {
			e, svc, _ := newTestExecutor(t, "HLQ.LIB")
			called := false
			_, err := e.ApplyToOne(context.Background(), OpDelete, "HLQ.LIB", ptr.To(member), func(context.Context) error {
				called = true
				return nil
			}, continueOnFailure)

			assert.True(t, zosmf.IsValidation(err), member)
			assert.False(t, called)
			assert.Empty(t, svc.Calls())
		}
	}
}

func TestDeleteRequiresDataset(t *testing.T) {
	e, svc, _ := newTestExecutor(t)
	_, err := e.Delete(context.Background(), " ", nil, false)
	assert.True(t, zosmf.IsValidation(err))
	assert.Empty(t, svc.Calls())
}

func TestApplyToAll_Cancelled(t *testing.T) {
	e, _, _ := newTestExecutor(t)
	ctx, cancel := context.WithCancel(context.Background())

	var seen []string
	outcome, err := e.ApplyToAll(ctx, OpDelete, []string{"A", "B", "C"}, func(_ context.Context, target string) error {
		seen = append(seen, target)
		cancel()
		return nil
	}, true)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"A"}, seen)
	assert.Equal(t, []string{"B", "C"}, outcome.Skipped)
	assert.Equal(t, StatusAborted, outcome.Status())
}

func TestAllocate(t *testing.T) {
	ctx := context.Background()
	params := zosmf.AllocationParams{Organization: zosmf.OrgPartitioned, RecordFormat: "FB", RecordLength: 80, Primary: 5, DirectoryBlocks: 10}

	t.Run("creates", func(t *testing.T) {
		e, svc, _ := newTestExecutor(t)
		outcome, err := e.Allocate(ctx, "HLQ.NEW", params, true)
		require.NoError(t, err)
		assert.Equal(t, StatusSucceeded, outcome.Status())
		assert.True(t, svc.Exists("HLQ.NEW", ""))
	})

	t.Run("existing tolerated", func(t *testing.T) {
		e, _, messages := newTestExecutor(t, "HLQ.NEW")
		outcome, err := e.Allocate(ctx, "HLQ.NEW", params, false)
		require.NoError(t, err)
		assert.Equal(t, StatusFailedButContinued, outcome.Status())
		assert.Contains(t, messages(), "IKJ56893I DATA SET HLQ.NEW NOT ALLOCATED, DATA SET ALREADY EXISTS")
	})

	t.Run("existing fatal", func(t *testing.T) {
		e, _, _ := newTestExecutor(t, "HLQ.NEW")
		_, err := e.Allocate(ctx, "HLQ.NEW", params, true)
		assert.True(t, zosmf.IsAlreadyExists(err))
	})

	t.Run("invalid input never reaches the service", func(t *testing.T) {
		e, svc, _ := newTestExecutor(t)
		_, err := e.Allocate(ctx, "1BAD..NAME", params, true)
		assert.True(t, zosmf.IsValidation(err))
		_, err = e.Allocate(ctx, "HLQ.NEW", zosmf.AllocationParams{}, true)
		assert.True(t, zosmf.IsValidation(err))
		assert.Empty(t, svc.Calls())
	})
}

func TestDownload(t *testing.T) {
	ctx := context.Background()
	newWS := func(t *testing.T) *workspace.Workspace {
		ws, err := workspace.New(afero.NewMemMapFs(), "/ws", logging.Discard())
		require.NoError(t, err)
		return ws
	}

	t.Run("sequential", func(t *testing.T) {
		e, svc, _ := newTestExecutor(t, "HLQ.SEQ")
		svc.SetContent("HLQ.SEQ", "line1\nline2")
		ws := newWS(t)

		_, err := e.Download(ctx, "HLQ.SEQ", ws)
		require.NoError(t, err)
		data, err := ws.Read("HLQ.SEQ")
		require.NoError(t, err)
		assert.Equal(t, "line1\nline2", string(data))
	})

	t.Run("partitioned", func(t *testing.T) {
		e, svc, _ := newTestExecutor(t)
		svc.AddDataset(zosmf.DatasetInfo{Name: "HLQ.LIB", Organization: zosmf.OrgPartitioned}, map[string]string{"B": "bee", "A": "ay"})
		ws := newWS(t)

		outcome, err := e.Download(ctx, "HLQ.LIB", ws)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B"}, outcome.Succeeded)
		data, _ := ws.Read("HLQ.LIB(B)")
		assert.Equal(t, "bee", string(data))
	})

	t.Run("single member", func(t *testing.T) {
		e, svc, _ := newTestExecutor(t)
		svc.AddDataset(zosmf.DatasetInfo{Name: "HLQ.LIB", Organization: zosmf.OrgPartitioned}, map[string]string{"A": "ay", "B": "bee"})
		ws := newWS(t)

		_, err := e.Download(ctx, "HLQ.LIB(A)", ws)
		require.NoError(t, err)
		assert.Equal(t, []string{"HLQ.LIB(A)"}, svc.CallsOf("read"))
		exists, _ := afero.Exists(ws.Fs(), "/ws/HLQ.LIB(B)")
		assert.False(t, exists)
	})

	t.Run("missing", func(t *testing.T) {
		e, _, _ := newTestExecutor(t)
		_, err := e.Download(ctx, "HLQ.NONE", newWS(t))
		assert.True(t, zosmf.IsNotFound(err))
	})

	t.Run("unsupported organization", func(t *testing.T) {
		e, svc, messages := newTestExecutor(t)
		svc.AddDataset(zosmf.DatasetInfo{Name: "HLQ.KSDS", Organization: zosmf.OrgVSAM}, nil)
		outcome, err := e.Download(ctx, "HLQ.KSDS", newWS(t))
		require.NoError(t, err)
		assert.Empty(t, outcome.Succeeded)
		assert.Contains(t, messages(), `Invalid dataset organization "VS" of HLQ.KSDS, nothing downloaded`)
	})
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
