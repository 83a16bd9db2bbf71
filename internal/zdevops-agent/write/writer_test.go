package write

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"

	"github.com/zdevops/zdevops/pkg/diag"
	"github.com/zdevops/zdevops/pkg/logging"
	"github.com/zdevops/zdevops/pkg/zosmf"
	"github.com/zdevops/zdevops/pkg/zosmf/memclient"
)

func newTestWriter(t *testing.T) (*Writer, *memclient.Service, func() []string) {
	t.Helper()
	svc := memclient.New()
	svc.AddDataset(zosmf.DatasetInfo{Name: "HLQ.SEQ", Organization: zosmf.OrgSequential, RecordLength: ptr.To(10)}, nil)
	svc.AddDataset(zosmf.DatasetInfo{Name: "HLQ.LIB", Organization: zosmf.OrgPartitioned, RecordLength: ptr.To(10)}, nil)
	svc.AddDataset(zosmf.DatasetInfo{Name: "HLQ.NOLRECL", Organization: zosmf.OrgSequential}, nil)
	log, logs := logging.NewObserved()
	return NewWriter(svc, log, nil), svc, func() []string { return logging.Messages(logs) }
}

func TestWriteToDataset(t *testing.T) {
	w, svc, messages := newTestWriter(t)

	o, err := w.WriteToDataset(context.Background(), "HLQ.SEQ", "line 1\r\nline 2\r\n")
	require.NoError(t, err)
	assert.Equal(t, ResultWritten, o.Result)

	content, _ := svc.Content("HLQ.SEQ", "")
	assert.Equal(t, "line 1\nline 2\n", content)
	assert.Contains(t, messages(), "Data has been written to HLQ.SEQ")
}

func TestWriteToDataset_SurroundingSpacesTrimmed(t *testing.T) {
	w, svc, messages := newTestWriter(t)

	o, err := w.WriteToDataset(context.Background(), " HLQ.SEQ ", "hello")
	require.NoError(t, err)
	assert.Equal(t, ResultWritten, o.Result)
	assert.Equal(t, "HLQ.SEQ", o.Target)

	assert.Equal(t, []string{"HLQ.SEQ"}, svc.CallsOf("info"))
	content, _ := svc.Content("HLQ.SEQ", "")
	assert.Equal(t, "hello", content)
	assert.Contains(t, messages(), "Data has been written to HLQ.SEQ")
}

func TestWriteToMember(t *testing.T) {
	w, svc, _ := newTestWriter(t)

	_, err := w.WriteToMember(context.Background(), "HLQ.LIB", "MEM1", "short")
	require.NoError(t, err)
	content, ok := svc.Content("HLQ.LIB", "MEM1")
	assert.True(t, ok)
	assert.Equal(t, "short", content)
}

func TestWrite_RejectedContentIsNeverSent(t *testing.T) {
	w, svc, messages := newTestWriter(t)

	o, err := w.WriteToDataset(context.Background(), "HLQ.SEQ", "this line is too long\nok")
	assert.ErrorIs(t, err, ErrLinesTooLong)
	assert.Equal(t, ResultRejected, o.Result)
	assert.Equal(t, []string{"HLQ.SEQ"}, svc.CallsOf("info"))
	assert.Empty(t, svc.CallsOf("write"))
	assert.Contains(t, messages(), "1 lines are longer than the record length 10 of HLQ.SEQ")
}

func TestWrite_UnknownRecordLength(t *testing.T) {
	w, svc, _ := newTestWriter(t)

	_, err := w.WriteToDataset(context.Background(), "HLQ.NOLRECL", "x")
	assert.ErrorIs(t, err, ErrRecordLengthUnknown)
	assert.Empty(t, svc.CallsOf("write"))
}

func TestWrite_InvalidNamesAbortBeforeRemoteCall(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{name: "empty member", req: Request{Dataset: "HLQ.LIB", Member: ptr.To(""), Content: "x"}},
		{name: "long member", req: Request{Dataset: "HLQ.LIB", Member: ptr.To("NINECHARS"), Content: "x"}},
		{name: "bad dataset", req: Request{Dataset: "HLQ..LIB", Content: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, svc, messages := newTestWriter(t)
			o, err := w.Write(context.Background(), tt.req)
			assert.True(t, zosmf.IsValidation(err))
			assert.Equal(t, ResultRejected, o.Result)
			assert.Empty(t, svc.Calls())
			assert.NotEmpty(t, messages())
		})
	}
}

func TestWrite_EmptyContentIsSkipped(t *testing.T) {
	w, svc, messages := newTestWriter(t)

	o, err := w.WriteToDataset(context.Background(), "HLQ.SEQ", "")
	require.NoError(t, err)
	assert.Equal(t, ResultSkipped, o.Result)
	assert.Empty(t, svc.Calls())
	assert.Contains(t, messages(), "Nothing to write, skipping")
}

func TestWrite_RemoteFailureIsNormalized(t *testing.T) {
	w, svc, messages := newTestWriter(t)
	svc.Fail("write", "HLQ.SEQ", zosmf.NewPayloadError("write", "HLQ.SEQ", 500,
		`{"details":["ISRZ002 Data set in use","Try again later"]}`, zosmf.ErrConnection))

	_, err := w.WriteToDataset(context.Background(), "HLQ.SEQ", "data")
	require.Error(t, err)
	assert.True(t, zosmf.IsConnection(err))
	var d *diag.Error
	require.True(t, errors.As(err, &d))
	assert.Equal(t, []string{"ISRZ002 Data set in use", "Try again later"}, d.Lines)
	assert.Subset(t, messages(), d.Lines)
}

func TestWrite_MissingDataset(t *testing.T) {
	w, _, _ := newTestWriter(t)
	_, err := w.WriteToDataset(context.Background(), "HLQ.NONE", "data")
	assert.True(t, zosmf.IsNotFound(err))
}

func TestWriteToFile(t *testing.T) {
	ctx := context.Background()

	t.Run("binary content kept as is", func(t *testing.T) {
		w, svc, _ := newTestWriter(t)
		data := []byte("a\r\nb\x00")
		o, err := w.WriteToFile(ctx, "/u/ibmuser/out.bin", data, true)
		require.NoError(t, err)
		assert.Equal(t, ResultWritten, o.Result)

		f, ok := svc.File("/u/ibmuser/out.bin")
		require.True(t, ok)
		assert.Equal(t, data, f.Data)
		assert.True(t, f.Binary)
	})

	t.Run("empty is skipped", func(t *testing.T) {
		w, svc, _ := newTestWriter(t)
		o, err := w.WriteToFile(ctx, "/u/ibmuser/out.txt", nil, false)
		require.NoError(t, err)
		assert.Equal(t, ResultSkipped, o.Result)
		assert.Empty(t, svc.Calls())
	})

	t.Run("path required", func(t *testing.T) {
		w, _, _ := newTestWriter(t)
		_, err := w.WriteToFile(ctx, " ", []byte("x"), false)
		assert.True(t, zosmf.IsValidation(err))
	})
}
