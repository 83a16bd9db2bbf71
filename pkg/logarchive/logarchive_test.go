package logarchive

import (
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zdevops/zdevops/pkg/logging"
)

type mockUploader struct {
	mock.Mock
	body string
}

func (m *mockUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	data, _ := io.ReadAll(input.Body)
	m.body = string(data)
	args := m.Called(aws.ToString(input.Bucket), aws.ToString(input.Key))
	out, _ := args.Get(0).(*manager.UploadOutput)
	return out, args.Error(1)
}

func TestArchive(t *testing.T) {
	u := &mockUploader{}
	u.On("Upload", "logs", "zdevops/BUILD.JOB00042").Return(&manager.UploadOutput{}, nil)

	a := newS3Archiver(u, Config{Bucket: "logs", Prefix: "/zdevops/"}, logging.Discard())
	uri, err := a.Archive(context.Background(), "BUILD.JOB00042", []byte("out1out2"))

	require.NoError(t, err)
	assert.Equal(t, "s3://logs/zdevops/BUILD.JOB00042", uri)
	assert.Equal(t, "out1out2", u.body)
	u.AssertExpectations(t)
}

func TestArchiveAPIError(t *testing.T) {
	u := &mockUploader{}
	u.On("Upload", "logs", "BUILD.J1").Return(nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"})

	a := newS3Archiver(u, Config{Bucket: "logs"}, logging.Discard())
	_, err := a.Archive(context.Background(), "BUILD.J1", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "archiving BUILD.J1: AccessDenied")
}

func TestNewS3ArchiverRequiresBucket(t *testing.T) {
	_, err := NewS3Archiver(context.Background(), Config{}, logging.Discard())
	assert.Error(t, err)
	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{Bucket: "b"}.Enabled())
}
