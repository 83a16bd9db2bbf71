package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zdevops/zdevops/pkg/logging"
	"github.com/zdevops/zdevops/pkg/zosmf"
)

// MockLogger implements logging.Interface for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string) {
	m.Called(msg)
}

func (m *MockLogger) Debugf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Info(msg string) {
	m.Called(msg)
}

func (m *MockLogger) Infof(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(msg string) {
	m.Called(msg)
}

func (m *MockLogger) Warnf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Error(msg string) {
	m.Called(msg)
}

func (m *MockLogger) Errorf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) Fatal(msg string) {
	m.Called(msg)
}

func (m *MockLogger) Fatalf(format string, args ...interface{}) {
	m.Called(format, args)
}

func (m *MockLogger) WithField(key string, value interface{}) logging.Interface {
	args := m.Called(key, value)
	return args.Get(0).(logging.Interface)
}

func (m *MockLogger) WithError(err error) logging.Interface {
	args := m.Called(err)
	return args.Get(0).(logging.Interface)
}

// SetupMockLogger creates a mock logger that accepts every call
func SetupMockLogger() *MockLogger {
	mockLogger := &MockLogger{}

	// Setup common expectations for logger chaining
	mockLogger.On("WithField", mock.Anything, mock.Anything).Return(mockLogger).Maybe()
	mockLogger.On("WithError", mock.Anything).Return(mockLogger).Maybe()

	// Setup common logging calls to not fail tests
	mockLogger.On("Debug", mock.Anything).Maybe()
	mockLogger.On("Debugf", mock.Anything, mock.Anything).Maybe()
	mockLogger.On("Info", mock.Anything).Maybe()
	mockLogger.On("Infof", mock.Anything, mock.Anything).Maybe()
	mockLogger.On("Warn", mock.Anything).Maybe()
	mockLogger.On("Warnf", mock.Anything, mock.Anything).Maybe()
	mockLogger.On("Error", mock.Anything).Maybe()
	mockLogger.On("Errorf", mock.Anything, mock.Anything).Maybe()

	return mockLogger
}

// MockClient mocks zosmf.Client
type MockClient struct {
	mock.Mock
}

var _ zosmf.Client = (*MockClient)(nil)

func (m *MockClient) SubmitJob(ctx context.Context, ref string) (*zosmf.JobHandle, error) {
	args := m.Called(ctx, ref)
	job, _ := args.Get(0).(*zosmf.JobHandle)
	return job, args.Error(1)
}

func (m *MockClient) GetJobStatus(ctx context.Context, name, id string) (*zosmf.JobHandle, error) {
	args := m.Called(ctx, name, id)
	job, _ := args.Get(0).(*zosmf.JobHandle)
	return job, args.Error(1)
}

func (m *MockClient) ListOutputParts(ctx context.Context, job *zosmf.JobHandle) ([]zosmf.OutputPart, error) {
	args := m.Called(ctx, job)
	parts, _ := args.Get(0).([]zosmf.OutputPart)
	return parts, args.Error(1)
}

func (m *MockClient) ReadOutputPart(ctx context.Context, job *zosmf.JobHandle, partID int) (string, error) {
	args := m.Called(ctx, job, partID)
	return args.String(0), args.Error(1)
}

func (m *MockClient) ListDatasets(ctx context.Context, mask string) ([]string, error) {
	args := m.Called(ctx, mask)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *MockClient) ListMembers(ctx context.Context, dsn string) ([]string, error) {
	args := m.Called(ctx, dsn)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *MockClient) GetDatasetInfo(ctx context.Context, dsn string) (*zosmf.DatasetInfo, error) {
	args := m.Called(ctx, dsn)
	info, _ := args.Get(0).(*zosmf.DatasetInfo)
	return info, args.Error(1)
}

func (m *MockClient) CreateDataset(ctx context.Context, dsn string, params zosmf.AllocationParams) error {
	return m.Called(ctx, dsn, params).Error(0)
}

func (m *MockClient) DeleteDataset(ctx context.Context, dsn, member string) error {
	return m.Called(ctx, dsn, member).Error(0)
}

func (m *MockClient) ReadDataset(ctx context.Context, dsn, member string) ([]byte, error) {
	args := m.Called(ctx, dsn, member)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockClient) WriteDataset(ctx context.Context, dsn, member string, data []byte) error {
	return m.Called(ctx, dsn, member, data).Error(0)
}

func (m *MockClient) WriteFile(ctx context.Context, path string, data []byte, binary bool) error {
	return m.Called(ctx, path, data, binary).Error(0)
}
