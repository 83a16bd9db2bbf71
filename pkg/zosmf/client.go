package zosmf

import "context"

// JobClient is the job entry subsystem.
type JobClient interface {
	// SubmitJob submits the JCL found at ref, a dataset member or USS file.
	SubmitJob(ctx context.Context, ref string) (*JobHandle, error)
	GetJobStatus(ctx context.Context, name, id string) (*JobHandle, error)
	ListOutputParts(ctx context.Context, job *JobHandle) ([]OutputPart, error)
	ReadOutputPart(ctx context.Context, job *JobHandle, partID int) (string, error)
}

// DatasetClient manages cataloged datasets. An empty member addresses the
// dataset itself.
type DatasetClient interface {
	ListDatasets(ctx context.Context, mask string) ([]string, error)
	ListMembers(ctx context.Context, dsn string) ([]string, error)
	GetDatasetInfo(ctx context.Context, dsn string) (*DatasetInfo, error)
	CreateDataset(ctx context.Context, dsn string, params AllocationParams) error
	DeleteDataset(ctx context.Context, dsn, member string) error
	ReadDataset(ctx context.Context, dsn, member string) ([]byte, error)
	WriteDataset(ctx context.Context, dsn, member string, data []byte) error
}

// FileClient writes z/OS UNIX files.
type FileClient interface {
	WriteFile(ctx context.Context, path string, data []byte, binary bool) error
}

// Client is everything the agents need from the remote service.
type Client interface {
	JobClient
	DatasetClient
	FileClient
}
