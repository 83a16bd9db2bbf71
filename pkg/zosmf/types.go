package zosmf

import (
	"k8s.io/utils/ptr"
)

// JobStatus is the phase reported by the job entry subsystem.
type JobStatus string

const (
	JobStatusInput  JobStatus = "INPUT"
	JobStatusActive JobStatus = "ACTIVE"
	JobStatusOutput JobStatus = "OUTPUT"
)

// Terminal reports whether a job in this status will not change any more.
func (s JobStatus) Terminal() bool { return s == JobStatusOutput }

// SuccessReturnCode is what a cleanly finished job reports.
const SuccessReturnCode = "CC 0000"

// JobHandle identifies a submitted job. ReturnCode is set only once Status is terminal.
type JobHandle struct {
	ID         string    `json:"jobid"`
	Name       string    `json:"jobname"`
	Owner      string    `json:"owner"`
	Status     JobStatus `json:"status"`
	ReturnCode *string   `json:"retcode,omitempty"`
}

// IsTerminal reports whether the handle will no longer change.
func (j *JobHandle) IsTerminal() bool { return j.Status.Terminal() }

// RC returns the return code, or "" while the job runs.
func (j *JobHandle) RC() string { return ptr.Deref(j.ReturnCode, "") }

func (j *JobHandle) String() string { return j.Name + "(" + j.ID + ")" }

// OutputPart is one spool file of a job. Listing fills everything but Content.
type OutputPart struct {
	ID       int    `json:"id"`
	DDName   string `json:"ddname"`
	StepName string `json:"stepname,omitempty"`
	Content  string `json:"-"`
}

// Organization is the dataset organization (DSORG).
type Organization string

const (
	OrgSequential        Organization = "PS"
	OrgPartitioned       Organization = "PO"
	OrgPartitionedExtend Organization = "PO-E"
	OrgVSAM              Organization = "VS"
)

// Partitioned reports whether the dataset holds members.
func (o Organization) Partitioned() bool {
	return o == OrgPartitioned || o == OrgPartitionedExtend || o == "POE"
}

// DatasetInfo is the metadata of a cataloged dataset. RecordLength is nil when
// the service did not report one.
type DatasetInfo struct {
	Name         string       `json:"dsname"`
	Organization Organization `json:"dsorg,omitempty"`
	RecordFormat string       `json:"recfm,omitempty"`
	RecordLength *int         `json:"lrecl,omitempty"`
	Volume       string       `json:"vol,omitempty"`
}

// AllocationParams are the attributes of a new dataset.
type AllocationParams struct {
	Organization    Organization `json:"dsorg" mapstructure:"dsorg" validate:"required,oneof=PS PO PO-E"`
	RecordFormat    string       `json:"recfm" mapstructure:"recfm" validate:"required"`
	RecordLength    int          `json:"lrecl" mapstructure:"lrecl" validate:"required,min=1,max=32760"`
	BlockSize       int          `json:"blksize,omitempty" mapstructure:"blksize" validate:"min=0"`
	AllocationUnit  string       `json:"alcunit,omitempty" mapstructure:"alcunit" validate:"omitempty,oneof=TRK CYL"`
	Primary         int          `json:"primary" mapstructure:"primary" validate:"required,min=1"`
	Secondary       int          `json:"secondary" mapstructure:"secondary" validate:"min=0"`
	DirectoryBlocks int          `json:"dirblk,omitempty" mapstructure:"dirblk" validate:"min=0"`
	Volume          string       `json:"volser,omitempty" mapstructure:"volser"`
}
