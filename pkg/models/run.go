package models

import (
	"time"

	"github.com/google/uuid"
)

// Load run statuses stored in the audit table.
const (
	RunStatusRunning   = "RUNNING"
	RunStatusSucceeded = "SUCCEEDED"
	RunStatusFailed    = "FAILED"
)

// LoadRun is an audit record of one load job execution.
type LoadRun struct {
	RunID        string    `dynamo:"run_id" json:"run_id"`
	Source       S3Object  `dynamo:"source" json:"source"`
	StagingTable string    `dynamo:"staging_table" json:"staging_table"`
	FinalTable   string    `dynamo:"final_table" json:"final_table"`
	Status       string    `dynamo:"status" json:"status"`
	FailedStep   string    `dynamo:"failed_step,omitempty" json:"failed_step,omitempty"`
	ErrorDetail  string    `dynamo:"error_detail,omitempty" json:"error_detail,omitempty"`
	StartedAt    time.Time `dynamo:"started_at" json:"started_at"`
	FinishedAt   time.Time `dynamo:"finished_at,omitempty" json:"finished_at,omitempty"`
}

// NewLoadRun is constructor of LoadRun. The run starts in RUNNING status.
func NewLoadRun(src S3Object, stagingTable, finalTable string) *LoadRun {
	return &LoadRun{
		RunID:        uuid.New().String(),
		Source:       src,
		StagingTable: stagingTable,
		FinalTable:   finalTable,
		Status:       RunStatusRunning,
		StartedAt:    time.Now().UTC(),
	}
}

// Succeed marks the run as completed.
func (x *LoadRun) Succeed() {
	x.Status = RunStatusSucceeded
	x.FinishedAt = time.Now().UTC()
}

// Fail marks the run as failed with the failing step and error detail.
func (x *LoadRun) Fail(stepName, detail string) {
	x.Status = RunStatusFailed
	x.FailedStep = stepName
	x.ErrorDetail = detail
	x.FinishedAt = time.Now().UTC()
}
