package repository

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/guregu/dynamo"
	"github.com/m-mizutani/redload/pkg/models"
	"github.com/pkg/errors"
)

// RunRepository is interface of the load run audit store
type RunRepository interface {
	PutRun(run *models.LoadRun) error
	GetRun(runID string) (*models.LoadRun, error)
}

// RunDynamoDB is implementation of RunRepository on DynamoDB
type RunDynamoDB struct {
	table dynamo.Table
}

// NewRunDynamoDB is a constructor of RunDynamoDB as RunRepository
func NewRunDynamoDB(region, tableName string) RunRepository {
	db := dynamo.New(session.New(), &aws.Config{Region: aws.String(region)})

	return &RunDynamoDB{
		table: db.Table(tableName),
	}
}

// PutRun upserts a load run record. The same run is put again with
// updated status when the job finishes or fails.
func (x *RunDynamoDB) PutRun(run *models.LoadRun) error {
	if err := x.table.Put(run).Run(); err != nil {
		return errors.Wrapf(err, "Fail to put load run: %s", run.RunID)
	}
	return nil
}

// GetRun fetches a load run record by run ID. Missing record is returned
// as nil without error.
func (x *RunDynamoDB) GetRun(runID string) (*models.LoadRun, error) {
	var run models.LoadRun
	if err := x.table.Get("run_id", runID).One(&run); err != nil {
		if err == dynamo.ErrNotFound || isResourceNotFoundErr(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "Fail to get load run: %s", runID)
	}
	return &run, nil
}
