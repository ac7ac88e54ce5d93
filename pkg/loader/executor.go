package loader

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/redshiftdataapiservice"
	"github.com/m-mizutani/redload/internal/adaptor"
	"github.com/m-mizutani/redload/pkg/models"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// defaultPollInterval is the wait between DescribeStatement calls.
const defaultPollInterval = 2 * time.Second

// Target identifies the warehouse a plan runs against.
type Target struct {
	Region    string
	Workgroup string
	Database  string
	SecretARN string
}

// Executor drives a load plan against the Redshift Data API one step at a
// time. A step must reach FINISHED before the next one is submitted, and
// a FAILED or ABORTED step stops the whole plan. There is no automatic
// retry: re-running the idempotent plan is the recovery path.
type Executor struct {
	// Interval is the wait between status polls.
	Interval time.Duration
	// MaxAttempts limits status polls per step. 0 means no limit and the
	// executor waits until the remote side reaches a terminal status.
	MaxAttempts int

	newRedshift adaptor.RedshiftDataClientFactory
}

// NewExecutor is constructor of Executor
func NewExecutor(newRedshift adaptor.RedshiftDataClientFactory) *Executor {
	return &Executor{
		Interval:    defaultPollInterval,
		newRedshift: newRedshift,
	}
}

// Execute runs all steps of the plan in order. The returned error is a
// *models.StepFailure when a statement terminated as FAILED or ABORTED.
func (x *Executor) Execute(target Target, plan models.LoadPlan) error {
	client := x.newRedshift(target.Region)

	for _, step := range plan {
		logger.WithFields(logrus.Fields{
			"step": step.Name,
			"sql":  step.SQL,
		}).Info("Executing statement")

		if err := x.executeStep(client, target, step); err != nil {
			return err
		}
	}

	return nil
}

func (x *Executor) executeStep(client adaptor.RedshiftDataClient, target Target, step models.StatementStep) error {
	output, err := client.ExecuteStatement(&redshiftdataapiservice.ExecuteStatementInput{
		WorkgroupName: aws.String(target.Workgroup),
		Database:      aws.String(target.Database),
		SecretArn:     aws.String(target.SecretARN),
		Sql:           aws.String(step.SQL),
	})
	if err != nil {
		return errors.Wrapf(err, "Fail to submit statement: %s", step.Name)
	}

	statementID := aws.StringValue(output.Id)
	logger.WithFields(logrus.Fields{
		"step": step.Name,
		"id":   statementID,
	}).Debug("Submitted statement")

	for attempt := 0; ; attempt++ {
		if x.MaxAttempts > 0 && attempt >= x.MaxAttempts {
			return errors.Errorf("Statement did not reach terminal status after %d polls: %s", x.MaxAttempts, step.Name)
		}

		resp, err := client.DescribeStatement(&redshiftdataapiservice.DescribeStatementInput{
			Id: aws.String(statementID),
		})
		if err != nil {
			return errors.Wrapf(err, "Fail to describe statement: %s", step.Name)
		}

		status := aws.StringValue(resp.Status)
		switch status {
		case models.StatementFinished:
			logger.WithField("step", step.Name).Info("Finished Successfully")
			return nil

		case models.StatementFailed, models.StatementAborted:
			detail := aws.StringValue(resp.Error)
			if detail == "" {
				detail = "Unknown Error"
			}
			return &models.StepFailure{
				StepName: step.Name,
				Status:   status,
				Detail:   detail,
			}
		}

		logger.WithFields(logrus.Fields{
			"step":   step.Name,
			"status": status,
		}).Debug("Waiting...")
		time.Sleep(x.Interval)
	}
}
