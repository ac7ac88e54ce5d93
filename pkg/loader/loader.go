package loader

import (
	"time"

	"github.com/m-mizutani/redload/internal"
	"github.com/m-mizutani/redload/pkg/handler"
	"github.com/m-mizutani/redload/pkg/models"
	"github.com/sirupsen/logrus"
)

var logger = internal.Logger

// Handler runs the whole batch load: normalize the source object into a
// NDJSON load source, build the four-step statement plan and drive it to
// completion. Any failure is terminal; the idempotent plan makes a re-run
// the recovery path.
func Handler(args handler.Arguments) error {
	workgroup, region, err := handler.ParseEndpoint(args.RedshiftEndpoint)
	if err != nil {
		return err
	}

	src := args.Source()
	logger.WithFields(logrus.Fields{
		"src":       src.S3URI(),
		"workgroup": workgroup,
		"region":    region,
		"staging":   args.StagingTable,
		"final":     args.FinalTable,
	}).Info("Starting load job")

	run := models.NewLoadRun(src, args.StagingTable, args.FinalTable)
	repo := args.RunRepository()
	if repo != nil {
		if err := repo.PutRun(run); err != nil {
			return err
		}
	}

	source, err := normalizeSource(args, src)
	if err != nil {
		return finishRun(args, run, err)
	}

	plan := BuildPlan(args.StagingTable, args.FinalTable, source, args.RoleARN)

	exec := NewExecutor(args.RedshiftFactory())
	if args.PollIntervalSec > 0 {
		exec.Interval = time.Duration(args.PollIntervalSec) * time.Second
	}
	exec.MaxAttempts = args.MaxPollAttempts

	target := Target{
		Region:    region,
		Workgroup: workgroup,
		Database:  args.DatabaseName(),
		SecretARN: args.SecretARN,
	}

	if err := exec.Execute(target, plan); err != nil {
		return finishRun(args, run, err)
	}

	logger.Info("Job Completed Successfully.")
	return finishRun(args, run, nil)
}

func normalizeSource(args handler.Arguments, src models.S3Object) (models.S3Object, error) {
	norm := NewNormalizer(args.S3Service())
	if args.RecordFilter != "" {
		if err := norm.SetFilter(args.RecordFilter); err != nil {
			return src, err
		}
	}

	return norm.Normalize(src)
}

// finishRun updates the audit record with the job outcome and passes the
// original error through.
func finishRun(args handler.Arguments, run *models.LoadRun, jobErr error) error {
	repo := args.RunRepository()
	if repo == nil {
		return jobErr
	}

	if jobErr == nil {
		run.Succeed()
	} else if sf, ok := jobErr.(*models.StepFailure); ok {
		run.Fail(sf.StepName, sf.Detail)
	} else {
		run.Fail("", jobErr.Error())
	}

	if err := repo.PutRun(run); err != nil {
		logger.WithError(err).Error("Fail to update load run record")
		if jobErr == nil {
			return err
		}
	}

	return jobErr
}
