package main

import (
	"os"

	"github.com/k0kubun/pp"
	"github.com/m-mizutani/redload/internal"
	"github.com/m-mizutani/redload/pkg/handler"
	"github.com/m-mizutani/redload/pkg/loader"
	cli "github.com/urfave/cli/v2"
)

var logger = handler.Logger

func main() {
	var args handler.Arguments
	var dryRun bool

	app := &cli.App{
		Name:  "redload",
		Usage: "Load a JSON object from S3 into Redshift via staging table merge",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "bucket",
				Aliases:     []string{"b"},
				Usage:       "Source S3 bucket name",
				EnvVars:     []string{"S3_BUCKET_NAME"},
				Required:    true,
				Destination: &args.S3Bucket,
			},
			&cli.StringFlag{
				Name:        "source-key",
				Aliases:     []string{"k"},
				Usage:       "Source object key, e.g. folder/data.json",
				EnvVars:     []string{"SOURCE_FILE_PATH"},
				Required:    true,
				Destination: &args.SourceKey,
			},
			&cli.StringFlag{
				Name:        "staging-table",
				Usage:       "Staging table, e.g. schema.staging_table",
				EnvVars:     []string{"STAGING_TABLE"},
				Required:    true,
				Destination: &args.StagingTable,
			},
			&cli.StringFlag{
				Name:        "final-table",
				Usage:       "Final table, e.g. schema.final_table",
				EnvVars:     []string{"FINAL_TABLE"},
				Required:    true,
				Destination: &args.FinalTable,
			},
			&cli.StringFlag{
				Name:        "endpoint",
				Usage:       "Redshift Serverless endpoint (workgroup.account.region...)",
				EnvVars:     []string{"REDSHIFT_ENDPOINT"},
				Destination: &args.RedshiftEndpoint,
			},
			&cli.StringFlag{
				Name:        "role-arn",
				Usage:       "IAM role ARN used by COPY to read S3",
				EnvVars:     []string{"REDSHIFT_ROLE_ARN"},
				Destination: &args.RoleARN,
			},
			&cli.StringFlag{
				Name:        "secret-arn",
				Usage:       "Secrets Manager ARN for warehouse credentials",
				EnvVars:     []string{"REDSHIFT_SECRET_ARN"},
				Destination: &args.SecretARN,
			},
			&cli.StringFlag{
				Name:        "database",
				Usage:       "Database name statements run against",
				EnvVars:     []string{"REDSHIFT_DATABASE"},
				Destination: &args.Database,
			},
			&cli.StringFlag{
				Name:        "record-filter",
				Usage:       "jq query applied to each record of a JSON array",
				EnvVars:     []string{"RECORD_FILTER"},
				Destination: &args.RecordFilter,
			},
			&cli.StringFlag{
				Name:        "run-table",
				Usage:       "DynamoDB table recording load runs",
				EnvVars:     []string{"RUN_TABLE_NAME"},
				Destination: &args.RunTableName,
			},
			&cli.IntFlag{
				Name:        "poll-interval",
				Usage:       "Seconds between statement status polls",
				EnvVars:     []string{"POLL_INTERVAL_SEC"},
				Destination: &args.PollIntervalSec,
			},
			&cli.IntFlag{
				Name:        "max-poll-attempts",
				Usage:       "Maximum status polls per statement (0: unlimited)",
				EnvVars:     []string{"MAX_POLL_ATTEMPTS"},
				Destination: &args.MaxPollAttempts,
			},
			&cli.StringFlag{
				Name:        "region",
				Aliases:     []string{"r"},
				Usage:       "AWS region of the source bucket",
				EnvVars:     []string{"AWS_REGION"},
				Destination: &args.AwsRegion,
			},
			&cli.StringFlag{
				Name:        "sentry-dsn",
				EnvVars:     []string{"SENTRY_DSN"},
				Destination: &args.SentryDSN,
			},
			&cli.StringFlag{
				Name:        "sentry-env",
				EnvVars:     []string{"SENTRY_ENVIRONMENT"},
				Destination: &args.SentryEnv,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Aliases:     []string{"l"},
				EnvVars:     []string{"LOG_LEVEL"},
				Destination: &args.LogLevel,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Build and print the statement plan without executing",
				Destination: &dryRun,
			},
		},
		Action: func(c *cli.Context) error {
			if args.LogLevel != "" {
				internal.SetLogLevel(args.LogLevel)
			}
			internal.InitErrorHandler(args.SentryDSN, args.SentryEnv)
			defer internal.FlushError()

			if dryRun {
				plan := loader.BuildPlan(args.StagingTable, args.FinalTable, args.Source(), args.RoleARN)
				pp.Println(plan)
				return nil
			}

			if err := loader.Handler(args); err != nil {
				internal.HandleError(err)
				return err
			}
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("Abort")
	}
}
