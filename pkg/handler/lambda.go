package handler

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/m-mizutani/redload/internal"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Logger is common logger gateway
var Logger = internal.Logger

// Handler has main logic of the job
type Handler func(Arguments) error

// EventOverrides are fields an invoking event (e.g. Step Functions task
// input) may set to override environment configuration per invocation.
type EventOverrides struct {
	S3Bucket  string `json:"s3_bucket"`
	SourceKey string `json:"source_key"`
}

// StartLambda initializes AWS Lambda and invokes handler
func StartLambda(handler Handler) {
	Logger.SetLevel(logrus.InfoLevel)
	Logger.SetFormatter(&logrus.JSONFormatter{})

	lambda.Start(func(ctx context.Context, event interface{}) error {
		defer internal.FlushError()

		var args Arguments
		if err := args.BindEnvVars(); err != nil {
			internal.HandleError(err)
			return err
		}

		if args.LogLevel != "" {
			internal.SetLogLevel(args.LogLevel)
		}
		internal.InitErrorHandler(args.SentryDSN, args.SentryEnv)

		if err := bindOverrides(&args, event); err != nil {
			internal.HandleError(err)
			return err
		}

		Logger.WithFields(logrus.Fields{"args": args, "event": event}).Debug("Start handler")

		if err := handler(args); err != nil {
			internal.HandleError(err)
			return err
		}

		return nil
	})
}

func bindOverrides(args *Arguments, event interface{}) error {
	if event == nil {
		return nil
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "Fail to marshal lambda event")
	}

	var ov EventOverrides
	if err := json.Unmarshal(raw, &ov); err != nil {
		Logger.WithField("raw", string(raw)).Error("json.Unmarshal")
		return errors.Wrap(err, "Fail to unmarshal lambda event")
	}

	if ov.S3Bucket != "" {
		args.S3Bucket = ov.S3Bucket
	}
	if ov.SourceKey != "" {
		args.SourceKey = ov.SourceKey
	}

	return nil
}
