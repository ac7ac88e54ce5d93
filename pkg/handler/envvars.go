package handler

import env "github.com/Netflix/go-env"

// EnvVars has all environment variables that should be given to the job.
// CLI flags and Lambda environment bind to the same set.
type EnvVars struct {
	// Job arguments
	S3Bucket         string `env:"S3_BUCKET_NAME"`
	SourceKey        string `env:"SOURCE_FILE_PATH"`
	StagingTable     string `env:"STAGING_TABLE"`
	FinalTable       string `env:"FINAL_TABLE"`
	RedshiftEndpoint string `env:"REDSHIFT_ENDPOINT"`
	RoleARN          string `env:"REDSHIFT_ROLE_ARN"`
	SecretARN        string `env:"REDSHIFT_SECRET_ARN"`

	// Optional behavior tuning
	Database        string `env:"REDSHIFT_DATABASE"`
	RecordFilter    string `env:"RECORD_FILTER"`
	RunTableName    string `env:"RUN_TABLE_NAME"`
	PollIntervalSec int    `env:"POLL_INTERVAL_SEC"`
	MaxPollAttempts int    `env:"MAX_POLL_ATTEMPTS"`

	SentryDSN string `env:"SENTRY_DSN"`
	SentryEnv string `env:"SENTRY_ENVIRONMENT"`
	LogLevel  string `env:"LOG_LEVEL"`

	// From AWS Lambda
	AwsRegion string `env:"AWS_REGION"`
}

// BindEnvVars loads environments variables and set them to EnvVars
func (x *EnvVars) BindEnvVars() error {
	if _, err := env.UnmarshalFromEnviron(x); err != nil {
		Logger.WithError(err).Error("Failed UnmarshalFromEnviron")
		return err
	}

	return nil
}
