package handler

import (
	"strings"

	"github.com/m-mizutani/redload/internal/adaptor"
	"github.com/m-mizutani/redload/internal/repository"
	"github.com/m-mizutani/redload/internal/service"
	"github.com/m-mizutani/redload/pkg/models"
	"github.com/pkg/errors"
)

// defaultDatabase is the database name statements run against unless
// REDSHIFT_DATABASE is set.
const defaultDatabase = "dev"

// Arguments has all job configuration and adaptor factories. Factories
// and RunRepo can be replaced for testing; nil fields fall back to real
// AWS clients.
type Arguments struct {
	EnvVars

	NewS3       adaptor.S3ClientFactory           `json:"-"`
	NewRedshift adaptor.RedshiftDataClientFactory `json:"-"`
	RunRepo     repository.RunRepository          `json:"-"`
}

// Source returns the S3 object the job loads from.
func (x *Arguments) Source() models.S3Object {
	return models.NewS3Object(x.AwsRegion, x.S3Bucket, x.SourceKey)
}

// DatabaseName returns the configured database, defaulting to "dev".
func (x *Arguments) DatabaseName() string {
	if x.Database != "" {
		return x.Database
	}
	return defaultDatabase
}

// ParseEndpoint extracts workgroup name and region from a Redshift
// Serverless endpoint. By convention the endpoint is
// {workgroup}.{account}.{region}.redshift-serverless.amazonaws.com:
// the first dot-separated segment is the workgroup and the third is the
// region.
func ParseEndpoint(endpoint string) (workgroup, region string, err error) {
	parts := strings.Split(endpoint, ".")
	if len(parts) < 3 {
		return "", "", errors.Errorf("Invalid Redshift endpoint (workgroup.account.region... is expected): %s", endpoint)
	}

	return parts[0], parts[2], nil
}

// S3Service provides service.S3Service with S3 adaptor
func (x *Arguments) S3Service() *service.S3Service {
	return service.NewS3Service(x.newS3())
}

// RedshiftFactory provides the Redshift Data API client factory
func (x *Arguments) RedshiftFactory() adaptor.RedshiftDataClientFactory {
	if x.NewRedshift != nil {
		return x.NewRedshift
	}
	return adaptor.NewRedshiftDataClient
}

// RunRepository provides the load run audit repository. It returns nil
// when no audit table is configured; recording is skipped in that case.
func (x *Arguments) RunRepository() repository.RunRepository {
	if x.RunRepo != nil {
		return x.RunRepo
	}
	if x.RunTableName == "" {
		return nil
	}
	return repository.NewRunDynamoDB(x.AwsRegion, x.RunTableName)
}

func (x *Arguments) newS3() adaptor.S3ClientFactory {
	if x.NewS3 != nil {
		return x.NewS3
	}
	return adaptor.NewS3Client
}
