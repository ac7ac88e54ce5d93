package handler_test

import (
	"testing"

	"github.com/m-mizutani/redload/pkg/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEndpoint(t *testing.T) {
	workgroup, region, err := handler.ParseEndpoint("wg-prod.123456789012.us-east-1.redshift-serverless.amazonaws.com")
	require.NoError(t, err)
	assert.Equal(t, "wg-prod", workgroup)
	assert.Equal(t, "us-east-1", region)
}

func TestParseEndpointTooShort(t *testing.T) {
	_, _, err := handler.ParseEndpoint("localhost")
	assert.Error(t, err)

	_, _, err = handler.ParseEndpoint("wg.account")
	assert.Error(t, err)
}

func TestDatabaseNameDefault(t *testing.T) {
	var args handler.Arguments
	assert.Equal(t, "dev", args.DatabaseName())

	args.Database = "analytics"
	assert.Equal(t, "analytics", args.DatabaseName())
}

func TestSource(t *testing.T) {
	var args handler.Arguments
	args.AwsRegion = "us-east-1"
	args.S3Bucket = "mybucket"
	args.SourceKey = "folder/data.json"

	src := args.Source()
	assert.Equal(t, "s3://mybucket/folder/data.json", src.S3URI())
	assert.Equal(t, "us-east-1", src.Region)
}
