package adaptor

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/redshiftdataapiservice"
)

// RedshiftDataClientFactory is interface of RedshiftDataClient constructor
type RedshiftDataClientFactory func(region string) RedshiftDataClient

// RedshiftDataClient is interface of the asynchronous Redshift Data API.
// ExecuteStatement submits a statement and DescribeStatement reports its
// current status.
type RedshiftDataClient interface {
	ExecuteStatement(input *redshiftdataapiservice.ExecuteStatementInput) (*redshiftdataapiservice.ExecuteStatementOutput, error)
	DescribeStatement(input *redshiftdataapiservice.DescribeStatementInput) (*redshiftdataapiservice.DescribeStatementOutput, error)
}

// NewRedshiftDataClient creates actual Redshift Data API client
func NewRedshiftDataClient(region string) RedshiftDataClient {
	ssn := session.Must(session.NewSession(&aws.Config{Region: aws.String(region)}))
	return redshiftdataapiservice.New(ssn)
}
