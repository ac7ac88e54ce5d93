package mock

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/redshiftdataapiservice"
	"github.com/m-mizutani/redload/internal/adaptor"
	"github.com/m-mizutani/redload/pkg/models"
)

// StatementResult scripts one submitted statement of RedshiftDataClient
// mock: the sequence of statuses DescribeStatement walks through and the
// error detail reported with a terminal FAILED/ABORTED status.
type StatementResult struct {
	Statuses []string
	Error    string
}

// RedshiftDataClient is a scripted mock of the Redshift Data API.
// Statements are matched to Results in submission order; unscripted
// statements finish immediately.
type RedshiftDataClient struct {
	Results  []StatementResult
	Executed []*redshiftdataapiservice.ExecuteStatementInput

	polls map[string]int
}

// NewRedshiftDataClient is constructor of Redshift Data API mock
func NewRedshiftDataClient() *RedshiftDataClient {
	return &RedshiftDataClient{
		polls: map[string]int{},
	}
}

// Factory returns RedshiftDataClientFactory that always returns the mock itself.
func (x *RedshiftDataClient) Factory() adaptor.RedshiftDataClientFactory {
	return func(region string) adaptor.RedshiftDataClient { return x }
}

// ExecuteStatement records the submitted statement and issues an ID.
func (x *RedshiftDataClient) ExecuteStatement(input *redshiftdataapiservice.ExecuteStatementInput) (*redshiftdataapiservice.ExecuteStatementOutput, error) {
	id := fmt.Sprintf("stmt-%d", len(x.Executed))
	x.Executed = append(x.Executed, input)

	return &redshiftdataapiservice.ExecuteStatementOutput{
		Id: aws.String(id),
	}, nil
}

// DescribeStatement walks the scripted status sequence of the statement.
// The last status of a sequence repeats forever.
func (x *RedshiftDataClient) DescribeStatement(input *redshiftdataapiservice.DescribeStatementInput) (*redshiftdataapiservice.DescribeStatementOutput, error) {
	var idx int
	if _, err := fmt.Sscanf(aws.StringValue(input.Id), "stmt-%d", &idx); err != nil {
		return nil, fmt.Errorf("unknown statement ID: %s", aws.StringValue(input.Id))
	}
	if idx < 0 || idx >= len(x.Executed) {
		return nil, fmt.Errorf("statement is not submitted: %s", aws.StringValue(input.Id))
	}

	result := StatementResult{Statuses: []string{models.StatementFinished}}
	if idx < len(x.Results) {
		result = x.Results[idx]
	}

	poll := x.polls[aws.StringValue(input.Id)]
	x.polls[aws.StringValue(input.Id)]++

	if poll >= len(result.Statuses) {
		poll = len(result.Statuses) - 1
	}
	status := result.Statuses[poll]

	output := &redshiftdataapiservice.DescribeStatementOutput{
		Id:     input.Id,
		Status: aws.String(status),
	}
	if result.Error != "" && (status == models.StatementFailed || status == models.StatementAborted) {
		output.Error = aws.String(result.Error)
	}

	return output, nil
}
