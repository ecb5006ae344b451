package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Client is the part of the DynamoDB API the invocation ledger uses.
// *dynamodb.Client satisfies it; tests use MockDynamoDBClient.
type Client interface {
	PutItem(
		ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options),
	) (*dynamodb.PutItemOutput, error)
	Query(
		ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options),
	) (*dynamodb.QueryOutput, error)
}

var (
	_ Client = (*dynamodb.Client)(nil)
	_ Client = (*MockDynamoDBClient)(nil)
)
