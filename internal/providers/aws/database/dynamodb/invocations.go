// Package dynamodb implements DynamoDB-based storage for ecstasks.
// It persists the invocation ledger using AWS DynamoDB.
package dynamodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/runvoy/ecstasks/internal/api"
	apperrors "github.com/runvoy/ecstasks/internal/errors"
	"github.com/runvoy/ecstasks/internal/logger"
	awsConstants "github.com/runvoy/ecstasks/internal/providers/aws/constants"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// InvocationRepository implements the database.InvocationRepository interface using DynamoDB.
type InvocationRepository struct {
	client    Client
	tableName string
	logger    *slog.Logger
}

// NewInvocationRepository creates a new DynamoDB-backed invocation ledger.
func NewInvocationRepository(client Client, tableName string, log *slog.Logger) *InvocationRepository {
	return &InvocationRepository{
		client:    client,
		tableName: tableName,
		logger:    log,
	}
}

// invocationItem represents the structure stored in DynamoDB.
// This keeps the database schema separate from the API types.
// InvokedAt is stored as Unix milliseconds (number) as the sort key so that two
// invocations within the same second stay distinct.
type invocationItem struct {
	Identity           string   `dynamodbav:"identity"`
	InvokedAt          int64    `dynamodbav:"invoked_at"`
	RequestType        string   `dynamodbav:"request_type"`
	RequestID          string   `dynamodbav:"request_id,omitempty"`
	StackID            string   `dynamodbav:"stack_id"`
	LogicalResourceID  string   `dynamodbav:"logical_resource_id"`
	Cluster            string   `dynamodbav:"cluster,omitempty"`
	Status             string   `dynamodbav:"status"`
	Kind               string   `dynamodbav:"kind,omitempty"`
	Reason             string   `dynamodbav:"reason,omitempty"`
	PhysicalResourceID string   `dynamodbav:"physical_resource_id,omitempty"`
	TaskARNs           []string `dynamodbav:"task_arns,omitempty,stringset"`
	DurationMillis     int64    `dynamodbav:"duration_ms"`
}

// toInvocationItem converts an api.InvocationRecord to an invocationItem.
func toInvocationItem(r *api.InvocationRecord) *invocationItem {
	return &invocationItem{
		Identity:           r.Identity,
		InvokedAt:          r.InvokedAt.UnixMilli(),
		RequestType:        r.RequestType,
		RequestID:          r.RequestID,
		StackID:            r.StackID,
		LogicalResourceID:  r.LogicalResourceID,
		Cluster:            r.Cluster,
		Status:             r.Status,
		Kind:               r.Kind,
		Reason:             r.Reason,
		PhysicalResourceID: r.PhysicalResourceID,
		TaskARNs:           r.TaskARNs,
		DurationMillis:     r.DurationMillis,
	}
}

// toAPIRecord converts an invocationItem to an api.InvocationRecord.
func (i *invocationItem) toAPIRecord() *api.InvocationRecord {
	return &api.InvocationRecord{
		Identity:           i.Identity,
		InvokedAt:          time.UnixMilli(i.InvokedAt).UTC(),
		RequestType:        i.RequestType,
		RequestID:          i.RequestID,
		StackID:            i.StackID,
		LogicalResourceID:  i.LogicalResourceID,
		Cluster:            i.Cluster,
		Status:             i.Status,
		Kind:               i.Kind,
		Reason:             i.Reason,
		PhysicalResourceID: i.PhysicalResourceID,
		TaskARNs:           i.TaskARNs,
		DurationMillis:     i.DurationMillis,
	}
}

// PutInvocation stores the record of one lifecycle invocation.
func (r *InvocationRepository) PutInvocation(ctx context.Context, record *api.InvocationRecord) error {
	reqLogger := logger.DeriveRequestLogger(ctx, r.logger)

	av, err := attributevalue.MarshalMap(toInvocationItem(record))
	if err != nil {
		return apperrors.ErrDatabaseError("failed to marshal invocation", err)
	}

	logArgs := []any{
		"operation", "DynamoDB.PutItem",
		"table", r.tableName,
		"identity", record.Identity,
		"status", record.Status,
	}
	logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
	reqLogger.Debug("calling external service", "context", logger.SliceToMap(logArgs))

	if _, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}); err != nil {
		return apperrors.ErrDatabaseError("failed to store invocation", err)
	}

	reqLogger.Debug("invocation stored successfully", "identity", record.Identity)

	return nil
}

// ListInvocations returns the records stored for an identity, newest first.
// A limit of 0 or less returns every record.
func (r *InvocationRepository) ListInvocations(
	ctx context.Context, identity string, limit int,
) ([]*api.InvocationRecord, error) {
	reqLogger := logger.DeriveRequestLogger(ctx, r.logger)

	keyCond := expression.Key(awsConstants.InvocationsPartitionKey).Equal(expression.Value(identity))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.ErrDatabaseError("failed to build query expression", err)
	}

	capacity := awsConstants.DefaultInvocationListCapacity
	if limit > 0 {
		capacity = limit
	}
	records := make([]*api.InvocationRecord, 0, capacity)

	var startKey map[string]types.AttributeValue
	for {
		input := &dynamodb.QueryInput{
			TableName:                 aws.String(r.tableName),
			KeyConditionExpression:    expr.KeyCondition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ScanIndexForward:          aws.Bool(false), // sort descending by invoked_at
			ExclusiveStartKey:         startKey,
		}
		if limit > 0 {
			input.Limit = aws.Int32(int32(limit - len(records))) //nolint:gosec // positive and bounded by limit
		}

		logArgs := []any{
			"operation", "DynamoDB.Query",
			"table", r.tableName,
			"identity", identity,
		}
		logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
		reqLogger.Debug("calling external service", "context", logger.SliceToMap(logArgs))

		out, queryErr := r.client.Query(ctx, input)
		if queryErr != nil {
			return nil, apperrors.ErrDatabaseError("failed to query invocations", queryErr)
		}

		for _, raw := range out.Items {
			var item invocationItem
			if err = attributevalue.UnmarshalMap(raw, &item); err != nil {
				return nil, apperrors.ErrDatabaseError(
					fmt.Sprintf("failed to unmarshal invocation of %s", identity), err)
			}
			records = append(records, item.toAPIRecord())
		}

		if len(out.LastEvaluatedKey) == 0 || (limit > 0 && len(records) >= limit) {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return records, nil
}
