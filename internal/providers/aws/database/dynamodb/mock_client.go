package dynamodb

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MockDynamoDBClient is a simple in-memory mock implementation of Client for testing.
// Items are keyed by a string partition key and a numeric sort key.
type MockDynamoDBClient struct {
	mu sync.RWMutex

	PartitionKey string
	SortKey      string

	// Tables maps table name -> partition key -> items
	Tables map[string]map[string][]map[string]types.AttributeValue

	// Error injection for testing error scenarios
	PutItemError error
	QueryError   error

	// Call tracking for test assertions
	PutItemCalls int
	QueryCalls   int
}

// NewMockDynamoDBClient creates a new mock DynamoDB client for testing.
func NewMockDynamoDBClient(partitionKey, sortKey string) *MockDynamoDBClient {
	return &MockDynamoDBClient{
		PartitionKey: partitionKey,
		SortKey:      sortKey,
		Tables:       make(map[string]map[string][]map[string]types.AttributeValue),
	}
}

// PutItem stores an item in the mock table, replacing any item with the same key.
func (m *MockDynamoDBClient) PutItem(
	_ context.Context,
	params *dynamodb.PutItemInput,
	_ ...func(*dynamodb.Options),
) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PutItemCalls++

	if m.PutItemError != nil {
		return nil, m.PutItemError
	}

	tableName := *params.TableName
	if m.Tables[tableName] == nil {
		m.Tables[tableName] = make(map[string][]map[string]types.AttributeValue)
	}

	pk := getStringValue(params.Item[m.PartitionKey])
	if pk == "" {
		return nil, fmt.Errorf("failed to extract partition key from item")
	}
	sk := getNumberValue(params.Item[m.SortKey])

	items := m.Tables[tableName][pk]
	for i, existing := range items {
		if getNumberValue(existing[m.SortKey]) == sk {
			items[i] = params.Item
			return &dynamodb.PutItemOutput{}, nil
		}
	}
	m.Tables[tableName][pk] = append(items, params.Item)

	return &dynamodb.PutItemOutput{}, nil
}

// Query returns the items of one partition ordered by sort key.
// The partition value is taken from the first string in ExpressionAttributeValues.
func (m *MockDynamoDBClient) Query(
	_ context.Context,
	params *dynamodb.QueryInput,
	_ ...func(*dynamodb.Options),
) (*dynamodb.QueryOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QueryCalls++

	if m.QueryError != nil {
		return nil, m.QueryError
	}

	var pk string
	for _, v := range params.ExpressionAttributeValues {
		if s := getStringValue(v); s != "" {
			pk = s
			break
		}
	}

	items := append([]map[string]types.AttributeValue(nil), m.Tables[*params.TableName][pk]...)
	forward := params.ScanIndexForward == nil || *params.ScanIndexForward
	sort.Slice(items, func(i, j int) bool {
		a, b := getNumberValue(items[i][m.SortKey]), getNumberValue(items[j][m.SortKey])
		if forward {
			return a < b
		}
		return a > b
	})

	if params.ExclusiveStartKey != nil {
		start := getNumberValue(params.ExclusiveStartKey[m.SortKey])
		for i, item := range items {
			if getNumberValue(item[m.SortKey]) == start {
				items = items[i+1:]
				break
			}
		}
	}

	out := &dynamodb.QueryOutput{}
	if params.Limit != nil && int(*params.Limit) < len(items) {
		items = items[:*params.Limit]
		last := items[len(items)-1]
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			m.PartitionKey: last[m.PartitionKey],
			m.SortKey:      last[m.SortKey],
		}
	}

	out.Items = items
	out.Count = safeInt32Count(len(items))
	return out, nil
}

func getStringValue(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func getNumberValue(av types.AttributeValue) int64 {
	if n, ok := av.(*types.AttributeValueMemberN); ok {
		v, err := strconv.ParseInt(n.Value, 10, 64)
		if err == nil {
			return v
		}
	}
	return 0
}

func safeInt32Count(n int) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(n) //nolint:gosec // bounded above
}
