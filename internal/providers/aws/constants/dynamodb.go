package constants

// DefaultInvocationListCapacity is the initial slice capacity used when listing
// invocations from DynamoDB without an explicit limit.
const DefaultInvocationListCapacity = 16

// InvocationsPartitionKey is the partition key attribute of the invocations table.
const InvocationsPartitionKey = "identity"

// InvocationsSortKey is the sort key attribute of the invocations table.
const InvocationsSortKey = "invoked_at"
