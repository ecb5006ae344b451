// Package constants provides AWS-specific constants for ECS task lifecycle management.
package constants

// DescribeTasksMaxBatch is the largest number of ARNs ECS accepts in one DescribeTasks call.
const DescribeTasksMaxBatch = 100

// DefaultMaxListPages bounds the number of ListTasks pages fetched for one identity.
const DefaultMaxListPages = 100

// StartTaskMaxInstances is the largest number of container instances StartTask accepts.
const StartTaskMaxInstances = 10

// ClusterStatusActive is the status DescribeClusters reports for a usable cluster.
const ClusterStatusActive = "ACTIVE"
