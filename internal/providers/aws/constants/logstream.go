package constants

import (
	"strings"
)

// LogStreamPartsCount is the expected number of parts in an awslogs stream name
// Format: {prefix}/{container}/{task_id} = 3 parts
const LogStreamPartsCount = 3

// BuildLogStreamName constructs the CloudWatch Logs stream name the awslogs driver
// uses for a container of a task.
// Format: {prefix}/{container}/{task_id}
// Example: migrate/app/0f1e2d3c4b5a
func BuildLogStreamName(prefix, container, taskID string) string {
	return prefix + "/" + container + "/" + taskID
}

// ExtractTaskIDFromLogStream extracts the task ID from an awslogs stream name.
// Returns empty string if the format is not recognized.
func ExtractTaskIDFromLogStream(logStream string) string {
	if logStream == "" {
		return ""
	}

	parts := strings.Split(logStream, "/")
	if len(parts) != LogStreamPartsCount {
		return ""
	}

	return parts[2]
}

// TaskIDFromARN returns the trailing task ID of a task ARN.
// Example: arn:aws:ecs:us-east-1:123456789012:task/cluster/abc123 -> abc123
func TaskIDFromARN(taskARN string) string {
	parts := strings.Split(taskARN, "/")
	return parts[len(parts)-1]
}
