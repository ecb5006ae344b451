package constants

// LogDriverAwslogs is the log driver whose streams can be tailed from CloudWatch Logs.
const LogDriverAwslogs = "awslogs"

// AwslogsGroupOption is the awslogs option naming the log group.
const AwslogsGroupOption = "awslogs-group"

// AwslogsStreamPrefixOption is the awslogs option naming the stream prefix.
const AwslogsStreamPrefixOption = "awslogs-stream-prefix"

// CloudWatchLogsMaxEvents is the largest Limit accepted by GetLogEvents.
const CloudWatchLogsMaxEvents = int32(10000)
