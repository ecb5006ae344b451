package client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// CloudWatchLogsClient reads the tail of a container's log stream.
type CloudWatchLogsClient interface {
	GetLogEvents(
		ctx context.Context, params *cloudwatchlogs.GetLogEventsInput, optFns ...func(*cloudwatchlogs.Options),
	) (*cloudwatchlogs.GetLogEventsOutput, error)
}

var _ CloudWatchLogsClient = (*cloudwatchlogs.Client)(nil)
