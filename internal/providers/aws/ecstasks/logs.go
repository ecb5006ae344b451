package ecstasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/runvoy/ecstasks/internal/api"
	"github.com/runvoy/ecstasks/internal/logger"
	awsConstants "github.com/runvoy/ecstasks/internal/providers/aws/constants"

	awsStd "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecsTypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

// ErrLogTailUnavailable is returned when the container does not log to a CloudWatch stream
// that can be located from its task definition.
var ErrLogTailUnavailable = errors.New("log tail unavailable")

// awslogsTarget is the CloudWatch location of one container's output.
type awslogsTarget struct {
	group  string
	stream string
}

// FetchLogTail returns up to lines of the most recent log messages of a container of a stopped task,
// oldest first. Only containers using the awslogs driver with a stream prefix can be tailed.
func (c *Client) FetchLogTail(ctx context.Context, task *api.Task, container string, lines int) ([]string, error) {
	if c.logsClient == nil {
		return nil, fmt.Errorf("%w: CloudWatch Logs client not configured", ErrLogTailUnavailable)
	}
	if lines <= 0 {
		return nil, nil
	}

	target, err := c.resolveLogTarget(ctx, task, container)
	if err != nil {
		return nil, err
	}

	reqLogger := logger.DeriveRequestLogger(ctx, c.logger)
	logArgs := []any{
		"operation", "CloudWatchLogs.GetLogEvents",
		"log_group", target.group,
		"log_stream", target.stream,
		"limit", lines,
	}
	logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
	reqLogger.Debug("calling external service", "context", logger.SliceToMap(logArgs))

	out, err := c.logsClient.GetLogEvents(ctx, &cloudwatchlogs.GetLogEventsInput{
		LogGroupName:  awsStd.String(target.group),
		LogStreamName: awsStd.String(target.stream),
		StartFromHead: awsStd.Bool(false),
		Limit:         awsStd.Int32(int32(min(lines, int(awsConstants.CloudWatchLogsMaxEvents)))), //nolint:gosec
	})
	if err != nil {
		return nil, &callError{op: "CloudWatchLogs.GetLogEvents", err: err}
	}

	messages := make([]string, 0, len(out.Events))
	for _, e := range out.Events {
		messages = append(messages, awsStd.ToString(e.Message))
	}
	return messages, nil
}

func (c *Client) resolveLogTarget(ctx context.Context, task *api.Task, container string) (*awslogsTarget, error) {
	if task.TaskDefinitionARN == "" {
		return nil, fmt.Errorf("%w: task %s has no task definition", ErrLogTailUnavailable, task.ARN)
	}

	reqLogger := logger.DeriveRequestLogger(ctx, c.logger)
	logArgs := []any{
		"operation", "ECS.DescribeTaskDefinition",
		"task_definition", task.TaskDefinitionARN,
	}
	logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
	reqLogger.Debug("calling external service", "context", logger.SliceToMap(logArgs))

	out, err := c.ecsClient.DescribeTaskDefinition(ctx, &ecs.DescribeTaskDefinitionInput{
		TaskDefinition: awsStd.String(task.TaskDefinitionARN),
	})
	if err != nil {
		return nil, &callError{op: "ECS.DescribeTaskDefinition", err: err}
	}
	if out.TaskDefinition == nil {
		return nil, fmt.Errorf("%w: task definition %s not found", ErrLogTailUnavailable, task.TaskDefinitionARN)
	}

	def := findContainerDefinition(out.TaskDefinition.ContainerDefinitions, container)
	if def == nil {
		return nil, fmt.Errorf("%w: container %s not in task definition", ErrLogTailUnavailable, container)
	}

	cfg := def.LogConfiguration
	if cfg == nil || cfg.LogDriver != ecsTypes.LogDriverAwslogs {
		return nil, fmt.Errorf("%w: container %s does not use the %s driver",
			ErrLogTailUnavailable, container, awsConstants.LogDriverAwslogs)
	}

	group := cfg.Options[awsConstants.AwslogsGroupOption]
	prefix := cfg.Options[awsConstants.AwslogsStreamPrefixOption]
	if group == "" || prefix == "" {
		return nil, fmt.Errorf("%w: container %s has no %s or %s option", ErrLogTailUnavailable,
			container, awsConstants.AwslogsGroupOption, awsConstants.AwslogsStreamPrefixOption)
	}

	return &awslogsTarget{
		group:  group,
		stream: awsConstants.BuildLogStreamName(prefix, container, awsConstants.TaskIDFromARN(task.ARN)),
	}, nil
}

func findContainerDefinition(defs []ecsTypes.ContainerDefinition, name string) *ecsTypes.ContainerDefinition {
	for i := range defs {
		if awsStd.ToString(defs[i].Name) == name {
			return &defs[i]
		}
	}
	return nil
}
