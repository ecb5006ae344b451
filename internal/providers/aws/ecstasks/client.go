// Package ecstasks implements the cluster client for ECS task groups.
// It launches tasks tagged with a started-by identity, refreshes their state,
// enumerates them for teardown and stops them.
package ecstasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/runvoy/ecstasks/internal/api"
	appErrors "github.com/runvoy/ecstasks/internal/errors"
	"github.com/runvoy/ecstasks/internal/logger"
	awsClient "github.com/runvoy/ecstasks/internal/providers/aws/client"
	awsConstants "github.com/runvoy/ecstasks/internal/providers/aws/constants"
	"github.com/runvoy/ecstasks/internal/validation"

	awsStd "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecsTypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

// Config holds the cluster client limits.
type Config struct {
	// DescribeBatchSize is the number of ARNs sent per DescribeTasks call.
	DescribeBatchSize int
	// MaxListPages bounds the number of ListTasks pages fetched per call.
	MaxListPages int
}

// DefaultConfig returns the limits ECS itself imposes.
func DefaultConfig() *Config {
	return &Config{
		DescribeBatchSize: awsConstants.DescribeTasksMaxBatch,
		MaxListPages:      awsConstants.DefaultMaxListPages,
	}
}

// Client talks to ECS on behalf of the lifecycle orchestrator.
// It holds no invocation state and is safe to reuse across invocations.
type Client struct {
	ecsClient  awsClient.ECSClient
	logsClient awsClient.CloudWatchLogsClient
	cfg        *Config
	logger     *slog.Logger
}

// NewClient creates a new ECS cluster client. logsClient may be nil, which disables log tailing.
func NewClient(
	ecsClient awsClient.ECSClient,
	logsClient awsClient.CloudWatchLogsClient,
	cfg *Config,
	log *slog.Logger,
) *Client {
	limits := DefaultConfig()
	if cfg != nil {
		*limits = *cfg
	}
	if limits.DescribeBatchSize <= 0 || limits.DescribeBatchSize > awsConstants.DescribeTasksMaxBatch {
		limits.DescribeBatchSize = awsConstants.DescribeTasksMaxBatch
	}
	if limits.MaxListPages <= 0 {
		limits.MaxListPages = awsConstants.DefaultMaxListPages
	}
	return &Client{
		ecsClient:  ecsClient,
		logsClient: logsClient,
		cfg:        limits,
		logger:     log,
	}
}

// StartTask launches the task group described by req.
// Tasks are placed on req.Instances with StartTask when instances are given,
// otherwise req.Count tasks are scheduled with RunTask.
// Tasks the service could not place are returned in the result's Failures, not as an error.
func (c *Client) StartTask(ctx context.Context, req *api.TaskRequest) (*api.TaskResult, error) {
	if len(req.Instances) > awsConstants.StartTaskMaxInstances {
		return nil, appErrors.ErrValidation(
			fmt.Sprintf("Instances must contain at most %d items", awsConstants.StartTaskMaxInstances), nil)
	}

	overrides, err := validation.DecodeOverrides(req.Overrides)
	if err != nil {
		return nil, appErrors.ErrValidation("Overrides "+err.Error(), nil)
	}
	taskOverride := buildTaskOverride(overrides)

	reqLogger := logger.DeriveRequestLogger(ctx, c.logger)

	if req.UsesInstancePlacement() {
		return c.startOnInstances(ctx, req, taskOverride, reqLogger)
	}

	logArgs := []any{
		"operation", "ECS.RunTask",
		"cluster", req.Cluster,
		"task_definition", req.TaskDefinition,
		"count", req.Count,
		"started_by", req.StartedBy,
	}
	logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
	reqLogger.Debug("calling external service", "context", logger.SliceToMap(logArgs))

	out, err := c.ecsClient.RunTask(ctx, &ecs.RunTaskInput{
		Cluster:        awsStd.String(req.Cluster),
		TaskDefinition: awsStd.String(req.TaskDefinition),
		Count:          awsStd.Int32(int32(req.Count)), //nolint:gosec // bounded to 0..10 by validation
		StartedBy:      awsStd.String(req.StartedBy),
		Overrides:      taskOverride,
	})
	if err != nil {
		return nil, wrapCallError("ECS.RunTask", err)
	}

	result := toTaskResult(out.Tasks, out.Failures)
	logLaunch(reqLogger, req, result)
	return result, nil
}

func (c *Client) startOnInstances(
	ctx context.Context,
	req *api.TaskRequest,
	taskOverride *ecsTypes.TaskOverride,
	reqLogger *slog.Logger,
) (*api.TaskResult, error) {
	logArgs := []any{
		"operation", "ECS.StartTask",
		"cluster", req.Cluster,
		"task_definition", req.TaskDefinition,
		"instances", req.Instances,
		"started_by", req.StartedBy,
	}
	logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
	reqLogger.Debug("calling external service", "context", logger.SliceToMap(logArgs))

	out, err := c.ecsClient.StartTask(ctx, &ecs.StartTaskInput{
		Cluster:            awsStd.String(req.Cluster),
		TaskDefinition:     awsStd.String(req.TaskDefinition),
		ContainerInstances: req.Instances,
		StartedBy:          awsStd.String(req.StartedBy),
		Overrides:          taskOverride,
	})
	if err != nil {
		return nil, wrapCallError("ECS.StartTask", err)
	}

	result := toTaskResult(out.Tasks, out.Failures)
	logLaunch(reqLogger, req, result)
	return result, nil
}

func logLaunch(reqLogger *slog.Logger, req *api.TaskRequest, result *api.TaskResult) {
	reqLogger.Info("task group launched", "context", map[string]any{
		"cluster":        req.Cluster,
		"started_by":     req.StartedBy,
		"task_arns":      result.TaskARNs(),
		"failures_count": len(result.Failures),
	})
}

// DescribeTasks refreshes the state of the given tasks.
// ARNs are sent in batches no larger than the configured batch size and the results
// are concatenated in request order.
func (c *Client) DescribeTasks(ctx context.Context, cluster string, taskARNs []string) (*api.TaskResult, error) {
	result := &api.TaskResult{Tasks: []api.Task{}}
	if len(taskARNs) == 0 {
		return result, nil
	}

	reqLogger := logger.DeriveRequestLogger(ctx, c.logger)

	for start := 0; start < len(taskARNs); start += c.cfg.DescribeBatchSize {
		end := min(start+c.cfg.DescribeBatchSize, len(taskARNs))
		batch := taskARNs[start:end]

		logArgs := []any{
			"operation", "ECS.DescribeTasks",
			"cluster", cluster,
			"task_count", len(batch),
		}
		logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
		reqLogger.Debug("calling external service", "context", logger.SliceToMap(logArgs))

		out, err := c.ecsClient.DescribeTasks(ctx, &ecs.DescribeTasksInput{
			Cluster: awsStd.String(cluster),
			Tasks:   batch,
		})
		if err != nil {
			return nil, wrapCallError("ECS.DescribeTasks", err)
		}

		page := toTaskResult(out.Tasks, out.Failures)
		result.Tasks = append(result.Tasks, page.Tasks...)
		result.Failures = append(result.Failures, page.Failures...)
	}

	return result, nil
}

// ListTasks returns the ARNs of every task on the cluster started by startedBy,
// following continuation tokens in page order.
// Fetching more than the configured number of pages, or receiving a token twice,
// is reported as a transport error.
func (c *Client) ListTasks(ctx context.Context, cluster, startedBy string) ([]string, error) {
	reqLogger := logger.DeriveRequestLogger(ctx, c.logger)

	var arns []string
	var nextToken *string
	seen := make(map[string]struct{})

	for page := 1; ; page++ {
		if page > c.cfg.MaxListPages {
			return nil, appErrors.ErrTransport("ECS.ListTasks",
				fmt.Errorf("ECS.ListTasks: gave up after %d pages", c.cfg.MaxListPages))
		}

		logArgs := []any{
			"operation", "ECS.ListTasks",
			"cluster", cluster,
			"started_by", startedBy,
			"page", page,
		}
		logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
		reqLogger.Debug("calling external service", "context", logger.SliceToMap(logArgs))

		out, err := c.ecsClient.ListTasks(ctx, &ecs.ListTasksInput{
			Cluster:   awsStd.String(cluster),
			StartedBy: awsStd.String(startedBy),
			NextToken: nextToken,
		})
		if err != nil {
			return nil, wrapCallError("ECS.ListTasks", err)
		}

		arns = append(arns, out.TaskArns...)

		token := awsStd.ToString(out.NextToken)
		if token == "" {
			break
		}
		if _, dup := seen[token]; dup {
			return nil, appErrors.ErrTransport("ECS.ListTasks",
				fmt.Errorf("ECS.ListTasks: continuation token repeated on page %d", page))
		}
		seen[token] = struct{}{}
		nextToken = out.NextToken
	}

	return arns, nil
}

// StopTask asks ECS to stop a task. Stopping a task that already stopped succeeds.
func (c *Client) StopTask(ctx context.Context, cluster, taskARN, reason string) error {
	reqLogger := logger.DeriveRequestLogger(ctx, c.logger)

	logArgs := []any{
		"operation", "ECS.StopTask",
		"cluster", cluster,
		"task_arn", taskARN,
	}
	logArgs = append(logArgs, logger.GetDeadlineInfo(ctx)...)
	reqLogger.Debug("calling external service", "context", logger.SliceToMap(logArgs))

	if _, err := c.ecsClient.StopTask(ctx, &ecs.StopTaskInput{
		Cluster: awsStd.String(cluster),
		Task:    awsStd.String(taskARN),
		Reason:  awsStd.String(reason),
	}); err != nil {
		return wrapCallError("ECS.StopTask", err)
	}

	return nil
}
