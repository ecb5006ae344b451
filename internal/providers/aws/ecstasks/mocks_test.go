package ecstasks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
)

type mockECSClient struct {
	runTaskFunc func(
		ctx context.Context,
		params *ecs.RunTaskInput,
		optFns ...func(*ecs.Options),
	) (*ecs.RunTaskOutput, error)
	startTaskFunc func(
		ctx context.Context,
		params *ecs.StartTaskInput,
		optFns ...func(*ecs.Options),
	) (*ecs.StartTaskOutput, error)
	describeTasksFunc func(
		ctx context.Context,
		params *ecs.DescribeTasksInput,
		optFns ...func(*ecs.Options),
	) (*ecs.DescribeTasksOutput, error)
	listTasksFunc func(
		ctx context.Context,
		params *ecs.ListTasksInput,
		optFns ...func(*ecs.Options),
	) (*ecs.ListTasksOutput, error)
	stopTaskFunc func(
		ctx context.Context,
		params *ecs.StopTaskInput,
		optFns ...func(*ecs.Options),
	) (*ecs.StopTaskOutput, error)
	describeTaskDefinitionFunc func(
		ctx context.Context,
		params *ecs.DescribeTaskDefinitionInput,
		optFns ...func(*ecs.Options),
	) (*ecs.DescribeTaskDefinitionOutput, error)
	describeClustersFunc func(
		ctx context.Context,
		params *ecs.DescribeClustersInput,
		optFns ...func(*ecs.Options),
	) (*ecs.DescribeClustersOutput, error)
}

func (m *mockECSClient) RunTask(
	ctx context.Context,
	params *ecs.RunTaskInput,
	optFns ...func(*ecs.Options),
) (*ecs.RunTaskOutput, error) {
	if m.runTaskFunc != nil {
		return m.runTaskFunc(ctx, params, optFns...)
	}
	return &ecs.RunTaskOutput{}, nil
}

func (m *mockECSClient) StartTask(
	ctx context.Context,
	params *ecs.StartTaskInput,
	optFns ...func(*ecs.Options),
) (*ecs.StartTaskOutput, error) {
	if m.startTaskFunc != nil {
		return m.startTaskFunc(ctx, params, optFns...)
	}
	return &ecs.StartTaskOutput{}, nil
}

func (m *mockECSClient) DescribeTasks(
	ctx context.Context,
	params *ecs.DescribeTasksInput,
	optFns ...func(*ecs.Options),
) (*ecs.DescribeTasksOutput, error) {
	if m.describeTasksFunc != nil {
		return m.describeTasksFunc(ctx, params, optFns...)
	}
	return &ecs.DescribeTasksOutput{}, nil
}

func (m *mockECSClient) ListTasks(
	ctx context.Context,
	params *ecs.ListTasksInput,
	optFns ...func(*ecs.Options),
) (*ecs.ListTasksOutput, error) {
	if m.listTasksFunc != nil {
		return m.listTasksFunc(ctx, params, optFns...)
	}
	return &ecs.ListTasksOutput{}, nil
}

func (m *mockECSClient) StopTask(
	ctx context.Context,
	params *ecs.StopTaskInput,
	optFns ...func(*ecs.Options),
) (*ecs.StopTaskOutput, error) {
	if m.stopTaskFunc != nil {
		return m.stopTaskFunc(ctx, params, optFns...)
	}
	return &ecs.StopTaskOutput{}, nil
}

func (m *mockECSClient) DescribeTaskDefinition(
	ctx context.Context,
	params *ecs.DescribeTaskDefinitionInput,
	optFns ...func(*ecs.Options),
) (*ecs.DescribeTaskDefinitionOutput, error) {
	if m.describeTaskDefinitionFunc != nil {
		return m.describeTaskDefinitionFunc(ctx, params, optFns...)
	}
	return &ecs.DescribeTaskDefinitionOutput{}, nil
}

func (m *mockECSClient) DescribeClusters(
	ctx context.Context,
	params *ecs.DescribeClustersInput,
	optFns ...func(*ecs.Options),
) (*ecs.DescribeClustersOutput, error) {
	if m.describeClustersFunc != nil {
		return m.describeClustersFunc(ctx, params, optFns...)
	}
	return &ecs.DescribeClustersOutput{}, nil
}

type mockCloudWatchLogsClient struct {
	getLogEventsFunc func(
		ctx context.Context,
		params *cloudwatchlogs.GetLogEventsInput,
		optFns ...func(*cloudwatchlogs.Options),
	) (*cloudwatchlogs.GetLogEventsOutput, error)
}

func (m *mockCloudWatchLogsClient) GetLogEvents(
	ctx context.Context,
	params *cloudwatchlogs.GetLogEventsInput,
	optFns ...func(*cloudwatchlogs.Options),
) (*cloudwatchlogs.GetLogEventsOutput, error) {
	if m.getLogEventsFunc != nil {
		return m.getLogEventsFunc(ctx, params, optFns...)
	}
	return &cloudwatchlogs.GetLogEventsOutput{}, nil
}
