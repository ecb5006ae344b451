// Package client declares the slices of the AWS SDK clients used by the provider packages.
// The SDK clients satisfy these interfaces directly; tests substitute func-field mocks.
package client

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/ecs"
)

// ECSClient is the part of the ECS API the task runner calls.
type ECSClient interface {
	RunTask(
		ctx context.Context, params *ecs.RunTaskInput, optFns ...func(*ecs.Options),
	) (*ecs.RunTaskOutput, error)
	StartTask(
		ctx context.Context, params *ecs.StartTaskInput, optFns ...func(*ecs.Options),
	) (*ecs.StartTaskOutput, error)
	DescribeTasks(
		ctx context.Context, params *ecs.DescribeTasksInput, optFns ...func(*ecs.Options),
	) (*ecs.DescribeTasksOutput, error)
	ListTasks(
		ctx context.Context, params *ecs.ListTasksInput, optFns ...func(*ecs.Options),
	) (*ecs.ListTasksOutput, error)
	StopTask(
		ctx context.Context, params *ecs.StopTaskInput, optFns ...func(*ecs.Options),
	) (*ecs.StopTaskOutput, error)

	// DescribeTaskDefinition resolves container log configuration for failure diagnostics.
	DescribeTaskDefinition(
		ctx context.Context, params *ecs.DescribeTaskDefinitionInput, optFns ...func(*ecs.Options),
	) (*ecs.DescribeTaskDefinitionOutput, error)

	// DescribeClusters backs the CLI preflight check.
	DescribeClusters(
		ctx context.Context, params *ecs.DescribeClustersInput, optFns ...func(*ecs.Options),
	) (*ecs.DescribeClustersOutput, error)
}

var _ ECSClient = (*ecs.Client)(nil)
