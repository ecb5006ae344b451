// Package testutil provides shared testing utilities and helpers.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/runvoy/ecstasks/internal/api"
	"github.com/runvoy/ecstasks/internal/constants"

	awsStd "github.com/aws/aws-sdk-go-v2/aws"
	ecsTypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

// Fixture identifiers shared by tests.
const (
	TestStackID           = "arn:aws:cloudformation:us-east-1:123456789012:stack/app/0d2c7e80-1b2c-11ef-9e4e-0a1b2c3d4e5f"
	TestLogicalResourceID = "MigrateDatabase"
	TestCluster           = "jobs"
	TestTaskDefinition    = "db-migrate:7"
)

// EventBuilder provides a fluent interface for building lifecycle events.
type EventBuilder struct {
	event *api.LifecycleEvent
}

// NewEventBuilder creates a Create event with a valid minimal property set.
func NewEventBuilder() *EventBuilder {
	return &EventBuilder{
		event: &api.LifecycleEvent{
			RequestType:       constants.RequestCreate,
			RequestID:         "req-test-123",
			StackID:           TestStackID,
			LogicalResourceID: TestLogicalResourceID,
			ResourceProperties: map[string]any{
				"ServiceToken":   "arn:aws:lambda:us-east-1:123456789012:function:ecstasks",
				"Cluster":        TestCluster,
				"TaskDefinition": TestTaskDefinition,
			},
		},
	}
}

// WithRequestType sets the request type.
func (b *EventBuilder) WithRequestType(rt constants.RequestType) *EventBuilder {
	b.event.RequestType = rt
	return b
}

// WithPhysicalResourceID sets the existing physical resource id.
func (b *EventBuilder) WithPhysicalResourceID(id string) *EventBuilder {
	b.event.PhysicalResourceID = id
	return b
}

// WithProperty sets one resource property.
func (b *EventBuilder) WithProperty(key string, value any) *EventBuilder {
	b.event.ResourceProperties[key] = value
	return b
}

// WithoutProperty removes one resource property.
func (b *EventBuilder) WithoutProperty(key string) *EventBuilder {
	delete(b.event.ResourceProperties, key)
	return b
}

// Build returns the constructed event.
func (b *EventBuilder) Build() *api.LifecycleEvent {
	return b.event
}

// TaskBuilder provides a fluent interface for building task states.
type TaskBuilder struct {
	task *api.Task
}

// NewTaskBuilder creates a RUNNING task with one container named "app".
func NewTaskBuilder(arn string) *TaskBuilder {
	return &TaskBuilder{
		task: &api.Task{
			ARN:               arn,
			LastStatus:        "RUNNING",
			TaskDefinitionARN: "arn:aws:ecs:us-east-1:123456789012:task-definition/" + TestTaskDefinition,
			Containers:        []api.Container{{Name: "app"}},
		},
	}
}

// Stopped marks the task STOPPED with every container exiting with code.
func (b *TaskBuilder) Stopped(code int) *TaskBuilder {
	b.task.LastStatus = constants.TaskStatusStopped
	for i := range b.task.Containers {
		c := code
		b.task.Containers[i].ExitCode = &c
	}
	return b
}

// WithStatus sets the last status.
func (b *TaskBuilder) WithStatus(status string) *TaskBuilder {
	b.task.LastStatus = status
	return b
}

// WithStoppedReason sets the stopped reason.
func (b *TaskBuilder) WithStoppedReason(reason string) *TaskBuilder {
	b.task.StoppedReason = reason
	return b
}

// WithContainer appends a container with an optional exit code.
func (b *TaskBuilder) WithContainer(name string, exitCode *int) *TaskBuilder {
	b.task.Containers = append(b.task.Containers, api.Container{Name: name, ExitCode: exitCode})
	return b
}

// Build returns the constructed task.
func (b *TaskBuilder) Build() api.Task {
	return *b.task
}

// ECSTask builds an SDK task with one container per exit code.
// A nil entry leaves that container without an exit code.
func ECSTask(arn, lastStatus string, exitCodes ...*int32) ecsTypes.Task {
	task := ecsTypes.Task{
		TaskArn:           awsStd.String(arn),
		LastStatus:        awsStd.String(lastStatus),
		TaskDefinitionArn: awsStd.String("arn:aws:ecs:us-east-1:123456789012:task-definition/" + TestTaskDefinition),
	}
	for i, code := range exitCodes {
		task.Containers = append(task.Containers, ecsTypes.Container{
			Name:     awsStd.String(containerName(i)),
			ExitCode: code,
		})
	}
	return task
}

func containerName(i int) string {
	if i == 0 {
		return "app"
	}
	return fmt.Sprintf("sidecar-%d", i)
}

// TestContext returns a context that expires after constants.TestContextTimeout.
func TestContext() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), constants.TestContextTimeout)
	_ = cancel
	return ctx
}

// SilentLogger creates a logger that discards all output.
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError + 1, // Suppress all logs
	}))
}
