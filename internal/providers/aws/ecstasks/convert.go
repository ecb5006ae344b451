package ecstasks

import (
	"github.com/runvoy/ecstasks/internal/api"

	awsStd "github.com/aws/aws-sdk-go-v2/aws"
	ecsTypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
)

func toTaskResult(tasks []ecsTypes.Task, failures []ecsTypes.Failure) *api.TaskResult {
	result := &api.TaskResult{Tasks: make([]api.Task, 0, len(tasks))}

	for i := range tasks {
		result.Tasks = append(result.Tasks, toTask(&tasks[i]))
	}

	for _, f := range failures {
		result.Failures = append(result.Failures, api.TaskFailure{
			ARN:    awsStd.ToString(f.Arn),
			Reason: awsStd.ToString(f.Reason),
			Detail: awsStd.ToString(f.Detail),
		})
	}

	return result
}

func toTask(task *ecsTypes.Task) api.Task {
	out := api.Task{
		ARN:               awsStd.ToString(task.TaskArn),
		LastStatus:        awsStd.ToString(task.LastStatus),
		StoppedReason:     awsStd.ToString(task.StoppedReason),
		TaskDefinitionARN: awsStd.ToString(task.TaskDefinitionArn),
		Containers:        make([]api.Container, 0, len(task.Containers)),
	}

	for _, c := range task.Containers {
		container := api.Container{
			Name:   awsStd.ToString(c.Name),
			Reason: awsStd.ToString(c.Reason),
		}
		if c.ExitCode != nil {
			code := int(*c.ExitCode)
			container.ExitCode = &code
		}
		out.Containers = append(out.Containers, container)
	}

	return out
}

// buildTaskOverride maps the typed overrides onto the ECS request shape.
// Nil is returned when nothing is overridden.
func buildTaskOverride(overrides *api.TaskOverrides) *ecsTypes.TaskOverride {
	if overrides == nil {
		return nil
	}

	out := &ecsTypes.TaskOverride{
		Cpu:              optionalString(overrides.CPU),
		Memory:           optionalString(overrides.Memory),
		TaskRoleArn:      optionalString(overrides.TaskRoleARN),
		ExecutionRoleArn: optionalString(overrides.ExecutionRoleARN),
	}

	if overrides.EphemeralStorageGiB != nil {
		out.EphemeralStorage = &ecsTypes.EphemeralStorage{
			SizeInGiB: awsStd.ToInt32(optionalInt32(overrides.EphemeralStorageGiB)),
		}
	}

	for _, acc := range overrides.InferenceAccelerators {
		out.InferenceAcceleratorOverrides = append(out.InferenceAcceleratorOverrides,
			ecsTypes.InferenceAcceleratorOverride{
				DeviceName: optionalString(acc.DeviceName),
				DeviceType: optionalString(acc.DeviceType),
			})
	}

	for i := range overrides.ContainerOverrides {
		out.ContainerOverrides = append(out.ContainerOverrides, buildContainerOverride(&overrides.ContainerOverrides[i]))
	}

	if out.Cpu == nil && out.Memory == nil && out.TaskRoleArn == nil && out.ExecutionRoleArn == nil &&
		out.EphemeralStorage == nil && len(out.InferenceAcceleratorOverrides) == 0 &&
		len(out.ContainerOverrides) == 0 {
		return nil
	}

	return out
}

func buildContainerOverride(co *api.ContainerOverride) ecsTypes.ContainerOverride {
	container := ecsTypes.ContainerOverride{
		Name:              optionalString(co.Name),
		Command:           co.Command,
		Cpu:               optionalInt32(co.CPU),
		Memory:            optionalInt32(co.Memory),
		MemoryReservation: optionalInt32(co.MemoryReservation),
	}
	for _, env := range co.Environment {
		container.Environment = append(container.Environment, ecsTypes.KeyValuePair{
			Name:  awsStd.String(env.Name),
			Value: awsStd.String(env.Value),
		})
	}
	for _, file := range co.EnvironmentFiles {
		container.EnvironmentFiles = append(container.EnvironmentFiles, ecsTypes.EnvironmentFile{
			Type:  ecsTypes.EnvironmentFileType(file.Type),
			Value: awsStd.String(file.Value),
		})
	}
	for _, rr := range co.ResourceRequirements {
		container.ResourceRequirements = append(container.ResourceRequirements, ecsTypes.ResourceRequirement{
			Type:  ecsTypes.ResourceType(rr.Type),
			Value: awsStd.String(rr.Value),
		})
	}
	return container
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return awsStd.String(s)
}

func optionalInt32(i *int) *int32 {
	if i == nil {
		return nil
	}
	return awsStd.Int32(int32(*i)) //nolint:gosec // container resource units fit in int32
}
