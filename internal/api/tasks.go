package api

import (
	"fmt"
	"time"

	"github.com/runvoy/ecstasks/internal/constants"
)

// TaskRequest is the validated launch request of a task group.
type TaskRequest struct {
	Cluster        string         `json:"Cluster" validate:"required"`
	TaskDefinition string         `json:"TaskDefinition" validate:"required"`
	Count          int            `json:"Count" validate:"min=0,max=10"`
	RunOnUpdate    bool           `json:"RunOnUpdate"`
	Instances      []string       `json:"Instances" validate:"max=10,dive,required"`
	Overrides      map[string]any `json:"Overrides"`
	Timeout        int            `json:"Timeout" validate:"min=60,max=3600"`

	// StartedBy is the task identity; it is derived, never read from the properties.
	StartedBy string `json:"-"`
}

// UsesInstancePlacement reports whether tasks are placed on explicit container instances
// rather than scheduled by count.
func (r *TaskRequest) UsesInstancePlacement() bool {
	return len(r.Instances) > 0
}

// TimeoutDuration returns the request's own completion budget.
func (r *TaskRequest) TimeoutDuration() time.Duration {
	return time.Duration(r.Timeout) * time.Second
}

// TaskOverrides is the typed form of TaskRequest.Overrides.
type TaskOverrides struct {
	CPU                   string
	Memory                string
	TaskRoleARN           string
	ExecutionRoleARN      string
	EphemeralStorageGiB   *int
	InferenceAccelerators []InferenceAcceleratorOverride
	ContainerOverrides    []ContainerOverride
}

// ContainerOverride overrides the settings of one container of the task definition.
type ContainerOverride struct {
	Name                 string
	Command              []string
	Environment          []EnvironmentVariable
	EnvironmentFiles     []EnvironmentFile
	ResourceRequirements []ResourceRequirement
	CPU                  *int
	Memory               *int
	MemoryReservation    *int
}

// EnvironmentVariable is a name/value pair passed to a container.
type EnvironmentVariable struct {
	Name  string
	Value string
}

// EnvironmentFile is a file of environment variables loaded into a container, such as an S3 object.
type EnvironmentFile struct {
	Type  string
	Value string
}

// ResourceRequirement reserves a GPU or inference accelerator for a container.
type ResourceRequirement struct {
	Type  string
	Value string
}

// InferenceAcceleratorOverride replaces the device type of a named accelerator.
type InferenceAcceleratorOverride struct {
	DeviceName string
	DeviceType string
}

// Container is the exit record of one container of a task.
type Container struct {
	Name     string `json:"name"`
	ExitCode *int   `json:"exitCode,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Task is the last known state of a launched task.
type Task struct {
	ARN               string      `json:"taskArn"`
	LastStatus        string      `json:"lastStatus"`
	StoppedReason     string      `json:"stoppedReason,omitempty"`
	TaskDefinitionARN string      `json:"taskDefinitionArn,omitempty"`
	Containers        []Container `json:"containers,omitempty"`
}

// IsStopped reports whether the task reached its terminal status.
func (t *Task) IsStopped() bool {
	return t.LastStatus == constants.TaskStatusStopped
}

// TaskFailure is a task the cluster could not schedule or describe.
type TaskFailure struct {
	ARN    string `json:"arn,omitempty"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// String renders the failure the way it appears in a verdict reason.
func (f TaskFailure) String() string {
	out := "{reason: " + f.Reason
	if f.ARN != "" {
		out += ", arn: " + f.ARN
	}
	if f.Detail != "" {
		out += ", detail: " + f.Detail
	}
	return out + "}"
}

// TaskResult is the live view of a task group.
type TaskResult struct {
	Tasks    []Task        `json:"tasks"`
	Failures []TaskFailure `json:"failures,omitempty"`
}

// TaskARNs returns the ARNs of r.Tasks in the order the service returned them.
func (r *TaskResult) TaskARNs() []string {
	arns := make([]string, 0, len(r.Tasks))
	for i := range r.Tasks {
		arns = append(arns, r.Tasks[i].ARN)
	}
	return arns
}

// AllStopped reports whether every task is STOPPED. An empty group is stopped.
func (r *TaskResult) AllStopped() bool {
	for i := range r.Tasks {
		if !r.Tasks[i].IsStopped() {
			return false
		}
	}
	return true
}

// NonZeroExit identifies a container that did not exit cleanly.
type NonZeroExit struct {
	TaskARN   string
	Container string
	ExitCode  *int
	Reason    string
}

// String renders the exit record the way it appears in a verdict reason.
func (e NonZeroExit) String() string {
	code := "unknown"
	if e.ExitCode != nil {
		code = fmt.Sprintf("%d", *e.ExitCode)
	}
	out := fmt.Sprintf("{task: %s, container: %s, exitCode: %s", e.TaskARN, e.Container, code)
	if e.Reason != "" {
		out += ", reason: " + e.Reason
	}
	return out + "}"
}

// NonZeroExits lists every container with a non-zero or missing exit code.
// Only stopped tasks are inspected.
func (r *TaskResult) NonZeroExits() []NonZeroExit {
	var exits []NonZeroExit
	for i := range r.Tasks {
		task := &r.Tasks[i]
		if !task.IsStopped() {
			continue
		}
		for _, c := range task.Containers {
			if c.ExitCode != nil && *c.ExitCode == 0 {
				continue
			}
			reason := c.Reason
			if reason == "" && c.ExitCode == nil {
				reason = task.StoppedReason
			}
			exits = append(exits, NonZeroExit{
				TaskARN:   task.ARN,
				Container: c.Name,
				ExitCode:  c.ExitCode,
				Reason:    reason,
			})
		}
	}
	return exits
}
