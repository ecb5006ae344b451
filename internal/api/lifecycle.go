package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/runvoy/ecstasks/internal/constants"

	"gopkg.in/yaml.v3"
)

// LifecycleEvent is the inbound custom resource event.
// The field names follow the CloudFormation request document so that the same
// JSON or YAML file can be replayed through the CLI and the local harness.
type LifecycleEvent struct {
	RequestType        constants.RequestType `json:"RequestType" yaml:"RequestType"`
	RequestID          string                `json:"RequestId,omitempty" yaml:"RequestId,omitempty"`
	StackID            string                `json:"StackId" yaml:"StackId"`
	LogicalResourceID  string                `json:"LogicalResourceId" yaml:"LogicalResourceId"`
	PhysicalResourceID string                `json:"PhysicalResourceId,omitempty" yaml:"PhysicalResourceId,omitempty"`
	ResourceType       string                `json:"ResourceType,omitempty" yaml:"ResourceType,omitempty"`
	ResourceProperties map[string]any        `json:"ResourceProperties" yaml:"ResourceProperties"`
}

// Verdict is the single outcome of a lifecycle invocation.
type Verdict struct {
	Status             constants.VerdictStatus `json:"Status"`
	Reason             string                  `json:"Reason,omitempty"`
	PhysicalResourceID string                  `json:"PhysicalResourceId,omitempty"`
	Kind               string                  `json:"Kind,omitempty"`
	TaskARNs           []string                `json:"TaskArns,omitempty"`
}

// Succeeded reports whether the verdict is a success.
func (v *Verdict) Succeeded() bool {
	return v.Status == constants.VerdictSuccess
}

// InvocationRecord is the ledger entry written for every verdict.
type InvocationRecord struct {
	Identity           string    `json:"identity"`
	InvokedAt          time.Time `json:"invoked_at"`
	RequestType        string    `json:"request_type"`
	RequestID          string    `json:"request_id,omitempty"`
	StackID            string    `json:"stack_id"`
	LogicalResourceID  string    `json:"logical_resource_id"`
	Cluster            string    `json:"cluster,omitempty"`
	Status             string    `json:"status"`
	Kind               string    `json:"kind,omitempty"`
	Reason             string    `json:"reason,omitempty"`
	PhysicalResourceID string    `json:"physical_resource_id,omitempty"`
	TaskARNs           []string  `json:"task_arns,omitempty"`
	DurationMillis     int64     `json:"duration_ms"`
}

// DecodeLifecycleEvent parses a JSON or YAML event document.
// Documents starting with '{' are read as JSON, anything else as YAML.
func DecodeLifecycleEvent(data []byte) (*LifecycleEvent, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("event document is empty")
	}

	var event LifecycleEvent
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &event); err != nil {
			return nil, fmt.Errorf("invalid JSON event: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &event); err != nil {
			return nil, fmt.Errorf("invalid YAML event: %w", err)
		}
	}

	if event.ResourceProperties == nil {
		event.ResourceProperties = map[string]any{}
	}
	return &event, nil
}
