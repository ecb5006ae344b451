package validation

import (
	"testing"

	"github.com/runvoy/ecstasks/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringifyOverrides(t *testing.T) {
	in := map[string]any{
		"cpu": 512,
		"containerOverrides": []any{
			map[string]any{
				"name":    "app",
				"memory":  float64(1024),
				"command": []any{"migrate", 3, true},
				"environment": []any{
					map[string]any{"name": "DRY_RUN", "value": false},
					map[string]any{"name": "RATIO", "value": 0.25},
				},
			},
		},
		"nested": map[any]any{"deep": map[string]any{"flag": true, "none": nil}},
	}

	got := StringifyOverrides(in)

	want := map[string]any{
		"cpu": "512",
		"containerOverrides": []any{
			map[string]any{
				"name":    "app",
				"memory":  "1024",
				"command": []any{"migrate", "3", "True"},
				"environment": []any{
					map[string]any{"name": "DRY_RUN", "value": "False"},
					map[string]any{"name": "RATIO", "value": "0.25"},
				},
			},
		},
		"nested": map[string]any{"deep": map[string]any{"flag": "True", "none": ""}},
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 512, in["cpu"], "input must not be modified")
}

func TestStringifyOverrides_Idempotent(t *testing.T) {
	in := map[string]any{"a": []any{1, map[string]any{"b": 2.5}}}

	once := StringifyOverrides(in)
	twice := StringifyOverrides(once)

	assert.Equal(t, once, twice)
}

func TestDecodeOverrides(t *testing.T) {
	overrides := StringifyOverrides(map[string]any{
		"Cpu":         "1024",
		"memory":      2048,
		"TaskRoleArn": "arn:aws:iam::123456789012:role/task",
		"containerOverrides": []any{
			map[string]any{
				"Name":              "app",
				"Command":           []any{"./migrate", "--up"},
				"Environment":       []any{map[string]any{"Name": "STAGE", "Value": "prod"}},
				"Cpu":               256,
				"MemoryReservation": "512",
			},
		},
	})

	got, err := DecodeOverrides(overrides)

	require.NoError(t, err)
	assert.Equal(t, "1024", got.CPU)
	assert.Equal(t, "2048", got.Memory)
	assert.Equal(t, "arn:aws:iam::123456789012:role/task", got.TaskRoleARN)
	require.Len(t, got.ContainerOverrides, 1)
	co := got.ContainerOverrides[0]
	assert.Equal(t, "app", co.Name)
	assert.Equal(t, []string{"./migrate", "--up"}, co.Command)
	require.Len(t, co.Environment, 1)
	assert.Equal(t, "STAGE", co.Environment[0].Name)
	assert.Equal(t, "prod", co.Environment[0].Value)
	require.NotNil(t, co.CPU)
	assert.Equal(t, 256, *co.CPU)
	assert.Nil(t, co.Memory)
	require.NotNil(t, co.MemoryReservation)
	assert.Equal(t, 512, *co.MemoryReservation)
}

func TestDecodeOverrides_AcceleratorsAndStorage(t *testing.T) {
	overrides := StringifyOverrides(map[string]any{
		"EphemeralStorage": map[string]any{"SizeInGiB": 50},
		"InferenceAcceleratorOverrides": []any{
			map[string]any{"DeviceName": "acc-1", "DeviceType": "eia2.medium"},
		},
		"containerOverrides": []any{
			map[string]any{
				"name":                 "trainer",
				"ResourceRequirements": []any{map[string]any{"Type": "GPU", "Value": 1}},
				"environmentFiles": []any{
					map[string]any{"type": "s3", "value": "arn:aws:s3:::config-bucket/trainer.env"},
				},
			},
		},
	})

	got, err := DecodeOverrides(overrides)

	require.NoError(t, err)
	require.NotNil(t, got.EphemeralStorageGiB)
	assert.Equal(t, 50, *got.EphemeralStorageGiB)
	assert.Equal(t, []api.InferenceAcceleratorOverride{{DeviceName: "acc-1", DeviceType: "eia2.medium"}},
		got.InferenceAccelerators)
	require.Len(t, got.ContainerOverrides, 1)
	co := got.ContainerOverrides[0]
	assert.Equal(t, []api.ResourceRequirement{{Type: "GPU", Value: "1"}}, co.ResourceRequirements)
	assert.Equal(t, []api.EnvironmentFile{{Type: "s3", Value: "arn:aws:s3:::config-bucket/trainer.env"}},
		co.EnvironmentFiles)
}

func TestDecodeOverrides_Empty(t *testing.T) {
	got, err := DecodeOverrides(nil)

	require.NoError(t, err)
	assert.Empty(t, got.ContainerOverrides)
}

func TestDecodeOverrides_Errors(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		wantErr   string
	}{
		{
			name:      "unknown key",
			overrides: map[string]any{"gpu": "1"},
			wantErr:   "gpu is not a supported override",
		},
		{
			name:      "container overrides not a list",
			overrides: map[string]any{"containerOverrides": "app"},
			wantErr:   "containerOverrides must be a list",
		},
		{
			name: "non numeric cpu",
			overrides: map[string]any{"containerOverrides": []any{
				map[string]any{"name": "app", "cpu": "lots"},
			}},
			wantErr: "containerOverrides[0].cpu must be an integer",
		},
		{
			name: "field ECS does not define on a container",
			overrides: map[string]any{"containerOverrides": []any{
				map[string]any{"name": "app", "ulimits": []any{}},
			}},
			wantErr: "containerOverrides[0].ulimits is not a supported container override",
		},
		{
			name: "resource requirement without type",
			overrides: map[string]any{"containerOverrides": []any{
				map[string]any{"resourceRequirements": []any{map[string]any{"value": "1"}}},
			}},
			wantErr: "containerOverrides[0].resourceRequirements[0].type is required",
		},
		{
			name: "unknown resource requirement field",
			overrides: map[string]any{"containerOverrides": []any{
				map[string]any{"resourceRequirements": []any{map[string]any{"type": "GPU", "count": "1"}}},
			}},
			wantErr: "containerOverrides[0].resourceRequirements[0].count is not a supported field",
		},
		{
			name:      "ephemeral storage not a mapping",
			overrides: map[string]any{"ephemeralStorage": "50"},
			wantErr:   "ephemeralStorage must be a mapping",
		},
		{
			name:      "ephemeral storage without size",
			overrides: map[string]any{"ephemeralStorage": map[string]any{}},
			wantErr:   "ephemeralStorage.sizeInGiB is required",
		},
		{
			name:      "non numeric ephemeral storage size",
			overrides: map[string]any{"ephemeralStorage": map[string]any{"sizeInGiB": "big"}},
			wantErr:   "ephemeralStorage.sizeInGiB must be an integer",
		},
		{
			name: "environment without name",
			overrides: map[string]any{"containerOverrides": []any{
				map[string]any{"environment": []any{map[string]any{"value": "x"}}},
			}},
			wantErr: "containerOverrides[0].environment[0].name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeOverrides(tt.overrides)

			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestParseTaskRequest_StringifiesOverrides(t *testing.T) {
	props := validProps()
	props["Overrides"] = map[string]any{
		"containerOverrides": []any{map[string]any{"name": "app", "cpu": 256}},
	}

	req, err := ParseTaskRequest(props, "id")

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"containerOverrides": []any{map[string]any{"name": "app", "cpu": "256"}},
	}, req.Overrides)
}

func TestParseTaskRequest_InvalidOverrideShape(t *testing.T) {
	props := validProps()
	props["Overrides"] = map[string]any{"containerOverrides": []any{map[string]any{"cpu": "x"}}}

	_, err := ParseTaskRequest(props, "id")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Overrides containerOverrides[0].cpu must be an integer")
}

func TestParseTaskRequest_GPUResourceRequirement(t *testing.T) {
	props := validProps()
	props["Overrides"] = map[string]any{
		"containerOverrides": []any{map[string]any{
			"name":                 "trainer",
			"resourceRequirements": []any{map[string]any{"type": "GPU", "value": 1}},
		}},
	}

	req, err := ParseTaskRequest(props, "id")

	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"containerOverrides": []any{map[string]any{
			"name":                 "trainer",
			"resourceRequirements": []any{map[string]any{"type": "GPU", "value": "1"}},
		}},
	}, req.Overrides)
}
