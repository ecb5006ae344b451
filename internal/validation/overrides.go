package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/runvoy/ecstasks/internal/api"
)

// DecodeOverrides maps stringified overrides onto the typed TaskOverrides.
// Keys are matched case-insensitively against the fields of an ECS TaskOverride.
// Keys ECS does not define and malformed values are errors.
func DecodeOverrides(overrides map[string]any) (*api.TaskOverrides, error) {
	out := &api.TaskOverrides{}
	if len(overrides) == 0 {
		return out, nil
	}

	for _, key := range sortedKeys(overrides) {
		value := overrides[key]
		var err error
		switch strings.ToLower(key) {
		case "cpu":
			out.CPU, err = leafString(key, value)
		case "memory":
			out.Memory, err = leafString(key, value)
		case "taskrolearn":
			out.TaskRoleARN, err = leafString(key, value)
		case "executionrolearn":
			out.ExecutionRoleARN, err = leafString(key, value)
		case "ephemeralstorage":
			out.EphemeralStorageGiB, err = decodeEphemeralStorage(key, value)
		case "inferenceacceleratoroverrides":
			out.InferenceAccelerators, err = decodeInferenceAccelerators(key, value)
		case "containeroverrides":
			err = eachMapping(key, value, func(itemPath string, m map[string]any) error {
				co, coErr := decodeContainerOverride(itemPath, m)
				if coErr != nil {
					return coErr
				}
				out.ContainerOverrides = append(out.ContainerOverrides, co)
				return nil
			})
		default:
			err = fmt.Errorf("%s is not a supported override", key)
		}
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

func decodeContainerOverride(path string, m map[string]any) (api.ContainerOverride, error) {
	var co api.ContainerOverride
	for _, key := range sortedKeys(m) {
		value := m[key]
		keyPath := path + "." + key
		var err error
		switch strings.ToLower(key) {
		case "name":
			co.Name, err = leafString(keyPath, value)
		case "command":
			co.Command, err = leafList(keyPath, value)
		case "environment":
			co.Environment, err = decodeEnvironment(keyPath, value)
		case "environmentfiles":
			co.EnvironmentFiles, err = decodeEnvironmentFiles(keyPath, value)
		case "resourcerequirements":
			co.ResourceRequirements, err = decodeResourceRequirements(keyPath, value)
		case "cpu":
			co.CPU, err = leafInt(keyPath, value)
		case "memory":
			co.Memory, err = leafInt(keyPath, value)
		case "memoryreservation":
			co.MemoryReservation, err = leafInt(keyPath, value)
		default:
			err = fmt.Errorf("%s is not a supported container override", keyPath)
		}
		if err != nil {
			return co, err
		}
	}
	return co, nil
}

func decodeEnvironment(path string, value any) ([]api.EnvironmentVariable, error) {
	pairs, err := decodePairs(path, value, pairFields{first: "name", second: "value", firstRequired: true})
	if err != nil {
		return nil, err
	}
	out := make([]api.EnvironmentVariable, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, api.EnvironmentVariable{Name: p[0], Value: p[1]})
	}
	return out, nil
}

func decodeEnvironmentFiles(path string, value any) ([]api.EnvironmentFile, error) {
	pairs, err := decodePairs(path, value, pairFields{first: "type", second: "value", firstRequired: true})
	if err != nil {
		return nil, err
	}
	out := make([]api.EnvironmentFile, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, api.EnvironmentFile{Type: p[0], Value: p[1]})
	}
	return out, nil
}

func decodeResourceRequirements(path string, value any) ([]api.ResourceRequirement, error) {
	pairs, err := decodePairs(path, value, pairFields{first: "type", second: "value", firstRequired: true})
	if err != nil {
		return nil, err
	}
	out := make([]api.ResourceRequirement, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, api.ResourceRequirement{Type: p[0], Value: p[1]})
	}
	return out, nil
}

func decodeInferenceAccelerators(path string, value any) ([]api.InferenceAcceleratorOverride, error) {
	pairs, err := decodePairs(path, value, pairFields{first: "deviceName", second: "deviceType"})
	if err != nil {
		return nil, err
	}
	out := make([]api.InferenceAcceleratorOverride, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, api.InferenceAcceleratorOverride{DeviceName: p[0], DeviceType: p[1]})
	}
	return out, nil
}

func decodeEphemeralStorage(path string, value any) (*int, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a mapping", path)
	}

	var size *int
	for _, key := range sortedKeys(m) {
		if !strings.EqualFold(key, "sizeInGiB") {
			return nil, fmt.Errorf("%s.%s is not a supported field", path, key)
		}
		n, err := leafInt(path+"."+key, m[key])
		if err != nil {
			return nil, err
		}
		size = n
	}
	if size == nil {
		return nil, fmt.Errorf("%s.sizeInGiB is required", path)
	}
	return size, nil
}

// pairFields names the two scalar keys of a list entry, e.g. {name, value}.
type pairFields struct {
	first         string
	second        string
	firstRequired bool
}

func decodePairs(path string, value any, fields pairFields) ([][2]string, error) {
	var out [][2]string
	err := eachMapping(path, value, func(itemPath string, m map[string]any) error {
		var pair [2]string
		for _, key := range sortedKeys(m) {
			var err error
			switch {
			case strings.EqualFold(key, fields.first):
				pair[0], err = leafString(itemPath+"."+key, m[key])
			case strings.EqualFold(key, fields.second):
				pair[1], err = leafString(itemPath+"."+key, m[key])
			default:
				err = fmt.Errorf("%s.%s is not a supported field", itemPath, key)
			}
			if err != nil {
				return err
			}
		}
		if fields.firstRequired && pair[0] == "" {
			return fmt.Errorf("%s.%s is required", itemPath, fields.first)
		}
		out = append(out, pair)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// eachMapping calls fn for every item of a list of mappings, stopping at the first error.
func eachMapping(path string, value any, fn func(itemPath string, m map[string]any) error) error {
	list, ok := value.([]any)
	if !ok {
		return fmt.Errorf("%s must be a list", path)
	}
	for i, item := range list {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		m, isMap := item.(map[string]any)
		if !isMap {
			return fmt.Errorf("%s must be a mapping", itemPath)
		}
		if err := fn(itemPath, m); err != nil {
			return err
		}
	}
	return nil
}

func leafString(path string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a scalar value", path)
	}
	return s, nil
}

func leafList(path string, value any) ([]string, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a list", path)
	}
	out := make([]string, 0, len(list))
	for i, item := range list {
		s, err := leafString(fmt.Sprintf("%s[%d]", path, i), item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func leafInt(path string, value any) (*int, error) {
	s, err := leafString(path, value)
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", path)
	}
	return &n, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
