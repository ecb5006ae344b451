package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	errNotString  = errors.New("must be a string")
	errNotInteger = errors.New("must be an integer")
	errNotBool    = errors.New("must be a boolean (true, yes, false, no)")
	errNotList    = errors.New("must be a list of strings")
	errNotMapping = errors.New("must be a mapping")
)

func toString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errNotString
	}
	return s, nil
}

// toInt accepts integral numbers and digit-only strings.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, errNotInteger
		}
		return int(n), nil
	case json.Number:
		return parseDigits(n.String())
	case string:
		return parseDigits(n)
	default:
		return 0, errNotInteger
	}
}

func parseDigits(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errNotInteger
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errNotInteger
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errNotInteger
	}
	return n, nil
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes":
			return true, nil
		case "false", "no":
			return false, nil
		}
	}
	return false, errNotBool
}

func toStringList(v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, errNotList
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, errNotList
	}
}

func toOverrides(v any) (map[string]any, error) {
	switch m := v.(type) {
	case map[string]any:
		return StringifyOverrides(m), nil
	case map[any]any:
		converted := make(map[string]any, len(m))
		for k, item := range m {
			converted[fmt.Sprint(k)] = item
		}
		return StringifyOverrides(converted), nil
	default:
		return nil, errNotMapping
	}
}

// StringifyOverrides returns a copy of overrides where every leaf is a string.
// Nested mappings and sequences keep their shape.
func StringifyOverrides(overrides map[string]any) map[string]any {
	out := make(map[string]any, len(overrides))
	for k, v := range overrides {
		out[k] = stringifyValue(v)
	}
	return out
}

func stringifyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return StringifyOverrides(val)
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[fmt.Sprint(k)] = stringifyValue(item)
		}
		return m
	case []any:
		list := make([]any, len(val))
		for i, item := range val {
			list[i] = stringifyValue(item)
		}
		return list
	case []string:
		list := make([]any, len(val))
		for i, item := range val {
			list[i] = item
		}
		return list
	case string:
		return val
	case nil:
		return ""
	case bool:
		if val {
			return "True"
		}
		return "False"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprint(val)
	}
}
