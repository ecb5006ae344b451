// Package validation turns raw custom resource properties into a TaskRequest.
// Properties usually arrive as strings, so numeric and boolean fields are coerced first
// and the result is then checked with struct tags. Every violation is collected so the
// caller sees all invalid fields at once.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/runvoy/ecstasks/internal/api"
	"github.com/runvoy/ecstasks/internal/constants"
	appErrors "github.com/runvoy/ecstasks/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Property names as they appear in ResourceProperties.
const (
	PropCluster        = "Cluster"
	PropTaskDefinition = "TaskDefinition"
	PropCount          = "Count"
	PropRunOnUpdate    = "RunOnUpdate"
	PropInstances      = "Instances"
	PropOverrides      = "Overrides"
	PropTimeout        = "Timeout"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError describes one invalid property.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return e.Field + " " + e.Message
}

// ParseTaskRequest builds a TaskRequest from raw properties, applying defaults and coercions.
// startedBy is stored on the request as-is. Unknown properties are ignored.
// The returned error is a validation AppError listing every invalid field.
func ParseTaskRequest(props map[string]any, startedBy string) (*api.TaskRequest, error) {
	req := &api.TaskRequest{
		Count:       constants.DefaultTaskCount,
		RunOnUpdate: constants.DefaultRunOnUpdate,
		Timeout:     constants.DefaultTimeoutSeconds,
		Overrides:   map[string]any{},
		StartedBy:   startedBy,
	}

	var fieldErrs []FieldError
	fail := func(field, msg string) {
		fieldErrs = append(fieldErrs, FieldError{Field: field, Message: msg})
	}

	if v, ok := lookup(props, PropCluster); ok {
		s, err := toString(v)
		if err != nil {
			fail(PropCluster, err.Error())
		}
		req.Cluster = s
	}

	if v, ok := lookup(props, PropTaskDefinition); ok {
		s, err := toString(v)
		if err != nil {
			fail(PropTaskDefinition, err.Error())
		}
		req.TaskDefinition = s
	}

	if v, ok := lookup(props, PropCount); ok {
		n, err := toInt(v)
		if err != nil {
			fail(PropCount, err.Error())
		} else {
			req.Count = n
		}
	}

	if v, ok := lookup(props, PropRunOnUpdate); ok {
		b, err := toBool(v)
		if err != nil {
			fail(PropRunOnUpdate, err.Error())
		} else {
			req.RunOnUpdate = b
		}
	}

	if v, ok := lookup(props, PropInstances); ok {
		list, err := toStringList(v)
		if err != nil {
			fail(PropInstances, err.Error())
		} else {
			req.Instances = list
		}
	}

	if v, ok := lookup(props, PropOverrides); ok {
		overrides, err := toOverrides(v)
		if err != nil {
			fail(PropOverrides, err.Error())
		} else if _, decodeErr := DecodeOverrides(overrides); decodeErr != nil {
			fail(PropOverrides, decodeErr.Error())
		} else {
			req.Overrides = overrides
		}
	}

	if v, ok := lookup(props, PropTimeout); ok {
		n, err := toInt(v)
		if err != nil {
			fail(PropTimeout, err.Error())
		} else {
			req.Timeout = n
		}
	}

	fieldErrs = append(fieldErrs, structErrors(req)...)
	if len(fieldErrs) > 0 {
		return req, newValidationError(fieldErrs)
	}

	return req, nil
}

// lookup treats an explicit null the same as an absent property.
func lookup(props map[string]any, key string) (any, bool) {
	v, ok := props[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func structErrors(req *api.TaskRequest) []FieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []FieldError{{Field: "TaskRequest", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		out = append(out, FieldError{Field: fieldName(fe), Message: describe(fe)})
	}
	return out
}

// fieldName strips the struct name prefix, keeping slice indexes ("Instances[2]").
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.Slice {
			return "must contain at most " + fe.Param() + " items"
		}
		return "must be at most " + fe.Param()
	default:
		return fmt.Sprintf("failed the %q check", fe.Tag())
	}
}

func newValidationError(fieldErrs []FieldError) error {
	sort.SliceStable(fieldErrs, func(i, j int) bool {
		return fieldOrder(fieldErrs[i].Field) < fieldOrder(fieldErrs[j].Field)
	})

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fe.String())
	}

	return appErrors.ErrValidation(strings.Join(parts, "; "), nil)
}

var propertyOrder = []string{
	PropCluster, PropTaskDefinition, PropCount, PropRunOnUpdate, PropInstances, PropOverrides, PropTimeout,
}

func fieldOrder(field string) int {
	for i, p := range propertyOrder {
		if strings.HasPrefix(field, p) {
			return i
		}
	}
	return len(propertyOrder)
}
