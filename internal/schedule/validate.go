package schedule

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError is returned when a submitted schedule cannot be scored.
// Fields lists every offending field as "classes[i].field: reason".
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid schedule: " + strings.Join(e.Fields, "; ")
}

type request struct {
	Classes []ClassInput `json:"classes" validate:"required,min=1,dive"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize trims whitespace around the text fields of every input
// so that blank names are rejected by Validate.
func Normalize(inputs []ClassInput) []ClassInput {
	out := make([]ClassInput, len(inputs))
	for i, in := range inputs {
		in.CourseName = strings.TrimSpace(in.CourseName)
		in.Professor = strings.TrimSpace(in.Professor)
		in.Type = CourseType(strings.ToUpper(strings.TrimSpace(string(in.Type))))
		out[i] = in
	}
	return out
}

// Validate checks that the schedule is non-empty and every class has a course name,
// a professor, positive units and, if set, a known type.
func Validate(inputs []ClassInput) error {
	err := validate.Struct(request{Classes: inputs})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s: %s", trimNamespace(fe.Namespace()), reason(fe)))
	}
	return &ValidationError{Fields: fields}
}

func trimNamespace(ns string) string {
	_, rest, found := strings.Cut(ns, ".")
	if !found {
		return ns
	}
	return rest
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "at least one class is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
