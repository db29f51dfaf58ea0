package classify

import (
	"context"
	"cooked/internal/schedule"
	"errors"
)

// ErrUnclassified is returned by a classifier that has no opinion about a course.
var ErrUnclassified = errors.New("course type undetermined")

// Classifier resolves the course type of a course name.
type Classifier interface {
	Classify(ctx context.Context, courseName string) (schedule.CourseType, error)
}

// Completer is the part of the model client the classifier needs.
type Completer interface {
	Complete(ctx context.Context, system, user string, jsonOutput bool) (string, error)
}
