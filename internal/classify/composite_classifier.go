package classify

import (
	"context"
	"cooked/internal/schedule"
	"errors"
	"log/slog"
)

// CompositeClassifier chains classifiers: each one is asked in order until one
// returns a type. Classifiers abstain by returning ErrUnclassified; any other
// error stops the chain. When every classifier abstains the fallback type is used.
//
// CompositeClassifier is safe for concurrent use if all nested classifiers are.
type CompositeClassifier struct {
	classifiers []Classifier        // classifiers in the order they are asked
	fallback    schedule.CourseType // type used when nobody has an opinion
}

func (cc *CompositeClassifier) Classify(ctx context.Context, courseName string) (schedule.CourseType, error) {
	for _, c := range cc.classifiers {
		courseType, err := c.Classify(ctx, courseName)
		if errors.Is(err, ErrUnclassified) {
			continue
		}
		if err != nil {
			return "", err
		}
		return courseType, nil
	}

	slog.Debug("[Classifier] no classifier matched, using fallback", "course", courseName, "type", cc.fallback)
	return cc.fallback, nil
}

// NewCompositeClassifier creates a chain of classifiers.
// An invalid fallback is replaced by HUMANITIES.
func NewCompositeClassifier(classifiers []Classifier, fallback schedule.CourseType) *CompositeClassifier {
	if !fallback.Valid() {
		fallback = schedule.CourseTypeHumanities
	}
	return &CompositeClassifier{classifiers: classifiers, fallback: fallback}
}
