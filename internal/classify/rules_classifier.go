package classify

import (
	"context"
	"cooked/internal/schedule"
	"cooked/internal/score/rule"
)

// RulesClassifier classifies courses with locally configured CEL rules.
// The first matching rule wins; when nothing matches ErrUnclassified is returned.
type RulesClassifier struct {
	rules []rule.Rule // rules in evaluation order
}

func (rc *RulesClassifier) Classify(_ context.Context, courseName string) (schedule.CourseType, error) {
	course := rule.NewCourse(courseName)
	for i := range rc.rules {
		if courseType, ok := rc.rules[i].Eval(course); ok {
			return courseType, nil
		}
	}
	return "", ErrUnclassified
}

// NewRulesClassifier creates a classifier over compiled rules.
func NewRulesClassifier(rules []rule.Rule) *RulesClassifier {
	return &RulesClassifier{rules: rules}
}
