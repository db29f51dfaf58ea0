package classify

import (
	"context"
	"cooked/internal/schedule"
	"fmt"
)

const classifyPrompt = `You classify university courses.
Answer with exactly one word: STEM or HUMANITIES.
STEM covers science, technology, engineering, mathematics, computer science and quantitative economics.
Everything else, including writing, languages, arts, history and social sciences, is HUMANITIES.`

// LLMClassifier asks the hosted model for the course type.
// Any answer mentioning STEM is STEM, everything else is HUMANITIES.
type LLMClassifier struct {
	completer Completer
}

func (lc *LLMClassifier) Classify(ctx context.Context, courseName string) (schedule.CourseType, error) {
	answer, err := lc.completer.Complete(ctx, classifyPrompt, "Course: "+courseName, false)
	if err != nil {
		return "", fmt.Errorf("classify %q: %w", courseName, err)
	}
	return schedule.ParseCourseType(answer), nil
}

// NewLLMClassifier creates a model-backed classifier.
func NewLLMClassifier(completer Completer) *LLMClassifier {
	return &LLMClassifier{completer: completer}
}
