package schedule

import "strings"

// CourseType is one of the two fixed buckets that drive the base difficulty of a course.
type CourseType string

const (
	CourseTypeSTEM       CourseType = "STEM"
	CourseTypeHumanities CourseType = "HUMANITIES"
)

// ParseCourseType maps a free-form label to a CourseType.
// Anything that mentions STEM is STEM, everything else is HUMANITIES.
func ParseCourseType(label string) CourseType {
	if strings.Contains(strings.ToUpper(label), string(CourseTypeSTEM)) {
		return CourseTypeSTEM
	}
	return CourseTypeHumanities
}

// Valid reports whether t is one of the known labels.
func (t CourseType) Valid() bool {
	return t == CourseTypeSTEM || t == CourseTypeHumanities
}

// ClassInput is one requested course to be scored.
type ClassInput struct {
	// CourseName — free-text course identifier, e.g. "CSCI 104".
	CourseName string `json:"courseName" validate:"required"`
	// Professor — free-text instructor name.
	Professor string `json:"professor" validate:"required"`
	// Units — credit-hour count, positive and at most 40.
	Units float64 `json:"units" validate:"gt=0,lte=40"`
	// Type — optional course type; resolved by a classifier when empty.
	Type CourseType `json:"type,omitempty" validate:"omitempty,oneof=STEM HUMANITIES"`
}

// ProfessorRating is the aggregate public rating for an instructor.
// A nil *ProfessorRating means no data was found.
type ProfessorRating struct {
	Quality        float64 `json:"quality"`
	Difficulty     float64 `json:"difficulty"`
	WouldTakeAgain float64 `json:"wouldTakeAgain"`
	NumRatings     int     `json:"numRatings"`
}

// HasData reports whether the rating can be used for scoring.
// A nil rating and a rating with zero reviews are treated the same way.
func (r *ProfessorRating) HasData() bool {
	return r != nil && r.NumRatings > 0
}

// ClassScore is the scored result for one ClassInput.
type ClassScore struct {
	ClassInput
	ProfessorRating *ProfessorRating `json:"professorRating"`
	Score           int              `json:"score"`
	Explanation     string           `json:"explanation"`
}

// AnalysisResult is the aggregate across all requested classes.
type AnalysisResult struct {
	OverallScore int          `json:"overallScore"`
	VerbalLabel  string       `json:"verbalLabel"`
	TotalUnits   float64      `json:"totalUnits"`
	Classes      []ClassScore `json:"classes"`
}
