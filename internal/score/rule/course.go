package rule

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/cel-go/cel"
)

var courseCodePattern = regexp.MustCompile(`^\s*([A-Za-z]+)[\s\-]*(\d+)`)

// Course holds the facts about a course name that rule conditions can refer to.
type Course map[string]any

// NewCourse splits a course name like "CSCI 104L" into its department and number.
// Names without a recognizable code get an empty department and number 0.
func NewCourse(courseName string) Course {
	course := Course{
		"courseName": courseName,
		"department": "",
		"number":     int64(0),
	}

	match := courseCodePattern.FindStringSubmatch(courseName)
	if match == nil {
		return course
	}

	course["department"] = strings.ToUpper(match[1])
	if n, err := strconv.ParseInt(match[2], 10, 64); err == nil {
		course["number"] = n
	}
	return course
}

// NewCourseEnv declares the variables available to rule conditions.
func NewCourseEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("courseName", cel.StringType),
		cel.Variable("department", cel.StringType),
		cel.Variable("number", cel.IntType),
	)
}
