package rule

import (
	"cooked/internal/schedule"
	"fmt"

	"github.com/google/cel-go/cel"
)

// Rule assigns a course type when its condition holds.
// The When field contains a CEL expression over the Course variables.
// The CEL program is compiled when Init is called and used by Eval.
type Rule struct {
	// When — CEL expression defining the rule trigger condition.
	// Must return a boolean value.
	When string `yaml:"when"`
	// Then — course type assigned if the condition is true.
	Then schedule.CourseType `yaml:"then"`
	// program — compiled CEL program used to execute the condition.
	program cel.Program
}

// Init compiles the When expression using env and checks the Then label.
// After successful initialization, the rule is ready for use in Eval.
func (r *Rule) Init(env *cel.Env) error {
	if !r.Then.Valid() {
		return fmt.Errorf("rule %q: unknown course type %q", r.When, r.Then)
	}

	ast, iss := env.Parse(r.When)
	if iss.Err() != nil {
		return iss.Err()
	}

	checked, iss := env.Check(ast)
	if iss.Err() != nil {
		return iss.Err()
	}
	if !checked.OutputType().IsExactType(cel.BoolType) {
		return fmt.Errorf("rule %q: condition must be boolean, got %v", r.When, checked.OutputType())
	}

	var err error
	r.program, err = env.Program(checked)
	if err != nil {
		return err
	}

	return nil
}

// Eval executes the compiled rule on the course c.
// Returns the Then type and true if the condition holds.
// Execution errors count as a non-match.
func (r *Rule) Eval(c Course) (schedule.CourseType, bool) {
	result, _, err := r.program.Eval(map[string]any(c))
	if err != nil || result.Value() != true {
		return "", false
	}

	return r.Then, true
}
