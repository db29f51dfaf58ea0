package rule

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFromFile reads and compiles rules from a YAML file.
func LoadFromFile(file string) ([]Rule, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return Parse(content)
}

// Parse decodes a YAML list of rules and compiles every condition.
// An empty document yields no rules.
func Parse(content []byte) ([]Rule, error) {
	rules := []Rule{}

	err := yaml.Unmarshal(content, &rules)
	if err != nil {
		return nil, err
	}

	env, err := NewCourseEnv()
	if err != nil {
		return nil, err
	}

	for i := range rules {
		if err := rules[i].Init(env); err != nil {
			return nil, fmt.Errorf("rule #%d: %w", i+1, err)
		}
	}
	return rules, nil
}
