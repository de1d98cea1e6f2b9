// Package harness runs YAML-described operation scripts against the
// dispatcher and checks results, orderings, error classes, and stack
// depths. Scenarios run on either backend or both; golden trace
// comparison pins the exact event stream.
package harness

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is one conformance script.
type Scenario struct {
	// Name uniquely identifies the scenario; golden files use it.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description,omitempty"`

	// Backends lists the paths to run on: "hardware" (simulated
	// coprocessor), "software", or both. Empty means both.
	Backends []string `yaml:"backends,omitempty"`

	// Session is the fixed session token, for deterministic traces.
	// Defaults to "test-session".
	Session string `yaml:"session,omitempty"`

	// Steps is the operation script, executed in order.
	Steps []Step `yaml:"steps"`
}

// Step is one dispatcher call.
type Step struct {
	// Op is the operation: "push", "pull", "compare", "pow", or any
	// primitive name from the operation table.
	Op string `yaml:"op"`

	// Value is the operand text for push.
	Value string `yaml:"value,omitempty"`

	// Expect validates the step's outcome. Nil means "must succeed".
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies a step's expected outcome.
type Expect struct {
	// Result is the expected pull rendering.
	Result string `yaml:"result,omitempty"`

	// Ordering is the expected compare classification: "LessThan",
	// "Equal", or "GreaterThan".
	Ordering string `yaml:"ordering,omitempty"`

	// Error is the expected error class: "parse", "range", "fault",
	// "timeout", or "underflow". Empty means the step must succeed.
	Error string `yaml:"error,omitempty"`

	// Depth, when set, is the expected stack depth after the step.
	Depth *int `yaml:"depth,omitempty"`
}

// LoadScenario reads one scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: missing name", path)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s: no steps", path)
	}
	if s.Session == "" {
		s.Session = "test-session"
	}
	if len(s.Backends) == 0 {
		s.Backends = []string{"hardware", "software"}
	}
	return &s, nil
}

// LoadDir loads every .yaml scenario under dir, sorted by filename.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	var out []*Scenario
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
