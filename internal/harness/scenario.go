package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Lots are created before the first step.
	Lots []LotSeed `yaml:"lots,omitempty"`

	// Steps are command lines executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the engine state after the last step.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// LotSeed is a lot created before the scenario runs.
type LotSeed struct {
	Capacity int `yaml:"capacity"`
	Limit    int `yaml:"limit"`
}

// Step is one input line.
type Step struct {
	// Cmd is the raw command line.
	Cmd string `yaml:"cmd"`

	// Expect is the exact output of the line. Nil means the output is not
	// checked; commands that write nothing must leave it nil.
	Expect *string `yaml:"expect,omitempty"`
}

// Assertion validates the final engine state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Threshold and Value are used by count.
	Threshold int `yaml:"threshold,omitempty"`
	Value     int `yaml:"value,omitempty"`

	// Capacity selects the lot for lot_state and absent.
	Capacity int `yaml:"capacity,omitempty"`

	// Waiting and Ready are the expected queue lengths for lot_state.
	// Nil skips the check.
	Waiting *int `yaml:"waiting,omitempty"`
	Ready   *int `yaml:"ready,omitempty"`
}

// Assertion type constants.
const (
	AssertCount      = "count"
	AssertInvariants = "invariants"
	AssertLotState   = "lot_state"
	AssertAbsent     = "absent"
)

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", filepath.Base(path), err)
	}

	return &scenario, nil
}

// LoadScenarioDir loads every *.yaml and *.yml file in dir, sorted by
// file name. Duplicate scenario names are rejected.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("duplicate scenario name %q in %s and %s", s.Name, prev, p)
		}
		seen[s.Name] = p
		scenarios = append(scenarios, s)
	}

	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return errors.New("name is required")
	}

	if len(s.Steps) == 0 {
		return errors.New("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Cmd == "" {
			return fmt.Errorf("step %d: cmd is required", i+1)
		}
	}

	for i, lot := range s.Lots {
		if lot.Capacity < 0 || lot.Limit < 0 {
			return fmt.Errorf("lot %d: capacity and limit must be non-negative", i+1)
		}
	}

	for i, a := range s.Assertions {
		switch a.Type {
		case AssertCount, AssertInvariants, AssertAbsent:
		case AssertLotState:
			if a.Waiting == nil && a.Ready == nil {
				return fmt.Errorf("assertion %d: lot_state needs waiting or ready", i+1)
			}
		case "":
			return fmt.Errorf("assertion %d: type is required", i+1)
		default:
			return fmt.Errorf("assertion %d: unknown type %q", i+1, a.Type)
		}
	}

	return nil
}
