package suite

import (
	"encoding/json"
	"fmt"
	"os"
)

// #region fixture-types

// Suite is the top-level JSON structure for a recorded-response suite:
// inference responses captured from a serving run, replayed against the
// golden spec with optional expected outcomes per test.
type Suite struct {
	Description string  `json:"description"`
	Entries     []Entry `json:"entries"`
}

// Entry replays one recorded response against one model's test cases.
// Test narrows the run to a single test case; ExpectedResults pins the
// outcome per test so spec regressions surface as mismatches.
type Entry struct {
	Model           string            `json:"model"`
	Test            string            `json:"test,omitempty"`
	Response        map[string]any    `json:"response"`
	ExpectedResults []ExpectedOutcome `json:"expected_results,omitempty"`
}

// ExpectedOutcome captures the expected pass/fail per test name.
type ExpectedOutcome struct {
	TestName string `json:"test_name"`
	Passed   bool   `json:"passed"`
}

// #endregion fixture-types

// #region fixture-loader

// Load reads a suite fixture from a JSON file.
func Load(path string) (*Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite: %w", err)
	}
	var s Suite
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode suite %s: %w", path, err)
	}
	for i, e := range s.Entries {
		if e.Model == "" {
			return nil, fmt.Errorf("suite %s: entry %d has no model", path, i)
		}
		if e.Response == nil {
			return nil, fmt.Errorf("suite %s: entry %d (%s) has no response", path, i, e.Model)
		}
	}
	return &s, nil
}

// #endregion fixture-loader
