package golden

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// #region load
// Load reads and validates a golden spec document from a YAML file.
// This is the engine's single I/O point: the returned Spec is immutable
// and safe to share across concurrent validation calls.
func Load(path string) (*Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read golden data: %w", err)
	}
	spec, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("golden data %s: %w", path, err)
	}
	return spec, nil
}

// Parse decodes and validates a golden spec from YAML bytes.
func Parse(raw []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// #endregion load

// #region spec-validation
// validate rejects unknown validation kinds and duplicate test names at
// load time so the dispatch table never sees an unhandled kind.
func (s *Spec) validate() error {
	for model, ms := range s.Models {
		seen := make(map[string]bool)
		for i, tc := range ms.TestCases {
			name := tc.Name
			if name == "" {
				return fmt.Errorf("model %q: test case %d has no name", model, i)
			}
			if seen[name] {
				return fmt.Errorf("model %q: duplicate test case %q", model, name)
			}
			seen[name] = true
			if !tc.Expected.ValidationType.Valid() {
				return fmt.Errorf("model %q test %q: unknown validation type %q",
					model, name, tc.Expected.ValidationType)
			}
		}
	}
	return nil
}

// #endregion spec-validation

// #region accessors
// ModelNames returns the models carrying golden data, sorted for
// deterministic listings.
func (s *Spec) ModelNames() []string {
	names := make([]string, 0, len(s.Models))
	for name := range s.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Model looks up one model's spec.
func (s *Spec) Model(name string) (ModelSpec, bool) {
	ms, ok := s.Models[name]
	return ms, ok
}

// TestCases returns the declared test cases for a model, in declared
// order. Missing models yield an empty slice.
func (s *Spec) TestCases(model string) []TestCase {
	ms, ok := s.Models[model]
	if !ok {
		return nil
	}
	return ms.TestCases
}

// #endregion accessors
