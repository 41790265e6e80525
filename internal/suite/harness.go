package suite

import (
	"fmt"

	"github.com/mlOS-foundation/golden-validate/internal/validate"
)

// #region types

// EntryResult is the outcome of replaying one suite entry.
type EntryResult struct {
	Model   string            `json:"model"`
	Results []validate.Result `json:"results"`
	// Mismatches lists expected outcomes the actual results contradict.
	// Empty when the entry declared no expectations or all held.
	Mismatches []string `json:"mismatches,omitempty"`
}

// Summary provides aggregate stats from a suite run.
type Summary struct {
	Entries    int `json:"entries"`
	Checks     int `json:"checks"`
	Passed     int `json:"passed"`
	Failed     int `json:"failed"`
	Mismatched int `json:"mismatched"`
}

// #endregion types

// #region run

// Run replays every suite entry through the validation engine. Operates
// entirely in-memory; the engine's spec is read-only so entries are
// independent.
func Run(engine *validate.Engine, s *Suite) ([]EntryResult, Summary) {
	var summary Summary
	out := make([]EntryResult, 0, len(s.Entries))

	for _, entry := range s.Entries {
		results := engine.Validate(entry.Model, entry.Response, entry.Test)

		er := EntryResult{
			Model:      entry.Model,
			Results:    results,
			Mismatches: compare(entry.ExpectedResults, results),
		}
		out = append(out, er)

		summary.Entries++
		summary.Checks += len(results)
		for _, r := range results {
			if r.Passed {
				summary.Passed++
			} else {
				summary.Failed++
			}
		}
		summary.Mismatched += len(er.Mismatches)
	}

	return out, summary
}

// compare checks declared expected outcomes against actual results.
func compare(expected []ExpectedOutcome, results []validate.Result) []string {
	if len(expected) == 0 {
		return nil
	}

	byName := make(map[string]validate.Result, len(results))
	for _, r := range results {
		byName[r.TestName] = r
	}

	var mismatches []string
	for _, want := range expected {
		got, ok := byName[want.TestName]
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("%s: no result produced", want.TestName))
			continue
		}
		if got.Passed != want.Passed {
			mismatches = append(mismatches, fmt.Sprintf("%s: expected passed=%t, got passed=%t (%s)",
				want.TestName, want.Passed, got.Passed, got.Message))
		}
	}
	return mismatches
}

// #endregion run
