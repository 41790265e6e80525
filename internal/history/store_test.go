package history

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mlOS-foundation/golden-validate/internal/validate"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "runs.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResults() []validate.Result {
	return []validate.Result{
		{TestName: "shape_check", Passed: true, Message: "Shape matches: [1 1000]",
			Details: map[string]any{"actual_shape": []int{1, 1000}}},
		{TestName: "class_check", Passed: false, Message: "Class 281 not in top-5",
			Details: map[string]any{"top_k_indices": []int{1, 2, 3, 4, 5}}},
	}
}

func TestRecordRunRoundTrip(t *testing.T) {
	s := tempDB(t)

	runID, err := s.RecordRun("resnet", sampleResults())
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Model != "resnet" || runs[0].Passed != 1 || runs[0].Total != 2 {
		t.Fatalf("unexpected run record: %+v", runs[0])
	}

	results, err := s.RunResults(runID)
	if err != nil {
		t.Fatalf("RunResults: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].TestName != "shape_check" || !results[0].Passed {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
	if results[1].Passed {
		t.Fatal("second result should be failed")
	}

	var details map[string]any
	if err := json.Unmarshal([]byte(results[1].DetailsJSON), &details); err != nil {
		t.Fatalf("details should round-trip as JSON: %v", err)
	}
	if _, ok := details["top_k_indices"]; !ok {
		t.Fatal("expected top_k_indices in stored details")
	}
}

func TestListRunsLimit(t *testing.T) {
	s := tempDB(t)

	for i := 0; i < 5; i++ {
		if _, err := s.RecordRun("gpt2", sampleResults()); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	runs, err := s.ListRuns(3)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected limit 3, got %d", len(runs))
	}
}

func TestRunResultsUnknownRun(t *testing.T) {
	s := tempDB(t)

	results, err := s.RunResults("no-such-run")
	if err != nil {
		t.Fatalf("RunResults: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}
