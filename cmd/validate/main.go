package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mlOS-foundation/golden-validate/internal/golden"
	"github.com/mlOS-foundation/golden-validate/internal/history"
	"github.com/mlOS-foundation/golden-validate/internal/validate"
)

// #region main
func main() {
	goldenPath := flag.String("golden", envOr("GOLDEN_DATA_PATH", "config/golden-test-data.yaml"), "path to golden test data YAML")
	model := flag.String("model", "", "model name to validate")
	outputPath := flag.String("output", "", "path to inference output JSON file")
	inlineJSON := flag.String("response", "", "inline JSON response to validate")
	testName := flag.String("test", "", "specific test name to run (default: all)")
	listModels := flag.Bool("list-models", false, "list models with golden test data")
	listTests := flag.Bool("list-tests", false, "list tests for the given model")
	jsonOut := flag.Bool("json", false, "output results as JSON")
	dbPath := flag.String("db", "", "optional run-log database to record results in")
	flag.Parse()

	spec, err := golden.Load(*goldenPath)
	if err != nil {
		log.Fatalf("failed to load golden data: %v", err)
	}

	if *listModels {
		fmt.Println("Available models with golden test data:")
		for _, name := range spec.ModelNames() {
			fmt.Printf("  %s: %d test(s)\n", name, len(spec.TestCases(name)))
		}
		return
	}

	if *listTests {
		if *model == "" {
			fmt.Fprintln(os.Stderr, "usage: validate --list-tests --model NAME")
			os.Exit(2)
		}
		tests := spec.TestCases(*model)
		if len(tests) == 0 {
			fmt.Printf("No tests found for model %q\n", *model)
			return
		}
		fmt.Printf("Tests for %s:\n", *model)
		for _, tc := range tests {
			fmt.Printf("  - %s: %s\n", tc.Name, tc.Expected.ValidationType)
		}
		return
	}

	if *model == "" {
		fmt.Fprintln(os.Stderr, "usage: validate --model NAME (--output file.json | --response JSON) [--test NAME] [--json] [--db run.db]")
		os.Exit(2)
	}

	resp, err := loadResponse(*outputPath, *inlineJSON)
	if err != nil {
		log.Fatalf("failed to load response: %v", err)
	}

	engine := validate.NewEngine(spec)
	results := engine.Validate(*model, resp, *testName)

	if *dbPath != "" {
		store, err := history.NewStore(*dbPath)
		if err != nil {
			log.Fatalf("failed to open run log: %v", err)
		}
		runID, err := store.RecordRun(*model, results)
		if err != nil {
			log.Printf("run log error: %v", err)
		} else if !*jsonOut {
			fmt.Printf("Recorded run %s\n", runID)
		}
		store.Close()
	}

	if *jsonOut {
		out, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			log.Fatalf("failed to encode results: %v", err)
		}
		fmt.Println(string(out))
	} else {
		printResults(results)
	}

	for _, r := range results {
		if !r.Passed {
			os.Exit(1)
		}
	}
}

// #endregion main

// #region response-loading
// loadResponse reads the inference response from a JSON file or an
// inline JSON argument. Exactly one source must be given.
func loadResponse(path, inline string) (map[string]any, error) {
	var raw []byte
	switch {
	case path != "" && inline != "":
		return nil, fmt.Errorf("give either --output or --response, not both")
	case path != "":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		raw = b
	case inline != "":
		raw = []byte(inline)
	default:
		return nil, fmt.Errorf("must provide --output or --response")
	}

	var resp map[string]any
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}

// #endregion response-loading

// #region output
func printResults(results []validate.Result) {
	allPassed := true
	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
			allPassed = false
		}
		fmt.Printf("%s: %s\n", status, r.TestName)
		fmt.Printf("      %s\n", r.Message)
	}

	fmt.Println()
	if allPassed {
		fmt.Println("All validations passed!")
	} else {
		fmt.Println("Some validations failed")
	}
}

// #endregion output

// #region helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
