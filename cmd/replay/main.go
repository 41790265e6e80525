package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mlOS-foundation/golden-validate/internal/golden"
	"github.com/mlOS-foundation/golden-validate/internal/history"
	"github.com/mlOS-foundation/golden-validate/internal/suite"
	"github.com/mlOS-foundation/golden-validate/internal/validate"
)

// #region main

func main() {
	goldenPath := flag.String("golden", envOr("GOLDEN_DATA_PATH", "config/golden-test-data.yaml"), "path to golden test data YAML")
	suitePath := flag.String("suite", "", "path to recorded-response suite JSON")
	jsonOut := flag.Bool("json", false, "output results as JSON")
	dbPath := flag.String("db", "", "optional run-log database to record results in")
	flag.Parse()

	if *suitePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --suite path/to/suite.json [--golden golden.yaml] [--json] [--db run.db]")
		os.Exit(2)
	}

	spec, err := golden.Load(*goldenPath)
	if err != nil {
		log.Fatalf("failed to load golden data: %v", err)
	}
	s, err := suite.Load(*suitePath)
	if err != nil {
		log.Fatalf("failed to load suite: %v", err)
	}

	engine := validate.NewEngine(spec)
	entries, summary := suite.Run(engine, s)

	if *dbPath != "" {
		if err := recordEntries(*dbPath, entries); err != nil {
			log.Printf("run log error: %v", err)
		}
	}

	if *jsonOut {
		printJSON(entries, summary)
	} else {
		printReport(entries, summary)
	}

	os.Exit(exitCode(s, entries, summary))
}

// exitCode judges entries with declared expectations by mismatches and
// the rest by plain failures.
func exitCode(s *suite.Suite, entries []suite.EntryResult, summary Summary) int {
	if summary.Mismatched > 0 {
		return 1
	}
	for i, er := range entries {
		if len(s.Entries[i].ExpectedResults) > 0 {
			continue // expectations held; failures there were expected
		}
		for _, r := range er.Results {
			if !r.Passed {
				return 1
			}
		}
	}
	return 0
}

// #endregion main

// #region output

type Summary = suite.Summary

func printReport(entries []suite.EntryResult, summary Summary) {
	for _, er := range entries {
		fmt.Printf("%s:\n", er.Model)
		for _, r := range er.Results {
			status := "PASS"
			if !r.Passed {
				status = "FAIL"
			}
			fmt.Printf("  %s: %s: %s\n", status, r.TestName, r.Message)
		}
		for _, m := range er.Mismatches {
			fmt.Printf("  MISMATCH: %s\n", m)
		}
	}

	fmt.Println()
	fmt.Printf("Entries: %d  Checks: %d  Passed: %d  Failed: %d  Mismatched: %d\n",
		summary.Entries, summary.Checks, summary.Passed, summary.Failed, summary.Mismatched)
}

func printJSON(entries []suite.EntryResult, summary Summary) {
	payload := struct {
		Entries []suite.EntryResult `json:"entries"`
		Summary Summary             `json:"summary"`
	}{entries, summary}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		log.Fatalf("failed to encode results: %v", err)
	}
	fmt.Println(string(out))
}

// #endregion output

// #region run-log

func recordEntries(dbPath string, entries []suite.EntryResult) error {
	store, err := history.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, er := range entries {
		if _, err := store.RecordRun(er.Model, er.Results); err != nil {
			return err
		}
	}
	return nil
}

// #endregion run-log

// #region helpers

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion helpers
