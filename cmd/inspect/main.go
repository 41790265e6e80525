package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/mlOS-foundation/golden-validate/internal/history"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to run-log database")
	last := flag.Int("last", 20, "show N most recent runs")
	runID := flag.String("run", "", "show single run detail")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/runs.db [--last N] [--run id] [--json]")
		os.Exit(2)
	}

	store, err := history.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *runID != "" {
		if err := runDetailMode(store, *runID, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	} else {
		if err := runListMode(store, *last, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	RunID     string `json:"run_id"`
	Model     string `json:"model"`
	Passed    int    `json:"passed"`
	Total     int    `json:"total"`
	CreatedAt string `json:"created_at"`
}

func runListMode(store *history.Store, last int, jsonOut bool) error {
	runs, err := store.ListRuns(last)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
		return nil
	}

	rows := make([]listRow, len(runs))
	for i, r := range runs {
		rows[i] = listRow{
			RunID:     r.RunID,
			Model:     r.Model,
			Passed:    r.Passed,
			Total:     r.Total,
			CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-12s  %-20s  %7s  %s\n", "Run", "Model", "Results", "Time")
	fmt.Printf("%-12s+-%-20s+-%7s+-%s\n",
		"------------", "--------------------", "-------", "--------------------")
	for _, r := range rows {
		fmt.Printf("%-12s  %-20s  %3d/%-3d  %s\n",
			shortID(r.RunID), r.Model, r.Passed, r.Total, r.CreatedAt)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailRow struct {
	TestName string          `json:"test_name"`
	Passed   bool            `json:"passed"`
	Message  string          `json:"message"`
	Details  json.RawMessage `json:"details,omitempty"`
}

func runDetailMode(store *history.Store, runID string, jsonOut bool) error {
	results, err := store.RunResults(runID)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no results for run %s", runID)
	}

	rows := make([]detailRow, len(results))
	for i, r := range results {
		rows[i] = detailRow{
			TestName: r.TestName,
			Passed:   r.Passed,
			Message:  r.Message,
			Details:  json.RawMessage(r.DetailsJSON),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	for _, r := range rows {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		fmt.Printf("%s: %s\n", status, r.TestName)
		fmt.Printf("      %s\n", r.Message)
	}
	return nil
}

// #endregion detail-mode

// #region helpers

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// #endregion helpers
