package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mlOS-foundation/golden-validate/internal/validate"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	model       TEXT NOT NULL,
	passed      INTEGER NOT NULL,
	total       INTEGER NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_results (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id       TEXT NOT NULL,
	test_name    TEXT NOT NULL,
	passed       INTEGER NOT NULL,
	message      TEXT,
	details_json TEXT,
	FOREIGN KEY (run_id) REFERENCES runs(run_id)
);
`

// #endregion schema

// #region store-struct
// Store persists validation runs in SQLite for later inspection.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region record-run
// RecordRun stores one validation run and its results, returning the
// new run id.
func (s *Store) RecordRun(model string, results []validate.Result) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	passed := 0
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, model, passed, total, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, model, passed, len(results), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, r := range results {
		detailsJSON, err := json.Marshal(r.Details)
		if err != nil {
			return "", fmt.Errorf("marshal details for %s: %w", r.TestName, err)
		}
		_, err = tx.Exec(
			`INSERT INTO run_results (run_id, test_name, passed, message, details_json)
			 VALUES (?, ?, ?, ?, ?)`,
			id, r.TestName, boolToInt(r.Passed), r.Message, string(detailsJSON),
		)
		if err != nil {
			return "", fmt.Errorf("insert result %s: %w", r.TestName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// #endregion record-run

// #region list-runs
// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, model, passed, total, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var created string
		if err := rows.Scan(&rec.RunID, &rec.Model, &rec.Passed, &rec.Total, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// #endregion list-runs

// #region run-results
// RunResults returns the stored results of one run, in insertion order.
func (s *Store) RunResults(runID string) ([]ResultRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, test_name, passed, message, details_json
		 FROM run_results WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var rec ResultRecord
		var passed int
		var message, details sql.NullString
		if err := rows.Scan(&rec.RunID, &rec.TestName, &passed, &message, &details); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		rec.Passed = passed != 0
		rec.Message = message.String
		rec.DetailsJSON = details.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

// #endregion run-results

// #region helpers
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
