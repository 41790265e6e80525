package history

import "time"

// #region run-record
// RunRecord summarizes one recorded validation run.
type RunRecord struct {
	RunID     string
	Model     string
	Passed    int
	Total     int
	CreatedAt time.Time
}

// #endregion run-record

// #region result-record
// ResultRecord is one stored validation result within a run.
type ResultRecord struct {
	RunID       string
	TestName    string
	Passed      bool
	Message     string
	DetailsJSON string
}

// #endregion result-record
