package validate

// #region result
// Result is the outcome of one validation check. It is created by a
// single validation call and never mutated afterward.
type Result struct {
	TestName string         `json:"test_name"`
	Passed   bool           `json:"passed"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details"`
}

// Sentinel test names for lookup failures, reported as synthetic failed
// results so batch callers always receive a uniform result list.
const (
	TestModelLookup     = "model_lookup"
	TestTestCasesLookup = "test_cases_lookup"
)

// #endregion result

// #region constructors

func pass(name, message string, details map[string]any) Result {
	if details == nil {
		details = map[string]any{}
	}
	return Result{TestName: name, Passed: true, Message: message, Details: details}
}

func fail(name, message string, details map[string]any) Result {
	if details == nil {
		details = map[string]any{}
	}
	return Result{TestName: name, Passed: false, Message: message, Details: details}
}

// #endregion constructors
