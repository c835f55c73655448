package logging

// LogEntry represents a structured log record with fields particularly
// relevant to hyperparameter search runs.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Search-specific fields
	RunID string  // Identifier of the search run emitting the entry
	Cost  float64 // Budget spent so far, in max-budget units

	// General structured data
	Fields map[string]interface{}
}
