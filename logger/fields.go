package logger

// Standard field names for consistent structured logging across qntx-github.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity
	FieldPR     = "pr"
	FieldRepo   = "repo"
	FieldBranch = "branch"
	FieldCheck  = "check"
	FieldThread = "thread"
	FieldRunID  = "run_id"
	FieldJobID  = "job_id"

	// Operations
	FieldMode      = "mode"
	FieldComponent = "component"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount = "count"
	FieldLines = "lines"
)
