package errors

import "fmt"

// ParseError wraps a specific error with context about where it occurred.
type ParseError struct {
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %v (record: %v)", e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SolveError reports the bucket a staffing search failed on.
type SolveError struct {
	Hour int
	Load float64
	Err  error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("staffing search failed for hour %d (load %.3f): %v", e.Hour, e.Load, e.Err)
}

func (e *SolveError) Unwrap() error {
	return e.Err
}

// Input parsing errors
var (
	ErrInvalidFieldCount    = fmt.Errorf("invalid field count")
	ErrInvalidDuration      = fmt.Errorf("invalid duration")
	ErrInvalidStartTime     = fmt.Errorf("invalid start time")
	ErrInvalidEndTime       = fmt.Errorf("invalid end time")
	ErrInvalidNumberOfCalls = fmt.Errorf("invalid number of calls")
	ErrInvalidPriority      = fmt.Errorf("invalid priority")
	ErrEmptyRecord          = fmt.Errorf("empty record")
	ErrMissingColumn        = fmt.Errorf("missing column")
	ErrInvalidDate          = fmt.Errorf("invalid date")
	ErrInvalidEntryTime     = fmt.Errorf("invalid entry time")
)

// Staffing errors. All of them are caller contract violations except
// ErrServerCeilingExceeded, which means the search gave up.
var (
	ErrEmptyLoad                = fmt.Errorf("hourly load is empty")
	ErrInvalidLoad              = fmt.Errorf("load must be a finite non-negative number")
	ErrInvalidServiceRate       = fmt.Errorf("service rate must be a finite positive number")
	ErrInvalidTargetProbability = fmt.Errorf("target probability must be within (0, 1)")
	ErrInvalidMaxServers        = fmt.Errorf("max servers must not be negative")
	ErrServerCeilingExceeded    = fmt.Errorf("server ceiling reached before target probability was met")
	ErrInvalidHour              = fmt.Errorf("hour out of range")
	ErrNoServedCalls            = fmt.Errorf("no served calls")
)
