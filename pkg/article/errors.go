package article

import "fmt"

// InvalidDateError reports a timestamp that is not a valid YYYY-MM-DD date.
type InvalidDateError struct {
	Value string
	Err   error
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: want YYYY-MM-DD", e.Value)
}

func (e *InvalidDateError) Unwrap() error { return e.Err }

// ValidationError reports a field rejected at the add step.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
