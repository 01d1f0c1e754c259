package service

import "fmt"

// ValidationError rejects malformed input before any transaction starts;
// nothing is ever partially applied for it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
