package domain

import "fmt"

// ValidationError marks route data the timeline operations refuse to work
// with (empty stop list, out-of-range index, negative durations). Callers
// detect it with errors.As and decide whether to reject the edit or clamp.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid route data: %s: %s", e.Field, e.Reason)
}
