package internal

import "time"

// DateOnly truncates an instant to its calendar date, normalized to UTC
// midnight so it is stable as a natural-key component.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
