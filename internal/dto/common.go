package dto

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for day-granularity dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD wire date into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a time as a YYYY-MM-DD wire date.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
