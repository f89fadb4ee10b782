package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date used as the history key.
const DateLayout = "2006-01-02"

// FormatDate returns the history key for t in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a history key into midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Weekdays in the order used by the weekly plan, Sunday first.
var Weekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// DayName returns the lowercase weekday name of t.
func DayName(t time.Time) string {
	return Weekdays[int(t.Weekday())]
}
