package utils

import "time"

// DateLayout is the calendar-date format used across the storage layer.
// Lexicographic order of these strings matches chronological order, which
// the DATE column and MAX(date) watermark rely on.
const DateLayout = "2006-01-02"

// Today returns the current calendar date as YYYY-MM-DD.
func Today() string {
	return time.Now().Format(DateLayout)
}

// TruncateDate reduces a date-like string to its 10-character calendar-date
// prefix, so "2024-05-03 00:00:00" and "2024-05-03T00:00:00Z" both become
// "2024-05-03".
func TruncateDate(s string) string {
	if len(s) > len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// DaysAgo returns the calendar date n days before today.
func DaysAgo(n int) string {
	return time.Now().AddDate(0, 0, -n).Format(DateLayout)
}
