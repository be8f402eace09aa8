package util //nolint:revive // package name util hosts shared formatting helpers used by operator tooling

import (
	"time"
)

// FormatSessionDuration formats a stored session duration in seconds for display.
// Returns "-" for open sessions (nil) and truncates to milliseconds for readability.
func FormatSessionDuration(seconds *float64) string {
	if seconds == nil {
		return "-"
	}
	d := time.Duration(*seconds * float64(time.Second))
	switch {
	case d <= 0:
		return "0s"
	case d < time.Millisecond:
		return d.String()
	default:
		return d.Truncate(time.Millisecond).String()
	}
}

// FormatTimestamp renders t in UTC as RFC 3339, or "-" for the zero time.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
