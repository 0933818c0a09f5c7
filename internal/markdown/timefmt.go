package markdown

import (
	"fmt"

	"github.com/Zuo-Peng/chat2md/internal/archive"
)

// FormatDualTime renders a timestamp in the machine's local zone with
// the authoritative UTC value alongside. Unparseable input renders as
// a fixed placeholder rather than failing.
func FormatDualTime(ts string) string {
	t := archive.ParseTimestamp(ts)
	if t.IsZero() {
		return "unknown time"
	}
	return fmt.Sprintf("%s (UTC: %s)",
		t.Local().Format("2006-01-02 15:04:05 MST"),
		t.UTC().Format("2006-01-02 15:04:05"))
}

// FormatShortDate returns the UTC calendar date as YYYY-MM-DD, or ""
// when the timestamp cannot be parsed.
func FormatShortDate(ts string) string {
	t := archive.ParseTimestamp(ts)
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// FormatWeekdayDate returns a spelled-out date with its weekday.
func FormatWeekdayDate(ts string) string {
	t := archive.ParseTimestamp(ts)
	if t.IsZero() {
		return "Unknown"
	}
	return t.UTC().Format("Monday, January 2, 2006")
}
