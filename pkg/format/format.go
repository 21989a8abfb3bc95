// Package format renders flight timestamps for display. All output is in UTC.
package format

import (
	"fmt"
	"time"
)

const (
	dateLayout  = "Jan 2, 2006"
	clockLayout = "03:04 PM"
)

// Date renders t as "Mar 18, 2025".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

// Clock renders t on a 12-hour clock, e.g. "05:00 PM".
func Clock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(clockLayout)
}

// Minutes returns the whole minutes from start to end, never negative.
func Minutes(start, end time.Time) int {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return 0
	}
	return int(end.Sub(start) / time.Minute)
}

// Duration renders the span between start and end as "4h 0m".
func Duration(start, end time.Time) string {
	total := Minutes(start, end)
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}
