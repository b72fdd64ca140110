// Package daykey derives the calendar-day identifier and numeric seed that
// anchor daily content.
package daykey

import (
	"time"
)

// Layout is the DayKey format
const Layout = "2006-01-02"

// DayKey formats the calendar date of t, in t's own location, as YYYY-MM-DD
func DayKey(t time.Time) string {
	return t.Format(Layout)
}

// Seed hashes key with the rolling hash ((h << 5) - h) + c, wrapping at 32
// bits on every step, and returns its absolute value.
func Seed(key string) int64 {
	var h int32
	for _, c := range key {
		h = (h << 5) - h + int32(c)
	}
	s := int64(h)
	if s < 0 {
		s = -s
	}
	return s
}

// SeedFor returns Seed(DayKey(t))
func SeedFor(t time.Time) int64 {
	return Seed(DayKey(t))
}

// Previous returns t moved one calendar day back
func Previous(t time.Time) time.Time {
	return t.AddDate(0, 0, -1)
}

// FromNanos converts a stored nanosecond timestamp into local time
func FromNanos(ns int64) time.Time {
	return time.Unix(0, ns)
}

// Same reports whether a and b fall on the same calendar day in loc
func Same(a, b time.Time, loc *time.Location) bool {
	return DayKey(a.In(loc)) == DayKey(b.In(loc))
}
