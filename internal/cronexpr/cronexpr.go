// Package cronexpr evaluates 5-field cron expressions against timestamps.
//
// The five fields are minute [0-59], hour [0-23], day-of-month [1-31],
// month [1-12] and day-of-week [0-6, Sunday=0]. A field is either "*",
// a step "*/N", an inclusive range "A-B", a comma list "a,b,c" or a bare
// integer. Malformed expressions never match: every function in this
// package answers false (or a zero time) rather than returning an error,
// so callers treat a bad schedule as "never due".
package cronexpr

import (
	"strconv"
	"strings"
	"time"
)

// fieldBounds holds the valid value range for each of the five fields,
// in expression order.
var fieldBounds = [5]struct{ min, max int }{
	{0, 59}, // minute
	{0, 23}, // hour
	{1, 31}, // day of month
	{1, 12}, // month
	{0, 6},  // day of week
}

// Fields splits an expression into its five fields. The second return
// value is false when the expression does not have exactly five fields.
func Fields(expr string) ([]string, bool) {
	fields := strings.Fields(strings.TrimSpace(expr))
	if len(fields) != 5 {
		return nil, false
	}
	return fields, true
}

// MatchesField reports whether a single field expression matches value.
// min and max bound the legal values for the field; a literal outside
// those bounds is malformed and never matches.
func MatchesField(field string, value, min, max int) bool {
	switch {
	case field == "*":
		return true

	case strings.HasPrefix(field, "*/"):
		step, err := strconv.Atoi(field[2:])
		if err != nil || step <= 0 {
			return false
		}
		return value%step == 0

	case strings.Contains(field, ","):
		// The whole list must be well-formed before membership counts.
		found := false
		for _, part := range strings.Split(field, ",") {
			n, err := strconv.Atoi(part)
			if err != nil || n < min || n > max {
				return false
			}
			if n == value {
				found = true
			}
		}
		return found

	case strings.Contains(field, "-"):
		parts := strings.SplitN(field, "-", 2)
		lo, err := strconv.Atoi(parts[0])
		if err != nil {
			return false
		}
		hi, err := strconv.Atoi(parts[1])
		if err != nil {
			return false
		}
		if lo < min || hi > max || lo > hi {
			return false
		}
		return value >= lo && value <= hi

	default:
		n, err := strconv.Atoi(field)
		if err != nil || n < min || n > max {
			return false
		}
		return value == n
	}
}

// fieldValues extracts the five field values from a timestamp, in
// expression order.
func fieldValues(t time.Time) [5]int {
	return [5]int{
		t.Minute(),
		t.Hour(),
		t.Day(),
		int(t.Month()),
		int(t.Weekday()),
	}
}

// IsDue reports whether expr matches the given timestamp. A malformed
// expression is never due.
func IsDue(expr string, t time.Time) bool {
	fields, ok := Fields(expr)
	if !ok {
		return false
	}
	values := fieldValues(t)
	for i, field := range fields {
		if !MatchesField(field, values[i], fieldBounds[i].min, fieldBounds[i].max) {
			return false
		}
	}
	return true
}

// searchHorizon bounds the minute-stepping scan in Prev and Next. One
// year of minutes covers every satisfiable 5-field expression.
const searchHorizon = 366 * 24 * time.Hour

// Next returns the first instant strictly after from at which expr is
// due. The boolean is false when expr is malformed or never satisfied
// within a year.
func Next(expr string, from time.Time) (time.Time, bool) {
	if _, ok := Fields(expr); !ok {
		return time.Time{}, false
	}
	t := from.Truncate(time.Minute).Add(time.Minute)
	limit := from.Add(searchHorizon)
	for ; t.Before(limit); t = t.Add(time.Minute) {
		if IsDue(expr, t) {
			return t, true
		}
	}
	return time.Time{}, false
}

// Prev returns the last instant strictly before from at which expr was
// due. The boolean is false when expr is malformed or was never
// satisfied within the past year.
func Prev(expr string, from time.Time) (time.Time, bool) {
	if _, ok := Fields(expr); !ok {
		return time.Time{}, false
	}
	t := from.Truncate(time.Minute)
	if !t.Before(from) {
		t = t.Add(-time.Minute)
	}
	limit := from.Add(-searchHorizon)
	for ; t.After(limit); t = t.Add(-time.Minute) {
		if IsDue(expr, t) {
			return t, true
		}
	}
	return time.Time{}, false
}

// SamePeriod reports whether two timestamps fall into the same schedule
// period of expr. The granularity is decided by the first field, scanned
// minute->hour->day-of-month->month->day-of-week, that is not "*": a
// fixed minute compares same-minute, a fixed hour same-hour, and so on.
// When every field is "*" there is no period to share, so the answer is
// always false.
func SamePeriod(expr string, a, b time.Time) bool {
	fields, ok := Fields(expr)
	if !ok {
		return false
	}
	switch {
	case fields[0] != "*":
		return a.Truncate(time.Minute).Equal(b.Truncate(time.Minute))
	case fields[1] != "*":
		return sameDay(a, b) && a.Hour() == b.Hour()
	case fields[2] != "*":
		return sameDay(a, b)
	case fields[3] != "*":
		return a.Year() == b.Year() && a.Month() == b.Month()
	case fields[4] != "*":
		return sameDay(a, b)
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
