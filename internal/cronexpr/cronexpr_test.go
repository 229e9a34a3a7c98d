package cronexpr

import (
	"testing"
	"time"
)

func TestMatchesField(t *testing.T) {
	tests := []struct {
		field    string
		value    int
		min, max int
		want     bool
	}{
		{"*", 30, 0, 59, true},
		{"*", 0, 0, 23, true},
		{"*/15", 30, 0, 59, true},
		{"*/15", 31, 0, 59, false},
		{"*/15", 0, 0, 59, true},
		{"*/1", 42, 0, 59, true},
		{"9-17", 12, 0, 23, true},
		{"9-17", 9, 0, 23, true},
		{"9-17", 17, 0, 23, true},
		{"9-17", 8, 0, 23, false},
		{"1,3,5", 2, 1, 7, false},
		{"1,3,5", 3, 1, 7, true},
		{"30", 30, 0, 59, true},
		{"30", 29, 0, 59, false},
		// malformed fields never match
		{"*/x", 30, 0, 59, false},
		{"*/0", 30, 0, 59, false},
		{"a-b", 12, 0, 23, false},
		{"1,x,5", 1, 1, 7, false},
		{"x,1,5", 1, 1, 7, false},
		{"5,70", 5, 0, 59, false},
		{"abc", 30, 0, 59, false},
		// out-of-bounds literals never match
		{"99", 99, 0, 59, false},
		{"5-70", 12, 0, 59, false},
	}

	for _, tt := range tests {
		got := MatchesField(tt.field, tt.value, tt.min, tt.max)
		if got != tt.want {
			t.Errorf("MatchesField(%q, %d, %d, %d) = %v, want %v",
				tt.field, tt.value, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestIsDue(t *testing.T) {
	// Wednesday 2024-11-06 12:30
	at := time.Date(2024, 11, 6, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		expr string
		want bool
	}{
		{"* * * * *", true},
		{"30 * * * *", true},
		{"31 * * * *", false},
		{"30 12 * * *", true},
		{"30 12 6 11 *", true},
		{"30 12 * * 3", true},
		{"30 12 * * 4", false},
		{"*/15 * * * *", true},
		{"*/7 * * * *", false},
		{"0-45 9-17 * * 1-5", true},
		// malformed expressions are never due
		{"* * * *", false},
		{"* * * * * *", false},
		{"x * * * *", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsDue(tt.expr, at); got != tt.want {
			t.Errorf("IsDue(%q, %v) = %v, want %v", tt.expr, at, got, tt.want)
		}
	}
}

func TestIsDueMalformedListNeverDue(t *testing.T) {
	// Minute 1 would be a member of the list if the bad element were
	// ignored; the whole field is malformed, so the schedule is never due.
	at := time.Date(2024, 11, 6, 12, 1, 0, 0, time.UTC)

	if IsDue("1,x,5 * * * *", at) {
		t.Error(`IsDue("1,x,5 * * * *") = true, a list with a non-numeric element is never due`)
	}
	if IsDue("1,70,5 * * * *", at) {
		t.Error(`IsDue("1,70,5 * * * *") = true, a list with an out-of-range element is never due`)
	}
}

func TestNext(t *testing.T) {
	from := time.Date(2024, 11, 6, 12, 30, 0, 0, time.UTC)

	next, ok := Next("0 6 * * *", from)
	if !ok {
		t.Fatal("Next returned not ok for a daily schedule")
	}
	want := time.Date(2024, 11, 7, 6, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Next = %v, want %v", next, want)
	}

	// The next occurrence is strictly after from, even when from is due.
	next, ok = Next("30 12 * * *", from)
	if !ok {
		t.Fatal("Next returned not ok")
	}
	want = time.Date(2024, 11, 7, 12, 30, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Next = %v, want %v", next, want)
	}

	if _, ok := Next("bogus", from); ok {
		t.Error("Next should not find an occurrence for a malformed expression")
	}
}

func TestPrev(t *testing.T) {
	from := time.Date(2024, 11, 6, 12, 30, 0, 0, time.UTC)

	prev, ok := Prev("0 6 * * *", from)
	if !ok {
		t.Fatal("Prev returned not ok for a daily schedule")
	}
	want := time.Date(2024, 11, 6, 6, 0, 0, 0, time.UTC)
	if !prev.Equal(want) {
		t.Errorf("Prev = %v, want %v", prev, want)
	}

	// Strictly before from.
	prev, ok = Prev("30 12 * * *", from)
	if !ok {
		t.Fatal("Prev returned not ok")
	}
	want = time.Date(2024, 11, 5, 12, 30, 0, 0, time.UTC)
	if !prev.Equal(want) {
		t.Errorf("Prev = %v, want %v", prev, want)
	}

	if _, ok := Prev("* * *", from); ok {
		t.Error("Prev should not find an occurrence for a malformed expression")
	}
}

func TestSamePeriod(t *testing.T) {
	base := time.Date(2024, 11, 6, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		expr string
		a, b time.Time
		want bool
	}{
		{"fixed minute, same minute", "30 * * * *", base, base.Add(20 * time.Second), true},
		{"fixed minute, next hour", "30 * * * *", base, base.Add(time.Hour), false},
		{"fixed hour, same hour", "* 12 * * *", base, base.Add(10 * time.Minute), true},
		{"fixed hour, next day same hour", "* 12 * * *", base, base.Add(24 * time.Hour), false},
		{"fixed dom, same day", "* * 6 * *", base, base.Add(3 * time.Hour), true},
		{"fixed dom, next day", "* * 6 * *", base, base.Add(24 * time.Hour), false},
		{"fixed month, same month", "* * * 11 *", base, base.Add(10 * 24 * time.Hour), true},
		{"fixed month, next month", "* * * 11 *", base, base.Add(40 * 24 * time.Hour), false},
		{"fixed dow, same day", "* * * * 3", base, base.Add(2 * time.Hour), true},
		{"fixed dow, next week", "* * * * 3", base, base.Add(7 * 24 * time.Hour), false},
		{"all wildcards never share a period", "* * * * *", base, base, false},
		{"malformed", "nope", base, base, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SamePeriod(tt.expr, tt.a, tt.b); got != tt.want {
				t.Errorf("SamePeriod(%q, %v, %v) = %v, want %v", tt.expr, tt.a, tt.b, got, tt.want)
			}
		})
	}
}
