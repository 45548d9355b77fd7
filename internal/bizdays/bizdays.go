// Package bizdays provides working-day date arithmetic. A business day is
// Monday through Friday; there is no holiday calendar.
package bizdays

import "time"

func isWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// Add advances start by n business days, walking one calendar day at a time
// and counting only weekdays. For n <= 0 it returns start unchanged.
func Add(start time.Time, n int) time.Time {
	current := start
	added := 0
	for added < n {
		current = current.AddDate(0, 0, 1)
		if isWeekday(current) {
			added++
		}
	}
	return current
}

// Between counts the weekdays strictly after start, up to and including end.
// It returns 0 when either time is zero or end is not after start.
func Between(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	start = truncate(start)
	end = truncate(end)
	days := 0
	for current := start; current.Before(end); {
		current = current.AddDate(0, 0, 1)
		if isWeekday(current) {
			days++
		}
	}
	return days
}

// Since counts business days from t to today. The current date is a
// parameter so elapsed-time checks stay deterministic under test.
func Since(t time.Time, today time.Time) int {
	if t.IsZero() {
		return 0
	}
	return Between(t, today)
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
