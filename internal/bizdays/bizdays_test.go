package bizdays

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdd(t *testing.T) {
	monday := date(2026, time.March, 2)

	tests := []struct {
		name  string
		start time.Time
		n     int
		want  time.Time
	}{
		{"zero days returns start", monday, 0, monday},
		{"negative days returns start", monday, -3, monday},
		{"one day from monday", monday, 1, date(2026, time.March, 3)},
		{"five days from monday lands next monday", monday, 5, date(2026, time.March, 9)},
		{"friday plus one skips weekend", date(2026, time.March, 6), 1, date(2026, time.March, 9)},
		{"saturday plus one lands monday", date(2026, time.March, 7), 1, date(2026, time.March, 9)},
		{"three days from wednesday", date(2026, time.March, 4), 3, date(2026, time.March, 9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Add(tt.start, tt.n)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddAlwaysLandsOnWeekday(t *testing.T) {
	start := date(2026, time.January, 1)
	for day := 0; day < 14; day++ {
		for n := 1; n <= 10; n++ {
			got := Add(start.AddDate(0, 0, day), n)
			wd := got.Weekday()
			assert.NotEqual(t, time.Saturday, wd)
			assert.NotEqual(t, time.Sunday, wd)
		}
	}
}

func TestBetween(t *testing.T) {
	monday := date(2026, time.March, 2)

	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"same day", monday, monday, 0},
		{"end before start", monday, date(2026, time.February, 27), 0},
		{"zero start", time.Time{}, monday, 0},
		{"zero end", monday, time.Time{}, 0},
		{"monday to thursday", monday, date(2026, time.March, 5), 3},
		{"monday to next monday", monday, date(2026, time.March, 9), 5},
		{"friday to monday", date(2026, time.March, 6), date(2026, time.March, 9), 1},
		{"saturday to sunday", date(2026, time.March, 7), date(2026, time.March, 8), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Between(tt.start, tt.end))
		})
	}
}

func TestBetweenIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2026, time.March, 2, 23, 45, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 5, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 3, Between(start, end))
}

func TestSince(t *testing.T) {
	today := date(2026, time.March, 12)

	assert.Equal(t, 0, Since(time.Time{}, today))
	// assigned Monday March 2, ten calendar days and eight weekdays ago
	assert.Equal(t, 8, Since(date(2026, time.March, 2), today))
	assert.Equal(t, 0, Since(today, today))
}
