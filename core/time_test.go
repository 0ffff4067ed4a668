package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		from TimePoint
		to   TimePoint
		want int
	}{
		{"same day", NewTimePoint(2026, time.January, 1), NewTimePoint(2026, time.January, 1), 0},
		{"adjacent days", NewTimePoint(2026, time.January, 1), NewTimePoint(2026, time.January, 2), 1},
		{"three day span", NewTimePoint(2026, time.January, 1), NewTimePoint(2026, time.January, 3), 2},
		{"across month", NewTimePoint(2026, time.January, 31), NewTimePoint(2026, time.February, 2), 2},
		{"across year", NewTimePoint(2025, time.December, 30), NewTimePoint(2026, time.January, 2), 3},
		{"leap february", NewTimePoint(2024, time.February, 28), NewTimePoint(2024, time.March, 1), 2},
		{"inverted range", NewTimePoint(2026, time.January, 5), NewTimePoint(2026, time.January, 3), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.from, tt.to))
		})
	}
}

func TestDaysBetween_InclusiveSpanMatchesDayEnumeration(t *testing.T) {
	// GIVEN: A range of start/end pairs with start <= end
	// THEN: DaysBetween+1 equals the number of enumerated calendar days
	start := NewTimePoint(2026, time.March, 10)
	for span := 0; span < 40; span++ {
		end := start.AddDays(span)
		p := Period{Start: start, End: end}
		assert.Equal(t, len(p.Days()), DaysBetween(start, end)+1, "span %d", span)
	}
}

func TestParseTimePoint(t *testing.T) {
	tp, err := ParseTimePoint("2026-04-15")
	require.NoError(t, err)
	assert.Equal(t, NewTimePoint(2026, time.April, 15), tp)

	_, err = ParseTimePoint("15/04/2026")
	assert.Error(t, err)
}

func TestTimePoint_Comparisons(t *testing.T) {
	a := NewTimePoint(2026, time.May, 1)
	b := NewTimePoint(2026, time.May, 2)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.BeforeOrEqual(a))
	assert.True(t, a.AfterOrEqual(a))
	assert.False(t, a.Equal(b))
}

func TestTimePoint_NormalizesClockTime(t *testing.T) {
	// Two points on the same calendar day compare equal regardless of the
	// wall clock encoded in the underlying time.
	morning := TimePoint{Time: time.Date(2026, time.June, 1, 8, 30, 0, 0, time.UTC)}
	evening := TimePoint{Time: time.Date(2026, time.June, 1, 23, 59, 0, 0, time.UTC)}

	assert.True(t, morning.Equal(evening))
	assert.Equal(t, 0, DaysBetween(morning, evening))
}
