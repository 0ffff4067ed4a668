package core

// =============================================================================
// PERIOD - Inclusive date range (mission start/end)
// =============================================================================

// Period is an inclusive [Start, End] date range. Mission durations, and the
// costs derived from them, are always computed over a period.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Contains returns true if the time point is within the period [Start, End].
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// DurationDays returns the inclusive day count of the period.
// A one-day period (Start == End) has duration 1. An inverted period yields
// a non-positive count; callers that require a valid range use Validate.
func (p Period) DurationDays() int {
	return DaysBetween(p.Start, p.End) + 1
}

// Validate returns ErrInvalidPeriod when End is before Start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return ErrInvalidPeriod
	}
	return nil
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	var days []TimePoint
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
