// Package hours converts training times into billable hours.
package hours

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"
)

// ErrInvalidRange is returned when the end time is not after the start time.
var ErrInvalidRange = errors.New("Endzeit muss nach der Startzeit liegen")

const clockLayout = "15:04"

// clockPattern requires two-digit hours and minutes; time.Parse alone
// accepts "9:30".
var clockPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

func parseClock(clock string) (time.Time, error) {
	if !clockPattern.MatchString(clock) {
		return time.Time{}, fmt.Errorf("invalid clock time %q", clock)
	}
	return time.Parse(clockLayout, clock)
}

// RoundToQuarterHours snaps a decimal hour value to the nearest 0.25,
// rounding halves up. Callers supply non-negative values.
func RoundToQuarterHours(value float64) float64 {
	return math.Floor(value*4+0.5) / 4
}

// FromTimes returns the quarter-hour rounded duration between two "HH:MM"
// clock times on the same day. Sessions crossing midnight are rejected.
func FromTimes(start, end string) (float64, error) {
	s, err := parseClock(start)
	if err != nil {
		return 0, ErrInvalidRange
	}
	e, err := parseClock(end)
	if err != nil {
		return 0, ErrInvalidRange
	}
	diff := e.Sub(s)
	if diff <= 0 {
		return 0, ErrInvalidRange
	}
	return RoundToQuarterHours(diff.Hours()), nil
}

// ClockOnReferenceDate places an "HH:MM" value on 1970-01-01 UTC, the
// reference date used for stored start and end times.
func ClockOnReferenceDate(clock string) (time.Time, error) {
	t, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(1970, time.January, 1, t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
