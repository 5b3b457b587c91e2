package domain

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrInvalidMonth is returned for month strings that are not canonical YYYY-MM.
var ErrInvalidMonth = errors.New("invalid month")

var monthRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Month is a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a canonical "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	if !monthRegex.MatchString(s) {
		return Month{}, ErrInvalidMonth
	}
	t, err := time.Parse("2006-01", s)
	if err != nil || t.Year() == 0 {
		return Month{}, ErrInvalidMonth
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// PreviousMonth returns the calendar month before the one containing now.
func PreviousMonth(now time.Time) Month {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prev := first.AddDate(0, -1, 0)
	return Month{Year: prev.Year(), Month: prev.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Bounds returns the first day of the month (inclusive) and the first day of
// the next month (exclusive), both at midnight UTC.
func (m Month) Bounds() (start, end time.Time) {
	start = time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// CurrentOrParse parses s, or returns the month containing now when s is empty.
func CurrentOrParse(s string, now time.Time) (Month, error) {
	if s == "" {
		return Month{Year: now.Year(), Month: now.Month()}, nil
	}
	return ParseMonth(s)
}
