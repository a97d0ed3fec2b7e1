package domain

import (
	"fmt"
	"time"
)

// DateLayout is the ISO-8601 calendar date layout used in snapshots.
const DateLayout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// DefaultEpoch is the calendar date of day 0.
var DefaultEpoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// Calendar maps integer simulation days onto calendar dates.
type Calendar struct {
	Epoch time.Time
}

// DefaultCalendar returns a calendar anchored at DefaultEpoch.
func DefaultCalendar() Calendar {
	return Calendar{Epoch: DefaultEpoch}
}

func (c Calendar) epoch() time.Time {
	if c.Epoch.IsZero() {
		return DefaultEpoch
	}
	y, m, d := c.Epoch.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date returns the calendar date of day.
func (c Calendar) Date(day int) time.Time {
	return c.epoch().AddDate(0, 0, day)
}

// Format renders day as YYYY-MM-DD.
func (c Calendar) Format(day int) string {
	return c.Date(day).Format(DateLayout)
}

// Day parses a YYYY-MM-DD string back into a day number.
func (c Calendar) Day(value string) (int, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", value, err)
	}
	return int((t.Unix() - c.epoch().Unix()) / secondsPerDay), nil
}
