// Package workingdays computes working-day offsets for turnaround periods.
package workingdays

import (
	"time"

	id "placements/pkg/domain"
)

// Calculator advances a date by a number of working days.
type Calculator interface {
	// AddWorkingDays returns the date reached by counting the given number
	// of working days forward from (and excluding) the start date. Zero
	// days returns the start date unchanged.
	AddWorkingDays(start time.Time, days int) time.Time
}

// UKCalendar skips Saturdays, Sundays and a configured set of bank holidays.
type UKCalendar struct {
	holidays map[time.Time]struct{}
}

// NewUKCalendar builds a calculator with the given bank holidays. Holiday
// values are truncated to calendar days.
func NewUKCalendar(holidays ...time.Time) *UKCalendar {
	set := make(map[time.Time]struct{}, len(holidays))
	for _, h := range holidays {
		set[id.TruncateToDate(h)] = struct{}{}
	}
	return &UKCalendar{holidays: set}
}

func (c *UKCalendar) AddWorkingDays(start time.Time, days int) time.Time {
	date := id.TruncateToDate(start)
	for days > 0 {
		date = date.AddDate(0, 0, 1)
		if c.isWorkingDay(date) {
			days--
		}
	}
	return date
}

func (c *UKCalendar) isWorkingDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := c.holidays[date]
	return !holiday
}
