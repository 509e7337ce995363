package workingdays

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddWorkingDays(t *testing.T) {
	cal := NewUKCalendar()

	t.Run("zero days returns the start unchanged", func(t *testing.T) {
		assert.Equal(t, day(2022, 8, 10), cal.AddWorkingDays(day(2022, 8, 10), 0))
	})

	t.Run("counts within a working week", func(t *testing.T) {
		// Wednesday + 2 working days = Friday
		assert.Equal(t, day(2022, 8, 12), cal.AddWorkingDays(day(2022, 8, 10), 2))
	})

	t.Run("skips weekends", func(t *testing.T) {
		// Friday 2022-08-26 + 2 working days = Tuesday the 30th
		assert.Equal(t, day(2022, 8, 30), cal.AddWorkingDays(day(2022, 8, 26), 2))
	})

	t.Run("weekend starts count from the following Monday", func(t *testing.T) {
		// Saturday + 1 working day = Monday
		assert.Equal(t, day(2022, 8, 29), cal.AddWorkingDays(day(2022, 8, 27), 1))
	})

	t.Run("truncates the start instant to a date", func(t *testing.T) {
		start := time.Date(2022, 8, 10, 17, 45, 0, 0, time.UTC)
		assert.Equal(t, day(2022, 8, 11), cal.AddWorkingDays(start, 1))
	})
}

func TestAddWorkingDaysBankHolidays(t *testing.T) {
	// the late August bank holiday, Monday 2022-08-29
	cal := NewUKCalendar(day(2022, 8, 29))

	// Friday 2022-08-26 + 2 working days: skip Sat, Sun, and the Monday
	// holiday, landing on Wednesday the 31st
	assert.Equal(t, day(2022, 8, 31), cal.AddWorkingDays(day(2022, 8, 26), 2))
}
