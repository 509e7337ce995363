package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewDateRange(t *testing.T) {
	t.Run("truncates instants to calendar days", func(t *testing.T) {
		r, err := NewDateRange(
			time.Date(2022, 8, 10, 15, 30, 0, 0, time.UTC),
			time.Date(2022, 8, 26, 9, 0, 0, 0, time.UTC),
		)
		require.NoError(t, err)
		assert.Equal(t, day(2022, 8, 10), r.Start)
		assert.Equal(t, day(2022, 8, 26), r.End)
	})

	t.Run("rejects end before start", func(t *testing.T) {
		_, err := NewDateRange(day(2022, 8, 26), day(2022, 8, 10))
		require.Error(t, err)
	})

	t.Run("start equal to end is an empty range", func(t *testing.T) {
		r, err := NewDateRange(day(2022, 8, 10), day(2022, 8, 10))
		require.NoError(t, err)
		assert.True(t, r.IsEmpty())
	})
}

func TestDateRangeOverlaps(t *testing.T) {
	base := DateRange{Start: day(2022, 8, 10), End: day(2022, 8, 26)}

	cases := []struct {
		name     string
		other    DateRange
		overlaps bool
	}{
		{"identical", DateRange{day(2022, 8, 10), day(2022, 8, 26)}, true},
		{"contained", DateRange{day(2022, 8, 12), day(2022, 8, 20)}, true},
		{"straddles start", DateRange{day(2022, 8, 1), day(2022, 8, 11)}, true},
		{"straddles end", DateRange{day(2022, 8, 25), day(2022, 9, 5)}, true},
		{"back to back before", DateRange{day(2022, 8, 1), day(2022, 8, 10)}, false},
		{"back to back after", DateRange{day(2022, 8, 26), day(2022, 9, 5)}, false},
		{"disjoint", DateRange{day(2022, 9, 1), day(2022, 9, 10)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, base.Overlaps(tc.other))
			assert.Equal(t, tc.overlaps, tc.other.Overlaps(base))
		})
	}
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{Start: day(2022, 8, 10), End: day(2022, 8, 26)}

	assert.True(t, r.Contains(day(2022, 8, 10)))
	assert.True(t, r.Contains(day(2022, 8, 25)))
	assert.False(t, r.Contains(day(2022, 8, 26)), "end bound is exclusive")
	assert.False(t, r.Contains(day(2022, 8, 9)))
}

func TestDateRangeString(t *testing.T) {
	r := DateRange{Start: day(2022, 8, 10), End: day(2022, 8, 26)}
	assert.Equal(t, "2022-08-10 to 2022-08-26", r.String())
}
