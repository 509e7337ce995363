package domain

import (
	"fmt"
	"time"
)

// DateRange is a half-open calendar interval [Start, End). A booking that
// departs on the same day another arrives does not overlap it.
//
// Both bounds are dates, not instants: constructors and setters truncate to
// midnight UTC so comparisons are never skewed by time-of-day or zone.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a DateRange, truncating both bounds to calendar dates.
// Returns an error when end precedes start. Start == end is allowed and
// denotes an empty range (zero nights).
func NewDateRange(start, end time.Time) (DateRange, error) {
	start = TruncateToDate(start)
	end = TruncateToDate(end)
	if end.Before(start) {
		return DateRange{}, fmt.Errorf("date range end %s precedes start %s",
			end.Format(DateLayout), start.Format(DateLayout))
	}
	return DateRange{Start: start, End: end}, nil
}

// DateLayout is the wire format for calendar dates throughout the domain.
const DateLayout = "2006-01-02"

// TruncateToDate drops the time-of-day component, normalising to UTC midnight.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether two half-open ranges intersect:
// a.Start < b.End && a.End > b.Start.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && r.End.After(other.Start)
}

// Contains reports whether the date falls within [Start, End).
func (r DateRange) Contains(date time.Time) bool {
	date = TruncateToDate(date)
	return !date.Before(r.Start) && date.Before(r.End)
}

// IsEmpty reports whether the range spans zero days.
func (r DateRange) IsEmpty() bool {
	return !r.Start.Before(r.End)
}

// String renders the range for conflict messages, e.g. "2022-08-10 to 2022-08-26".
func (r DateRange) String() string {
	return fmt.Sprintf("%s to %s", r.Start.Format(DateLayout), r.End.Format(DateLayout))
}
