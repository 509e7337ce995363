package events

import (
	"placements/internal/booking/models"
)

// ShouldEmit decides whether an event of the given type may be built for a
// booking's case record. It is a pure function of the record variant, the
// presence of an event-tracking number, and the suppression flag, so the
// decision is testable without any persistence in play.
//
// Rules:
//   - no case record at all: never emit (nothing to correlate downstream)
//   - offline record without an event number: never emit
//   - suppression flag set: PersonArrived and PersonDeparted are dropped,
//     all other types are unaffected
func ShouldEmit(record models.CaseRecord, eventType Type, suppressArrivals bool) bool {
	switch record.Kind() {
	case models.CaseRecordNone:
		return false
	case models.CaseRecordOffline:
		if record.Offline().EventNumber == "" {
			return false
		}
	}
	if suppressArrivals && (eventType == TypePersonArrived || eventType == TypePersonDeparted) {
		return false
	}
	return true
}
