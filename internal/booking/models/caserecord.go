package models

import (
	"time"

	id "placements/pkg/domain"
)

// CaseRecordKind names the variants of the case-record link.
type CaseRecordKind string

const (
	CaseRecordNone    CaseRecordKind = "none"
	CaseRecordOnline  CaseRecordKind = "online"
	CaseRecordOffline CaseRecordKind = "offline"
)

// OnlineApplication is a case record managed inside this system.
type OnlineApplication struct {
	ID          id.ApplicationID
	CRN         string
	NomsNumber  string
	EventNumber string
	SubmittedAt time.Time
}

// OfflineApplication is a case record tracked externally. EventNumber may be
// empty, in which case there is nothing to correlate domain events with and
// none are emitted.
type OfflineApplication struct {
	ID          id.ApplicationID
	CRN         string
	EventNumber string
}

// CaseRecord is a tagged union over {none, online application, offline
// application}. Modelling the link this way, rather than as two optional
// fields, keeps the event-emission decision a total function of the variant.
type CaseRecord struct {
	kind    CaseRecordKind
	online  *OnlineApplication
	offline *OfflineApplication
}

// NoCaseRecord is the record-free link, used for fully offline bookings.
func NoCaseRecord() CaseRecord {
	return CaseRecord{kind: CaseRecordNone}
}

// OnlineCaseRecord links a booking to an online application.
func OnlineCaseRecord(app *OnlineApplication) CaseRecord {
	return CaseRecord{kind: CaseRecordOnline, online: app}
}

// OfflineCaseRecord links a booking to an offline application.
func OfflineCaseRecord(app *OfflineApplication) CaseRecord {
	return CaseRecord{kind: CaseRecordOffline, offline: app}
}

// Kind returns the variant, CaseRecordNone when the booking has no record.
func (c CaseRecord) Kind() CaseRecordKind {
	if c.kind == "" {
		return CaseRecordNone
	}
	return c.kind
}

// Online returns the online application, nil for other variants.
func (c CaseRecord) Online() *OnlineApplication { return c.online }

// Offline returns the offline application, nil for other variants.
func (c CaseRecord) Offline() *OfflineApplication { return c.offline }

// ApplicationID returns the linked application id regardless of variant, or
// the zero id when there is no record.
func (c CaseRecord) ApplicationID() id.ApplicationID {
	switch c.Kind() {
	case CaseRecordOnline:
		return c.online.ID
	case CaseRecordOffline:
		return c.offline.ID
	}
	return id.ApplicationID{}
}

// EventNumber returns the external event-tracking number, empty when absent.
func (c CaseRecord) EventNumber() string {
	switch c.Kind() {
	case CaseRecordOnline:
		return c.online.EventNumber
	case CaseRecordOffline:
		return c.offline.EventNumber
	}
	return ""
}
