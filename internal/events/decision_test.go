package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"placements/internal/booking/models"
	id "placements/pkg/domain"
)

func TestShouldEmit(t *testing.T) {
	online := models.OnlineCaseRecord(&models.OnlineApplication{
		ID:          id.ApplicationID(uuid.New()),
		CRN:         "X320741",
		EventNumber: "2",
		SubmittedAt: time.Now(),
	})
	offlineTracked := models.OfflineCaseRecord(&models.OfflineApplication{
		ID:          id.ApplicationID(uuid.New()),
		CRN:         "X320741",
		EventNumber: "3",
	})
	offlineUntracked := models.OfflineCaseRecord(&models.OfflineApplication{
		ID:  id.ApplicationID(uuid.New()),
		CRN: "X320741",
	})

	cases := []struct {
		name     string
		record   models.CaseRecord
		event    Type
		suppress bool
		want     bool
	}{
		{"no record never emits", models.NoCaseRecord(), TypeBookingMade, false, false},
		{"online record emits", online, TypeBookingMade, false, true},
		{"offline with event number emits", offlineTracked, TypePersonArrived, false, true},
		{"offline without event number never emits", offlineUntracked, TypeBookingMade, false, false},
		{"suppression drops arrivals", online, TypePersonArrived, true, false},
		{"suppression drops departures", online, TypePersonDeparted, true, false},
		{"suppression spares booking made", online, TypeBookingMade, true, true},
		{"suppression spares cancellations", online, TypeBookingCancelled, true, true},
		{"suppression spares non-arrivals", online, TypePersonNotArrived, true, true},
		{"suppression spares booking changed", online, TypeBookingChanged, true, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ShouldEmit(tc.record, tc.event, tc.suppress))
		})
	}
}
