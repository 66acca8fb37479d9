package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nekogravitycat/reservation-backend/internal/resource"
	"github.com/nekogravitycat/reservation-backend/internal/scheduling"
)

const (
	stylistID = "11111111-1111-4111-8111-111111111111"
	roomID    = "22222222-2222-4222-8222-222222222222"
	missingID = "99999999-9999-4999-8999-999999999999"
)

// now is Sunday 2026-03-01 12:00 UTC; the fixtures book the following week.
var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func monday(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

type fixture struct {
	repo      *memRepo
	resources *memResources
	hours     *fixedHours
	publisher *recordingPublisher
	svc       Service
}

func newFixture(t *testing.T, opts ...func(*fixture)) *fixture {
	t.Helper()

	stylistSchedule, err := scheduling.ParseWeeklySchedule(map[string][]int{"monday": {9, 10}})
	require.NoError(t, err)

	f := &fixture{
		repo: newMemRepo(),
		resources: &memResources{items: []*resource.Resource{
			{ID: stylistID, Name: "Aiko", Type: "stylist", AvailabilitySchedule: stylistSchedule},
			{ID: roomID, Name: "Room A", Type: "room"},
		}},
		hours:     &fixedHours{bh: scheduling.BusinessHours{Start: 9, End: 21}},
		publisher: &recordingPublisher{},
	}
	for _, opt := range opts {
		opt(f)
	}
	f.svc = NewService(f.repo, f.resources, f.hours, time.UTC, f.publisher, zap.NewNop(), WithClock(func() time.Time { return now }))
	return f
}

func (f *fixture) book(t *testing.T, resourceID string, start, end time.Time) *Reservation {
	t.Helper()
	r, err := f.svc.Create(context.Background(), CreateRequest{
		ResourceID:    resourceID,
		CustomerName:  "Hana",
		CustomerEmail: "hana@example.com",
		StartTime:     start,
		EndTime:       end,
	})
	require.NoError(t, err)
	return r
}
