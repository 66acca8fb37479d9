package reservation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nekogravitycat/reservation-backend/internal/event"
	"github.com/nekogravitycat/reservation-backend/internal/pkg/apperror"
)

func ptr[T any](v T) *T { return &v }

func TestCreate(t *testing.T) {
	f := newFixture(t)

	r := f.book(t, roomID, monday(10, 0), monday(11, 0))

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, StatusPending, r.Status)
	assert.Equal(t, []event.Type{event.TypeReservationCreated}, f.publisher.types())
	assert.Equal(t, r.ID, f.publisher.events[0].ReservationID)
}

func TestCreate_Errors(t *testing.T) {
	base := CreateRequest{
		ResourceID:    roomID,
		CustomerName:  "Hana",
		CustomerEmail: "hana@example.com",
		StartTime:     monday(10, 0),
		EndTime:       monday(11, 0),
	}

	tests := []struct {
		name   string
		mutate func(*CreateRequest)
		want   error
		kind   apperror.Kind
	}{
		{"unknown resource", func(r *CreateRequest) { r.ResourceID = missingID }, ErrResourceNotFound, apperror.KindNotFound},
		{"inverted range", func(r *CreateRequest) { r.EndTime = monday(9, 0) }, ErrInvalidTimeRange, apperror.KindInvalidTime},
		{"past start", func(r *CreateRequest) { r.StartTime = now.Add(-time.Hour) }, ErrStartTimePast, apperror.KindInvalidTime},
		{"missing customer", func(r *CreateRequest) { r.CustomerName = " " }, ErrInvalidInput, apperror.KindInvalidInput},
		{"unknown status", func(r *CreateRequest) { r.Status = "archived" }, ErrInvalidStatus, apperror.KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := base
			tt.mutate(&req)

			_, err := f.svc.Create(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, apperror.IsKind(err, tt.kind))
			assert.Empty(t, f.publisher.types())
		})
	}
}

func TestCreate_Conflicts(t *testing.T) {
	f := newFixture(t)
	f.book(t, roomID, monday(10, 0), monday(11, 0))

	_, err := f.svc.Create(context.Background(), CreateRequest{
		ResourceID: roomID, CustomerName: "Ren", CustomerEmail: "ren@example.com",
		StartTime: monday(10, 30), EndTime: monday(11, 30),
	})
	assert.ErrorIs(t, err, ErrConflict)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	// Touching the end of an existing reservation is fine.
	f.book(t, roomID, monday(11, 0), monday(12, 0))
	// Other resources do not contend.
	f.book(t, stylistID, monday(10, 0), monday(11, 0))
}

func TestCreate_CancelledDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	f.repo.put(Reservation{ResourceID: roomID, StartTime: monday(10, 0), EndTime: monday(11, 0), Status: StatusCancelled})

	f.book(t, roomID, monday(10, 0), monday(11, 0))
}

func TestCreate_ConcurrentOverlapsOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	f.repo.delay = 5 * time.Millisecond

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := monday(10, 0).Add(time.Duration(i) * time.Minute)
			_, err := f.svc.Create(context.Background(), CreateRequest{
				ResourceID: roomID, CustomerName: "Hana", CustomerEmail: "hana@example.com",
				StartTime: start, EndTime: start.Add(time.Hour),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrConflict):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)

	stored, err := f.repo.ListByResource(context.Background(), roomID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestUpdate_Reschedule(t *testing.T) {
	f := newFixture(t)
	r := f.book(t, roomID, monday(10, 0), monday(11, 0))
	f.book(t, roomID, monday(12, 0), monday(13, 0))

	// Overlapping its own previous range is allowed.
	updated, err := f.svc.Update(context.Background(), r.ID, UpdateRequest{EndTime: ptr(monday(11, 30))})
	require.NoError(t, err)
	assert.Equal(t, monday(11, 30), updated.EndTime)

	_, err = f.svc.Update(context.Background(), r.ID, UpdateRequest{EndTime: ptr(monday(12, 30))})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.Update(context.Background(), r.ID, UpdateRequest{StartTime: ptr(monday(12, 0))})
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = f.svc.Update(context.Background(), r.ID, UpdateRequest{StartTime: ptr(now.Add(-time.Hour))})
	assert.ErrorIs(t, err, ErrStartTimePast)

	stored, err := f.svc.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, monday(11, 30), stored.EndTime)
}

func TestUpdate_ReactivationConflicts(t *testing.T) {
	f := newFixture(t)
	cancelled := f.repo.put(Reservation{
		ResourceID: roomID, CustomerName: "Ren", CustomerEmail: "ren@example.com",
		StartTime: monday(10, 0), EndTime: monday(11, 0), Status: StatusCancelled,
	})
	f.book(t, roomID, monday(10, 0), monday(11, 0))

	_, err := f.svc.Update(context.Background(), cancelled.ID, UpdateRequest{Status: ptr(StatusConfirmed)})
	assert.ErrorIs(t, err, ErrConflict)

	stored, err := f.svc.GetByID(context.Background(), cancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)
}

func TestUpdate_MoveToBusyResourceConflicts(t *testing.T) {
	f := newFixture(t)
	r := f.book(t, roomID, monday(10, 0), monday(11, 0))
	f.book(t, stylistID, monday(10, 30), monday(11, 0))

	_, err := f.svc.Update(context.Background(), r.ID, UpdateRequest{ResourceID: ptr(stylistID)})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.Update(context.Background(), r.ID, UpdateRequest{ResourceID: ptr(missingID)})
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestUpdate_StatusAndCustomerFields(t *testing.T) {
	f := newFixture(t)
	r := f.book(t, roomID, monday(10, 0), monday(11, 0))

	updated, err := f.svc.Update(context.Background(), r.ID, UpdateRequest{
		Status:        ptr(StatusCancelled),
		CustomerPhone: ptr(" 090-1234-5678 "),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, updated.Status)
	assert.Equal(t, "090-1234-5678", updated.CustomerPhone)

	// The freed range can be booked again.
	f.book(t, roomID, monday(10, 0), monday(11, 0))

	_, err = f.svc.Update(context.Background(), r.ID, UpdateRequest{Status: ptr(Status("archived"))})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.svc.Update(context.Background(), r.ID, UpdateRequest{CustomerEmail: ptr("")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.Update(context.Background(), missingID, UpdateRequest{Status: ptr(StatusConfirmed)})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []event.Type{
		event.TypeReservationCreated,
		event.TypeReservationUpdated,
		event.TypeReservationCreated,
	}, f.publisher.types())
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	r := f.book(t, roomID, monday(10, 0), monday(11, 0))

	require.NoError(t, f.svc.Delete(context.Background(), r.ID))
	_, err := f.svc.GetByID(context.Background(), r.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(context.Background(), r.ID), ErrNotFound)

	assert.Equal(t, []event.Type{event.TypeReservationCreated, event.TypeReservationDeleted}, f.publisher.types())
}

func TestList(t *testing.T) {
	f := newFixture(t)
	f.book(t, roomID, monday(10, 0), monday(11, 0))
	f.book(t, stylistID, monday(10, 0), monday(11, 0))

	items, total, err := f.svc.List(context.Background(), Filter{ResourceID: roomID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, roomID, items[0].ResourceID)

	_, _, err = f.svc.List(context.Background(), Filter{Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestFindConflictsAndAvailability(t *testing.T) {
	f := newFixture(t)
	r := f.book(t, roomID, monday(10, 0), monday(11, 0))

	conflicts, err := f.svc.FindConflicts(context.Background(), roomID, monday(10, 30), monday(12, 0), "")
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, r.ID, conflicts[0].ID)

	conflicts, err = f.svc.FindConflicts(context.Background(), roomID, monday(10, 30), monday(12, 0), r.ID)
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	assert.ErrorIs(t, f.svc.AssertAvailable(context.Background(), roomID, monday(9, 0), monday(10, 30), ""), ErrConflict)
	assert.NoError(t, f.svc.AssertAvailable(context.Background(), roomID, monday(9, 0), monday(10, 0), ""))

	ok, err := f.svc.IsAvailable(context.Background(), roomID, monday(10, 59), monday(11, 30))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.svc.CheckAvailability(context.Background(), roomID, monday(11, 0), monday(11, 30))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.svc.CheckAvailability(context.Background(), missingID, monday(11, 0), monday(11, 30))
	assert.ErrorIs(t, err, ErrResourceNotFound)

	_, err = f.svc.CheckAvailability(context.Background(), roomID, monday(11, 30), monday(11, 0))
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestPublishFailureIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f := newFixture(t)
	f.publisher.err = errors.New("broker down")
	svc := NewService(f.repo, f.resources, f.hours, time.UTC, f.publisher, zap.New(core), WithClock(func() time.Time { return now }))

	_, err := svc.Create(context.Background(), CreateRequest{
		ResourceID: roomID, CustomerName: "Hana", CustomerEmail: "hana@example.com",
		StartTime: monday(10, 0), EndTime: monday(11, 0),
	})
	require.NoError(t, err)

	entries := logs.FilterMessage("publish reservation event failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "reservation.created", entries[0].ContextMap()["event_type"])
}

func TestStoreErrorsPropagate(t *testing.T) {
	f := newFixture(t, func(f *fixture) { f.resources.err = errStoreDown })

	_, err := f.svc.Create(context.Background(), CreateRequest{ResourceID: roomID})
	assert.ErrorIs(t, err, errStoreDown)
	_, ok := apperror.KindOf(err)
	assert.False(t, ok)
}
