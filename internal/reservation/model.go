package reservation

import (
	"time"

	"github.com/nekogravitycat/reservation-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(apperror.KindNotFound, "reservation not found")
	ErrResourceNotFound = apperror.New(apperror.KindNotFound, "resource not found")
	ErrInvalidTimeRange = apperror.New(apperror.KindInvalidTime, "start time must be before end time")
	ErrStartTimePast    = apperror.New(apperror.KindInvalidTime, "start time must be in the future")
	ErrInvalidDateRange = apperror.New(apperror.KindInvalidTime, "start date must not be after end date")
	ErrConflict         = apperror.New(apperror.KindConflict, "time slot already reserved")
	ErrInvalidStatus    = apperror.New(apperror.KindInvalidInput, "invalid reservation status")
	ErrInvalidDuration  = apperror.New(apperror.KindInvalidInput, "duration must be between 30 and 480 minutes")
	ErrInvalidInput     = apperror.New(apperror.KindInvalidInput, "customer name and email are required")
)

const (
	MinDuration = 30 * time.Minute
	MaxDuration = 480 * time.Minute
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsActive reports whether a reservation in this status occupies its time range.
func (s Status) IsActive() bool {
	return s != StatusCancelled
}

type Reservation struct {
	ID            string
	ResourceID    string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	StartTime     time.Time
	EndTime       time.Time
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Filter struct {
	ResourceID    string
	CustomerEmail string
	Status        Status
	Page          int
	PageSize      int
}
