package http

import (
	"time"

	"github.com/nekogravitycat/reservation-backend/internal/pkg/request"
	"github.com/nekogravitycat/reservation-backend/internal/reservation"
	"github.com/nekogravitycat/reservation-backend/internal/scheduling"
)

const dateLayout = "2006-01-02"

// ListReservationsRequest defines query parameters for listing reservations.
type ListReservationsRequest struct {
	request.ListParams
	ResourceID    string `form:"resource_id" binding:"omitempty,uuid"`
	CustomerEmail string `form:"customer_email" binding:"omitempty,email"`
	Status        string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
}

type ReservationResponse struct {
	ID            string    `json:"id"`
	ResourceID    string    `json:"resource_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:            r.ID,
		ResourceID:    r.ResourceID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type CreateReservationRequest struct {
	ResourceID    string    `json:"resource_id" binding:"required,uuid"`
	CustomerName  string    `json:"customer_name" binding:"required,max=255"`
	CustomerEmail string    `json:"customer_email" binding:"required,email"`
	CustomerPhone string    `json:"customer_phone" binding:"omitempty,max=50"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
	Status        string    `json:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
}

type UpdateReservationRequest struct {
	ResourceID    *string    `json:"resource_id" binding:"omitempty,uuid"`
	CustomerName  *string    `json:"customer_name" binding:"omitempty,max=255"`
	CustomerEmail *string    `json:"customer_email" binding:"omitempty,email"`
	CustomerPhone *string    `json:"customer_phone" binding:"omitempty,max=50"`
	StartTime     *time.Time `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	Status        *string    `json:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
}

func (r UpdateReservationRequest) toDomain() reservation.UpdateRequest {
	req := reservation.UpdateRequest{
		ResourceID:    r.ResourceID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
	}
	if r.Status != nil {
		st := reservation.Status(*r.Status)
		req.Status = &st
	}
	return req
}

// TimeRangeQuery is an RFC 3339 [start_time, end_time) pair from the query string.
type TimeRangeQuery struct {
	StartTime time.Time `form:"start_time" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	EndTime   time.Time `form:"end_time" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

type CheckAvailabilityQuery struct {
	ResourceID string `form:"resource_id" binding:"required,uuid"`
	TimeRangeQuery
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}

// AvailabilityQuery selects either one date or an inclusive date range.
type AvailabilityQuery struct {
	Date      string `form:"date" binding:"omitempty,datetime=2006-01-02"`
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

type AvailableResourcesQuery struct {
	StartTime       time.Time `form:"start_time" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	DurationMinutes int       `form:"duration_minutes" binding:"omitempty,min=30,max=480"`
}

type TimeSlotResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Hour      int       `json:"hour"`
	Minute    int       `json:"minute"`
	Available bool      `json:"available"`
}

type AvailabilityDayResponse struct {
	Date       string             `json:"date"`
	ResourceID string             `json:"resource_id"`
	Slots      []TimeSlotResponse `json:"slots"`
}

func NewAvailabilityDayResponse(d scheduling.AvailabilityDay) AvailabilityDayResponse {
	slots := make([]TimeSlotResponse, len(d.Slots))
	for i, s := range d.Slots {
		slots[i] = TimeSlotResponse{
			StartTime: s.Start,
			EndTime:   s.End,
			Hour:      s.Hour,
			Minute:    s.Minute,
			Available: s.Available,
		}
	}
	return AvailabilityDayResponse{
		Date:       d.Date.Format(dateLayout),
		ResourceID: d.ResourceID,
		Slots:      slots,
	}
}
