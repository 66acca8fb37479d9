package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/reservation-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/reservation-backend/internal/pkg/request"
	"github.com/nekogravitycat/reservation-backend/internal/pkg/response"
	"github.com/nekogravitycat/reservation-backend/internal/reservation"
	resHttp "github.com/nekogravitycat/reservation-backend/internal/resource/http"
)

var errMissingDate = apperror.New(apperror.KindInvalidInput, "either date or both start_date and end_date are required")

type Handler struct {
	service reservation.Service
	loc     *time.Location
	maxDays int
}

// NewHandler builds the reservation handler. Dates in query strings are read
// in loc and multi-day availability requests are capped at maxDays.
func NewHandler(service reservation.Service, loc *time.Location, maxDays int) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{service: service, loc: loc, maxDays: maxDays}
}

func (h *Handler) List(c *gin.Context) {
	var req ListReservationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	req.Normalize()

	items, total, err := h.service.List(c.Request.Context(), reservation.Filter{
		ResourceID:    req.ResourceID,
		CustomerEmail: req.CustomerEmail,
		Status:        reservation.Status(req.Status),
		Page:          req.Page,
		PageSize:      req.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]ReservationResponse, len(items))
	for i, r := range items {
		out[i] = NewReservationResponse(r)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(out, req.Page, req.PageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	r, err := h.service.Create(c.Request.Context(), reservation.CreateRequest{
		ResourceID:    body.ResourceID,
		CustomerName:  body.CustomerName,
		CustomerEmail: body.CustomerEmail,
		CustomerPhone: body.CustomerPhone,
		StartTime:     body.StartTime,
		EndTime:       body.EndTime,
		Status:        reservation.Status(body.Status),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewReservationResponse(r))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateReservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	r, err := h.service.Update(c.Request.Context(), uri.ID, body.toDomain())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewReservationResponse(r))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CheckAvailability answers POST /reservations/check-availability.
func (h *Handler) CheckAvailability(c *gin.Context) {
	var q CheckAvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	h.respondAvailable(c, q.ResourceID, q.TimeRangeQuery)
}

// CheckResourceAvailability answers GET /resources/:id/availability/check.
func (h *Handler) CheckResourceAvailability(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var q TimeRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	h.respondAvailable(c, uri.ID, q)
}

func (h *Handler) respondAvailable(c *gin.Context, resourceID string, q TimeRangeQuery) {
	ok, err := h.service.CheckAvailability(c.Request.Context(), resourceID, q.StartTime, q.EndTime)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, AvailabilityResponse{Available: ok})
}

// Availability returns one day of slots for ?date=, or every day of an
// inclusive ?start_date=&end_date= range.
func (h *Handler) Availability(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var q AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	ctx := c.Request.Context()

	if q.Date != "" {
		date, err := time.ParseInLocation(dateLayout, q.Date, h.loc)
		if err != nil {
			response.BadRequest(c, "invalid date", err)
			return
		}
		day, err := h.service.AvailabilityForDate(ctx, uri.ID, date)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, NewAvailabilityDayResponse(*day))
		return
	}

	if q.StartDate == "" || q.EndDate == "" {
		response.Error(c, errMissingDate)
		return
	}
	start, err := time.ParseInLocation(dateLayout, q.StartDate, h.loc)
	if err != nil {
		response.BadRequest(c, "invalid start_date", err)
		return
	}
	end, err := time.ParseInLocation(dateLayout, q.EndDate, h.loc)
	if err != nil {
		response.BadRequest(c, "invalid end_date", err)
		return
	}
	if h.maxDays > 0 && !end.Before(start.AddDate(0, 0, h.maxDays)) {
		response.Error(c, apperror.New(apperror.KindInvalidInput, fmt.Sprintf("date range must not exceed %d days", h.maxDays)))
		return
	}

	days, err := h.service.AvailabilityRange(ctx, uri.ID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]AvailabilityDayResponse, len(days))
	for i, d := range days {
		out[i] = NewAvailabilityDayResponse(d)
	}
	c.JSON(http.StatusOK, out)
}

// AvailableResources lists the resources free for [start_time, start_time+duration).
func (h *Handler) AvailableResources(c *gin.Context) {
	var q AvailableResourcesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	if q.DurationMinutes == 0 {
		q.DurationMinutes = int(reservation.MinDuration / time.Minute)
	}

	resources, err := h.service.AvailableResources(c.Request.Context(), q.StartTime, time.Duration(q.DurationMinutes)*time.Minute)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]resHttp.ResourceResponse, len(resources))
	for i, r := range resources {
		out[i] = resHttp.NewResponse(r)
	}
	c.JSON(http.StatusOK, out)
}
