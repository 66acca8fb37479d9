package http

import (
	"time"

	"github.com/nekogravitycat/reservation-backend/internal/salon"
)

type InfoResponse struct {
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	BusinessHoursStart int        `json:"business_hours_start"`
	BusinessHoursEnd   int        `json:"business_hours_end"`
	InteriorImageURL   string     `json:"interior_image_url,omitempty"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

func NewInfoResponse(i *salon.Info) InfoResponse {
	resp := InfoResponse{
		Name:               i.Name,
		Description:        i.Description,
		BusinessHoursStart: i.BusinessHoursStart,
		BusinessHoursEnd:   i.BusinessHoursEnd,
		InteriorImageURL:   i.InteriorImageURL,
	}
	if !i.UpdatedAt.IsZero() {
		resp.UpdatedAt = &i.UpdatedAt
	}
	return resp
}

type UpdateInfoRequest struct {
	Name               string `json:"name" binding:"required"`
	Description        string `json:"description"`
	BusinessHoursStart *int   `json:"business_hours_start" binding:"required,min=0,max=23"`
	BusinessHoursEnd   *int   `json:"business_hours_end" binding:"required,min=1,max=24"`
	InteriorImageURL   string `json:"interior_image_url" binding:"omitempty,url"`
}
