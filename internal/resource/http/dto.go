package http

import (
	"time"

	"github.com/nekogravitycat/reservation-backend/internal/pkg/request"
	"github.com/nekogravitycat/reservation-backend/internal/resource"
)

// ListResourcesRequest defines query parameters for listing resources.
type ListResourcesRequest struct {
	request.ListParams
	Type string `form:"type" binding:"omitempty,max=50"`
}

type MenuServiceBody struct {
	Name  string `json:"name" binding:"required"`
	Price int    `json:"price" binding:"min=0"`
}

type ResourceResponse struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	Type                 string            `json:"type"`
	Description          string            `json:"description"`
	AvailabilitySchedule map[string][]int  `json:"availability_schedule"`
	Profile              string            `json:"profile"`
	Photos               []string          `json:"photos"`
	Tags                 []string          `json:"tags"`
	MenuServices         []MenuServiceBody `json:"menu_services"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

func NewResponse(r *resource.Resource) ResourceResponse {
	menu := make([]MenuServiceBody, len(r.MenuServices))
	for i, m := range r.MenuServices {
		menu[i] = MenuServiceBody{Name: m.Name, Price: m.Price}
	}
	return ResourceResponse{
		ID:                   r.ID,
		Name:                 r.Name,
		Type:                 r.Type,
		Description:          r.Description,
		AvailabilitySchedule: r.AvailabilitySchedule.Raw(),
		Profile:              r.Profile,
		Photos:               emptyIfNil(r.Photos),
		Tags:                 emptyIfNil(r.Tags),
		MenuServices:         menu,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type CreateRequest struct {
	Name                 string            `json:"name" binding:"required,max=255"`
	Type                 string            `json:"type" binding:"required,max=50"`
	Description          string            `json:"description"`
	AvailabilitySchedule map[string][]int  `json:"availability_schedule"`
	Profile              string            `json:"profile"`
	Photos               []string          `json:"photos" binding:"omitempty,dive,url"`
	Tags                 []string          `json:"tags"`
	MenuServices         []MenuServiceBody `json:"menu_services" binding:"omitempty,dive"`
}

type UpdateRequest struct {
	Name                 *string           `json:"name" binding:"omitempty,max=255"`
	Type                 *string           `json:"type" binding:"omitempty,max=50"`
	Description          *string           `json:"description"`
	AvailabilitySchedule map[string][]int  `json:"availability_schedule"`
	Profile              *string           `json:"profile"`
	Photos               []string          `json:"photos" binding:"omitempty,dive,url"`
	Tags                 []string          `json:"tags"`
	MenuServices         []MenuServiceBody `json:"menu_services" binding:"omitempty,dive"`
}

func toMenuServices(body []MenuServiceBody) []resource.MenuService {
	if body == nil {
		return nil
	}
	out := make([]resource.MenuService, len(body))
	for i, m := range body {
		out[i] = resource.MenuService{Name: m.Name, Price: m.Price}
	}
	return out
}
