package resource

import (
	"time"

	"github.com/nekogravitycat/reservation-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/reservation-backend/internal/scheduling"
)

var (
	ErrNotFound           = apperror.New(apperror.KindNotFound, "resource not found")
	ErrEmptyName          = apperror.New(apperror.KindInvalidInput, "name cannot be empty")
	ErrNameTooLong        = apperror.New(apperror.KindInvalidInput, "name must be at most 255 characters")
	ErrEmptyType          = apperror.New(apperror.KindInvalidInput, "type cannot be empty")
	ErrTypeTooLong        = apperror.New(apperror.KindInvalidInput, "type must be at most 50 characters")
	ErrInvalidMenuService = apperror.New(apperror.KindInvalidInput, "menu service requires a name and a non-negative price")
)

const (
	maxNameLength = 255
	maxTypeLength = 50
)

// MenuService is a priced service offered by a resource (e.g. a haircut by a stylist).
type MenuService struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// Resource represents a bookable unit (a person, a room, a piece of equipment).
type Resource struct {
	ID                   string
	Name                 string
	Type                 string
	Description          string
	AvailabilitySchedule scheduling.WeeklySchedule
	Profile              string
	Photos               []string
	Tags                 []string
	MenuServices         []MenuService
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Filter defines parameters for listing resources.
type Filter struct {
	Type     string
	Page     int
	PageSize int
}
