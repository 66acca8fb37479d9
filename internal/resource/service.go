package resource

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/nekogravitycat/reservation-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/reservation-backend/internal/scheduling"
)

type CreateRequest struct {
	Name                 string
	Type                 string
	Description          string
	AvailabilitySchedule map[string][]int
	Profile              string
	Photos               []string
	Tags                 []string
	MenuServices         []MenuService
}

type UpdateRequest struct {
	Name                 *string
	Type                 *string
	Description          *string
	AvailabilitySchedule map[string][]int // nil leaves the schedule unchanged
	Profile              *string
	Photos               []string
	Tags                 []string
	MenuServices         []MenuService
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Resource, error)
	GetByID(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func validateType(typ string) error {
	if strings.TrimSpace(typ) == "" {
		return ErrEmptyType
	}
	if utf8.RuneCountInString(typ) > maxTypeLength {
		return ErrTypeTooLong
	}
	return nil
}

func validateMenu(services []MenuService) error {
	for _, m := range services {
		if strings.TrimSpace(m.Name) == "" || m.Price < 0 {
			return ErrInvalidMenuService
		}
	}
	return nil
}

func parseSchedule(raw map[string][]int) (scheduling.WeeklySchedule, error) {
	s, err := scheduling.ParseWeeklySchedule(raw)
	if err != nil {
		return scheduling.WeeklySchedule{}, apperror.Wrap(err, apperror.KindInvalidInput, err.Error())
	}
	return s, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Resource, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if err := validateType(req.Type); err != nil {
		return nil, err
	}
	if err := validateMenu(req.MenuServices); err != nil {
		return nil, err
	}
	schedule, err := parseSchedule(req.AvailabilitySchedule)
	if err != nil {
		return nil, err
	}

	res := &Resource{
		Name:                 strings.TrimSpace(req.Name),
		Type:                 strings.TrimSpace(req.Type),
		Description:          req.Description,
		AvailabilitySchedule: schedule,
		Profile:              req.Profile,
		Photos:               req.Photos,
		Tags:                 req.Tags,
		MenuServices:         req.MenuServices,
	}
	if err := s.repo.Create(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Resource, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Resource, error) {
	res, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return nil, err
		}
		res.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		if err := validateType(*req.Type); err != nil {
			return nil, err
		}
		res.Type = strings.TrimSpace(*req.Type)
	}
	if req.Description != nil {
		res.Description = *req.Description
	}
	if req.AvailabilitySchedule != nil {
		schedule, err := parseSchedule(req.AvailabilitySchedule)
		if err != nil {
			return nil, err
		}
		res.AvailabilitySchedule = schedule
	}
	if req.Profile != nil {
		res.Profile = *req.Profile
	}
	if req.Photos != nil {
		res.Photos = req.Photos
	}
	if req.Tags != nil {
		res.Tags = req.Tags
	}
	if req.MenuServices != nil {
		if err := validateMenu(req.MenuServices); err != nil {
			return nil, err
		}
		res.MenuServices = req.MenuServices
	}

	if err := s.repo.Update(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
