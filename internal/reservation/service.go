package reservation

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/reservation-backend/internal/event"
	"github.com/nekogravitycat/reservation-backend/internal/resource"
	"github.com/nekogravitycat/reservation-backend/internal/scheduling"
)

type CreateRequest struct {
	ResourceID    string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	StartTime     time.Time
	EndTime       time.Time
	Status        Status // empty means pending
}

type UpdateRequest struct {
	ResourceID    *string
	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string
	StartTime     *time.Time
	EndTime       *time.Time
	Status        *Status
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Reservation, error)
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Reservation, error)
	Delete(ctx context.Context, id string) error

	// ReserveIfAvailable checks for conflicts and inserts r under the
	// resource lock, so two overlapping requests can never both succeed.
	ReserveIfAvailable(ctx context.Context, r *Reservation) error

	FindConflicts(ctx context.Context, resourceID string, start, end time.Time, excludeID string) ([]*Reservation, error)
	AssertAvailable(ctx context.Context, resourceID string, start, end time.Time, excludeID string) error
	IsAvailable(ctx context.Context, resourceID string, start, end time.Time) (bool, error)
	CheckAvailability(ctx context.Context, resourceID string, start, end time.Time) (bool, error)

	AvailabilityForDate(ctx context.Context, resourceID string, date time.Time) (*scheduling.AvailabilityDay, error)
	AvailabilityRange(ctx context.Context, resourceID string, startDate, endDate time.Time) ([]scheduling.AvailabilityDay, error)
	AvailableResources(ctx context.Context, at time.Time, duration time.Duration) ([]*resource.Resource, error)
}

// ResourceLookup is the read-only view of the resource directory used here.
type ResourceLookup interface {
	GetByID(ctx context.Context, id string) (*resource.Resource, error)
	List(ctx context.Context, filter resource.Filter) ([]*resource.Resource, int, error)
}

// HoursProvider supplies the current global business hours.
type HoursProvider interface {
	BusinessHours() scheduling.BusinessHours
}

type service struct {
	repo      Repository
	resources ResourceLookup
	hours     HoursProvider
	loc       *time.Location
	publisher event.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

type Option func(*service)

// WithClock overrides the clock used for the start-in-the-past check.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func NewService(
	repo Repository,
	resources ResourceLookup,
	hours HoursProvider,
	loc *time.Location,
	publisher event.Publisher,
	logger *zap.Logger,
	opts ...Option,
) Service {
	if loc == nil {
		loc = time.UTC
	}
	if publisher == nil {
		publisher = event.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &service{
		repo:      repo,
		resources: resources,
		hours:     hours,
		loc:       loc,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) lookupResource(ctx context.Context, id string) (*resource.Resource, error) {
	res, err := s.resources.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return res, nil
}

func validateCustomer(name, email string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return ErrInvalidInput
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Reservation, error) {
	if _, err := s.lookupResource(ctx, req.ResourceID); err != nil {
		return nil, err
	}
	if err := ValidateTime(req.StartTime, req.EndTime, s.now()); err != nil {
		return nil, err
	}
	if err := validateCustomer(req.CustomerName, req.CustomerEmail); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	r := &Reservation{
		ResourceID:    req.ResourceID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Status:        status,
	}
	if err := s.ReserveIfAvailable(ctx, r); err != nil {
		return nil, err
	}

	s.publish(ctx, event.TypeReservationCreated, r)
	return r, nil
}

func (s *service) ReserveIfAvailable(ctx context.Context, r *Reservation) error {
	return s.repo.WithResourceLock(ctx, r.ResourceID, func(tx Repository) error {
		if r.Status.IsActive() {
			if err := assertAvailable(ctx, tx, r.ResourceID, r.StartTime, r.EndTime, ""); err != nil {
				return err
			}
		}
		return tx.Insert(ctx, r)
	})
}

func (s *service) GetByID(ctx context.Context, id string) (*Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Reservation, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *current

	if req.ResourceID != nil && *req.ResourceID != current.ResourceID {
		if _, err := s.lookupResource(ctx, *req.ResourceID); err != nil {
			return nil, err
		}
		next.ResourceID = *req.ResourceID
	}
	if req.CustomerName != nil {
		next.CustomerName = strings.TrimSpace(*req.CustomerName)
	}
	if req.CustomerEmail != nil {
		next.CustomerEmail = strings.TrimSpace(*req.CustomerEmail)
	}
	if req.CustomerPhone != nil {
		next.CustomerPhone = strings.TrimSpace(*req.CustomerPhone)
	}
	if err := validateCustomer(next.CustomerName, next.CustomerEmail); err != nil {
		return nil, err
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		next.Status = *req.Status
	}

	timeChanged := req.StartTime != nil || req.EndTime != nil
	if req.StartTime != nil {
		next.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		next.EndTime = *req.EndTime
	}
	if timeChanged {
		if err := ValidateTime(next.StartTime, next.EndTime, s.now()); err != nil {
			return nil, err
		}
	}

	// Moving an active reservation or reactivating a cancelled one claims a
	// range that was never checked, so both need the conflict check too.
	moved := next.ResourceID != current.ResourceID
	reactivated := !current.Status.IsActive() && next.Status.IsActive()
	needsCheck := timeChanged || (next.Status.IsActive() && (moved || reactivated))

	err = s.repo.WithResourceLock(ctx, next.ResourceID, func(tx Repository) error {
		if needsCheck {
			if err := assertAvailable(ctx, tx, next.ResourceID, next.StartTime, next.EndTime, next.ID); err != nil {
				return err
			}
		}
		return tx.UpdateFields(ctx, &next)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.TypeReservationUpdated, &next)
	return &next, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, event.TypeReservationDeleted, r)
	return nil
}

func findConflicts(ctx context.Context, repo Repository, resourceID string, start, end time.Time, excludeID string) ([]*Reservation, error) {
	candidates, err := repo.ListActiveOverlapping(ctx, resourceID, start, end)
	if err != nil {
		return nil, err
	}
	return Conflicts(candidates, start, end, excludeID), nil
}

func assertAvailable(ctx context.Context, repo Repository, resourceID string, start, end time.Time, excludeID string) error {
	conflicts, err := findConflicts(ctx, repo, resourceID, start, end, excludeID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return ErrConflict
	}
	return nil
}

func (s *service) FindConflicts(ctx context.Context, resourceID string, start, end time.Time, excludeID string) ([]*Reservation, error) {
	return findConflicts(ctx, s.repo, resourceID, start, end, excludeID)
}

func (s *service) AssertAvailable(ctx context.Context, resourceID string, start, end time.Time, excludeID string) error {
	return assertAvailable(ctx, s.repo, resourceID, start, end, excludeID)
}

func (s *service) IsAvailable(ctx context.Context, resourceID string, start, end time.Time) (bool, error) {
	conflicts, err := s.FindConflicts(ctx, resourceID, start, end, "")
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

func (s *service) CheckAvailability(ctx context.Context, resourceID string, start, end time.Time) (bool, error) {
	if _, err := s.lookupResource(ctx, resourceID); err != nil {
		return false, err
	}
	if !start.Before(end) {
		return false, ErrInvalidTimeRange
	}
	return s.IsAvailable(ctx, resourceID, start, end)
}

func (s *service) publish(ctx context.Context, typ event.Type, r *Reservation) {
	e := event.Event{
		Type:          typ,
		ReservationID: r.ID,
		ResourceID:    r.ResourceID,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        string(r.Status),
		OccurredAt:    s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("publish reservation event failed",
			zap.String("event_type", string(typ)),
			zap.String("reservation_id", r.ID),
			zap.Error(err),
		)
	}
}
