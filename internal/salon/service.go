package salon

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/nekogravitycat/reservation-backend/internal/scheduling"
)

type UpdateRequest struct {
	Name               string
	Description        string
	BusinessHoursStart int
	BusinessHoursEnd   int
	InteriorImageURL   string
}

type Service interface {
	// Load reads the persisted settings once at startup. Without a stored row
	// the defaults passed to NewService stay in effect.
	Load(ctx context.Context) error
	Get(ctx context.Context) (*Info, error)
	Update(ctx context.Context, req UpdateRequest) (*Info, error)

	// BusinessHours returns the opening window currently in effect.
	BusinessHours() scheduling.BusinessHours
}

type service struct {
	repo   Repository
	logger *zap.Logger

	mu   sync.RWMutex
	info Info
}

func NewService(repo Repository, defaults Info, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, logger: logger, info: defaults}
}

func (s *service) Load(ctx context.Context) error {
	stored, err := s.repo.Get(ctx)
	if errors.Is(err, errNoSettings) {
		s.logger.Info("no stored salon settings, using defaults",
			zap.Int("business_hours_start", s.BusinessHours().Start),
			zap.Int("business_hours_end", s.BusinessHours().End),
		)
		return nil
	}
	if err != nil {
		return err
	}
	if err := stored.BusinessHours().Validate(); err != nil {
		s.logger.Warn("stored salon business hours are invalid, using defaults", zap.Error(err))
		return nil
	}

	s.mu.Lock()
	s.info = *stored
	s.mu.Unlock()
	return nil
}

func (s *service) Get(context.Context) (*Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	info := s.info
	return &info, nil
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (*Info, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	info := Info{
		Name:               strings.TrimSpace(req.Name),
		Description:        req.Description,
		BusinessHoursStart: req.BusinessHoursStart,
		BusinessHoursEnd:   req.BusinessHoursEnd,
		InteriorImageURL:   req.InteriorImageURL,
	}
	if err := info.BusinessHours().Validate(); err != nil {
		return nil, ErrInvalidBusinessHours
	}

	if err := s.repo.Upsert(ctx, &info); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.info = info
	s.mu.Unlock()

	s.logger.Info("salon settings updated",
		zap.Int("business_hours_start", info.BusinessHoursStart),
		zap.Int("business_hours_end", info.BusinessHoursEnd),
	)
	out := info
	return &out, nil
}

func (s *service) BusinessHours() scheduling.BusinessHours {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info.BusinessHours()
}
