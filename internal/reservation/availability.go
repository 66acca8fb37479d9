package reservation

import (
	"context"
	"time"

	"github.com/nekogravitycat/reservation-backend/internal/resource"
	"github.com/nekogravitycat/reservation-backend/internal/scheduling"
)

// resourcePageSize is the page size used when scanning the whole directory.
const resourcePageSize = 100

func (s *service) AvailabilityForDate(ctx context.Context, resourceID string, date time.Time) (*scheduling.AvailabilityDay, error) {
	res, err := s.lookupResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	day, err := s.dayFor(ctx, res, scheduling.DayStart(date, s.loc))
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (s *service) AvailabilityRange(ctx context.Context, resourceID string, startDate, endDate time.Time) ([]scheduling.AvailabilityDay, error) {
	first := scheduling.DayStart(startDate, s.loc)
	last := scheduling.DayStart(endDate, s.loc)
	if first.After(last) {
		return nil, ErrInvalidDateRange
	}

	res, err := s.lookupResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	var days []scheduling.AvailabilityDay
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		day, err := s.dayFor(ctx, res, d)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

// dayFor builds the slots of one day. day must be midnight in the business location.
func (s *service) dayFor(ctx context.Context, res *resource.Resource, day time.Time) (scheduling.AvailabilityDay, error) {
	bh := s.hours.BusinessHours()
	hours := res.AvailabilitySchedule.WorkingHours(day, bh)

	reservations, err := s.repo.ListByResourceAndDate(ctx, res.ID, day)
	if err != nil {
		return scheduling.AvailabilityDay{}, err
	}

	return scheduling.AvailabilityDay{
		Date:       day,
		ResourceID: res.ID,
		Slots:      scheduling.GenerateSlots(day, hours, bh, busyIntervals(reservations)),
	}, nil
}

func (s *service) AvailableResources(ctx context.Context, at time.Time, duration time.Duration) ([]*resource.Resource, error) {
	if duration < MinDuration || duration > MaxDuration {
		return nil, ErrInvalidDuration
	}
	end := at.Add(duration)

	var available []*resource.Resource
	for page := 1; ; page++ {
		batch, total, err := s.resources.List(ctx, resource.Filter{Page: page, PageSize: resourcePageSize})
		if err != nil {
			return nil, err
		}
		for _, res := range batch {
			ok, err := s.IsAvailable(ctx, res.ID, at, end)
			if err != nil {
				return nil, err
			}
			if ok {
				available = append(available, res)
			}
		}
		if len(batch) == 0 || page*resourcePageSize >= total {
			break
		}
	}
	return available, nil
}
