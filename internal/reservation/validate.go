package reservation

import "time"

// ValidateTime checks that [start, end) is a well-formed future interval.
// now is compared in start's location.
func ValidateTime(start, end, now time.Time) error {
	if !start.Before(end) {
		return ErrInvalidTimeRange
	}
	if !start.After(now.In(start.Location())) {
		return ErrStartTimePast
	}
	return nil
}
