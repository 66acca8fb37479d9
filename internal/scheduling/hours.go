package scheduling

import (
	"errors"
	"fmt"
)

var ErrInvalidBusinessHours = errors.New("business hours must satisfy 0 <= start < end <= 24")

// BusinessHours is the global opening window [Start, End) in whole hours.
// It clamps every resource's working hours.
type BusinessHours struct {
	Start int
	End   int
}

// Validate checks 0 <= Start < End <= 24.
func (b BusinessHours) Validate() error {
	if b.Start < 0 || b.End > 24 || b.Start >= b.End {
		return fmt.Errorf("%w: got %d-%d", ErrInvalidBusinessHours, b.Start, b.End)
	}
	return nil
}

// Hours returns every hour in [Start, End).
func (b BusinessHours) Hours() []int {
	if b.End <= b.Start {
		return nil
	}
	hours := make([]int, 0, b.End-b.Start)
	for h := b.Start; h < b.End; h++ {
		hours = append(hours, h)
	}
	return hours
}

// admits reports whether a slot starting at hour:minute lies inside the clamp.
// A slot at exactly End:00 is admitted; End:30 and later hours are not.
func (b BusinessHours) admits(hour, minute int) bool {
	if hour < b.Start || hour > b.End {
		return false
	}
	if hour == b.End && minute > 0 {
		return false
	}
	return true
}
