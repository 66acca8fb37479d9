package reservation

import (
	"time"

	"github.com/nekogravitycat/reservation-backend/internal/scheduling"
)

// Conflicts returns the active reservations in candidates that overlap
// [start, end). The reservation with excludeID is never reported.
func Conflicts(candidates []*Reservation, start, end time.Time, excludeID string) []*Reservation {
	var out []*Reservation
	for _, r := range candidates {
		if !r.Status.IsActive() {
			continue
		}
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		if scheduling.Overlaps(start, end, r.StartTime, r.EndTime) {
			out = append(out, r)
		}
	}
	return out
}

// busyIntervals converts the active reservations to busy intervals for slot marking.
func busyIntervals(rs []*Reservation) []scheduling.Interval {
	busy := make([]scheduling.Interval, 0, len(rs))
	for _, r := range rs {
		if !r.Status.IsActive() {
			continue
		}
		busy = append(busy, scheduling.Interval{Start: r.StartTime, End: r.EndTime})
	}
	return busy
}
