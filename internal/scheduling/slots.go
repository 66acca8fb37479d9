package scheduling

import (
	"sort"
	"time"
)

// SlotLength is the fixed slot granularity.
const SlotLength = 30 * time.Minute

var slotMinutes = [2]int{0, 30}

// TimeSlot is a 30 minute candidate booking window.
type TimeSlot struct {
	Start     time.Time
	End       time.Time
	Hour      int
	Minute    int
	Available bool
}

// AvailabilityDay is one resource's slots for one calendar date.
type AvailabilityDay struct {
	Date       time.Time
	ResourceID string
	Slots      []TimeSlot
}

// DayStart truncates t to midnight in loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// GenerateSlots enumerates the slots of date (midnight in the business
// location) for the given working hours. Slots outside the business-hours clamp
// are dropped and a slot is unavailable when it overlaps any busy interval.
// Slots are returned in ascending order.
func GenerateSlots(date time.Time, workingHours []int, bh BusinessHours, busy []Interval) []TimeSlot {
	hours := uniqueSorted(workingHours)

	slots := make([]TimeSlot, 0, len(hours)*len(slotMinutes))
	for _, h := range hours {
		for _, m := range slotMinutes {
			if !bh.admits(h, m) {
				continue
			}
			start := time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location())
			slot := Interval{Start: start, End: start.Add(SlotLength)}
			slots = append(slots, TimeSlot{
				Start:     slot.Start,
				End:       slot.End,
				Hour:      h,
				Minute:    m,
				Available: !slot.OverlapsAny(busy),
			})
		}
	}
	return slots
}

func uniqueSorted(hours []int) []int {
	out := append([]int(nil), hours...)
	sort.Ints(out)
	n := 0
	for i, h := range out {
		if i > 0 && h == out[n-1] {
			continue
		}
		out[n] = h
		n++
	}
	return out[:n]
}
