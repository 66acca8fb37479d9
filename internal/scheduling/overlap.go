// Package scheduling holds the pure availability logic: the interval overlap
// predicate, the weekly schedule fallback chain and the 30 minute slot generator.
package scheduling

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [startA, endA) and [startB, endB) intersect.
// Intervals that only touch at an endpoint do not overlap.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && endA.After(startB)
}

// Overlaps reports whether i and o intersect.
func (i Interval) Overlaps(o Interval) bool {
	return Overlaps(i.Start, i.End, o.Start, o.End)
}

// OverlapsAny reports whether i intersects any of the busy intervals.
func (i Interval) OverlapsAny(busy []Interval) bool {
	for _, b := range busy {
		if i.Overlaps(b) {
			return true
		}
	}
	return false
}
