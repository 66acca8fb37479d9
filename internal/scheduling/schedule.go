package scheduling

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

var (
	ErrUnknownScheduleKey  = errors.New("unknown weekly schedule key")
	ErrInvalidScheduleHour = errors.New("weekly schedule hour must be between 0 and 23")
)

// Matcher identifies how a schedule rule selects days.
type Matcher int

const (
	// MatchDayName matches the lowercase English weekday name ("monday").
	MatchDayName Matcher = iota
	// MatchDayIndex matches "0".."6" where 0 is Monday.
	MatchDayIndex
	// MatchWeekdays matches Monday through Friday.
	MatchWeekdays
	// MatchSaturday matches the "saturday" day-class bucket.
	MatchSaturday
	// MatchSunday matches the "sunday" day-class bucket.
	MatchSunday
)

const keyWeekdays = "weekdays"

var dayNames = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DayIndex converts a time.Weekday to the Monday-based index used by schedules.
func DayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Rule is one link of the weekday fallback chain.
type Rule struct {
	Key     string
	Matcher Matcher
	Day     int // Monday-based index, only for MatchDayName and MatchDayIndex
	Hours   []int
}

// Matches reports whether the rule applies to the Monday-based day index.
func (r Rule) Matches(day int) bool {
	switch r.Matcher {
	case MatchDayName, MatchDayIndex:
		return r.Day == day
	case MatchWeekdays:
		return day < 5
	case MatchSaturday:
		return day == 5
	case MatchSunday:
		return day == 6
	}
	return false
}

// WeeklySchedule is a resource's weekly availability pattern: an ordered list
// of rules evaluated first-match-wins.
//
// Its JSON form is the plain key -> hours mapping, e.g.
// {"monday": [9, 10], "weekdays": [10, 11, 12], "6": [13]}.
type WeeklySchedule struct {
	rules []Rule
}

// ParseWeeklySchedule validates raw keys and hours and builds the rule chain.
func ParseWeeklySchedule(raw map[string][]int) (WeeklySchedule, error) {
	rules := make([]Rule, 0, len(raw))
	for key, hours := range raw {
		rule, err := parseRule(key)
		if err != nil {
			return WeeklySchedule{}, err
		}
		for _, h := range hours {
			if h < 0 || h > 23 {
				return WeeklySchedule{}, fmt.Errorf("%w: %q has %d", ErrInvalidScheduleHour, key, h)
			}
		}
		rule.Hours = append([]int(nil), hours...)
		rules = append(rules, rule)
	}

	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Matcher != rules[j].Matcher {
			return precedence(rules[i].Matcher) < precedence(rules[j].Matcher)
		}
		return rules[i].Day < rules[j].Day
	})
	return WeeklySchedule{rules: rules}, nil
}

func parseRule(key string) (Rule, error) {
	for i, name := range dayNames {
		if key == name {
			return Rule{Key: key, Matcher: MatchDayName, Day: i}, nil
		}
	}
	if key == keyWeekdays {
		return Rule{Key: key, Matcher: MatchWeekdays}, nil
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 0 && n <= 6 && strconv.Itoa(n) == key {
		return Rule{Key: key, Matcher: MatchDayIndex, Day: n}, nil
	}
	return Rule{}, fmt.Errorf("%w: %q", ErrUnknownScheduleKey, key)
}

// "saturday" and "sunday" are parsed as day names and therefore already win at
// the first step; the bucket matchers keep their place in the chain for completeness.
func precedence(m Matcher) int {
	switch m {
	case MatchDayName:
		return 0
	case MatchDayIndex:
		return 1
	case MatchWeekdays:
		return 2
	case MatchSaturday:
		return 3
	case MatchSunday:
		return 4
	}
	return 5
}

// Rules returns a copy of the rule chain in evaluation order.
func (s WeeklySchedule) Rules() []Rule {
	out := make([]Rule, len(s.rules))
	for i, r := range s.rules {
		r.Hours = append([]int(nil), r.Hours...)
		out[i] = r
	}
	return out
}

// IsEmpty reports whether the schedule has no rules at all.
func (s WeeklySchedule) IsEmpty() bool {
	return len(s.rules) == 0
}

// WorkingHours resolves date to the resource's working hours. The first
// matching rule wins; when nothing matches or the matched list is empty the
// full business-hours range is returned, so the result is never empty.
func (s WeeklySchedule) WorkingHours(date time.Time, bh BusinessHours) []int {
	day := DayIndex(date.Weekday())
	for _, r := range s.rules {
		if !r.Matches(day) {
			continue
		}
		if len(r.Hours) == 0 {
			break
		}
		return append([]int(nil), r.Hours...)
	}
	return bh.Hours()
}

// Raw returns the key -> hours mapping.
func (s WeeklySchedule) Raw() map[string][]int {
	raw := make(map[string][]int, len(s.rules))
	for _, r := range s.rules {
		hours := r.Hours
		if hours == nil {
			hours = []int{}
		}
		raw[r.Key] = append([]int(nil), hours...)
	}
	return raw
}

func (s WeeklySchedule) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Raw())
}

func (s *WeeklySchedule) UnmarshalJSON(data []byte) error {
	var raw map[string][]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseWeeklySchedule(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
