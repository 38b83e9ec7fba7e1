// Package schedule provides the value types that express weekly recurring
// time: a day-of-week plus time-of-day pair and the Monday-start week
// windows used for appointment reporting.
package schedule

import (
	"fmt"
	"time"
)

// Day identifies a day of the week. Unlike time.Weekday, the ordering starts
// at Monday so that comparisons over a business week behave naturally.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// String returns the full English name of the day.
func (d Day) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// Valid reports whether the value names one of the seven days.
func (d Day) Valid() bool {
	return d >= Monday && d <= Sunday
}

// Weekday converts the day to the standard library representation.
func (d Day) Weekday() time.Weekday {
	if d == Sunday {
		return time.Sunday
	}
	return time.Weekday(d + 1)
}

// DayOfWeekday converts a time.Weekday into the Monday-first Day enum.
func DayOfWeekday(w time.Weekday) Day {
	if w == time.Sunday {
		return Sunday
	}
	return Day(w - 1)
}

// SecondsPerDay is the exclusive upper bound for a time-of-day value.
const SecondsPerDay = 24 * 60 * 60

// WeekDate represents a recurring weekly point in time: a day of the week
// together with a time of day in seconds since midnight (0..86399). The day
// is fixed at construction; the time of day may be adjusted through the
// fail-soft setters, which leave the value untouched on out-of-range input.
type WeekDate struct {
	day       Day
	timeOfDay int
}

// NewWeekDate constructs a WeekDate, rejecting invalid days and out-of-range
// times.
func NewWeekDate(day Day, timeOfDay int) (WeekDate, error) {
	if !day.Valid() {
		return WeekDate{}, fmt.Errorf("schedule: invalid day of week %d", int(day))
	}
	if timeOfDay < 0 || timeOfDay >= SecondsPerDay {
		return WeekDate{}, fmt.Errorf("schedule: time of day %d out of range", timeOfDay)
	}
	return WeekDate{day: day, timeOfDay: timeOfDay}, nil
}

// MustWeekDate is NewWeekDate for statically known values; it panics on
// invalid input and exists mainly for fixtures.
func MustWeekDate(day Day, timeOfDay int) WeekDate {
	wd, err := NewWeekDate(day, timeOfDay)
	if err != nil {
		panic(err)
	}
	return wd
}

// Day returns the day of week.
func (w WeekDate) Day() Day { return w.day }

// TimeOfDay returns the time of day in seconds since midnight.
func (w WeekDate) TimeOfDay() int { return w.timeOfDay }

// StartingHour returns the hour (0-23) the time of day falls in.
func (w WeekDate) StartingHour() int { return w.timeOfDay / 3600 }

// SetTimeOfDay sets the time of day in seconds since midnight. It reports
// whether the value was accepted; out-of-range input leaves the WeekDate
// unchanged.
func (w *WeekDate) SetTimeOfDay(seconds int) bool {
	if seconds < 0 || seconds >= SecondsPerDay {
		return false
	}
	w.timeOfDay = seconds
	return true
}

// SetTimeOfDayHour sets the time of day to the start of the given hour
// (0-23). It reports whether the value was accepted.
func (w *WeekDate) SetTimeOfDayHour(hour int) bool {
	if hour < 0 || hour > 23 {
		return false
	}
	w.timeOfDay = hour * 3600
	return true
}

// SetTimeOfDayHMS sets the time of day from an hour, minute and second. All
// three components are validated before any mutation, so a rejected call
// never partially updates the value.
func (w *WeekDate) SetTimeOfDayHMS(hour, minute, second int) bool {
	if hour < 0 || hour > 23 {
		return false
	}
	if minute < 0 || minute >= 60 {
		return false
	}
	if second < 0 || second >= 60 {
		return false
	}
	w.timeOfDay = hour*3600 + minute*60 + second
	return true
}

// Compare orders WeekDates first by day of week (Monday earliest), then by
// time of day ascending. It returns a negative value when w precedes other,
// zero when equal, and a positive value otherwise.
func (w WeekDate) Compare(other WeekDate) int {
	if w.day != other.day {
		return int(w.day) - int(other.day)
	}
	return w.timeOfDay - other.timeOfDay
}

// Before reports whether w precedes other in week order.
func (w WeekDate) Before(other WeekDate) bool {
	return w.Compare(other) < 0
}

// String renders the WeekDate as "<FullDayName> HH:MM" with a zero-padded
// 24-hour clock. Seconds are truncated.
func (w WeekDate) String() string {
	return fmt.Sprintf("%s %02d:%02d", w.day, w.StartingHour(), (w.timeOfDay/60)%60)
}

// NextOccurrence resolves the weekly slot to an absolute calendar instant:
// the first moment at or after ref whose weekday and wall-clock time match
// the WeekDate, in ref's location. When ref itself falls exactly on the
// slot, ref's calendar position is returned; when the slot's time has
// already passed on the matching weekday, the following week is chosen.
func (w WeekDate) NextOccurrence(ref time.Time) time.Time {
	daysAhead := (int(w.day) - int(DayOfWeekday(ref.Weekday())) + 7) % 7
	candidate := time.Date(
		ref.Year(), ref.Month(), ref.Day()+daysAhead,
		w.timeOfDay/3600, (w.timeOfDay/60)%60, w.timeOfDay%60, 0,
		ref.Location(),
	)
	if candidate.Before(ref) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate
}
