package schedule

import "time"

// WeekStart returns the most recent Monday 00:00 at or before t, in t's
// location. Weeks start on Monday throughout the system.
func WeekStart(t time.Time) time.Time {
	back := int(DayOfWeekday(t.Weekday()))
	return time.Date(t.Year(), t.Month(), t.Day()-back, 0, 0, 0, 0, t.Location())
}

// WeekWindow returns the half-open seven day window [WeekStart(t),
// WeekStart(t)+7d) that contains t.
func WeekWindow(t time.Time) (from, to time.Time) {
	from = WeekStart(t)
	return from, from.AddDate(0, 0, 7)
}
