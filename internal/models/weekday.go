package models

import "time"

// Weekday names a calendar day in the scheduling domain. Saturday exists
// only to index platform weekdays; it never appears in timetables or
// availability declarations.
type Weekday string

const (
	Sunday    Weekday = "Sunday"
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
)

// TeachingDays is the fixed ordering of the six-day school week.
var TeachingDays = []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday}

// platform day-of-week table, indexed by time.Weekday (Sunday=0).
var weekdayTable = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayOf maps a calendar date to its weekday name.
func WeekdayOf(t time.Time) Weekday {
	return weekdayTable[int(t.Weekday())]
}

// Teaching reports whether lessons may be scheduled on this weekday.
func (w Weekday) Teaching() bool {
	for _, day := range TeachingDays {
		if day == w {
			return true
		}
	}
	return false
}
