package models

import "time"

// AvailabilityWindow is a half-open [Start, End) clock interval within a
// single weekday during which a teacher could take a lesson.
type AvailabilityWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayAvailability declares when a teacher is willing to teach on one
// weekday. Windows need not align with time-slot boundaries.
type DayAvailability struct {
	Day     Weekday              `json:"day"`
	Windows []AvailabilityWindow `json:"windows"`
}

// Teacher is an instructor record. Timetable is the authoritative list
// of committed lessons; Availability is the separate declaration of
// possible working times. The two are not forced to agree: a teacher may
// be available but unscheduled, or scheduled outside declared windows.
type Teacher struct {
	ID           string            `json:"id"`
	FullName     string            `json:"full_name"`
	Subjects     []string          `json:"subjects"`
	Preferences  string            `json:"preferences,omitempty"`
	Availability []DayAvailability `json:"availability"`
	Timetable    Timetable         `json:"timetable"`
	Absences     []AbsenceDay      `json:"absences,omitempty"`
	Active       bool              `json:"active"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Qualified reports whether the teacher's subject list contains subject.
func (t Teacher) Qualified(subject string) bool {
	for _, s := range t.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search    string
	Subject   string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
