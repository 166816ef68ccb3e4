package models

import "time"

// Lesson is a single scheduled teaching unit inside a timetable slot.
// MajorID, when set, marks the lesson as part of a cross-class major
// track; major lessons are exempt from ad-hoc per-slot edits and from
// per-slot conflict checks.
type Lesson struct {
	Subject   string  `json:"subject"`
	TeacherID string  `json:"teacher_id"`
	ClassID   string  `json:"class_id"`
	MajorID   *string `json:"major_id,omitempty"`
}

// Timetable is a sparse weekly schedule keyed by weekday and time-slot
// id. Slot ids are validated against the TimeSlot catalog on write, so
// a well-formed timetable never references a break or an unknown slot.
type Timetable map[Weekday]map[string][]Lesson

// SchoolClass is a class group with its own authoritative timetable.
type SchoolClass struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timetable Timetable `json:"timetable"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClassFilter narrows class listings.
type ClassFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
