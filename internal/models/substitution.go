package models

import "time"

// SubstitutionRecord is a confirmed substitute assignment for one
// affected lesson, created when a human accepts a recommendation.
type SubstitutionRecord struct {
	ID                    string    `db:"id" json:"id"`
	Date                  time.Time `db:"sub_date" json:"date"`
	SlotStart             string    `db:"slot_start" json:"time"`
	ClassID               string    `db:"class_id" json:"class_id"`
	Subject               string    `db:"subject" json:"subject"`
	AbsentTeacherID       string    `db:"absent_teacher_id" json:"absent_teacher_id"`
	AbsentTeacherName     string    `db:"absent_teacher_name" json:"absent_teacher_name"`
	SubstituteTeacherID   string    `db:"substitute_teacher_id" json:"substitute_teacher_id"`
	SubstituteTeacherName string    `db:"substitute_teacher_name" json:"substitute_teacher_name"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
}

// AffectedLesson is a lesson whose teacher has an overlapping absence.
// It is derived on demand for a date range and never persisted; any
// change to absences, timetables, or substitutions invalidates it, so
// consumers recompute instead of caching.
type AffectedLesson struct {
	Date              time.Time `json:"date"`
	SlotStart         string    `json:"time"`
	SlotEnd           string    `json:"end_time"`
	Subject           string    `json:"subject"`
	ClassID           string    `json:"class_id"`
	ClassName         string    `json:"class_name"`
	MajorID           *string   `json:"major_id,omitempty"`
	AbsentTeacherID   string    `json:"absent_teacher_id"`
	AbsentTeacherName string    `json:"absent_teacher_name"`
	IsCovered         bool      `json:"is_covered"`
}

// Recommendation is the recommender's answer for one affected lesson.
// Both fields may be nil-equivalent; the recommender never fails.
type Recommendation struct {
	Name      *string `json:"recommendation"`
	Reasoning *string `json:"reasoning"`
}
