package models

import "time"

// AbsenceDay records that a teacher is away on one calendar day, either
// for the whole day or for a [StartTime, EndTime) clock window. When
// IsAllDay is set the clock fields are ignored.
type AbsenceDay struct {
	ID        string    `db:"id" json:"id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	Date      time.Time `db:"absence_date" json:"date"`
	IsAllDay  bool      `db:"is_all_day" json:"is_all_day"`
	StartTime string    `db:"start_time" json:"start_time,omitempty"`
	EndTime   string    `db:"end_time" json:"end_time,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
