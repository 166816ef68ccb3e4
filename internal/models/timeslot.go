package models

import "time"

// SlotType distinguishes teaching periods from breaks.
type SlotType string

const (
	SlotTypeLesson SlotType = "lesson"
	SlotTypeBreak  SlotType = "break"
)

// TimeSlot is one entry of the school-day grid. The catalog is kept
// sorted by start time and non-overlapping; break slots never host
// lessons and are skipped by every coverage computation.
type TimeSlot struct {
	ID        string    `db:"id" json:"id"`
	Start     string    `db:"start_time" json:"start"`
	End       string    `db:"end_time" json:"end"`
	Type      SlotType  `db:"slot_type" json:"type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
