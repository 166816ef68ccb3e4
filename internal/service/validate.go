package service

import (
	"fmt"
	"sort"

	"github.com/subplan-io/subplan-api/internal/models"
	appErrors "github.com/subplan-io/subplan-api/pkg/errors"
)

// validateCatalog enforces the time-slot grid invariants: well-formed
// clock strings, start before end, and a monotonic non-overlapping
// sequence once sorted by start.
func validateCatalog(slots []models.TimeSlot) error {
	for _, slot := range slots {
		if !clockPattern.MatchString(slot.Start) || !clockPattern.MatchString(slot.End) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot %s has a malformed clock value", slot.ID))
		}
		if clockValue(slot.Start) >= clockValue(slot.End) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot %s must start before it ends", slot.ID))
		}
		if slot.Type != models.SlotTypeLesson && slot.Type != models.SlotTypeBreak {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot %s has unknown type %q", slot.ID, slot.Type))
		}
	}

	ordered := make([]models.TimeSlot, len(slots))
	copy(ordered, slots)
	sort.Slice(ordered, func(i, j int) bool {
		return clockValue(ordered[i].Start) < clockValue(ordered[j].Start)
	})
	for i := 1; i < len(ordered); i++ {
		if clockValue(ordered[i].Start) < clockValue(ordered[i-1].End) {
			return appErrors.Clone(appErrors.ErrSlotOverlap, fmt.Sprintf("slots %s and %s overlap", ordered[i-1].ID, ordered[i].ID))
		}
	}
	return nil
}

// validateTimetable checks that every entry targets a teaching weekday
// and a known lesson slot. This is the write-side guard that keeps the
// typed sparse mapping honest; read paths then only need to tolerate
// slots removed after the fact.
func validateTimetable(tt models.Timetable, slots []models.TimeSlot) error {
	for day, bySlot := range tt {
		if !day.Teaching() {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is not a teaching day", day))
		}
		for slotID := range bySlot {
			slot := slotByID(slots, slotID)
			if slot == nil {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("timetable references unknown slot %s", slotID))
			}
			if slot.Type == models.SlotTypeBreak {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("slot %s is a break and cannot host lessons", slotID))
			}
		}
	}
	return nil
}

// validateAvailability checks declared availability windows: teaching
// weekday, well-formed clocks, start before end.
func validateAvailability(availability []models.DayAvailability) error {
	for _, day := range availability {
		if !day.Day.Teaching() {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s is not a teaching day", day.Day))
		}
		for _, window := range day.Windows {
			if !clockPattern.MatchString(window.Start) || !clockPattern.MatchString(window.End) {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("availability window %s-%s is malformed", window.Start, window.End))
			}
			if clockValue(window.Start) >= clockValue(window.End) {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("availability window %s-%s must start before it ends", window.Start, window.End))
			}
		}
	}
	return nil
}

// validateClockWindow guards a partial-absence interval.
func validateClockWindow(start, end string) error {
	if !clockPattern.MatchString(start) || !clockPattern.MatchString(end) {
		return appErrors.Clone(appErrors.ErrValidation, "start and end must be HH:MM clock values")
	}
	if clockValue(start) >= clockValue(end) {
		return appErrors.Clone(appErrors.ErrValidation, "absence window must start before it ends")
	}
	return nil
}
