package service

import (
	"regexp"
	"time"

	"github.com/subplan-io/subplan-api/internal/models"
)

// clockPattern accepts 24h clock strings between 00:00 and 23:59.
var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// clockValue converts an "HH:MM" clock string into a fractional hour
// count used for ordering and interval comparison. Malformed input maps
// to 0; callers that need strict input run DTO validation first.
func clockValue(clock string) float64 {
	if !clockPattern.MatchString(clock) {
		return 0
	}
	hours := float64(clock[0]-'0')*10 + float64(clock[1]-'0')
	minutes := float64(clock[3]-'0')*10 + float64(clock[4]-'0')
	return hours + minutes/60
}

// overlaps is the half-open interval test shared by every coverage
// computation: [aStart, aEnd) and [bStart, bEnd) intersect.
func overlaps(aStart, aEnd, bStart, bEnd float64) bool {
	return aStart < bEnd && aEnd > bStart
}

// absenceWindow returns the effective [start, end) clock interval of an
// absence; a full-day absence spans the whole day.
func absenceWindow(a models.AbsenceDay) (float64, float64) {
	if a.IsAllDay {
		return 0, 24
	}
	return clockValue(a.StartTime), clockValue(a.EndTime)
}

// slotByStart finds the catalog slot whose start equals the given clock
// string. Unknown starts yield nil.
func slotByStart(slots []models.TimeSlot, start string) *models.TimeSlot {
	for i := range slots {
		if slots[i].Start == start {
			return &slots[i]
		}
	}
	return nil
}

// slotByID resolves a catalog slot by id. Stale timetable references to
// removed slots yield nil.
func slotByID(slots []models.TimeSlot, id string) *models.TimeSlot {
	for i := range slots {
		if slots[i].ID == id {
			return &slots[i]
		}
	}
	return nil
}

// isAvailable reports whether the teacher's declared weekly availability
// fully contains the slot starting at slotStart on the given date.
// Partial overlap with an availability window does not count.
func isAvailable(teacher models.Teacher, date time.Time, slotStart string, slots []models.TimeSlot) bool {
	slot := slotByStart(slots, slotStart)
	if slot == nil {
		return false
	}

	weekday := models.WeekdayOf(date)
	var day *models.DayAvailability
	for i := range teacher.Availability {
		if teacher.Availability[i].Day == weekday {
			day = &teacher.Availability[i]
			break
		}
	}
	if day == nil {
		return false
	}

	slotStartVal := clockValue(slot.Start)
	slotEndVal := clockValue(slot.End)
	for _, window := range day.Windows {
		if slotStartVal >= clockValue(window.Start) && slotEndVal <= clockValue(window.End) {
			return true
		}
	}
	return false
}

// isAlreadyScheduled reports whether the teacher is committed to any
// class at the slot starting at slotStart on the given date. The class
// identified by ignoreClassID is skipped, which lets callers test
// reassignment within the very slot being edited. Major-track lessons
// are exempt from per-slot checks and never count as conflicts here.
func isAlreadyScheduled(teacherID string, date time.Time, slotStart string, classes []models.SchoolClass, ignoreClassID string, slots []models.TimeSlot) bool {
	slot := slotByStart(slots, slotStart)
	if slot == nil {
		return false
	}

	weekday := models.WeekdayOf(date)
	for _, class := range classes {
		if ignoreClassID != "" && class.ID == ignoreClassID {
			continue
		}
		for _, lesson := range class.Timetable[weekday][slot.ID] {
			if lesson.MajorID != nil {
				continue
			}
			if lesson.TeacherID == teacherID {
				return true
			}
		}
	}
	return false
}
