package service

import (
	"sort"
	"time"

	"github.com/subplan-io/subplan-api/internal/models"
)

// coverageSnapshot bundles the already-loaded directory data one
// expansion runs over. The engine treats every field as read-only; it is
// re-invoked with a fresh snapshot rather than caching results, since an
// affected lesson is stale the moment absences or timetables change.
type coverageSnapshot struct {
	Teachers      []models.Teacher
	Classes       []models.SchoolClass
	Substitutions []models.SubstitutionRecord
	Slots         []models.TimeSlot
}

// expandAffectedLessons walks every calendar day of the inclusive range
// and emits one AffectedLesson for each scheduled lesson whose teacher
// has a temporally overlapping absence that day. Lessons referencing
// removed slots or classes are skipped, as are break slots. Output is
// sorted by (date, slot start) with classID as tie-break so repeated
// runs over identical input are order-stable.
func expandAffectedLessons(snap coverageSnapshot, rng models.DateRange) []models.AffectedLesson {
	classByID := make(map[string]*models.SchoolClass, len(snap.Classes))
	for i := range snap.Classes {
		classByID[snap.Classes[i].ID] = &snap.Classes[i]
	}
	teacherByID := make(map[string]*models.Teacher, len(snap.Teachers))
	for i := range snap.Teachers {
		teacherByID[snap.Teachers[i].ID] = &snap.Teachers[i]
	}

	affected := make([]models.AffectedLesson, 0)
	first := models.StartOfDay(rng.Start)
	last := models.StartOfDay(rng.End)

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		weekday := models.WeekdayOf(day)
		for ti := range snap.Teachers {
			teacher := &snap.Teachers[ti]

			var absences []models.AbsenceDay
			for _, absence := range teacher.Absences {
				if models.SameDay(absence.Date, day) {
					absences = append(absences, absence)
				}
			}
			if len(absences) == 0 {
				continue
			}

			for slotID, lessons := range teacher.Timetable[weekday] {
				slot := slotByID(snap.Slots, slotID)
				if slot == nil || slot.Type == models.SlotTypeBreak {
					continue
				}
				slotStartVal := clockValue(slot.Start)
				slotEndVal := clockValue(slot.End)

				hit := false
				for _, absence := range absences {
					absStart, absEnd := absenceWindow(absence)
					if overlaps(slotStartVal, slotEndVal, absStart, absEnd) {
						hit = true
						break
					}
				}
				if !hit {
					continue
				}

				for _, lesson := range lessons {
					class := classByID[lesson.ClassID]
					if class == nil {
						continue
					}
					affected = append(affected, models.AffectedLesson{
						Date:              day,
						SlotStart:         slot.Start,
						SlotEnd:           slot.End,
						Subject:           lesson.Subject,
						ClassID:           class.ID,
						ClassName:         class.Name,
						MajorID:           lesson.MajorID,
						AbsentTeacherID:   teacher.ID,
						AbsentTeacherName: teacher.FullName,
						IsCovered:         resolveCoverage(day, *slot, lesson.ClassID, snap.Substitutions, teacherByID),
					})
				}
			}
		}
	}

	sort.SliceStable(affected, func(i, j int) bool {
		if !affected[i].Date.Equal(affected[j].Date) {
			return affected[i].Date.Before(affected[j].Date)
		}
		if affected[i].SlotStart != affected[j].SlotStart {
			return clockValue(affected[i].SlotStart) < clockValue(affected[j].SlotStart)
		}
		return affected[i].ClassID < affected[j].ClassID
	})
	return affected
}

// resolveCoverage decides whether an affected lesson already has a
// still-valid substitution. A matching record counts as coverage unless
// the recorded substitute is independently absent for an overlapping
// window on the same day, which models a substitute who later also
// called in sick.
func resolveCoverage(day time.Time, slot models.TimeSlot, classID string, subs []models.SubstitutionRecord, teacherByID map[string]*models.Teacher) bool {
	var record *models.SubstitutionRecord
	for i := range subs {
		if models.SameDay(subs[i].Date, day) && subs[i].SlotStart == slot.Start && subs[i].ClassID == classID {
			record = &subs[i]
			break
		}
	}
	if record == nil {
		return false
	}

	substitute := teacherByID[record.SubstituteTeacherID]
	if substitute == nil {
		return true
	}

	slotStartVal := clockValue(slot.Start)
	slotEndVal := clockValue(slot.End)
	for _, absence := range substitute.Absences {
		if !models.SameDay(absence.Date, day) {
			continue
		}
		absStart, absEnd := absenceWindow(absence)
		if overlaps(slotStartVal, slotEndVal, absStart, absEnd) {
			return false
		}
	}
	return true
}
