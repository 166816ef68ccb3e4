package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/subplan-io/subplan-api/internal/models"
)

// Scoring is deliberately keyword-based rather than learned: staffing
// decisions need a deterministic, auditable ranking.
const (
	scoreSubjectMatch     = 10
	scoreSeniorExperience = 2
	scoreSpecialEducation = 5

	prefMarkerSenior    = "senior classes"
	prefMarkerSpecialEd = "special education"
	subjectSpecialEd    = "special education"
)

// findSubstitute filters the substitute pool by subject qualification,
// availability, and existing commitments, scores the survivors, and
// returns a ranked recommendation with human-readable reasoning. Every
// branch returns a populated Recommendation; nothing here can fail.
func findSubstitute(subject string, date time.Time, slotStart string, pool []models.Teacher, classes []models.SchoolClass, slots []models.TimeSlot) models.Recommendation {
	var qualified []models.Teacher
	for _, teacher := range pool {
		if teacher.Qualified(subject) {
			qualified = append(qualified, teacher)
		}
	}

	if len(qualified) == 0 {
		for _, teacher := range pool {
			if isAvailable(teacher, date, slotStart, slots) && !isAlreadyScheduled(teacher.ID, date, slotStart, classes, "", slots) {
				reasoning := fmt.Sprintf(
					"No teacher qualified in %s is in the pool. %s is free at this time and can supervise the class, but does not teach the subject.",
					subject, teacher.FullName,
				)
				return recommendation(teacher.FullName, reasoning)
			}
		}
		reasoning := fmt.Sprintf(
			"No teacher qualified in %s is in the pool, and no other teacher is free to supervise at this time.",
			subject,
		)
		return models.Recommendation{Reasoning: &reasoning}
	}

	var free []models.Teacher
	for _, teacher := range qualified {
		if isAvailable(teacher, date, slotStart, slots) && !isAlreadyScheduled(teacher.ID, date, slotStart, classes, "", slots) {
			free = append(free, teacher)
		}
	}
	if len(free) == 0 {
		reasoning := fmt.Sprintf(
			"Every teacher qualified in %s is unavailable or already scheduled at this time.",
			subject,
		)
		return models.Recommendation{Reasoning: &reasoning}
	}

	best := free[0]
	bestScore := scoreCandidate(best, subject)
	for _, teacher := range free[1:] {
		// strict comparison keeps the ranking stable on ties
		if score := scoreCandidate(teacher, subject); score > bestScore {
			best = teacher
			bestScore = score
		}
	}

	reasoning := fmt.Sprintf("%s is qualified to teach %s and is free during this slot.", best.FullName, subject)
	if best.Preferences != "" {
		reasoning += fmt.Sprintf(" Noted preferences: %s.", best.Preferences)
	}
	return recommendation(best.FullName, reasoning)
}

// scoreCandidate ranks a pre-qualified candidate. The subject bonus is
// constant over today's pre-filtered pool but kept so mixed pools score
// correctly if the filter ever loosens.
func scoreCandidate(teacher models.Teacher, subject string) int {
	score := 0
	if teacher.Qualified(subject) {
		score += scoreSubjectMatch
	}
	prefs := strings.ToLower(teacher.Preferences)
	if strings.Contains(prefs, prefMarkerSenior) {
		score += scoreSeniorExperience
	}
	if strings.Contains(prefs, prefMarkerSpecialEd) && strings.EqualFold(subject, subjectSpecialEd) {
		score += scoreSpecialEducation
	}
	return score
}

func recommendation(name, reasoning string) models.Recommendation {
	return models.Recommendation{Name: &name, Reasoning: &reasoning}
}
