package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subplan-io/subplan-api/internal/models"
)

func availableAllMonday() []models.DayAvailability {
	return []models.DayAvailability{
		{Day: models.Monday, Windows: []models.AvailabilityWindow{{Start: "07:00", End: "15:00"}}},
	}
}

func TestFindSubstituteRecommendsQualifiedFreeTeacher(t *testing.T) {
	pool := []models.Teacher{
		{ID: "t2", FullName: "Rob Ames", Subjects: []string{"Math"}, Availability: availableAllMonday(), Active: true},
	}

	result := findSubstitute("Math", monday, "08:00", pool, nil, testSlots())
	require.NotNil(t, result.Name)
	require.NotNil(t, result.Reasoning)
	assert.Equal(t, "Rob Ames", *result.Name)
	assert.Contains(t, *result.Reasoning, "qualified to teach Math")
}

func TestFindSubstituteIncludesPreferencesInReasoning(t *testing.T) {
	pool := []models.Teacher{
		{ID: "t2", FullName: "Rob Ames", Subjects: []string{"Math"}, Preferences: "prefers senior classes", Availability: availableAllMonday(), Active: true},
	}

	result := findSubstitute("Math", monday, "08:00", pool, nil, testSlots())
	require.NotNil(t, result.Reasoning)
	assert.Contains(t, *result.Reasoning, "Noted preferences: prefers senior classes")
}

func TestFindSubstituteSupervisoryFallback(t *testing.T) {
	pool := []models.Teacher{
		{ID: "t2", FullName: "Rob Ames", Subjects: []string{"Art"}, Availability: availableAllMonday(), Active: true},
	}

	result := findSubstitute("Math", monday, "08:00", pool, nil, testSlots())
	require.NotNil(t, result.Name)
	require.NotNil(t, result.Reasoning)
	assert.Equal(t, "Rob Ames", *result.Name)
	assert.Contains(t, *result.Reasoning, "supervise")
	assert.Contains(t, *result.Reasoning, "does not teach the subject")
}

func TestFindSubstituteNobodyQualifiedNobodyFree(t *testing.T) {
	pool := []models.Teacher{
		{ID: "t2", FullName: "Rob Ames", Subjects: []string{"Art"}, Active: true},
	}

	result := findSubstitute("Math", monday, "08:00", pool, nil, testSlots())
	assert.Nil(t, result.Name)
	require.NotNil(t, result.Reasoning)
	assert.Contains(t, *result.Reasoning, "no other teacher is free to supervise")
}

func TestFindSubstituteQualifiedButBusy(t *testing.T) {
	classes := []models.SchoolClass{
		{
			ID: "c9",
			Timetable: models.Timetable{
				models.Monday: {"slot-1": {{Subject: "Math", TeacherID: "t2", ClassID: "c9"}}},
			},
		},
	}
	pool := []models.Teacher{
		{ID: "t2", FullName: "Rob Ames", Subjects: []string{"Math"}, Availability: availableAllMonday(), Active: true},
	}

	result := findSubstitute("Math", monday, "08:00", pool, classes, testSlots())
	assert.Nil(t, result.Name)
	require.NotNil(t, result.Reasoning)
	assert.Contains(t, *result.Reasoning, "unavailable or already scheduled")
}

func TestFindSubstituteEmptyPool(t *testing.T) {
	result := findSubstitute("Math", monday, "08:00", nil, nil, testSlots())
	assert.Nil(t, result.Name)
	require.NotNil(t, result.Reasoning)
	assert.Contains(t, *result.Reasoning, "No teacher qualified in Math")
}

func TestFindSubstitutePrefersSeniorExperience(t *testing.T) {
	pool := []models.Teacher{
		{ID: "t2", FullName: "Rob Ames", Subjects: []string{"Math"}, Availability: availableAllMonday(), Active: true},
		{ID: "t3", FullName: "Kim Soto", Subjects: []string{"Math"}, Preferences: "enjoys senior classes", Availability: availableAllMonday(), Active: true},
	}

	result := findSubstitute("Math", monday, "08:00", pool, nil, testSlots())
	require.NotNil(t, result.Name)
	assert.Equal(t, "Kim Soto", *result.Name)
}

func TestFindSubstituteSpecialEducationBonus(t *testing.T) {
	pool := []models.Teacher{
		{ID: "t2", FullName: "Rob Ames", Subjects: []string{"Special Education"}, Preferences: "enjoys senior classes", Availability: availableAllMonday(), Active: true},
		{ID: "t3", FullName: "Kim Soto", Subjects: []string{"Special Education"}, Preferences: "special education training", Availability: availableAllMonday(), Active: true},
	}

	// the special-education bonus (5) outweighs the senior bonus (2)
	result := findSubstitute("Special Education", monday, "08:00", pool, nil, testSlots())
	require.NotNil(t, result.Name)
	assert.Equal(t, "Kim Soto", *result.Name)

	// for other subjects the special-education marker scores nothing
	pool[0].Subjects = []string{"Math"}
	pool[1].Subjects = []string{"Math"}
	result = findSubstitute("Math", monday, "08:00", pool, nil, testSlots())
	require.NotNil(t, result.Name)
	assert.Equal(t, "Rob Ames", *result.Name)
}

func TestFindSubstituteStableOnTies(t *testing.T) {
	pool := []models.Teacher{
		{ID: "t2", FullName: "Rob Ames", Subjects: []string{"Math"}, Availability: availableAllMonday(), Active: true},
		{ID: "t3", FullName: "Kim Soto", Subjects: []string{"Math"}, Availability: availableAllMonday(), Active: true},
	}

	for i := 0; i < 5; i++ {
		result := findSubstitute("Math", monday, "08:00", pool, nil, testSlots())
		require.NotNil(t, result.Name)
		assert.Equal(t, "Rob Ames", *result.Name)
	}
}

func TestScoreCandidate(t *testing.T) {
	teacher := models.Teacher{Subjects: []string{"Math"}, Preferences: "Senior Classes and Special Education"}
	assert.Equal(t, 12, scoreCandidate(teacher, "Math"))
	assert.Equal(t, 7, scoreCandidate(teacher, "Special Education"))
	assert.Equal(t, 10, scoreCandidate(models.Teacher{Subjects: []string{"Math"}}, "Math"))
	assert.Equal(t, 0, scoreCandidate(models.Teacher{}, "Math"))
}
