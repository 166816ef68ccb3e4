package dto

// AffectedLessonQuery selects the inclusive date range to expand.
type AffectedLessonQuery struct {
	Start string `form:"start" validate:"required,datetime=2006-01-02"`
	End   string `form:"end" validate:"required,datetime=2006-01-02"`
	// OnlyUncovered drops lessons that already have valid coverage.
	OnlyUncovered bool `form:"only_uncovered"`
}

// RecommendationRequest asks for a ranked substitute for one lesson.
type RecommendationRequest struct {
	Subject string `json:"subject" validate:"required"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Time    string `json:"time" validate:"required,datetime=15:04"`
	// ExcludeTeacherID removes the absent teacher from the pool.
	ExcludeTeacherID string `json:"exclude_teacher_id"`
}

// ConfirmSubstitutionRequest records a human-approved assignment for an
// affected lesson. Teacher names are resolved server-side.
type ConfirmSubstitutionRequest struct {
	Date                string `json:"date" validate:"required,datetime=2006-01-02"`
	Time                string `json:"time" validate:"required,datetime=15:04"`
	ClassID             string `json:"class_id" validate:"required"`
	Subject             string `json:"subject" validate:"required"`
	AbsentTeacherID     string `json:"absent_teacher_id" validate:"required"`
	SubstituteTeacherID string `json:"substitute_teacher_id" validate:"required"`
}
