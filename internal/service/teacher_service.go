package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/subplan-io/subplan-api/internal/models"
	appErrors "github.com/subplan-io/subplan-api/pkg/errors"
)

type teacherStore interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
	ListAll(ctx context.Context) ([]models.Teacher, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id string) error
}

// CreateTeacherRequest is the payload for adding a teacher.
type CreateTeacherRequest struct {
	FullName     string                   `json:"full_name" validate:"required"`
	Subjects     []string                 `json:"subjects" validate:"required,min=1,dive,required"`
	Preferences  string                   `json:"preferences"`
	Availability []models.DayAvailability `json:"availability"`
	Timetable    models.Timetable         `json:"timetable"`
	Active       *bool                    `json:"active"`
}

// UpdateTeacherRequest is the payload for editing a teacher; nil fields
// are left untouched.
type UpdateTeacherRequest struct {
	FullName     *string                   `json:"full_name"`
	Subjects     *[]string                 `json:"subjects"`
	Preferences  *string                   `json:"preferences"`
	Availability *[]models.DayAvailability `json:"availability"`
	Timetable    *models.Timetable         `json:"timetable"`
	Active       *bool                     `json:"active"`
}

// TeacherService orchestrates teacher directory changes.
type TeacherService struct {
	repo      teacherStore
	slots     slotCatalog
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherStore, slots slotCatalog, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, slots: slots, validator: validate, logger: logger}
}

// List returns teachers matching the filter with pagination metadata.
func (s *TeacherService) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, *models.Pagination, error) {
	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return teachers, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one teacher.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// Create validates and stores a new teacher.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	if err := validateAvailability(req.Availability); err != nil {
		return nil, err
	}
	if err := s.checkTimetable(ctx, req.Timetable); err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	teacher := &models.Teacher{
		ID:           uuid.NewString(),
		FullName:     req.FullName,
		Subjects:     req.Subjects,
		Preferences:  req.Preferences,
		Availability: req.Availability,
		Timetable:    req.Timetable,
		Active:       active,
	}
	if teacher.Timetable == nil {
		teacher.Timetable = models.Timetable{}
	}
	if err := s.repo.Create(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}
	s.logger.Info("teacher created", zap.String("teacher_id", teacher.ID))
	return teacher, nil
}

// Update applies a partial edit to a teacher.
func (s *TeacherService) Update(ctx context.Context, id string, req UpdateTeacherRequest) (*models.Teacher, error) {
	teacher, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		if *req.FullName == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "full_name must not be empty")
		}
		teacher.FullName = *req.FullName
	}
	if req.Subjects != nil {
		if len(*req.Subjects) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "subjects must not be empty")
		}
		teacher.Subjects = *req.Subjects
	}
	if req.Preferences != nil {
		teacher.Preferences = *req.Preferences
	}
	if req.Availability != nil {
		if err := validateAvailability(*req.Availability); err != nil {
			return nil, err
		}
		teacher.Availability = *req.Availability
	}
	if req.Timetable != nil {
		if err := s.checkTimetable(ctx, *req.Timetable); err != nil {
			return nil, err
		}
		teacher.Timetable = *req.Timetable
	}
	if req.Active != nil {
		teacher.Active = *req.Active
	}

	if err := s.repo.Update(ctx, teacher); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}
	return teacher, nil
}

// Delete removes a teacher from the directory.
func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}
	return nil
}

func (s *TeacherService) checkTimetable(ctx context.Context, tt models.Timetable) error {
	if len(tt) == 0 {
		return nil
	}
	slots, err := s.slots.ListAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time slots")
	}
	return validateTimetable(tt, slots)
}
