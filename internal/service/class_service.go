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

type classStore interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.SchoolClass, int, error)
	ListAll(ctx context.Context) ([]models.SchoolClass, error)
	FindByID(ctx context.Context, id string) (*models.SchoolClass, error)
	Create(ctx context.Context, class *models.SchoolClass) error
	Update(ctx context.Context, class *models.SchoolClass) error
	Delete(ctx context.Context, id string) error
}

// CreateClassRequest is the payload for adding a class.
type CreateClassRequest struct {
	Name      string           `json:"name" validate:"required"`
	Timetable models.Timetable `json:"timetable"`
}

// UpdateClassRequest edits a class; nil fields are left untouched.
type UpdateClassRequest struct {
	Name      *string           `json:"name"`
	Timetable *models.Timetable `json:"timetable"`
}

// ClassService orchestrates class directory changes. A class timetable
// is the authoritative record for the class; on every timetable write
// the referenced teachers' own timetables are rewritten to match, which
// is the consistency guarantee the read-only coverage engine relies on.
type ClassService struct {
	repo      classStore
	teachers  teacherStore
	slots     slotCatalog
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService.
func NewClassService(repo classStore, teachers teacherStore, slots slotCatalog, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, teachers: teachers, slots: slots, validator: validate, logger: logger}
}

// List returns classes matching the filter.
func (s *ClassService) List(ctx context.Context, filter models.ClassFilter) ([]models.SchoolClass, *models.Pagination, error) {
	classes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classes")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return classes, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one class.
func (s *ClassService) Get(ctx context.Context, id string) (*models.SchoolClass, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	return class, nil
}

// Create validates and stores a new class.
func (s *ClassService) Create(ctx context.Context, req CreateClassRequest) (*models.SchoolClass, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	class := &models.SchoolClass{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Timetable: req.Timetable,
	}
	if class.Timetable == nil {
		class.Timetable = models.Timetable{}
	}
	if err := s.checkTimetable(ctx, class); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create class")
	}
	if err := s.syncTeacherTimetables(ctx, class); err != nil {
		return nil, err
	}
	s.logger.Info("class created", zap.String("class_id", class.ID))
	return class, nil
}

// Update applies a partial edit to a class and keeps teacher timetables
// in step with the class timetable.
func (s *ClassService) Update(ctx context.Context, id string, req UpdateClassRequest) (*models.SchoolClass, error) {
	class, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "name must not be empty")
		}
		class.Name = *req.Name
	}
	timetableChanged := false
	if req.Timetable != nil {
		class.Timetable = *req.Timetable
		timetableChanged = true
		if err := s.checkTimetable(ctx, class); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, class); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class")
	}
	if timetableChanged {
		if err := s.syncTeacherTimetables(ctx, class); err != nil {
			return nil, err
		}
	}
	return class, nil
}

// Delete removes a class and strips its lessons from teacher timetables.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	class, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete class")
	}
	class.Timetable = models.Timetable{}
	return s.syncTeacherTimetables(ctx, class)
}

func (s *ClassService) checkTimetable(ctx context.Context, class *models.SchoolClass) error {
	slots, err := s.slots.ListAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time slots")
	}
	if err := validateTimetable(class.Timetable, slots); err != nil {
		return err
	}
	checked := map[string]bool{}
	for _, bySlot := range class.Timetable {
		for _, lessons := range bySlot {
			for _, lesson := range lessons {
				if lesson.ClassID != class.ID {
					return appErrors.Clone(appErrors.ErrValidation, "timetable lessons must reference their own class")
				}
				if lesson.TeacherID == "" || checked[lesson.TeacherID] {
					continue
				}
				if _, err := s.teachers.FindByID(ctx, lesson.TeacherID); err != nil {
					if errors.Is(err, sql.ErrNoRows) {
						return appErrors.Clone(appErrors.ErrValidation, "timetable references an unknown teacher")
					}
					return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
				}
				checked[lesson.TeacherID] = true
			}
		}
	}
	return nil
}

// syncTeacherTimetables rewrites each teacher's lessons for this class
// so teacher and class timetables tell the same story.
func (s *ClassService) syncTeacherTimetables(ctx context.Context, class *models.SchoolClass) error {
	teachers, err := s.teachers.ListAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}

	// lessons per teacher, keyed by (day, slot)
	type placement struct {
		day    models.Weekday
		slotID string
		lesson models.Lesson
	}
	byTeacher := make(map[string][]placement)
	for day, bySlot := range class.Timetable {
		for slotID, lessons := range bySlot {
			for _, lesson := range lessons {
				if lesson.TeacherID == "" {
					continue
				}
				byTeacher[lesson.TeacherID] = append(byTeacher[lesson.TeacherID], placement{day: day, slotID: slotID, lesson: lesson})
			}
		}
	}

	for i := range teachers {
		teacher := &teachers[i]
		updated := stripClassLessons(teacher.Timetable, class.ID)
		changed := updated != nil
		if updated == nil {
			updated = teacher.Timetable
		}
		if placements := byTeacher[teacher.ID]; len(placements) > 0 {
			if updated == nil {
				updated = models.Timetable{}
			}
			changed = true
			for _, p := range placements {
				if updated[p.day] == nil {
					updated[p.day] = map[string][]models.Lesson{}
				}
				updated[p.day][p.slotID] = append(updated[p.day][p.slotID], p.lesson)
			}
		}
		if !changed {
			continue
		}
		teacher.Timetable = updated
		if err := s.teachers.Update(ctx, teacher); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sync teacher timetable")
		}
	}
	return nil
}

// stripClassLessons returns a copy of the timetable without lessons of
// the given class, or nil when nothing referenced it. The input map is
// never mutated.
func stripClassLessons(tt models.Timetable, classID string) models.Timetable {
	touched := false
	out := models.Timetable{}
	for day, bySlot := range tt {
		for slotID, lessons := range bySlot {
			kept := make([]models.Lesson, 0, len(lessons))
			for _, lesson := range lessons {
				if lesson.ClassID == classID {
					touched = true
					continue
				}
				kept = append(kept, lesson)
			}
			if len(kept) == 0 {
				continue
			}
			if out[day] == nil {
				out[day] = map[string][]models.Lesson{}
			}
			out[day][slotID] = kept
		}
	}
	if !touched {
		return nil
	}
	return out
}
