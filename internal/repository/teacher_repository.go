package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/subplan-io/subplan-api/internal/models"
)

// TeacherRepository manages persistence for teachers. Subjects,
// availability windows and the timetable live in JSONB columns and are
// decoded into the model on read.
type TeacherRepository struct {
	db    *sqlx.DB
	cache *SnapshotCache
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB, cache *SnapshotCache) *TeacherRepository {
	return &TeacherRepository{db: db, cache: cache}
}

type teacherRow struct {
	ID           string         `db:"id"`
	FullName     string         `db:"full_name"`
	Subjects     types.JSONText `db:"subjects"`
	Preferences  string         `db:"preferences"`
	Availability types.JSONText `db:"availability"`
	Timetable    types.JSONText `db:"timetable"`
	Active       bool           `db:"active"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func (row teacherRow) decode() (models.Teacher, error) {
	teacher := models.Teacher{
		ID:          row.ID,
		FullName:    row.FullName,
		Preferences: row.Preferences,
		Active:      row.Active,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if len(row.Subjects) > 0 {
		if err := json.Unmarshal(row.Subjects, &teacher.Subjects); err != nil {
			return models.Teacher{}, fmt.Errorf("decode teacher subjects: %w", err)
		}
	}
	if len(row.Availability) > 0 {
		if err := json.Unmarshal(row.Availability, &teacher.Availability); err != nil {
			return models.Teacher{}, fmt.Errorf("decode teacher availability: %w", err)
		}
	}
	if len(row.Timetable) > 0 {
		if err := json.Unmarshal(row.Timetable, &teacher.Timetable); err != nil {
			return models.Teacher{}, fmt.Errorf("decode teacher timetable: %w", err)
		}
	}
	return teacher, nil
}

func encodeTeacher(teacher *models.Teacher) (teacherRow, error) {
	subjects, err := json.Marshal(teacher.Subjects)
	if err != nil {
		return teacherRow{}, fmt.Errorf("encode teacher subjects: %w", err)
	}
	availability, err := json.Marshal(teacher.Availability)
	if err != nil {
		return teacherRow{}, fmt.Errorf("encode teacher availability: %w", err)
	}
	timetable, err := json.Marshal(teacher.Timetable)
	if err != nil {
		return teacherRow{}, fmt.Errorf("encode teacher timetable: %w", err)
	}
	return teacherRow{
		ID:           teacher.ID,
		FullName:     teacher.FullName,
		Subjects:     types.JSONText(subjects),
		Preferences:  teacher.Preferences,
		Availability: types.JSONText(availability),
		Timetable:    types.JSONText(timetable),
		Active:       teacher.Active,
		CreatedAt:    teacher.CreatedAt,
		UpdatedAt:    teacher.UpdatedAt,
	}, nil
}

const teacherColumns = "id, full_name, subjects, preferences, availability, timetable, active, created_at, updated_at"

// List returns teachers matching filters along with total count.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	base := "FROM teachers WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		conditions = append(conditions, fmt.Sprintf("LOWER(full_name) LIKE $%d", len(args)+1))
		args = append(args, search)
	}
	if filter.Subject != "" {
		needle, err := json.Marshal([]string{filter.Subject})
		if err != nil {
			return nil, 0, fmt.Errorf("encode subject filter: %w", err)
		}
		conditions = append(conditions, fmt.Sprintf("subjects @> $%d::jsonb", len(args)+1))
		args = append(args, string(needle))
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "full_name"
	}
	allowedSorts := map[string]string{
		"full_name":  "full_name",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "full_name"
	}

	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", teacherColumns, base, column, order, size, offset)
	var rows []teacherRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}

	teachers := make([]models.Teacher, 0, len(rows))
	for _, row := range rows {
		teacher, err := row.decode()
		if err != nil {
			return nil, 0, err
		}
		teachers = append(teachers, teacher)
	}
	return teachers, total, nil
}

// ListAll returns every teacher, ordered by name. Used by the coverage
// engine, so results pass through the snapshot cache.
func (r *TeacherRepository) ListAll(ctx context.Context) ([]models.Teacher, error) {
	var cached []models.Teacher
	if r.cache.Get(ctx, teacherSnapshotKey, &cached) {
		return cached, nil
	}

	query := fmt.Sprintf("SELECT %s FROM teachers ORDER BY full_name ASC", teacherColumns)
	var rows []teacherRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list all teachers: %w", err)
	}

	teachers := make([]models.Teacher, 0, len(rows))
	for _, row := range rows {
		teacher, err := row.decode()
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, teacher)
	}
	r.cache.Set(ctx, teacherSnapshotKey, teachers)
	return teachers, nil
}

// FindByID fetches a teacher by ID. Callers translate sql.ErrNoRows.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers WHERE id = $1", teacherColumns)
	var row teacherRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	teacher, err := row.decode()
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

// Create inserts a new teacher record.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = now
	}
	teacher.UpdatedAt = now

	row, err := encodeTeacher(teacher)
	if err != nil {
		return err
	}
	const query = `INSERT INTO teachers (id, full_name, subjects, preferences, availability, timetable, active, created_at, updated_at)
		VALUES (:id, :full_name, :subjects, :preferences, :availability, :timetable, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	r.cache.Invalidate(ctx, teacherSnapshotKey)
	return nil
}

// Update modifies an existing teacher record.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	teacher.UpdatedAt = time.Now().UTC()

	row, err := encodeTeacher(teacher)
	if err != nil {
		return err
	}
	const query = `UPDATE teachers SET full_name = :full_name, subjects = :subjects, preferences = :preferences, availability = :availability, timetable = :timetable, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	r.cache.Invalidate(ctx, teacherSnapshotKey)
	return nil
}

// Delete removes a teacher record.
func (r *TeacherRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM teachers WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	r.cache.Invalidate(ctx, teacherSnapshotKey)
	return nil
}
