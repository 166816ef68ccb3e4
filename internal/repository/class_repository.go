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

// ClassRepository manages persistence for school classes. The weekly
// timetable is stored as a JSONB column.
type ClassRepository struct {
	db    *sqlx.DB
	cache *SnapshotCache
}

// NewClassRepository constructs a ClassRepository.
func NewClassRepository(db *sqlx.DB, cache *SnapshotCache) *ClassRepository {
	return &ClassRepository{db: db, cache: cache}
}

type classRow struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Timetable types.JSONText `db:"timetable"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (row classRow) decode() (models.SchoolClass, error) {
	class := models.SchoolClass{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if len(row.Timetable) > 0 {
		if err := json.Unmarshal(row.Timetable, &class.Timetable); err != nil {
			return models.SchoolClass{}, fmt.Errorf("decode class timetable: %w", err)
		}
	}
	return class, nil
}

func encodeClass(class *models.SchoolClass) (classRow, error) {
	timetable, err := json.Marshal(class.Timetable)
	if err != nil {
		return classRow{}, fmt.Errorf("encode class timetable: %w", err)
	}
	return classRow{
		ID:        class.ID,
		Name:      class.Name,
		Timetable: types.JSONText(timetable),
		CreatedAt: class.CreatedAt,
		UpdatedAt: class.UpdatedAt,
	}, nil
}

const classColumns = "id, name, timetable, created_at, updated_at"

// List returns classes matching filters along with total count.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.SchoolClass, int, error) {
	base := "FROM classes WHERE 1=1"
	var args []interface{}

	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		base += fmt.Sprintf(" AND LOWER(name) LIKE $%d", len(args)+1)
		args = append(args, search)
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"name":       "name",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "name"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", classColumns, base, column, order, size, offset)
	var rows []classRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}

	classes := make([]models.SchoolClass, 0, len(rows))
	for _, row := range rows {
		class, err := row.decode()
		if err != nil {
			return nil, 0, err
		}
		classes = append(classes, class)
	}
	return classes, total, nil
}

// ListAll returns every class ordered by name, through the snapshot cache.
func (r *ClassRepository) ListAll(ctx context.Context) ([]models.SchoolClass, error) {
	var cached []models.SchoolClass
	if r.cache.Get(ctx, classSnapshotKey, &cached) {
		return cached, nil
	}

	query := fmt.Sprintf("SELECT %s FROM classes ORDER BY name ASC", classColumns)
	var rows []classRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list all classes: %w", err)
	}

	classes := make([]models.SchoolClass, 0, len(rows))
	for _, row := range rows {
		class, err := row.decode()
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	r.cache.Set(ctx, classSnapshotKey, classes)
	return classes, nil
}

// FindByID fetches a class by ID. Callers translate sql.ErrNoRows.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.SchoolClass, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE id = $1", classColumns)
	var row classRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	class, err := row.decode()
	if err != nil {
		return nil, err
	}
	return &class, nil
}

// Create inserts a new class record.
func (r *ClassRepository) Create(ctx context.Context, class *models.SchoolClass) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now

	row, err := encodeClass(class)
	if err != nil {
		return err
	}
	const query = `INSERT INTO classes (id, name, timetable, created_at, updated_at)
		VALUES (:id, :name, :timetable, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	r.cache.Invalidate(ctx, classSnapshotKey)
	return nil
}

// Update modifies an existing class record.
func (r *ClassRepository) Update(ctx context.Context, class *models.SchoolClass) error {
	class.UpdatedAt = time.Now().UTC()

	row, err := encodeClass(class)
	if err != nil {
		return err
	}
	const query = `UPDATE classes SET name = :name, timetable = :timetable, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	r.cache.Invalidate(ctx, classSnapshotKey)
	return nil
}

// Delete removes a class record.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM classes WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	r.cache.Invalidate(ctx, classSnapshotKey)
	return nil
}
