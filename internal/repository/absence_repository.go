package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/subplan-io/subplan-api/internal/models"
)

// AbsenceRepository manages declared teacher absences. Absences for one
// teacher and calendar day are replaced as a unit, which keeps a
// re-submitted day from accumulating stale windows.
type AbsenceRepository struct {
	db *sqlx.DB
}

// NewAbsenceRepository constructs an AbsenceRepository.
func NewAbsenceRepository(db *sqlx.DB) *AbsenceRepository {
	return &AbsenceRepository{db: db}
}

const absenceColumns = "id, teacher_id, absence_date, is_all_day, start_time, end_time, created_at, updated_at"

// ListBetween returns all absences with a date inside [start, end].
func (r *AbsenceRepository) ListBetween(ctx context.Context, start, end time.Time) ([]models.AbsenceDay, error) {
	query := fmt.Sprintf("SELECT %s FROM absences WHERE absence_date >= $1 AND absence_date <= $2 ORDER BY absence_date ASC, teacher_id ASC", absenceColumns)
	var absences []models.AbsenceDay
	if err := r.db.SelectContext(ctx, &absences, query, start, end); err != nil {
		return nil, fmt.Errorf("list absences: %w", err)
	}
	return absences, nil
}

// ListByTeacher returns one teacher's absences inside [start, end].
func (r *AbsenceRepository) ListByTeacher(ctx context.Context, teacherID string, start, end time.Time) ([]models.AbsenceDay, error) {
	query := fmt.Sprintf("SELECT %s FROM absences WHERE teacher_id = $1 AND absence_date >= $2 AND absence_date <= $3 ORDER BY absence_date ASC", absenceColumns)
	var absences []models.AbsenceDay
	if err := r.db.SelectContext(ctx, &absences, query, teacherID, start, end); err != nil {
		return nil, fmt.Errorf("list teacher absences: %w", err)
	}
	return absences, nil
}

// ReplaceForDate swaps all of a teacher's absences on one calendar day
// for the given entries, in a single transaction.
func (r *AbsenceRepository) ReplaceForDate(ctx context.Context, teacherID string, date time.Time, entries []models.AbsenceDay) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace absences: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM absences WHERE teacher_id = $1 AND absence_date = $2`, teacherID, date); err != nil {
		return fmt.Errorf("clear absences: %w", err)
	}

	now := time.Now().UTC()
	const insert = `INSERT INTO absences (id, teacher_id, absence_date, is_all_day, start_time, end_time, created_at, updated_at)
		VALUES (:id, :teacher_id, :absence_date, :is_all_day, :start_time, :end_time, :created_at, :updated_at)`
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		entries[i].TeacherID = teacherID
		entries[i].Date = date
		if entries[i].CreatedAt.IsZero() {
			entries[i].CreatedAt = now
		}
		entries[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, insert, entries[i]); err != nil {
			return fmt.Errorf("insert absence: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace absences: %w", err)
	}
	return nil
}

// Delete removes one absence entry, reporting the affected row count.
func (r *AbsenceRepository) Delete(ctx context.Context, id string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM absences WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete absence: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete absence rows: %w", err)
	}
	return rows, nil
}
