package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/subplan-io/subplan-api/internal/models"
)

// SubstitutionRepository manages confirmed substitute assignments.
type SubstitutionRepository struct {
	db *sqlx.DB
}

// NewSubstitutionRepository constructs a SubstitutionRepository.
func NewSubstitutionRepository(db *sqlx.DB) *SubstitutionRepository {
	return &SubstitutionRepository{db: db}
}

const substitutionColumns = "id, sub_date, slot_start, class_id, subject, absent_teacher_id, absent_teacher_name, substitute_teacher_id, substitute_teacher_name, created_at"

// ListBetween returns all substitutions dated inside [start, end].
func (r *SubstitutionRepository) ListBetween(ctx context.Context, start, end time.Time) ([]models.SubstitutionRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM substitutions WHERE sub_date >= $1 AND sub_date <= $2 ORDER BY sub_date ASC, slot_start ASC", substitutionColumns)
	var records []models.SubstitutionRecord
	if err := r.db.SelectContext(ctx, &records, query, start, end); err != nil {
		return nil, fmt.Errorf("list substitutions: %w", err)
	}
	return records, nil
}

// FindBySlot fetches the substitution covering one lesson slot, if any.
// Callers translate sql.ErrNoRows.
func (r *SubstitutionRepository) FindBySlot(ctx context.Context, date time.Time, slotStart, classID string) (*models.SubstitutionRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM substitutions WHERE sub_date = $1 AND slot_start = $2 AND class_id = $3", substitutionColumns)
	var record models.SubstitutionRecord
	if err := r.db.GetContext(ctx, &record, query, date, slotStart, classID); err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a confirmed substitution record.
func (r *SubstitutionRepository) Create(ctx context.Context, record *models.SubstitutionRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO substitutions (id, sub_date, slot_start, class_id, subject, absent_teacher_id, absent_teacher_name, substitute_teacher_id, substitute_teacher_name, created_at)
		VALUES (:id, :sub_date, :slot_start, :class_id, :subject, :absent_teacher_id, :absent_teacher_name, :substitute_teacher_id, :substitute_teacher_name, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create substitution: %w", err)
	}
	return nil
}
