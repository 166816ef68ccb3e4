package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/subplan-io/subplan-api/internal/models"
)

// TimeSlotRepository manages the shared school-day grid. The catalog is
// small and replaced wholesale, never patched slot by slot.
type TimeSlotRepository struct {
	db    *sqlx.DB
	cache *SnapshotCache
}

// NewTimeSlotRepository constructs a TimeSlotRepository.
func NewTimeSlotRepository(db *sqlx.DB, cache *SnapshotCache) *TimeSlotRepository {
	return &TimeSlotRepository{db: db, cache: cache}
}

// ListAll returns the slot catalog ordered by start time.
func (r *TimeSlotRepository) ListAll(ctx context.Context) ([]models.TimeSlot, error) {
	var cached []models.TimeSlot
	if r.cache.Get(ctx, slotSnapshotKey, &cached) {
		return cached, nil
	}

	const query = `SELECT id, start_time, end_time, slot_type, created_at, updated_at FROM time_slots ORDER BY start_time ASC`
	var slots []models.TimeSlot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	r.cache.Set(ctx, slotSnapshotKey, slots)
	return slots, nil
}

// ReplaceAll swaps the entire catalog in one transaction.
func (r *TimeSlotRepository) ReplaceAll(ctx context.Context, slots []models.TimeSlot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace time slots: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM time_slots`); err != nil {
		return fmt.Errorf("clear time slots: %w", err)
	}

	now := time.Now().UTC()
	const insert = `INSERT INTO time_slots (id, start_time, end_time, slot_type, created_at, updated_at)
		VALUES (:id, :start_time, :end_time, :slot_type, :created_at, :updated_at)`
	for i := range slots {
		if slots[i].ID == "" {
			slots[i].ID = uuid.NewString()
		}
		if slots[i].CreatedAt.IsZero() {
			slots[i].CreatedAt = now
		}
		slots[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, insert, slots[i]); err != nil {
			return fmt.Errorf("insert time slot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace time slots: %w", err)
	}
	r.cache.Invalidate(ctx, slotSnapshotKey)
	return nil
}
