package service

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/subplan-io/subplan-api/internal/models"
	appErrors "github.com/subplan-io/subplan-api/pkg/errors"
)

type timeSlotStore interface {
	ListAll(ctx context.Context) ([]models.TimeSlot, error)
	ReplaceAll(ctx context.Context, slots []models.TimeSlot) error
}

// SlotDefinition is one entry of a catalog replacement payload.
type SlotDefinition struct {
	ID    string          `json:"id"`
	Start string          `json:"start" validate:"required,datetime=15:04"`
	End   string          `json:"end" validate:"required,datetime=15:04"`
	Type  models.SlotType `json:"type" validate:"required,oneof=lesson break"`
}

// ReplaceSlotsRequest swaps the whole time-slot catalog. The grid is
// edited as a unit in the settings screen, so partial updates are not
// offered.
type ReplaceSlotsRequest struct {
	Slots []SlotDefinition `json:"slots" validate:"required,min=1,dive"`
}

// TimeSlotService maintains the school-day grid.
type TimeSlotService struct {
	repo      timeSlotStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimeSlotService constructs a TimeSlotService.
func NewTimeSlotService(repo timeSlotStore, validate *validator.Validate, logger *zap.Logger) *TimeSlotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeSlotService{repo: repo, validator: validate, logger: logger}
}

// List returns the catalog ordered by start time.
func (s *TimeSlotService) List(ctx context.Context) ([]models.TimeSlot, error) {
	slots, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list time slots")
	}
	sort.Slice(slots, func(i, j int) bool {
		return clockValue(slots[i].Start) < clockValue(slots[j].Start)
	})
	return slots, nil
}

// Replace validates and installs a new catalog.
func (s *TimeSlotService) Replace(ctx context.Context, req ReplaceSlotsRequest) ([]models.TimeSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time slot payload")
	}

	slots := make([]models.TimeSlot, 0, len(req.Slots))
	for _, def := range req.Slots {
		id := def.ID
		if id == "" {
			id = uuid.NewString()
		}
		slots = append(slots, models.TimeSlot{
			ID:    id,
			Start: def.Start,
			End:   def.End,
			Type:  def.Type,
		})
	}
	if err := validateCatalog(slots); err != nil {
		return nil, err
	}
	sort.Slice(slots, func(i, j int) bool {
		return clockValue(slots[i].Start) < clockValue(slots[j].Start)
	})

	if err := s.repo.ReplaceAll(ctx, slots); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace time slots")
	}
	s.logger.Info("time slot catalog replaced", zap.Int("slots", len(slots)))
	return slots, nil
}
