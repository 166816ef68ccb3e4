package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subplan-io/subplan-api/internal/service"
	appErrors "github.com/subplan-io/subplan-api/pkg/errors"
	"github.com/subplan-io/subplan-api/pkg/response"
)

// TimeSlotHandler wires the time-slot catalog to HTTP routes.
type TimeSlotHandler struct {
	slots *service.TimeSlotService
}

// NewTimeSlotHandler constructs a new TimeSlotHandler.
func NewTimeSlotHandler(slots *service.TimeSlotService) *TimeSlotHandler {
	return &TimeSlotHandler{slots: slots}
}

// List godoc
// @Summary List the time-slot catalog
// @Tags TimeSlots
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /time-slots [get]
func (h *TimeSlotHandler) List(c *gin.Context) {
	slots, err := h.slots.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Replace godoc
// @Summary Replace the time-slot catalog
// @Tags TimeSlots
// @Accept json
// @Produce json
// @Param payload body service.ReplaceSlotsRequest true "Catalog payload"
// @Success 200 {object} response.Envelope
// @Router /time-slots [put]
func (h *TimeSlotHandler) Replace(c *gin.Context) {
	var req service.ReplaceSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid catalog payload"))
		return
	}
	slots, err := h.slots.Replace(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}
