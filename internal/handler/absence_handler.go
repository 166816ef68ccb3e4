package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/subplan-io/subplan-api/internal/models"
	"github.com/subplan-io/subplan-api/internal/service"
	appErrors "github.com/subplan-io/subplan-api/pkg/errors"
	"github.com/subplan-io/subplan-api/pkg/response"
)

// AbsenceHandler wires the absence calendar to HTTP routes.
type AbsenceHandler struct {
	absences *service.AbsenceService
}

// NewAbsenceHandler constructs a new AbsenceHandler.
func NewAbsenceHandler(absences *service.AbsenceService) *AbsenceHandler {
	return &AbsenceHandler{absences: absences}
}

// ListForTeacher godoc
// @Summary List a teacher's absences in a date range
// @Tags Absences
// @Produce json
// @Param id path string true "Teacher ID"
// @Param start query string true "Range start (YYYY-MM-DD)"
// @Param end query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/absences [get]
func (h *AbsenceHandler) ListForTeacher(c *gin.Context) {
	rng, err := dateRangeFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	absences, err := h.absences.ListForTeacher(c.Request.Context(), c.Param("id"), rng)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, absences, nil)
}

// SetForDate godoc
// @Summary Replace a teacher's absences for one date
// @Tags Absences
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body service.SetAbsencesRequest true "Absence payload"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/absences [put]
func (h *AbsenceHandler) SetForDate(c *gin.Context) {
	var req service.SetAbsencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid absence payload"))
		return
	}
	entries, err := h.absences.SetForDate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Delete godoc
// @Summary Delete one absence entry
// @Tags Absences
// @Param id path string true "Absence ID"
// @Success 204
// @Router /absences/{id} [delete]
func (h *AbsenceHandler) Delete(c *gin.Context) {
	if err := h.absences.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// dateRangeFromQuery parses the start/end query params shared by range
// endpoints.
func dateRangeFromQuery(c *gin.Context) (models.DateRange, error) {
	return parseDateRange(c.Query("start"), c.Query("end"))
}

func parseDateRange(startStr, endStr string) (models.DateRange, error) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return models.DateRange{}, appErrors.Clone(appErrors.ErrValidation, "start must be formatted YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return models.DateRange{}, appErrors.Clone(appErrors.ErrValidation, "end must be formatted YYYY-MM-DD")
	}
	return models.DateRange{Start: start, End: end}, nil
}
