package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subplan-io/subplan-api/internal/dto"
	"github.com/subplan-io/subplan-api/internal/service"
	appErrors "github.com/subplan-io/subplan-api/pkg/errors"
	"github.com/subplan-io/subplan-api/pkg/response"
)

// SubstitutionHandler exposes the substitute recommender and the
// confirmation endpoint.
type SubstitutionHandler struct {
	substitutes *service.SubstituteService
}

// NewSubstitutionHandler constructs a new SubstitutionHandler.
func NewSubstitutionHandler(substitutes *service.SubstituteService) *SubstitutionHandler {
	return &SubstitutionHandler{substitutes: substitutes}
}

// Recommend godoc
// @Summary Recommend a substitute for one lesson
// @Tags Substitutions
// @Accept json
// @Produce json
// @Param payload body dto.RecommendationRequest true "Lesson to cover"
// @Success 200 {object} response.Envelope
// @Router /substitutions/recommend [post]
func (h *SubstitutionHandler) Recommend(c *gin.Context) {
	var req dto.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid recommendation payload"))
		return
	}
	recommendation, err := h.substitutes.Recommend(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, recommendation, nil)
}

// Confirm godoc
// @Summary Record a confirmed substitute assignment
// @Tags Substitutions
// @Accept json
// @Produce json
// @Param payload body dto.ConfirmSubstitutionRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /substitutions [post]
func (h *SubstitutionHandler) Confirm(c *gin.Context) {
	var req dto.ConfirmSubstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid substitution payload"))
		return
	}
	record, err := h.substitutes.Confirm(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}
