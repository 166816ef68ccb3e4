package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/subplan-io/subplan-api/internal/dto"
	"github.com/subplan-io/subplan-api/internal/service"
	appErrors "github.com/subplan-io/subplan-api/pkg/errors"
	"github.com/subplan-io/subplan-api/pkg/export"
	"github.com/subplan-io/subplan-api/pkg/response"
)

// CoverageHandler exposes the absence-coverage pipeline over HTTP.
type CoverageHandler struct {
	coverage *service.CoverageService
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	title    string
}

// NewCoverageHandler constructs a new CoverageHandler.
func NewCoverageHandler(coverage *service.CoverageService, csv *export.CSVExporter, pdf *export.PDFExporter, title string) *CoverageHandler {
	if title == "" {
		title = "Uncovered lessons"
	}
	return &CoverageHandler{coverage: coverage, csv: csv, pdf: pdf, title: title}
}

// AffectedLessons godoc
// @Summary List lessons affected by absences in a date range
// @Tags Coverage
// @Produce json
// @Param start query string true "Range start (YYYY-MM-DD)"
// @Param end query string true "Range end (YYYY-MM-DD)"
// @Param only_uncovered query bool false "Drop lessons that already have coverage"
// @Success 200 {object} response.Envelope
// @Router /coverage/affected-lessons [get]
func (h *CoverageHandler) AffectedLessons(c *gin.Context) {
	var query dto.AffectedLessonQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid coverage query"))
		return
	}
	rng, err := parseDateRange(query.Start, query.End)
	if err != nil {
		response.Error(c, err)
		return
	}

	if query.OnlyUncovered {
		lessons, err := h.coverage.Uncovered(c.Request.Context(), rng)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, lessons, nil)
		return
	}

	lessons, err := h.coverage.AffectedLessons(c.Request.Context(), rng)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lessons, nil)
}

// ExportUncovered godoc
// @Summary Export uncovered lessons as CSV or PDF
// @Tags Coverage
// @Produce octet-stream
// @Param start query string true "Range start (YYYY-MM-DD)"
// @Param end query string true "Range end (YYYY-MM-DD)"
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} binary
// @Router /coverage/uncovered/export [get]
func (h *CoverageHandler) ExportUncovered(c *gin.Context) {
	rng, err := dateRangeFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	dataset, err := h.coverage.UncoveredDataset(c.Request.Context(), rng)
	if err != nil {
		response.Error(c, err)
		return
	}

	format := c.DefaultQuery("format", "csv")
	var payload []byte
	var mimeType, ext string
	switch format {
	case "csv":
		payload, err = h.csv.Render(dataset)
		mimeType, ext = "text/csv", "csv"
	case "pdf":
		payload, err = h.pdf.Render(dataset, h.title)
		mimeType, ext = "application/pdf", "pdf"
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
		return
	}
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export"))
		return
	}

	filename := fmt.Sprintf("uncovered-lessons_%s_%s.%s", rng.Start.Format("2006-01-02"), rng.End.Format("2006-01-02"), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, mimeType, payload)
}
