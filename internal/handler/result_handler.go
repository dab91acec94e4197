package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/score-tracker-api/internal/middleware"
	"github.com/noah-isme/score-tracker-api/internal/models"
	"github.com/noah-isme/score-tracker-api/internal/service"
	appErrors "github.com/noah-isme/score-tracker-api/pkg/errors"
	"github.com/noah-isme/score-tracker-api/pkg/response"
)

type resultService interface {
	LoadEnriched(ctx context.Context, lessonTypes ...models.LessonType) ([]models.EnrichedResult, error)
	Recent(ctx context.Context, limit int) ([]models.EnrichedResult, error)
	Submit(ctx context.Context, req service.SubmitScoreRequest) ([]service.SubjectOutcome, error)
	Delete(ctx context.Context, id int64) error
}

type exportService interface {
	Export(ctx context.Context, format service.ExportFormat, lessonTypes ...models.LessonType) (*service.ExportFile, error)
}

// ResultHandler exposes test result endpoints.
type ResultHandler struct {
	results resultService
	exports exportService
}

// NewResultHandler builds a new handler.
func NewResultHandler(results resultService, exports exportService) *ResultHandler {
	return &ResultHandler{results: results, exports: exports}
}

// List godoc
// @Summary List enriched test results
// @Tags Results
// @Produce json
// @Param lesson_type query []string false "Lesson type filter" collectionFormat(multi)
// @Success 200 {object} response.Envelope
// @Router /results [get]
func (h *ResultHandler) List(c *gin.Context) {
	rows, err := h.results.LoadEnriched(c.Request.Context(), lessonTypesFromQuery(c)...)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "count", len(rows))
	response.JSON(c, http.StatusOK, rows, middleware.ExtractMeta(c))
}

// Recent godoc
// @Summary List the newest test results
// @Tags Results
// @Produce json
// @Param limit query int false "Maximum rows (default 20)"
// @Success 200 {object} response.Envelope
// @Router /results/recent [get]
func (h *ResultHandler) Recent(c *gin.Context) {
	limit, err := intFromQuery(c, "limit")
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.results.Recent(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, middleware.ExtractMeta(c))
}

// Submit godoc
// @Summary Record scores of one test for several subjects
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.SubmitScoreRequest true "Score submission"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /results/submit [post]
func (h *ResultHandler) Submit(c *gin.Context) {
	var req service.SubmitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Invalid(err, "invalid score submission payload"))
		return
	}
	outcomes, err := h.results.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	summary := make(map[models.SaveOutcome]int)
	for _, o := range outcomes {
		summary[o.Outcome]++
	}
	middleware.SetMeta(c, "summary", summary)
	response.JSON(c, http.StatusOK, outcomes, middleware.ExtractMeta(c))
}

// Delete godoc
// @Summary Delete a test result
// @Tags Results
// @Param id path int true "Result ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /results/{id} [delete]
func (h *ResultHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Invalid(err, "id must be an integer"))
		return
	}
	if err := h.results.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Download enriched test results
// @Tags Results
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Param lesson_type query []string false "Lesson type filter" collectionFormat(multi)
// @Success 200 {file} file
// @Router /results/export [get]
func (h *ResultHandler) Export(c *gin.Context) {
	file, err := h.exports.Export(c.Request.Context(), service.ExportFormat(c.DefaultQuery("format", "csv")), lessonTypesFromQuery(c)...)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
