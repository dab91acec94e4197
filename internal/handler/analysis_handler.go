package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/score-tracker-api/internal/middleware"
	"github.com/noah-isme/score-tracker-api/internal/models"
	"github.com/noah-isme/score-tracker-api/pkg/response"
)

type analysisService interface {
	DefaultThreshold() float64
	Subjects(ctx context.Context) ([]models.SubjectAggregate, error)
	WeakTopics(ctx context.Context, threshold float64) ([]models.WeakTopic, error)
	Trend(ctx context.Context, filter models.TrendFilter) ([]models.TrendSeries, error)
	SubjectSlots(ctx context.Context, subject models.Subject, threshold float64) ([]models.SlotScore, error)
}

// AnalysisHandler exposes aggregate and weak-topic endpoints.
type AnalysisHandler struct {
	service analysisService
}

// NewAnalysisHandler builds a new handler.
func NewAnalysisHandler(service analysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// Subjects godoc
// @Summary Per-subject averages, worst first
// @Tags Analysis
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /analysis/subjects [get]
func (h *AnalysisHandler) Subjects(c *gin.Context) {
	aggs, err := h.service.Subjects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, aggs, middleware.ExtractMeta(c))
}

// WeakTopics godoc
// @Summary Results below the relative score threshold
// @Tags Analysis
// @Produce json
// @Param threshold query int false "Relative score threshold (default 48)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /analysis/weak-topics [get]
func (h *AnalysisHandler) WeakTopics(c *gin.Context) {
	threshold, err := thresholdFromQuery(c, h.service.DefaultThreshold())
	if err != nil {
		response.Error(c, err)
		return
	}
	topics, err := h.service.WeakTopics(c.Request.Context(), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "threshold", threshold)
	middleware.SetMeta(c, "count", len(topics))
	response.JSON(c, http.StatusOK, topics, middleware.ExtractMeta(c))
}

// Trend godoc
// @Summary Chronological metric series per subject
// @Tags Analysis
// @Produce json
// @Param metric query string false "relative_score, score_rate or score" Enums(relative_score, score_rate, score)
// @Param subject query string false "Subject"
// @Param lesson_type query []string false "Lesson type filter" collectionFormat(multi)
// @Success 200 {object} response.Envelope
// @Router /analysis/trend [get]
func (h *AnalysisHandler) Trend(c *gin.Context) {
	series, err := h.service.Trend(c.Request.Context(), models.TrendFilter{
		Subject:     models.Subject(c.Query("subject")),
		LessonTypes: lessonTypesFromQuery(c),
		Metric:      models.TrendMetric(c.Query("metric")),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, series, middleware.ExtractMeta(c))
}

// SubjectSlots godoc
// @Summary Slot-by-slot score map of one subject
// @Tags Analysis
// @Produce json
// @Param subject path string true "Subject"
// @Param threshold query int false "Relative score threshold (default 48)"
// @Success 200 {object} response.Envelope
// @Router /analysis/subjects/{subject}/slots [get]
func (h *AnalysisHandler) SubjectSlots(c *gin.Context) {
	threshold, err := thresholdFromQuery(c, h.service.DefaultThreshold())
	if err != nil {
		response.Error(c, err)
		return
	}
	slots, err := h.service.SubjectSlots(c.Request.Context(), models.Subject(c.Param("subject")), threshold)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "threshold", threshold)
	response.JSON(c, http.StatusOK, slots, middleware.ExtractMeta(c))
}
