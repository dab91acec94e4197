package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/score-tracker-api/internal/dto"
	"github.com/noah-isme/score-tracker-api/internal/models"
	"github.com/noah-isme/score-tracker-api/pkg/response"
)

const maxTestNumber = 50

type thresholdSource interface {
	DefaultThreshold() float64
	ThresholdBounds() (float64, float64)
}

// MetaHandler serves static vocabularies.
type MetaHandler struct {
	thresholds thresholdSource
}

// NewMetaHandler builds a new handler.
func NewMetaHandler(thresholds thresholdSource) *MetaHandler {
	return &MetaHandler{thresholds: thresholds}
}

// Enums godoc
// @Summary Subjects, lesson types, metrics and threshold bounds
// @Tags Meta
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.EnumsResponse}
// @Router /meta/enums [get]
func (h *MetaHandler) Enums(c *gin.Context) {
	lo, hi := h.thresholds.ThresholdBounds()
	response.JSON(c, http.StatusOK, dto.EnumsResponse{
		Subjects:    models.Subjects,
		LessonTypes: models.LessonTypes,
		Metrics:     []models.TrendMetric{models.MetricRelativeScore, models.MetricScoreRate, models.MetricScore},
		Threshold:   dto.ThresholdBounds{Min: lo, Max: hi, Default: h.thresholds.DefaultThreshold()},
		MaxTestNum:  maxTestNumber,
	})
}
