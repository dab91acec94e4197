package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/score-tracker-api/internal/middleware"
	"github.com/noah-isme/score-tracker-api/internal/models"
	"github.com/noah-isme/score-tracker-api/internal/service"
	"github.com/noah-isme/score-tracker-api/pkg/response"
)

type curriculumService interface {
	UnitsFor(ctx context.Context, subject models.Subject, lessonType models.LessonType, testNumber int) ([]models.CurriculumUnit, error)
	AvailableTestNumbers(ctx context.Context, lessonType models.LessonType) (*service.TestNumbers, error)
	List(ctx context.Context, filter models.CurriculumFilter) ([]models.CurriculumUnit, error)
}

// CurriculumHandler exposes curriculum lookups.
type CurriculumHandler struct {
	service curriculumService
}

// NewCurriculumHandler builds a new handler.
func NewCurriculumHandler(service curriculumService) *CurriculumHandler {
	return &CurriculumHandler{service: service}
}

// Units godoc
// @Summary List curriculum units
// @Description With subject, lesson_type and test_number all set the lookup is an exact slot match.
// @Tags Curriculum
// @Produce json
// @Param subject query string false "Subject"
// @Param lesson_type query string false "Lesson type"
// @Param test_number query int false "Test number"
// @Success 200 {object} response.Envelope
// @Router /curriculum/units [get]
func (h *CurriculumHandler) Units(c *gin.Context) {
	testNumber, err := intFromQuery(c, "test_number")
	if err != nil {
		response.Error(c, err)
		return
	}
	subject := models.Subject(c.Query("subject"))
	lessonType := models.LessonType(c.Query("lesson_type"))

	var units []models.CurriculumUnit
	if subject != "" && lessonType != "" && testNumber != 0 {
		units, err = h.service.UnitsFor(c.Request.Context(), subject, lessonType, testNumber)
	} else {
		units, err = h.service.List(c.Request.Context(), models.CurriculumFilter{Subject: subject, LessonType: lessonType, TestNumber: testNumber})
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, units, middleware.ExtractMeta(c))
}

// TestNumbers godoc
// @Summary List selectable test numbers for a lesson type
// @Tags Curriculum
// @Produce json
// @Param lesson_type query string true "Lesson type"
// @Success 200 {object} response.Envelope
// @Router /curriculum/test-numbers [get]
func (h *CurriculumHandler) TestNumbers(c *gin.Context) {
	numbers, err := h.service.AvailableTestNumbers(c.Request.Context(), models.LessonType(c.Query("lesson_type")))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "fallback", numbers.Fallback)
	response.JSON(c, http.StatusOK, numbers.Numbers, middleware.ExtractMeta(c))
}
