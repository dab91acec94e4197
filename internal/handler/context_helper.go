package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/score-tracker-api/internal/models"
	appErrors "github.com/noah-isme/score-tracker-api/pkg/errors"
)

// lessonTypesFromQuery accepts both repeated and comma separated lesson_type values.
func lessonTypesFromQuery(c *gin.Context) []models.LessonType {
	var out []models.LessonType
	for _, raw := range c.QueryArray("lesson_type") {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, models.LessonType(part))
			}
		}
	}
	return out
}

func thresholdFromQuery(c *gin.Context, fallback float64) (float64, error) {
	raw := strings.TrimSpace(c.Query("threshold"))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Invalid(err, "threshold must be an integer")
	}
	return float64(v), nil
}

func intFromQuery(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, appErrors.Invalid(err, key+" must be an integer")
	}
	return v, nil
}
