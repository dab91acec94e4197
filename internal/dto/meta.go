package dto

import "github.com/noah-isme/score-tracker-api/internal/models"

// ThresholdBounds describes the accepted weak-topic threshold range.
type ThresholdBounds struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
}

// EnumsResponse lists the fixed vocabularies clients render pickers from.
type EnumsResponse struct {
	Subjects    []models.Subject     `json:"subjects"`
	LessonTypes []models.LessonType  `json:"lesson_types"`
	Metrics     []models.TrendMetric `json:"metrics"`
	Threshold   ThresholdBounds      `json:"threshold"`
	MaxTestNum  int                  `json:"max_test_number"`
}
