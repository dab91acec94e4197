package models

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for test dates.
const DateLayout = "2006-01-02"

// ResultKey is the natural key of a test result: one curriculum slot for one subject.
type ResultKey struct {
	LessonType LessonType `json:"lesson_type"`
	TestNumber int        `json:"test_number"`
	Subject    Subject    `json:"subject"`
}

func (k ResultKey) String() string {
	return fmt.Sprintf("%s/%d/%s", k.LessonType, k.TestNumber, k.Subject)
}

// TestResult is a recorded score. ID is zero until the store assigns one.
type TestResult struct {
	ID           int64      `db:"id" json:"id"`
	TestDate     time.Time  `db:"test_date" json:"test_date"`
	LessonType   LessonType `db:"lesson_type" json:"lesson_type"`
	TestNumber   int        `db:"test_number" json:"test_number"`
	Subject      Subject    `db:"subject" json:"subject"`
	Score        float64    `db:"score" json:"score"`
	AverageScore float64    `db:"average_score" json:"average_score"`
	MaxScore     float64    `db:"max_score" json:"max_score"`
	StdDev       *float64   `db:"std_dev" json:"std_dev,omitempty"`
	Memo         *string    `db:"memo" json:"memo,omitempty"`
}

// Key returns the natural key of the result.
func (r TestResult) Key() ResultKey {
	return ResultKey{LessonType: r.LessonType, TestNumber: r.TestNumber, Subject: r.Subject}
}

// EnrichedResult carries the derived metrics of a result. A nil metric means it
// could not be computed for that row.
type EnrichedResult struct {
	TestResult
	ScoreRate     *float64 `json:"score_rate"`
	AvgRate       *float64 `json:"avg_rate"`
	RelativeScore *float64 `json:"relative_score"`
	Deviation     *float64 `json:"deviation"`
}

// SaveOutcome reports what a mutating action did for one record.
type SaveOutcome string

const (
	OutcomeSaved   SaveOutcome = "saved"
	OutcomeUpdated SaveOutcome = "updated"
	OutcomeSkipped SaveOutcome = "skipped"
	OutcomeFailed  SaveOutcome = "failed"
)

// SubmitMode selects how a submission treats existing records.
type SubmitMode string

const (
	// SubmitModeUpsert overwrites a result sharing the natural key.
	SubmitModeUpsert SubmitMode = "upsert"
	// SubmitModeAppend skips a result sharing the natural key and test date.
	SubmitModeAppend SubmitMode = "append"
)
