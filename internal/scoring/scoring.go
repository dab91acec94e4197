// Package scoring converts raw (score, average, max, std dev) tuples into
// comparable metrics and aggregates them. Every function is pure.
package scoring

import (
	"strconv"

	"github.com/noah-isme/score-tracker-api/internal/models"
)

// Round rounds v to one decimal place. Rounding works on the exact binary
// value of v, so only true ties go to the even digit: 62.25 becomes 62.2
// while 0.15, stored as 0.1499..., becomes 0.1.
func Round(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}

func rounded(v float64) *float64 {
	r := Round(v)
	return &r
}

// ScoreRate is score as a percentage of maxScore. Nil when maxScore <= 0.
func ScoreRate(score, maxScore float64) *float64 {
	if maxScore <= 0 {
		return nil
	}
	return rounded(score / maxScore * 100)
}

// AvgRate is the cohort average as a percentage of maxScore. Nil when maxScore <= 0.
func AvgRate(averageScore, maxScore float64) *float64 {
	return ScoreRate(averageScore, maxScore)
}

// RelativeScore centres the score rate on the cohort average: 50 is exactly
// average and each percentage point of difference moves it by one. Nil when
// maxScore <= 0.
func RelativeScore(score, averageScore, maxScore float64) *float64 {
	if maxScore <= 0 {
		return nil
	}
	return rounded((score/maxScore-averageScore/maxScore)*100 + 50)
}

// Deviation is the T-score of score against the cohort. Nil when stdDev is
// absent or not positive.
func Deviation(score, averageScore float64, stdDev *float64) *float64 {
	if stdDev == nil || *stdDev <= 0 {
		return nil
	}
	return rounded((score-averageScore)/(*stdDev)*10 + 50)
}

// EnrichOne attaches the derived metrics to a single result.
func EnrichOne(r models.TestResult) models.EnrichedResult {
	return models.EnrichedResult{
		TestResult:    r,
		ScoreRate:     ScoreRate(r.Score, r.MaxScore),
		AvgRate:       AvgRate(r.AverageScore, r.MaxScore),
		RelativeScore: RelativeScore(r.Score, r.AverageScore, r.MaxScore),
		Deviation:     Deviation(r.Score, r.AverageScore, r.StdDev),
	}
}

// Enrich maps EnrichOne over rows. Rows whose metrics are undefined keep nil
// fields; they never abort the batch.
func Enrich(rows []models.TestResult) []models.EnrichedResult {
	out := make([]models.EnrichedResult, 0, len(rows))
	for _, r := range rows {
		out = append(out, EnrichOne(r))
	}
	return out
}
