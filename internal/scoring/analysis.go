package scoring

import (
	"fmt"
	"sort"

	"github.com/noah-isme/score-tracker-api/internal/models"
)

// JoinCurriculum left-joins results with units on (subject, lesson_type,
// test_number). A result matching several units appears once per unit; a
// result matching none appears once with nil curriculum fields.
func JoinCurriculum(rows []models.EnrichedResult, units []models.CurriculumUnit) []models.WeakTopic {
	bySlot := make(map[models.ResultKey][]models.CurriculumUnit, len(units))
	for _, u := range units {
		bySlot[u.Slot()] = append(bySlot[u.Slot()], u)
	}

	out := make([]models.WeakTopic, 0, len(rows))
	for _, r := range rows {
		matches := bySlot[r.Key()]
		if len(matches) == 0 {
			out = append(out, models.WeakTopic{EnrichedResult: r})
			continue
		}
		for _, u := range matches {
			name := u.UnitName
			out = append(out, models.WeakTopic{EnrichedResult: r, UnitName: &name, Content: u.Content})
		}
	}
	return out
}

// BelowThreshold keeps rows whose relative score is strictly below threshold,
// worst first. Rows without a relative score are dropped.
func BelowThreshold(rows []models.WeakTopic, threshold float64) []models.WeakTopic {
	out := make([]models.WeakTopic, 0)
	for _, r := range rows {
		if r.RelativeScore != nil && *r.RelativeScore < threshold {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].RelativeScore < *out[j].RelativeScore
	})
	return out
}

type accumulator struct {
	relSum, rateSum float64
	relN, rateN     int
	count           int
}

// SubjectAggregate groups rows by subject. Means are taken over defined values
// only; subjects without rows are omitted. Output is ordered by mean relative
// score ascending, subjects without any relative score last.
func SubjectAggregate(rows []models.EnrichedResult) []models.SubjectAggregate {
	acc := make(map[models.Subject]*accumulator)
	var order []models.Subject
	for _, r := range rows {
		a, ok := acc[r.Subject]
		if !ok {
			a = &accumulator{}
			acc[r.Subject] = a
			order = append(order, r.Subject)
		}
		a.count++
		if r.RelativeScore != nil {
			a.relSum += *r.RelativeScore
			a.relN++
		}
		if r.ScoreRate != nil {
			a.rateSum += *r.ScoreRate
			a.rateN++
		}
	}

	out := make([]models.SubjectAggregate, 0, len(order))
	for _, s := range order {
		a := acc[s]
		agg := models.SubjectAggregate{Subject: s, Count: a.count}
		if a.relN > 0 {
			agg.MeanRelativeScore = rounded(a.relSum / float64(a.relN))
		}
		if a.rateN > 0 {
			agg.MeanScoreRate = rounded(a.rateSum / float64(a.rateN))
		}
		out = append(out, agg)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].MeanRelativeScore, out[j].MeanRelativeScore
		switch {
		case a == nil && b == nil:
			return out[i].Subject.Before(out[j].Subject)
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a < *b
		}
		return out[i].Subject.Before(out[j].Subject)
	})
	return out
}

// SlotLabel renders a lesson slot the way charts label it, e.g. "Regular #3".
func SlotLabel(lessonType models.LessonType, testNumber int) string {
	return fmt.Sprintf("%s #%d", lessonType, testNumber)
}

// MetricValue picks the value a trend series plots for the row.
func MetricValue(r models.EnrichedResult, metric models.TrendMetric) *float64 {
	switch metric {
	case models.MetricScoreRate:
		return r.ScoreRate
	case models.MetricScore:
		v := r.Score
		return &v
	default:
		return r.RelativeScore
	}
}

// Trend builds one chronological series per subject, in subject display order.
// Subjects without rows are omitted.
func Trend(rows []models.EnrichedResult, metric models.TrendMetric) []models.TrendSeries {
	sorted := make([]models.EnrichedResult, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].TestDate.Equal(sorted[j].TestDate) {
			return sorted[i].TestDate.Before(sorted[j].TestDate)
		}
		return sorted[i].TestNumber < sorted[j].TestNumber
	})

	bySubject := make(map[models.Subject][]models.TrendPoint)
	for _, r := range sorted {
		bySubject[r.Subject] = append(bySubject[r.Subject], models.TrendPoint{
			ResultID:   r.ID,
			Label:      SlotLabel(r.LessonType, r.TestNumber),
			TestDate:   r.TestDate.Format(models.DateLayout),
			LessonType: r.LessonType,
			TestNumber: r.TestNumber,
			Value:      MetricValue(r, metric),
		})
	}

	out := make([]models.TrendSeries, 0, len(bySubject))
	for _, s := range models.Subjects {
		if points, ok := bySubject[s]; ok {
			out = append(out, models.TrendSeries{Subject: s, Metric: metric, Points: points})
		}
	}
	return out
}

// SlotMap orders a subject's joined rows by lesson type then test number and
// flags those below threshold.
func SlotMap(rows []models.WeakTopic, subject models.Subject, threshold float64) []models.SlotScore {
	out := make([]models.SlotScore, 0)
	for _, r := range rows {
		if r.Subject != subject {
			continue
		}
		out = append(out, models.SlotScore{
			WeakTopic: r,
			Label:     SlotLabel(r.LessonType, r.TestNumber),
			Weak:      r.RelativeScore != nil && *r.RelativeScore < threshold,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := out[i].LessonType.Order(), out[j].LessonType.Order()
		if oi != oj {
			return oi < oj
		}
		return out[i].TestNumber < out[j].TestNumber
	})
	return out
}
