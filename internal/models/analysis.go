package models

// WeakTopic is an enriched result left-joined with the curriculum unit of its
// slot. UnitName and Content are nil when no unit is recorded for the slot.
type WeakTopic struct {
	EnrichedResult
	UnitName *string `json:"unit_name"`
	Content  *string `json:"content"`
}

// SubjectAggregate summarises all results of one subject.
type SubjectAggregate struct {
	Subject           Subject  `json:"subject"`
	MeanRelativeScore *float64 `json:"mean_relative_score"`
	MeanScoreRate     *float64 `json:"mean_score_rate"`
	Count             int      `json:"count"`
}

// TrendMetric selects which value a trend series plots.
type TrendMetric string

const (
	MetricRelativeScore TrendMetric = "relative_score"
	MetricScoreRate     TrendMetric = "score_rate"
	MetricScore         TrendMetric = "score"
)

// Valid reports whether m is a supported trend metric.
func (m TrendMetric) Valid() bool {
	switch m {
	case MetricRelativeScore, MetricScoreRate, MetricScore:
		return true
	}
	return false
}

// TrendFilter scopes trend queries.
type TrendFilter struct {
	Subject     Subject
	LessonTypes []LessonType
	Metric      TrendMetric
}

// TrendPoint is one plotted value of a trend series.
type TrendPoint struct {
	ResultID   int64      `json:"result_id"`
	Label      string     `json:"label"`
	TestDate   string     `json:"test_date"`
	LessonType LessonType `json:"lesson_type"`
	TestNumber int        `json:"test_number"`
	Value      *float64   `json:"value"`
}

// TrendSeries holds the points of one subject in chronological order.
type TrendSeries struct {
	Subject Subject      `json:"subject"`
	Metric  TrendMetric  `json:"metric"`
	Points  []TrendPoint `json:"points"`
}

// SlotScore is one entry of a subject's per-slot score map.
type SlotScore struct {
	WeakTopic
	Label string `json:"label"`
	Weak  bool   `json:"weak"`
}
