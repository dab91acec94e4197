package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/score-tracker-api/internal/models"
	"github.com/noah-isme/score-tracker-api/internal/scoring"
	appErrors "github.com/noah-isme/score-tracker-api/pkg/errors"
	"github.com/noah-isme/score-tracker-api/pkg/validation"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 200
)

type testResultRepository interface {
	List(ctx context.Context) ([]models.TestResult, error)
	ListRecent(ctx context.Context, limit int) ([]models.TestResult, error)
	FindByKey(ctx context.Context, key models.ResultKey) (*models.TestResult, error)
	Create(ctx context.Context, result *models.TestResult) error
	Update(ctx context.Context, result *models.TestResult) error
	Delete(ctx context.Context, id int64) error
}

// SubjectScoreInput carries the measured values of one subject.
type SubjectScoreInput struct {
	Subject      models.Subject `json:"subject" validate:"required,subject"`
	Score        *float64       `json:"score" validate:"required,gte=0,lte=500"`
	AverageScore *float64       `json:"average_score" validate:"required,gte=0,lte=500"`
	MaxScore     *float64       `json:"max_score" validate:"required,gt=0,lte=500"`
	StdDev       *float64       `json:"std_dev" validate:"omitempty,gte=0,lte=200"`
}

// SubmitScoreRequest records the scores of one test slot for one or more subjects.
type SubmitScoreRequest struct {
	TestDate   string              `json:"test_date" validate:"omitempty,datetime=2006-01-02"`
	LessonType models.LessonType   `json:"lesson_type" validate:"required,lesson_type"`
	TestNumber int                 `json:"test_number" validate:"required,min=1,max=50"`
	Memo       string              `json:"memo" validate:"max=2000"`
	Mode       models.SubmitMode   `json:"mode" validate:"omitempty,oneof=upsert append"`
	Scores     []SubjectScoreInput `json:"scores" validate:"required,min=1,dive"`
}

// SubjectOutcome reports what a submission did for one subject.
type SubjectOutcome struct {
	Subject  models.Subject     `json:"subject"`
	Outcome  models.SaveOutcome `json:"outcome"`
	ResultID *int64             `json:"result_id,omitempty"`
	Reason   string             `json:"reason,omitempty"`
}

// NewScoreValidator returns a validator that knows the subject and
// lesson_type tags used by score submissions.
func NewScoreValidator() *validation.Validator {
	subjects := make([]string, len(models.Subjects))
	for i, s := range models.Subjects {
		subjects[i] = string(s)
	}
	lessonTypes := make([]string, len(models.LessonTypes))
	for i, l := range models.LessonTypes {
		lessonTypes[i] = string(l)
	}
	return validation.New(
		validation.Enum{Tag: "subject", Values: subjects},
		validation.Enum{Tag: "lesson_type", Values: lessonTypes},
	)
}

// ResultService owns the upsert contract for test results.
type ResultService struct {
	repo      testResultRepository
	metrics   *MetricsService
	validator *validation.Validator
	logger    *zap.Logger
	now       func() time.Time
}

// NewResultService builds the service.
func NewResultService(repo testResultRepository, metrics *MetricsService, validate *validation.Validator, logger *zap.Logger) *ResultService {
	if validate == nil {
		validate = NewScoreValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{
		repo:      repo,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Load returns every stored result in chronological order. An empty store
// yields an empty slice; a failing store yields ErrStoreUnavailable.
func (s *ResultService) Load(ctx context.Context) ([]models.TestResult, error) {
	start := time.Now()
	rows, err := s.repo.List(ctx)
	s.metrics.ObserveDBQuery("results_list", time.Since(start))
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to load test results")
	}
	if rows == nil {
		rows = []models.TestResult{}
	}
	return rows, nil
}

// LoadEnriched returns all results with derived metrics, optionally restricted
// to the given lesson types.
func (s *ResultService) LoadEnriched(ctx context.Context, lessonTypes ...models.LessonType) ([]models.EnrichedResult, error) {
	for _, lt := range lessonTypes {
		if !lt.Valid() {
			return nil, appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("unknown lesson type %q", lt))
		}
	}
	rows, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return scoring.Enrich(filterLessonTypes(rows, lessonTypes)), nil
}

// Recent returns the newest results first. A non-positive limit uses the default of 20.
func (s *ResultService) Recent(ctx context.Context, limit int) ([]models.EnrichedResult, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	start := time.Now()
	rows, err := s.repo.ListRecent(ctx, limit)
	s.metrics.ObserveDBQuery("results_recent", time.Since(start))
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to load recent test results")
	}
	return scoring.Enrich(rows), nil
}

// FindDuplicate returns the first row sharing key. When testDate is set the
// row must also share the calendar date.
func FindDuplicate(rows []models.TestResult, key models.ResultKey, testDate *time.Time) *models.TestResult {
	for i := range rows {
		if rows[i].Key() != key {
			continue
		}
		if testDate != nil && !sameDay(rows[i].TestDate, *testDate) {
			continue
		}
		return &rows[i]
	}
	return nil
}

// Upsert stores result under its natural key. An existing row keeps its id and
// test date and takes the new measured values.
func (s *ResultService) Upsert(ctx context.Context, result *models.TestResult) (models.SaveOutcome, error) {
	start := time.Now()
	existing, err := s.repo.FindByKey(ctx, result.Key())
	s.metrics.ObserveDBQuery("results_find_by_key", time.Since(start))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return models.OutcomeFailed, appErrors.Unavailable(err, "failed to look up test result")
	}

	if existing != nil {
		existing.Score = result.Score
		existing.AverageScore = result.AverageScore
		existing.MaxScore = result.MaxScore
		existing.StdDev = result.StdDev
		existing.Memo = result.Memo

		err := s.repo.Update(ctx, existing)
		if err == nil {
			*result = *existing
			return models.OutcomeUpdated, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return models.OutcomeFailed, appErrors.Unavailable(err, "failed to update test result")
		}
		// Row vanished between lookup and update; fall through to insert.
	}

	if err := s.repo.Create(ctx, result); err != nil {
		return models.OutcomeFailed, appErrors.Unavailable(err, "failed to save test result")
	}
	return models.OutcomeSaved, nil
}

// Append inserts result unless existing already holds a row with the same
// natural key, whatever its date, in which case it reports skipped. The
// stored row is left untouched.
func (s *ResultService) Append(ctx context.Context, result *models.TestResult, existing []models.TestResult) (models.SaveOutcome, error) {
	if dup := FindDuplicate(existing, result.Key(), nil); dup != nil {
		return models.OutcomeSkipped, appErrors.Clone(appErrors.ErrDuplicateKey, fmt.Sprintf("already recorded on %s", dup.TestDate.Format(models.DateLayout)))
	}
	if err := s.repo.Create(ctx, result); err != nil {
		return models.OutcomeFailed, appErrors.Unavailable(err, "failed to save test result")
	}
	return models.OutcomeSaved, nil
}

// Submit validates the whole request and then stores each subject
// independently. One subject failing does not stop the others.
func (s *ResultService) Submit(ctx context.Context, req SubmitScoreRequest) ([]SubjectOutcome, error) {
	testDate, err := s.validateSubmit(req)
	if err != nil {
		return nil, err
	}

	mode := req.Mode
	if mode == "" {
		mode = models.SubmitModeUpsert
	}

	var existing []models.TestResult
	if mode == models.SubmitModeAppend {
		if existing, err = s.Load(ctx); err != nil {
			return nil, err
		}
	}

	memo := optionalString(req.Memo)
	outcomes := make([]SubjectOutcome, 0, len(req.Scores))
	for _, in := range req.Scores {
		result := &models.TestResult{
			TestDate:     testDate,
			LessonType:   req.LessonType,
			TestNumber:   req.TestNumber,
			Subject:      in.Subject,
			Score:        *in.Score,
			AverageScore: *in.AverageScore,
			MaxScore:     *in.MaxScore,
			StdDev:       positiveOrNil(in.StdDev),
			Memo:         memo,
		}

		var outcome models.SaveOutcome
		if mode == models.SubmitModeAppend {
			outcome, err = s.Append(ctx, result, existing)
		} else {
			outcome, err = s.Upsert(ctx, result)
		}

		item := SubjectOutcome{Subject: in.Subject, Outcome: outcome}
		if err == nil {
			id := result.ID
			item.ResultID = &id
		} else {
			item.Reason = appErrors.FromError(err).Message
		}
		if outcome == models.OutcomeFailed {
			s.logger.Warn("score submission failed",
				zap.String("subject", string(in.Subject)),
				zap.String("key", result.Key().String()),
				zap.Error(err),
			)
		}
		s.metrics.RecordSubmission(in.Subject, outcome)
		outcomes = append(outcomes, item)
	}

	s.logger.Info("scores submitted",
		zap.String("lesson_type", string(req.LessonType)),
		zap.Int("test_number", req.TestNumber),
		zap.String("mode", string(mode)),
		zap.Int("subjects", len(outcomes)),
	)
	return outcomes, nil
}

// Delete removes a result. A missing id yields ErrNotFound.
func (s *ResultService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return appErrors.Clone(appErrors.ErrInvalidInput, "id must be positive")
	}
	start := time.Now()
	err := s.repo.Delete(ctx, id)
	s.metrics.ObserveDBQuery("results_delete", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "test result not found")
		}
		return appErrors.Unavailable(err, "failed to delete test result")
	}
	return nil
}

func (s *ResultService) validateSubmit(req SubmitScoreRequest) (time.Time, error) {
	if err := s.validator.Struct(req); err != nil {
		return time.Time{}, appErrors.Invalid(err, s.validator.Describe(err))
	}

	seen := make(map[models.Subject]struct{}, len(req.Scores))
	for _, in := range req.Scores {
		if _, dup := seen[in.Subject]; dup {
			return time.Time{}, appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("subject %q submitted twice", in.Subject))
		}
		seen[in.Subject] = struct{}{}
	}

	if req.TestDate == "" {
		now := s.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	testDate, err := time.Parse(models.DateLayout, req.TestDate)
	if err != nil {
		return time.Time{}, appErrors.Invalid(err, "test_date must be YYYY-MM-DD")
	}
	return testDate, nil
}

func filterLessonTypes(rows []models.TestResult, lessonTypes []models.LessonType) []models.TestResult {
	if len(lessonTypes) == 0 {
		return rows
	}
	allowed := make(map[models.LessonType]struct{}, len(lessonTypes))
	for _, lt := range lessonTypes {
		allowed[lt] = struct{}{}
	}
	out := make([]models.TestResult, 0, len(rows))
	for _, r := range rows {
		if _, ok := allowed[r.LessonType]; ok {
			out = append(out, r)
		}
	}
	return out
}

func sameDay(a, b time.Time) bool {
	return a.Format(models.DateLayout) == b.Format(models.DateLayout)
}

func positiveOrNil(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	cp := *v
	return &cp
}

func optionalString(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
