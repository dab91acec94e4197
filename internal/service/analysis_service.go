package service

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/score-tracker-api/internal/models"
	"github.com/noah-isme/score-tracker-api/internal/scoring"
	"github.com/noah-isme/score-tracker-api/pkg/config"
	appErrors "github.com/noah-isme/score-tracker-api/pkg/errors"
)

type enrichedResultLoader interface {
	LoadEnriched(ctx context.Context, lessonTypes ...models.LessonType) ([]models.EnrichedResult, error)
}

type curriculumLister interface {
	List(ctx context.Context, filter models.CurriculumFilter) ([]models.CurriculumUnit, error)
}

// AnalysisService recomputes aggregates and weak topics on every call.
type AnalysisService struct {
	results    enrichedResultLoader
	curriculum curriculumLister
	cfg        config.WeaknessConfig
	logger     *zap.Logger
}

// NewAnalysisService builds the service.
func NewAnalysisService(results enrichedResultLoader, curriculum curriculumLister, cfg config.WeaknessConfig, logger *zap.Logger) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MinThreshold == 0 && cfg.MaxThreshold == 0 {
		cfg.MinThreshold, cfg.MaxThreshold = 30, 55
	}
	if cfg.DefaultThreshold == 0 {
		cfg.DefaultThreshold = 48
	}
	return &AnalysisService{results: results, curriculum: curriculum, cfg: cfg, logger: logger}
}

// DefaultThreshold is the threshold used when a caller does not pick one.
func (s *AnalysisService) DefaultThreshold() float64 {
	return float64(s.cfg.DefaultThreshold)
}

// ThresholdBounds returns the inclusive range of accepted thresholds.
func (s *AnalysisService) ThresholdBounds() (float64, float64) {
	return float64(s.cfg.MinThreshold), float64(s.cfg.MaxThreshold)
}

// Subjects returns per-subject aggregates, worst subject first.
func (s *AnalysisService) Subjects(ctx context.Context) ([]models.SubjectAggregate, error) {
	rows, err := s.results.LoadEnriched(ctx)
	if err != nil {
		return nil, err
	}
	return scoring.SubjectAggregate(rows), nil
}

// WeakTopics returns joined rows whose relative score is strictly below threshold.
func (s *AnalysisService) WeakTopics(ctx context.Context, threshold float64) ([]models.WeakTopic, error) {
	if err := s.checkThreshold(threshold); err != nil {
		return nil, err
	}
	joined, err := s.joined(ctx)
	if err != nil {
		return nil, err
	}
	return scoring.BelowThreshold(joined, threshold), nil
}

// Trend returns chronological series of one metric per subject.
func (s *AnalysisService) Trend(ctx context.Context, filter models.TrendFilter) ([]models.TrendSeries, error) {
	if filter.Metric == "" {
		filter.Metric = models.MetricRelativeScore
	}
	if !filter.Metric.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("unknown metric %q", filter.Metric))
	}
	if filter.Subject != "" && !filter.Subject.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("unknown subject %q", filter.Subject))
	}

	rows, err := s.results.LoadEnriched(ctx, filter.LessonTypes...)
	if err != nil {
		return nil, err
	}
	if filter.Subject != "" {
		kept := rows[:0]
		for _, r := range rows {
			if r.Subject == filter.Subject {
				kept = append(kept, r)
			}
		}
		rows = kept
	}
	return scoring.Trend(rows, filter.Metric), nil
}

// SubjectSlots returns the slot map of one subject with weak slots flagged.
func (s *AnalysisService) SubjectSlots(ctx context.Context, subject models.Subject, threshold float64) ([]models.SlotScore, error) {
	if !subject.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("unknown subject %q", subject))
	}
	if err := s.checkThreshold(threshold); err != nil {
		return nil, err
	}
	joined, err := s.joined(ctx)
	if err != nil {
		return nil, err
	}
	return scoring.SlotMap(joined, subject, threshold), nil
}

func (s *AnalysisService) checkThreshold(threshold float64) error {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) || threshold != math.Trunc(threshold) {
		return appErrors.Clone(appErrors.ErrInvalidInput, "threshold must be a whole number")
	}
	lo, hi := s.ThresholdBounds()
	if threshold < lo || threshold > hi {
		return appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("threshold must be between %g and %g", lo, hi))
	}
	return nil
}

func (s *AnalysisService) joined(ctx context.Context) ([]models.WeakTopic, error) {
	var (
		rows  []models.EnrichedResult
		units []models.CurriculumUnit
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.results.LoadEnriched(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		units, err = s.curriculum.List(gctx, models.CurriculumFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scoring.JoinCurriculum(rows, units), nil
}
