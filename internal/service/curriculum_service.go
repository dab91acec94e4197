package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/score-tracker-api/internal/models"
	"github.com/noah-isme/score-tracker-api/pkg/config"
	appErrors "github.com/noah-isme/score-tracker-api/pkg/errors"
)

const (
	unitsCacheKey     = "curriculum:units"
	curriculumPattern = "curriculum:*"
)

type unitRepository interface {
	List(ctx context.Context) ([]models.CurriculumUnit, error)
	BulkInsert(ctx context.Context, units []models.CurriculumUnit, replace bool) error
}

// TestNumbers lists the selectable test numbers of a lesson type. Fallback is
// set when no curriculum is loaded and the numbers are the default range.
type TestNumbers struct {
	LessonType models.LessonType `json:"lesson_type"`
	Numbers    []int             `json:"numbers"`
	Fallback   bool              `json:"fallback"`
}

// CurriculumService answers read-only curriculum lookups.
type CurriculumService struct {
	repo    unitRepository
	cache   *CacheService
	metrics *MetricsService
	cfg     config.CurriculumConfig
	logger  *zap.Logger
}

// NewCurriculumService builds the service. cache may be nil.
func NewCurriculumService(repo unitRepository, cache *CacheService, metrics *MetricsService, cfg config.CurriculumConfig, logger *zap.Logger) *CurriculumService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.DefaultTestCount <= 0 {
		cfg.DefaultTestCount = 44
	}
	return &CurriculumService{repo: repo, cache: cache, metrics: metrics, cfg: cfg, logger: logger}
}

// UnitsFor returns the units recorded for one exact slot. An empty result is valid.
func (s *CurriculumService) UnitsFor(ctx context.Context, subject models.Subject, lessonType models.LessonType, testNumber int) ([]models.CurriculumUnit, error) {
	if !subject.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("unknown subject %q", subject))
	}
	if !lessonType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("unknown lesson type %q", lessonType))
	}
	if testNumber < 1 {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, "test_number must be positive")
	}
	return s.List(ctx, models.CurriculumFilter{Subject: subject, LessonType: lessonType, TestNumber: testNumber})
}

// AvailableTestNumbers returns the distinct test numbers defined for lessonType
// across all subjects, ascending.
func (s *CurriculumService) AvailableTestNumbers(ctx context.Context, lessonType models.LessonType) (*TestNumbers, error) {
	if !lessonType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("unknown lesson type %q", lessonType))
	}
	units, err := s.units(ctx)
	if err != nil {
		return nil, err
	}

	out := &TestNumbers{LessonType: lessonType, Numbers: []int{}}
	if len(units) == 0 {
		out.Fallback = true
		for n := 1; n <= s.cfg.DefaultTestCount; n++ {
			out.Numbers = append(out.Numbers, n)
		}
		return out, nil
	}

	seen := make(map[int]struct{})
	for _, u := range units {
		if u.LessonType != lessonType {
			continue
		}
		if _, ok := seen[u.TestNumber]; ok {
			continue
		}
		seen[u.TestNumber] = struct{}{}
		out.Numbers = append(out.Numbers, u.TestNumber)
	}
	sort.Ints(out.Numbers)
	return out, nil
}

// List returns units matching filter ordered by subject, lesson type and test number.
func (s *CurriculumService) List(ctx context.Context, filter models.CurriculumFilter) ([]models.CurriculumUnit, error) {
	if filter.Subject != "" && !filter.Subject.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("unknown subject %q", filter.Subject))
	}
	if filter.LessonType != "" && !filter.LessonType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("unknown lesson type %q", filter.LessonType))
	}

	units, err := s.units(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.CurriculumUnit, 0, len(units))
	for _, u := range units {
		if filter.Matches(u) {
			out = append(out, u)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Subject != b.Subject {
			return a.Subject.Before(b.Subject)
		}
		if oa, ob := a.LessonType.Order(), b.LessonType.Order(); oa != ob {
			return oa < ob
		}
		return a.TestNumber < b.TestNumber
	})
	return out, nil
}

// Import validates and loads units, then drops the cached table.
func (s *CurriculumService) Import(ctx context.Context, units []models.CurriculumUnit, replace bool) (int, error) {
	for i := range units {
		units[i].UnitName = strings.TrimSpace(units[i].UnitName)
		if err := validateUnit(units[i]); err != nil {
			return 0, appErrors.Clone(appErrors.ErrInvalidInput, fmt.Sprintf("unit %d: %s", i+1, err.Error()))
		}
		if units[i].Content != nil && strings.TrimSpace(*units[i].Content) == "" {
			units[i].Content = nil
		}
	}

	start := time.Now()
	err := s.repo.BulkInsert(ctx, units, replace)
	s.metrics.ObserveDBQuery("units_import", time.Since(start))
	if err != nil {
		return 0, appErrors.Unavailable(err, "failed to import curriculum units")
	}

	if err := s.cache.Invalidate(ctx, curriculumPattern); err != nil {
		s.logger.Warn("curriculum cache not invalidated", zap.Error(err))
	}
	s.logger.Info("curriculum imported", zap.Int("units", len(units)), zap.Bool("replace", replace))
	return len(units), nil
}

func (s *CurriculumService) units(ctx context.Context) ([]models.CurriculumUnit, error) {
	var cached []models.CurriculumUnit
	if s.cache.Get(ctx, unitsCacheKey, &cached) {
		return cached, nil
	}

	start := time.Now()
	units, err := s.repo.List(ctx)
	s.metrics.ObserveDBQuery("units_list", time.Since(start))
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to load curriculum units")
	}
	if units == nil {
		units = []models.CurriculumUnit{}
	}
	s.cache.Set(ctx, unitsCacheKey, units, s.cfg.CacheTTL)
	return units, nil
}

func validateUnit(u models.CurriculumUnit) error {
	switch {
	case !u.Subject.Valid():
		return fmt.Errorf("unknown subject %q", u.Subject)
	case !u.LessonType.Valid():
		return fmt.Errorf("unknown lesson type %q", u.LessonType)
	case u.TestNumber < 1:
		return fmt.Errorf("test_number must be positive")
	case u.UnitName == "":
		return fmt.Errorf("unit_name is required")
	}
	return nil
}
