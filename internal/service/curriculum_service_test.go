package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/score-tracker-api/internal/models"
	"github.com/noah-isme/score-tracker-api/pkg/config"
	appErrors "github.com/noah-isme/score-tracker-api/pkg/errors"
)

func sampleUnits() []models.CurriculumUnit {
	content := "line graphs"
	return []models.CurriculumUnit{
		{Subject: models.SubjectScience, LessonType: models.LessonRegular, TestNumber: 2, UnitName: "Plants"},
		{Subject: models.SubjectMath, LessonType: models.LessonSummer, TestNumber: 1, UnitName: "Review"},
		{Subject: models.SubjectMath, LessonType: models.LessonRegular, TestNumber: 3, UnitName: "Fractions"},
		{Subject: models.SubjectMath, LessonType: models.LessonRegular, TestNumber: 3, UnitName: "Graphs", Content: &content},
		{Subject: models.SubjectJapanese, LessonType: models.LessonRegular, TestNumber: 5, UnitName: "Kanji"},
	}
}

func newCurriculumServiceForTest(store *memoryUnitStore, cache *memoryCache) *CurriculumService {
	var cacheSvc *CacheService
	if cache != nil {
		cacheSvc = NewCacheService(cache, nil, time.Hour, zap.NewNop(), true)
	}
	return NewCurriculumService(store, cacheSvc, nil, config.CurriculumConfig{CacheTTL: 30 * time.Minute, DefaultTestCount: 44}, zap.NewNop())
}

func TestCurriculumServiceUnitsFor(t *testing.T) {
	svc := newCurriculumServiceForTest(&memoryUnitStore{units: sampleUnits()}, nil)
	ctx := context.Background()

	units, err := svc.UnitsFor(ctx, models.SubjectMath, models.LessonRegular, 3)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "Fractions", units[0].UnitName)
	assert.Equal(t, "Graphs", units[1].UnitName)

	units, err = svc.UnitsFor(ctx, models.SubjectSocialStudies, models.LessonRegular, 3)
	require.NoError(t, err)
	assert.NotNil(t, units)
	assert.Empty(t, units)

	_, err = svc.UnitsFor(ctx, "Art", models.LessonRegular, 3)
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)
	_, err = svc.UnitsFor(ctx, models.SubjectMath, models.LessonRegular, 0)
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)
}

func TestCurriculumServiceAvailableTestNumbers(t *testing.T) {
	units := append(sampleUnits(), models.CurriculumUnit{Subject: models.SubjectJapanese, LessonType: models.LessonRegular, TestNumber: 3, UnitName: "Poems"})
	svc := newCurriculumServiceForTest(&memoryUnitStore{units: units}, nil)

	got, err := svc.AvailableTestNumbers(context.Background(), models.LessonRegular)
	require.NoError(t, err)
	assert.False(t, got.Fallback)
	assert.Equal(t, []int{2, 3, 5}, got.Numbers)

	got, err = svc.AvailableTestNumbers(context.Background(), models.LessonWinter)
	require.NoError(t, err)
	assert.False(t, got.Fallback)
	assert.Empty(t, got.Numbers)
}

func TestCurriculumServiceAvailableTestNumbersFallback(t *testing.T) {
	svc := newCurriculumServiceForTest(&memoryUnitStore{}, nil)

	got, err := svc.AvailableTestNumbers(context.Background(), models.LessonSpring)
	require.NoError(t, err)
	assert.True(t, got.Fallback)
	require.Len(t, got.Numbers, 44)
	assert.Equal(t, 1, got.Numbers[0])
	assert.Equal(t, 44, got.Numbers[43])
}

func TestCurriculumServiceListOrdersByDomain(t *testing.T) {
	svc := newCurriculumServiceForTest(&memoryUnitStore{units: sampleUnits()}, nil)

	units, err := svc.List(context.Background(), models.CurriculumFilter{})
	require.NoError(t, err)
	require.Len(t, units, 5)
	assert.Equal(t, "Kanji", units[0].UnitName)
	assert.Equal(t, "Fractions", units[1].UnitName)
	assert.Equal(t, "Graphs", units[2].UnitName)
	assert.Equal(t, "Review", units[3].UnitName)
	assert.Equal(t, "Plants", units[4].UnitName)

	units, err = svc.List(context.Background(), models.CurriculumFilter{Subject: models.SubjectMath, LessonType: models.LessonSummer})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Review", units[0].UnitName)

	_, err = svc.List(context.Background(), models.CurriculumFilter{LessonType: "Autumn"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)
}

func TestCurriculumServiceCachesUnits(t *testing.T) {
	store := &memoryUnitStore{units: sampleUnits()}
	cache := newMemoryCache()
	svc := newCurriculumServiceForTest(store, cache)
	ctx := context.Background()

	_, err := svc.List(ctx, models.CurriculumFilter{})
	require.NoError(t, err)
	_, err = svc.UnitsFor(ctx, models.SubjectMath, models.LessonRegular, 3)
	require.NoError(t, err)

	assert.Equal(t, 1, store.listCalls)
	assert.Equal(t, 30*time.Minute, cache.ttls[unitsCacheKey])

	_, err = svc.Import(ctx, []models.CurriculumUnit{{Subject: models.SubjectMath, LessonType: models.LessonWinter, TestNumber: 1, UnitName: "Circles"}}, false)
	require.NoError(t, err)

	units, err := svc.List(ctx, models.CurriculumFilter{LessonType: models.LessonWinter})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, 2, store.listCalls)
}

func TestCurriculumServiceStoreFailure(t *testing.T) {
	svc := newCurriculumServiceForTest(&memoryUnitStore{err: errors.New("timeout")}, nil)

	_, err := svc.List(context.Background(), models.CurriculumFilter{})
	assert.ErrorIs(t, err, appErrors.ErrStoreUnavailable)

	_, err = svc.AvailableTestNumbers(context.Background(), models.LessonRegular)
	assert.ErrorIs(t, err, appErrors.ErrStoreUnavailable)
}

func TestCurriculumServiceImportValidates(t *testing.T) {
	store := &memoryUnitStore{units: sampleUnits()}
	svc := newCurriculumServiceForTest(store, nil)

	_, err := svc.Import(context.Background(), []models.CurriculumUnit{
		{Subject: models.SubjectMath, LessonType: models.LessonRegular, TestNumber: 1, UnitName: "Ok"},
		{Subject: models.SubjectMath, LessonType: models.LessonRegular, TestNumber: 2, UnitName: "  "},
	}, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "unit 2")
	assert.Len(t, store.units, 5)

	blank := " "
	n, err := svc.Import(context.Background(), []models.CurriculumUnit{
		{Subject: models.SubjectMath, LessonType: models.LessonRegular, TestNumber: 1, UnitName: " Ok ", Content: &blank},
	}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, store.units, 1)
	assert.Equal(t, "Ok", store.units[0].UnitName)
	assert.Nil(t, store.units[0].Content)
}
